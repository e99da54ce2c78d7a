package codec

import (
	"fmt"
	"strings"

	"github.com/refdeck/refdeck/internal/paper"
)

// Denial-of-service guards for CSV decode.
const (
	MaxCSVRows       = 1000
	MaxCSVLineLength = 32768
)

// legacyCSVOrder is the historical shorter column layout, recognized
// by column count. It predates itemType, keywords, issn, chapter,
// keyPoints, notes, language and the pdf column.
var legacyCSVOrder = []string{
	paper.FieldTitle, paper.FieldAuthors, paper.FieldYear,
	paper.FieldJournal, paper.FieldVolume, paper.FieldIssue,
	paper.FieldPages, paper.FieldDOI, paper.FieldAbstract,
	paper.FieldRelevance, paper.FieldStatus, paper.FieldPriority,
	paper.FieldRating, paper.FieldDateAdded, paper.FieldCitation,
}

// newLayoutMinColumns distinguishes the current layout from the
// legacy one by column count.
const newLayoutMinColumns = 20

// ParseCSV decodes a CSV export. The header row is required and
// skipped; each data row maps into a fresh record by positional
// layout, chosen per row by column count. Malformed rows are skipped
// individually; structural problems (no header, too many rows) fail
// the whole file before any record is produced.
func ParseCSV(data string) ([]*paper.Paper, error) {
	rows := splitCSVRows(data)
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv: empty file")
	}
	if len(rows)-1 > MaxCSVRows {
		return nil, fmt.Errorf("csv: too many rows (%d, limit %d)", len(rows)-1, MaxCSVRows)
	}

	var papers []*paper.Paper
	for _, row := range rows[1:] {
		if strings.TrimSpace(row) == "" {
			continue
		}
		fields, err := parseCSVLine(row)
		if err != nil {
			continue // row-level failures skip the row, not the file
		}
		p := rowToPaper(fields)
		if p != nil {
			papers = append(papers, p)
		}
	}

	return papers, nil
}

func rowToPaper(fields []string) *paper.Paper {
	if len(fields) == 0 {
		return nil
	}

	layout := paper.ExportOrder
	if len(fields) < newLayoutMinColumns {
		layout = legacyCSVOrder
	}

	p := paper.New()
	for i, name := range layout {
		if i >= len(fields) {
			break // missing trailing columns keep their defaults
		}
		p.Set(name, fields[i])
	}
	return p
}

// splitCSVRows splits the file into rows at newlines outside quoted
// fields, tolerating CRLF. Quoted fields may span lines (the encoder
// emits embedded newlines verbatim inside quotes). An unterminated
// quote swallows the remainder into one final row, which then fails
// the row parse and is skipped like any other malformed row.
func splitCSVRows(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	var rows []string
	var row strings.Builder
	inQuotes := false
	for _, ch := range data {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			row.WriteRune(ch)
		case ch == '\n' && !inQuotes:
			if strings.TrimSpace(row.String()) != "" {
				rows = append(rows, row.String())
			}
			row.Reset()
		default:
			row.WriteRune(ch)
		}
	}
	if strings.TrimSpace(row.String()) != "" {
		rows = append(rows, row.String())
	}
	return rows
}

// parseCSVLine is a character-scanning parser for one comma-separated
// row with double-quote quoting and doubled internal quotes. It is
// deliberately not regex-based: a linear scan cannot backtrack on
// adversarial input.
func parseCSVLine(line string) ([]string, error) {
	if len(line) > MaxCSVLineLength {
		return nil, fmt.Errorf("csv: line exceeds %d bytes", MaxCSVLineLength)
	}

	var fields []string
	var field strings.Builder
	inQuotes := false
	runes := []rune(line)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case inQuotes && ch == '"':
			if i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++ // doubled quote inside a quoted field
			} else {
				inQuotes = false
			}
		case inQuotes:
			field.WriteRune(ch)
		case ch == '"':
			inQuotes = true
		case ch == ',':
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(ch)
		}
	}

	if inQuotes {
		return nil, fmt.Errorf("csv: unterminated quote")
	}
	fields = append(fields, field.String())
	return fields, nil
}
