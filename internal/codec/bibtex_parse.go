package codec

import (
	"strings"

	"github.com/refdeck/refdeck/internal/paper"
)

// ParseBibTeX decodes a BibTeX file with a permissive block scanner:
// entries are split on '@', the entry type is the token before the
// first '{', and fields come from line-oriented "key = {value}"
// matching. Nested braces inside a value are not handled beyond the
// first closing brace per line; this is not a full BibTeX grammar.
// Entries without a title are dropped.
func ParseBibTeX(data string) ([]*paper.Paper, error) {
	var papers []*paper.Paper

	for _, block := range strings.Split(data, "@") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if p := parseBibTeXBlock(block); p != nil {
			papers = append(papers, p)
		}
	}

	return papers, nil
}

func parseBibTeXBlock(block string) *paper.Paper {
	open := strings.Index(block, "{")
	if open < 0 {
		return nil
	}
	entryType := strings.ToLower(strings.TrimSpace(block[:open]))
	if entryType == "comment" || entryType == "preamble" || entryType == "string" {
		return nil
	}

	p := paper.New()
	if isItemType(entryType) {
		p.ItemType = entryType
	}

	var noteParts []string
	for _, line := range strings.Split(block[open+1:], "\n") {
		key, value, ok := parseBibTeXField(line)
		if !ok {
			continue
		}
		value = unescapeLatex(value)

		switch key {
		case "author":
			p.Authors = value
		case "title":
			p.Title = value
		case "journal":
			p.Journal = value
		case "booktitle":
			// Conference papers carry their venue in booktitle.
			if p.Journal == "" {
				p.Journal = value
			}
		case "year":
			p.Year = value
		case "volume":
			p.Volume = value
		case "number":
			p.Issue = value
		case "pages":
			p.Pages = value
		case "doi":
			p.DOI = value
		case "url":
			if p.DOI == "" {
				p.DOI = value
			}
		case "issn":
			p.ISSN = value
		case "isbn":
			// No ISBN slot; reuse the ISSN one when free.
			if p.ISSN == "" {
				p.ISSN = value
			}
		case "chapter":
			p.Chapter = value
		case "keywords":
			p.Keywords = value
		case "abstract":
			p.Abstract = value
		case "note", "publisher", "address":
			noteParts = append(noteParts, value)
		}
	}

	if p.Title == "" {
		return nil
	}
	p.Notes = strings.Join(noteParts, "; ")
	return p
}

// parseBibTeXField extracts one "key = {value}" or `key = "value"`
// assignment from a line. Values end at the first matching closer on
// the line.
func parseBibTeXField(line string) (key, value string, ok bool) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return "", "", false
	}

	key = strings.ToLower(strings.TrimSpace(line[:eq]))
	if key == "" || strings.ContainsAny(key, "{}@ ") {
		return "", "", false
	}

	rest := strings.TrimSpace(line[eq+1:])
	switch {
	case strings.HasPrefix(rest, "{"):
		end := strings.Index(rest[1:], "}")
		if end < 0 {
			return "", "", false
		}
		value = rest[1 : 1+end]
	case strings.HasPrefix(rest, `"`):
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return "", "", false
		}
		value = rest[1 : 1+end]
	default:
		value = strings.TrimSuffix(strings.TrimSpace(rest), ",")
	}

	return key, value, true
}

func isItemType(t string) bool {
	for _, v := range paper.ItemTypes {
		if t == v {
			return true
		}
	}
	return false
}
