// Package validate coerces raw field input into each field's domain.
//
// Sanitize never fails: out-of-range input becomes the field's
// default, never an error. Every mutation path (manual edit, import,
// snapshot load) runs through it, so no committed record ever holds an
// out-of-domain value.
package validate

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/refdeck/refdeck/internal/paper"
)

// Per-field maximum lengths in characters. Short identifiers get tight
// caps; prose fields get room.
var maxLengths = map[string]int{
	paper.FieldTitle:     500,
	paper.FieldAuthors:   500,
	paper.FieldJournal:   300,
	paper.FieldVolume:    50,
	paper.FieldIssue:     50,
	paper.FieldPages:     50,
	paper.FieldDOI:       500,
	paper.FieldISSN:      50,
	paper.FieldChapter:   100,
	paper.FieldKeywords:  500,
	paper.FieldAbstract:  2000,
	paper.FieldRelevance: 2000,
	paper.FieldKeyPoints: 2000,
	paper.FieldNotes:     2000,
	paper.FieldLanguage:  50,
	paper.FieldCitation:  1000,
	paper.FieldDateAdded: 50,
}

// DefaultMaxLength applies to fields without a specific cap.
const DefaultMaxLength = 500

// doiPattern matches bare DOIs: 10.NNNN/... with at least four
// registrant digits.
var doiPattern = regexp.MustCompile(`^10\.\d{4,}`)

// Sanitize coerces a raw value into the named field's domain.
func Sanitize(field, raw string) string {
	value := strings.TrimSpace(raw)

	switch field {
	case paper.FieldYear:
		return sanitizeYear(value)
	case paper.FieldRating:
		return sanitizeRating(value)
	case paper.FieldStatus:
		return sanitizeEnum(value, paper.Statuses, paper.StatusToRead)
	case paper.FieldPriority:
		return sanitizeEnum(value, paper.Priorities, paper.PriorityMedium)
	case paper.FieldItemType:
		return sanitizeEnum(value, paper.ItemTypes, paper.TypeArticle)
	case paper.FieldDOI:
		return sanitizeDOI(value)
	}

	return truncate(value, maxLength(field))
}

// Record re-coerces every field of a paper in place. Used when loading
// persisted or imported data, which is treated as untrusted input.
func Record(p *paper.Paper) {
	for _, f := range paper.ExportOrder {
		if f == "pdf" {
			continue
		}
		p.Set(f, Sanitize(f, p.Get(f)))
	}
	if p.Language == "" {
		p.Language = "en"
	}
}

func maxLength(field string) int {
	if n, ok := maxLengths[field]; ok {
		return n
	}
	return DefaultMaxLength
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// sanitizeYear accepts integer years in [0, currentYear+2]; the +2
// allows preprints dated ahead. Anything else means unknown.
func sanitizeYear(value string) string {
	if value == "" {
		return ""
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return ""
	}
	if year < 0 || year > time.Now().Year()+2 {
		return ""
	}
	return strconv.Itoa(year)
}

func sanitizeRating(value string) string {
	if value == "" {
		return ""
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 5 {
		return ""
	}
	return strconv.Itoa(n)
}

func sanitizeEnum(value string, valid []string, fallback string) string {
	for _, v := range valid {
		if value == v {
			return v
		}
	}
	return fallback
}

// sanitizeDOI handles DOI-or-URL values. URLs must parse; bare DOIs
// and anything else pass through truncated. There is no network
// validation.
func sanitizeDOI(value string) string {
	max := maxLengths[paper.FieldDOI]

	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		if u, err := url.Parse(value); err == nil && u.Host != "" {
			return truncate(u.String(), max)
		}
		return truncate(value, max)
	}

	if doiPattern.MatchString(value) {
		return truncate(value, max)
	}

	return truncate(value, max)
}
