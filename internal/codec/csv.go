// Package codec translates between the paper record shape and the
// three interchange formats: CSV, JSON, and BibTeX. Each encode path
// is round-trippable by its matching decode path for every field it
// emits; cross-format round-tripping is not guaranteed.
package codec

import (
	"strings"

	"github.com/refdeck/refdeck/internal/paper"
)

// ToCSV encodes records as UTF-8 CSV: one header row in the canonical
// field order, one row per record, every field quoted with internal
// quotes doubled.
func ToCSV(papers []*paper.Paper) string {
	var b strings.Builder

	for i, f := range paper.ExportOrder {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvQuote(f))
	}
	b.WriteByte('\n')

	for _, p := range papers {
		for i, f := range paper.ExportOrder {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvQuote(p.Get(f)))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func csvQuote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
