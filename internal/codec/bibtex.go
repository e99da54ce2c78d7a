package codec

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/refdeck/refdeck/internal/cite"
	"github.com/refdeck/refdeck/internal/paper"
)

// citeKeyTitleMax caps the title-word segment of a derived citation
// key. The author and year segments are never truncated.
const citeKeyTitleMax = 20

// ToBibTeX converts one record to a BibTeX entry.
func ToBibTeX(p *paper.Paper) string {
	entryType := bibtexEntryType(p)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, CiteKey(p)))

	if p.Authors != "" {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", escapeLatex(p.Authors)))
	}
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.Title)))

	if p.Journal != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(p.Journal)))
	}
	if p.Year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", p.Year))
	}
	if p.Volume != "" {
		b.WriteString(fmt.Sprintf("  volume = {%s},\n", p.Volume))
	}
	if p.Issue != "" {
		b.WriteString(fmt.Sprintf("  number = {%s},\n", p.Issue))
	}
	if p.Pages != "" {
		b.WriteString(fmt.Sprintf("  pages = {%s},\n", p.Pages))
	}
	if p.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", p.DOI))
	}
	if p.ISSN != "" {
		b.WriteString(fmt.Sprintf("  issn = {%s},\n", p.ISSN))
	}
	if p.Chapter != "" {
		b.WriteString(fmt.Sprintf("  chapter = {%s},\n", escapeLatex(p.Chapter)))
	}
	if p.Keywords != "" {
		b.WriteString(fmt.Sprintf("  keywords = {%s},\n", escapeLatex(p.Keywords)))
	}
	if p.Abstract != "" {
		b.WriteString(fmt.Sprintf("  abstract = {%s},\n", escapeLatex(p.Abstract)))
	}
	if note := appNote(p); note != "" {
		b.WriteString(fmt.Sprintf("  note = {%s},\n", escapeLatex(note)))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts records to a BibTeX file body.
func ToBibTeXList(papers []*paper.Paper) string {
	var entries []string
	for _, p := range papers {
		entries = append(entries, ToBibTeX(p))
	}
	return strings.Join(entries, "\n")
}

// bibtexEntryType maps the item type to a BibTeX entry type. Records
// typed misc fall back on what their fields suggest: journal plus year
// reads as an article, a chapter as an inbook section.
func bibtexEntryType(p *paper.Paper) string {
	switch p.ItemType {
	case paper.TypeArticle, paper.TypeInproceedings, paper.TypeBook,
		paper.TypeTechReport, paper.TypePhDThesis:
		return p.ItemType
	}
	if p.Journal != "" && p.Year != "" {
		return "article"
	}
	if p.Chapter != "" {
		return "inbook"
	}
	return "misc"
}

// CiteKey derives a deterministic citation key: the first author's
// last name, the year, and the first three title words of at least
// three letters, all lowercased and concatenated. The title segment is
// capped at 20 characters.
func CiteKey(p *paper.Paper) string {
	last := firstAuthorLastName(p.Authors)

	var titleWords []string
	for _, w := range strings.Fields(p.Title) {
		w = keepAlnum(strings.ToLower(w))
		if len(w) >= 3 {
			titleWords = append(titleWords, w)
			if len(titleWords) == 3 {
				break
			}
		}
	}
	titlePart := strings.Join(titleWords, "")
	if len(titlePart) > citeKeyTitleMax {
		titlePart = titlePart[:citeKeyTitleMax]
	}

	key := last + p.Year + titlePart
	if key == "" {
		key = "untitled"
	}
	return key
}

func firstAuthorLastName(authors string) string {
	entries := cite.SplitAuthors(authors)
	if len(entries) == 0 {
		return ""
	}
	first := entries[0]
	if idx := strings.Index(first, ","); idx >= 0 {
		first = first[:idx]
	} else if fields := strings.Fields(first); len(fields) > 0 {
		first = fields[len(fields)-1]
	}
	return keepAlnum(strings.ToLower(first))
}

func keepAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// appNote folds the non-bibliographic app fields into one note value.
// BibTeX has no slots for them; they are not recoverable as structured
// fields on import.
func appNote(p *paper.Paper) string {
	var parts []string
	if p.Status != "" {
		parts = append(parts, "Status: "+p.Status)
	}
	if p.Priority != "" {
		parts = append(parts, "Priority: "+p.Priority)
	}
	if p.Rating != "" {
		parts = append(parts, "Rating: "+p.Rating)
	}
	if p.Relevance != "" {
		parts = append(parts, "Relevance: "+p.Relevance)
	}
	return strings.Join(parts, ", ")
}

// latexEscapes is the ordered substitution sequence for special
// characters in free-text fields. Order matters: the backslash goes
// first so later substitutions do not re-escape the backslashes they
// introduce, and braces precede the escapes whose replacements contain
// braces.
var latexEscapes = [][2]string{
	{`\`, `\\`},
	{`{`, `\{`},
	{`}`, `\}`},
	{`$`, `\$`},
	{`&`, `\&`},
	{`%`, `\%`},
	{`#`, `\#`},
	{`^`, `\^{}`},
	{`_`, `\_`},
	{`~`, `\~{}`},
}

func escapeLatex(s string) string {
	for _, sub := range latexEscapes {
		s = strings.ReplaceAll(s, sub[0], sub[1])
	}
	return s
}

// unescapeLatex reverses escapeLatex, applying the substitutions in
// reverse order.
func unescapeLatex(s string) string {
	for i := len(latexEscapes) - 1; i >= 0; i-- {
		s = strings.ReplaceAll(s, latexEscapes[i][1], latexEscapes[i][0])
	}
	return s
}
