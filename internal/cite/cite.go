// Package cite renders APA-style citations for paper records, with a
// fingerprint-keyed cache to avoid recomputation.
package cite

import (
	"html"
	"regexp"
	"strings"

	"github.com/refdeck/refdeck/internal/paper"
)

// Citation is a rendered citation in both plain text and an
// HTML-annotated variant (journal and volume wrapped in <em>).
type Citation struct {
	Plain string
	HTML  string
}

// Formatter renders citations. The author splitter is a pluggable
// strategy so a structured author model can replace the flat-string
// heuristic without touching the rest of the formatter.
type Formatter struct {
	Split func(string) []string

	// computeCount tracks full formatting runs, for cache tests.
	computeCount int
}

// NewFormatter returns a formatter using the default author heuristic.
func NewFormatter() *Formatter {
	return &Formatter{Split: SplitAuthors}
}

// ComputeCount reports how many times Format actually ran.
func (f *Formatter) ComputeCount() int { return f.computeCount }

// arxivIDPattern extracts an arXiv id from an abs URL in the doi slot.
var arxivIDPattern = regexp.MustCompile(`arxiv\.org/abs/([^\s?#]+)`)

// Format renders a citation for a paper. Both strings are empty when
// authors or title is absent, since no citation can be produced.
func (f *Formatter) Format(p *paper.Paper) Citation {
	if p.Authors == "" || p.Title == "" {
		return Citation{}
	}
	f.computeCount++

	authors := FormatAuthorList(f.Split(p.Authors))

	year := "(n.d.)"
	if p.Year != "" {
		year = "(" + p.Year + ")"
	}

	link := doiLink(p.DOI)

	var plain string
	var emphasis string // literal substring to wrap in <em> for HTML

	switch {
	case strings.Contains(strings.ToLower(p.Journal), "arxiv"):
		ref := "arXiv preprint"
		if m := arxivIDPattern.FindStringSubmatch(p.DOI); m != nil {
			ref += " arXiv:" + m[1]
		}
		plain = authors + " " + year + ". " + p.Title + ". " + ref + "."
		emphasis = "arXiv preprint"

	case p.Journal != "":
		venue := p.Journal
		if p.Volume != "" {
			venue += ", " + p.Volume
		}
		if p.Issue != "" {
			venue += "(" + p.Issue + ")"
		}
		if p.Pages != "" {
			venue += ", " + enDashPages(p.Pages)
		}
		plain = authors + " " + year + ". " + p.Title + ". " + venue + "."
		emphasis = p.Journal
		if p.Volume != "" {
			emphasis = p.Journal + ", " + p.Volume
		}

	default:
		plain = authors + " " + year + ". " + p.Title + "."
	}

	if link != "" {
		plain += " " + link
	}

	return Citation{Plain: plain, HTML: emphasize(plain, emphasis)}
}

// enDashPages normalizes hyphenated page ranges to en-dashes.
func enDashPages(pages string) string {
	return strings.ReplaceAll(pages, "-", "–")
}

// doiLink renders the DOI-or-URL slot for embedding: URLs as-is, bare
// DOIs behind the doi.org resolver, anything else as-is.
func doiLink(doi string) string {
	switch {
	case doi == "":
		return ""
	case strings.HasPrefix(doi, "http"):
		return doi
	case strings.HasPrefix(doi, "10."):
		return "https://doi.org/" + doi
	default:
		return doi
	}
}

// emphasize produces the HTML variant: the plain citation is
// HTML-escaped and the known venue substring is wrapped in <em> via a
// literal replacement. No pattern matching is involved, so venue names
// with regex metacharacters are safe.
func emphasize(plain, target string) string {
	escaped := html.EscapeString(plain)
	if target == "" {
		return escaped
	}
	escapedTarget := html.EscapeString(target)
	return strings.Replace(escaped, escapedTarget, "<em>"+escapedTarget+"</em>", 1)
}
