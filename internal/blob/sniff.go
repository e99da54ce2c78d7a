package blob

import (
	"fmt"
	"regexp"

	"github.com/ledongthuc/pdf"
)

// Sniff holds best-effort metadata read from an attached PDF.
type Sniff struct {
	Pages int
	DOI   string
}

// doiPattern matches DOIs in page text: 10.NNNN/suffix.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// sniffMaxPages bounds the DOI search; a DOI is almost always on the
// first page.
const sniffMaxPages = 3

// SniffFile reads the page count and searches the leading pages for a
// DOI. Any parse failure returns a zero Sniff; attach never depends on
// this succeeding.
func SniffFile(path string) (s Sniff, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			s = Sniff{}
			err = fmt.Errorf("parsing pdf: %v", rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return Sniff{}, err
	}
	defer f.Close()

	s = Sniff{Pages: r.NumPage()}

	limit := sniffMaxPages
	if r.NumPage() < limit {
		limit = r.NumPage()
	}
	for i := 1; i <= limit; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if m := doiPattern.FindString(text); m != "" {
			s.DOI = m
			break
		}
	}

	return s, nil
}
