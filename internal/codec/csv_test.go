package codec

import (
	"strings"
	"testing"

	"github.com/refdeck/refdeck/internal/paper"
)

func samplePaper() *paper.Paper {
	p := paper.New()
	p.ID = 1
	p.Title = `Deep "Quoted" Learning, Applied`
	p.Authors = "Smith, J., Jones, A."
	p.Year = "2023"
	p.Journal = "Nature"
	p.Volume = "12"
	p.Issue = "3"
	p.Pages = "100-110"
	p.DOI = "10.1000/xyz"
	p.Keywords = "ml, theory"
	p.Abstract = "An abstract."
	p.Status = paper.StatusReading
	p.Priority = paper.PriorityHigh
	p.Rating = "4"
	p.DateAdded = "2023-05-01"
	p.Citation = "Smith, J., & Jones, A. (2023). ..."
	return p
}

func TestCSVRoundTrip(t *testing.T) {
	orig := samplePaper()
	orig.PDF = paper.PDFInfo{HasPDF: true, Filename: "1.pdf"}

	out := ToCSV([]*paper.Paper{orig})
	got, err := ParseCSV(out)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d papers, want 1", len(got))
	}

	for _, f := range paper.ExportOrder {
		if got[0].Get(f) != orig.Get(f) {
			t.Errorf("field %q: got %q, want %q", f, got[0].Get(f), orig.Get(f))
		}
	}
	if !got[0].PDF.HasPDF {
		t.Error("pdf column should restore the HasPDF flag")
	}
}

func TestCSVHeader(t *testing.T) {
	out := ToCSV(nil)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty export should be header only, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"itemType","title","authors"`) {
		t.Errorf("unexpected header start: %q", lines[0])
	}
	if !strings.HasSuffix(lines[0], `"citation","pdf"`) {
		t.Errorf("unexpected header end: %q", lines[0])
	}
}

func TestCSVQuoting(t *testing.T) {
	p := paper.New()
	p.Title = `He said "hi", twice`
	out := ToCSV([]*paper.Paper{p})
	if !strings.Contains(out, `"He said ""hi"", twice"`) {
		t.Errorf("internal quotes should be doubled, got:\n%s", out)
	}
}

func TestParseCSVLegacyLayout(t *testing.T) {
	// 15 columns: the pre-itemType layout starting at title.
	row := []string{
		"Old Paper", "Doe, J.", "2019", "JMLR", "20", "1", "1-30",
		"10.5555/old", "Abstract here", "High relevance", "read",
		"low", "5", "2019-02-03", "Doe, J. (2019). Old Paper. JMLR, 20(1), 1–30.",
	}
	var quoted []string
	for _, v := range row {
		quoted = append(quoted, `"`+v+`"`)
	}
	data := ToCSV(nil) + strings.Join(quoted, ",") + "\n"

	got, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d papers, want 1", len(got))
	}

	p := got[0]
	if p.Title != "Old Paper" || p.Authors != "Doe, J." || p.Year != "2019" {
		t.Errorf("legacy bibliographic mapping wrong: %+v", p)
	}
	if p.Status != "read" || p.Priority != "low" || p.Rating != "5" {
		t.Errorf("legacy reading metadata mapping wrong: %+v", p)
	}
	if p.ItemType != paper.TypeArticle {
		t.Errorf("legacy rows should default itemType, got %q", p.ItemType)
	}
}

func TestParseCSVSkipsMalformedRows(t *testing.T) {
	good := samplePaper()
	full := ToCSV([]*paper.Paper{good})
	row := full[strings.Index(full, "\n")+1:]

	// An overlong row is skipped individually; its neighbors survive.
	long := `"` + strings.Repeat("x", MaxCSVLineLength+10) + `"` + "\n"
	got, err := ParseCSV(full + long + row)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("overlong row should be skipped, not fail the file: got %d papers", len(got))
	}

	// An unterminated quote swallows the rest of the file into one
	// malformed trailing row, which is skipped the same way.
	got, err = ParseCSV(full + `"unterminated quote row` + "\n")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("unterminated row should be skipped: got %d papers", len(got))
	}
}

func TestCSVMultilineRoundTrip(t *testing.T) {
	orig := samplePaper()
	orig.Abstract = "First line.\nSecond line."
	orig.Notes = "He wrote \"stop\",\nthen left."

	out := ToCSV([]*paper.Paper{orig})
	got, err := ParseCSV(out)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d papers, want 1", len(got))
	}
	if got[0].Abstract != orig.Abstract {
		t.Errorf("abstract = %q, want %q", got[0].Abstract, orig.Abstract)
	}
	if got[0].Notes != orig.Notes {
		t.Errorf("notes = %q, want %q", got[0].Notes, orig.Notes)
	}
	if got[0].Title != orig.Title {
		t.Errorf("neighboring fields must survive a multiline sibling, title = %q", got[0].Title)
	}
}

func TestParseCSVGuards(t *testing.T) {
	if _, err := ParseCSV(""); err == nil {
		t.Error("empty file should fail")
	}

	var b strings.Builder
	b.WriteString(`"title"` + "\n")
	for i := 0; i <= MaxCSVRows; i++ {
		b.WriteString(`"row"` + "\n")
	}
	if _, err := ParseCSV(b.String()); err == nil {
		t.Error("row-count guard should reject the file")
	}

	long := `"title"` + "\n" + `"` + strings.Repeat("x", MaxCSVLineLength+10) + `"` + "\n"
	got, err := ParseCSV(long)
	if err != nil {
		t.Fatalf("overlong row should be skipped, not fail the file: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("overlong row should produce no record, got %d", len(got))
	}
}

func TestParseCSVCRLF(t *testing.T) {
	data := strings.ReplaceAll(ToCSV([]*paper.Paper{samplePaper()}), "\n", "\r\n")
	got, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(got) != 1 || got[0].Title != samplePaper().Title {
		t.Errorf("CRLF input should parse like LF input")
	}
}
