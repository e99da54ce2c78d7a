package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/refdeck/refdeck/internal/paper"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestDecodeImportFileRejectsUnknownExtension(t *testing.T) {
	path := writeTemp(t, "papers.txt", "whatever")
	if _, err := decodeImportFile(path); err == nil {
		t.Error("unknown extension should be rejected before parsing")
	}
}

func TestDecodeImportFileMissing(t *testing.T) {
	if _, err := decodeImportFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file should error")
	}
}

func TestDecodeImportFileJSON(t *testing.T) {
	path := writeTemp(t, "papers.json", `{"papers":[{"title":"X","year":2021}]}`)
	got, err := decodeImportFile(path)
	if err != nil {
		t.Fatalf("decodeImportFile: %v", err)
	}
	if len(got) != 1 || got[0].Title != "X" || got[0].Year != "2021" {
		t.Errorf("decoded %+v", got)
	}
}

func TestDecodeImportFileBibTeX(t *testing.T) {
	path := writeTemp(t, "papers.bib", `@article{k,
  title = {A BibTeX Title},
  author = {Doe, J.},
}`)
	got, err := decodeImportFile(path)
	if err != nil {
		t.Fatalf("decodeImportFile: %v", err)
	}
	if len(got) != 1 || got[0].Title != "A BibTeX Title" {
		t.Errorf("decoded %+v", got)
	}
}

func TestEncodeExportFormats(t *testing.T) {
	p := paper.New()
	p.ID = 1
	p.Title = "T"
	p.Authors = "Doe, J."
	papers := []*paper.Paper{p}

	csv, err := encodeExport(papers, "out.csv")
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !strings.HasPrefix(string(csv), `"itemType","title"`) {
		t.Errorf("csv output missing header: %q", csv[:40])
	}

	jsonOut, err := encodeExport(papers, "out.json")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(string(jsonOut), `"papers"`) {
		t.Error("json output missing papers array")
	}

	bib, err := encodeExport(papers, "out.bib")
	if err != nil {
		t.Fatalf("bib: %v", err)
	}
	if !strings.Contains(string(bib), "@") {
		t.Error("bibtex output missing entry")
	}

	if _, err := encodeExport(papers, "out.xlsx"); err == nil {
		t.Error("unsupported export extension should error")
	}
}
