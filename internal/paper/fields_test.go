package paper

import "testing"

func TestGetSetRoundTrip(t *testing.T) {
	p := New()
	for _, f := range ExportOrder {
		p.Set(f, "v-"+f)
		if got := p.Get(f); got != "v-"+f {
			t.Errorf("Get(%q) = %q after Set", f, got)
		}
	}
	if !p.PDF.HasPDF {
		t.Error("setting the pdf pseudo-field should flag an attachment")
	}

	p.Set("pdf", "")
	if p.PDF.HasPDF {
		t.Error("clearing the pdf pseudo-field should drop the flag")
	}

	// Unknown names are ignored on both sides.
	p.Set("nonexistent", "x")
	if got := p.Get("nonexistent"); got != "" {
		t.Errorf("Get of unknown field = %q, want empty", got)
	}
}

func TestCloneDropsCache(t *testing.T) {
	p := New()
	p.Title = "T"
	p.SetCachedCitation("plain", "html", "fp")

	c := p.Clone()
	if _, _, fp := c.CachedCitation(); fp != "" {
		t.Error("clone should not carry the transient citation cache")
	}
	if c.Title != "T" {
		t.Error("clone should carry the data fields")
	}

	c.Title = "changed"
	if p.Title != "T" {
		t.Error("clone must not alias the original")
	}
}

func TestIsCitationField(t *testing.T) {
	for _, f := range CitationFields {
		if !IsCitationField(f) {
			t.Errorf("%q should be a citation field", f)
		}
	}
	for _, f := range []string{FieldNotes, FieldStatus, FieldRating, "pdf"} {
		if IsCitationField(f) {
			t.Errorf("%q should not be a citation field", f)
		}
	}
}
