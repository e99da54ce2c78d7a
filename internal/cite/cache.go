package cite

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/refdeck/refdeck/internal/paper"
)

// Fingerprint derives a cache key from the eight citation-relevant
// fields. A cached citation is valid iff the record's stored
// fingerprint matches the current one.
func Fingerprint(p *paper.Paper) string {
	var b strings.Builder
	for i, f := range paper.CitationFields {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(p.Get(f))
	}
	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

// FormatCached returns the cached citation when the fingerprint still
// matches, otherwise formats and stores both the result and the new
// fingerprint on the record.
func (f *Formatter) FormatCached(p *paper.Paper) Citation {
	fp := Fingerprint(p)
	if plain, html, stored := p.CachedCitation(); stored == fp {
		return Citation{Plain: plain, HTML: html}
	}

	c := f.Format(p)
	p.SetCachedCitation(c.Plain, c.HTML, fp)
	return c
}
