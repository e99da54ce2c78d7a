// Package paper defines the core domain type for tracked papers.
package paper

// Item types recognized for a paper entry.
const (
	TypeArticle       = "article"
	TypeInproceedings = "inproceedings"
	TypeBook          = "book"
	TypeTechReport    = "techreport"
	TypePhDThesis     = "phdthesis"
	TypeMisc          = "misc"
)

// Reading statuses.
const (
	StatusToRead  = "to-read"
	StatusReading = "reading"
	StatusRead    = "read"
	StatusSkimmed = "skimmed"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ItemTypes lists the valid item type values.
var ItemTypes = []string{TypeArticle, TypeInproceedings, TypeBook, TypeTechReport, TypePhDThesis, TypeMisc}

// Statuses lists the valid status values.
var Statuses = []string{StatusToRead, StatusReading, StatusRead, StatusSkimmed}

// Priorities lists the valid priority values.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Paper represents one tracked paper entry.
//
// All bibliographic fields are flat strings; authors in particular is a
// comma-separated "Last, First" string, not a structured list. The
// citation formatter parses it positionally.
type Paper struct {
	ID int `json:"id"`

	// Bibliographic metadata
	ItemType string `json:"itemType"`
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Year     string `json:"year"` // digit string; empty means unknown
	Journal  string `json:"journal"`
	Volume   string `json:"volume"`
	Issue    string `json:"issue"`
	Pages    string `json:"pages"`
	DOI      string `json:"doi"` // DOI or URL
	ISSN     string `json:"issn"`
	Chapter  string `json:"chapter"`

	// Reading metadata
	Keywords  string `json:"keywords"` // comma-separated
	Abstract  string `json:"abstract"`
	Relevance string `json:"relevance"`
	KeyPoints string `json:"keyPoints"`
	Notes     string `json:"notes"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	Rating    string `json:"rating"` // "" or "1".."5"
	DateAdded string `json:"dateAdded"`
	Language  string `json:"language"`

	// Last generated plain-text citation, denormalized for display
	// and export. Kept current by the collection on edits to
	// citation-relevant fields.
	Citation string `json:"citation"`

	// PDF association metadata. The blob itself lives in the blob
	// store, keyed by record id.
	PDF PDFInfo `json:"pdf"`

	// Transient citation cache. Never serialized.
	citePlain       string
	citeHTML        string
	citeFingerprint string
}

// PDFInfo describes an attached PDF blob.
type PDFInfo struct {
	HasPDF     bool   `json:"hasPDF"`
	Filename   string `json:"filename,omitempty"`
	Pages      int    `json:"pages,omitempty"`
	AttachedAt string `json:"attachedAt,omitempty"`
}

// New returns a paper with all defaults applied. The id and dateAdded
// are set by the collection at creation time.
func New() *Paper {
	return &Paper{
		ItemType: TypeArticle,
		Status:   StatusToRead,
		Priority: PriorityMedium,
		Language: "en",
	}
}

// CachedCitation returns the cached citation pair and the fingerprint
// it was computed under. Empty fingerprint means no cache.
func (p *Paper) CachedCitation() (plain, html, fingerprint string) {
	return p.citePlain, p.citeHTML, p.citeFingerprint
}

// SetCachedCitation stores a citation pair and the fingerprint of the
// inputs that produced it.
func (p *Paper) SetCachedCitation(plain, html, fingerprint string) {
	p.citePlain = plain
	p.citeHTML = html
	p.citeFingerprint = fingerprint
}

// InvalidateCitationCache drops the transient citation cache.
func (p *Paper) InvalidateCitationCache() {
	p.citePlain = ""
	p.citeHTML = ""
	p.citeFingerprint = ""
}
