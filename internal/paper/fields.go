package paper

// Field names used by the validator, the update path, and the codecs.
const (
	FieldItemType  = "itemType"
	FieldTitle     = "title"
	FieldAuthors   = "authors"
	FieldYear      = "year"
	FieldKeywords  = "keywords"
	FieldJournal   = "journal"
	FieldVolume    = "volume"
	FieldIssue     = "issue"
	FieldPages     = "pages"
	FieldDOI       = "doi"
	FieldISSN      = "issn"
	FieldChapter   = "chapter"
	FieldAbstract  = "abstract"
	FieldRelevance = "relevance"
	FieldStatus    = "status"
	FieldPriority  = "priority"
	FieldRating    = "rating"
	FieldDateAdded = "dateAdded"
	FieldKeyPoints = "keyPoints"
	FieldNotes     = "notes"
	FieldLanguage  = "language"
	FieldCitation  = "citation"
)

// ExportOrder is the canonical field order for CSV export and the
// papers array in JSON export. The trailing "pdf" column carries the
// attached filename, or empty when no PDF is associated.
var ExportOrder = []string{
	FieldItemType, FieldTitle, FieldAuthors, FieldYear, FieldKeywords,
	FieldJournal, FieldVolume, FieldIssue, FieldPages, FieldDOI,
	FieldISSN, FieldChapter, FieldAbstract, FieldRelevance, FieldStatus,
	FieldPriority, FieldRating, FieldDateAdded, FieldKeyPoints,
	FieldNotes, FieldLanguage, FieldCitation, "pdf",
}

// CitationFields are the fields the citation formatter depends on.
// Mutating any of them invalidates a cached citation.
var CitationFields = []string{
	FieldTitle, FieldAuthors, FieldYear, FieldJournal,
	FieldVolume, FieldIssue, FieldPages, FieldDOI,
}

// IsCitationField reports whether a field participates in the
// citation fingerprint.
func IsCitationField(name string) bool {
	for _, f := range CitationFields {
		if f == name {
			return true
		}
	}
	return false
}

// Get returns the value of a named text field. The pseudo-field "pdf"
// reads the attached filename. Unknown names return "".
func (p *Paper) Get(name string) string {
	switch name {
	case FieldItemType:
		return p.ItemType
	case FieldTitle:
		return p.Title
	case FieldAuthors:
		return p.Authors
	case FieldYear:
		return p.Year
	case FieldKeywords:
		return p.Keywords
	case FieldJournal:
		return p.Journal
	case FieldVolume:
		return p.Volume
	case FieldIssue:
		return p.Issue
	case FieldPages:
		return p.Pages
	case FieldDOI:
		return p.DOI
	case FieldISSN:
		return p.ISSN
	case FieldChapter:
		return p.Chapter
	case FieldAbstract:
		return p.Abstract
	case FieldRelevance:
		return p.Relevance
	case FieldStatus:
		return p.Status
	case FieldPriority:
		return p.Priority
	case FieldRating:
		return p.Rating
	case FieldDateAdded:
		return p.DateAdded
	case FieldKeyPoints:
		return p.KeyPoints
	case FieldNotes:
		return p.Notes
	case FieldLanguage:
		return p.Language
	case FieldCitation:
		return p.Citation
	case "pdf":
		return p.PDF.Filename
	}
	return ""
}

// Set assigns a named text field. Values are stored as given; callers
// sanitize first. Setting the pseudo-field "pdf" records an attached
// filename. Unknown names are ignored.
func (p *Paper) Set(name, value string) {
	switch name {
	case FieldItemType:
		p.ItemType = value
	case FieldTitle:
		p.Title = value
	case FieldAuthors:
		p.Authors = value
	case FieldYear:
		p.Year = value
	case FieldKeywords:
		p.Keywords = value
	case FieldJournal:
		p.Journal = value
	case FieldVolume:
		p.Volume = value
	case FieldIssue:
		p.Issue = value
	case FieldPages:
		p.Pages = value
	case FieldDOI:
		p.DOI = value
	case FieldISSN:
		p.ISSN = value
	case FieldChapter:
		p.Chapter = value
	case FieldAbstract:
		p.Abstract = value
	case FieldRelevance:
		p.Relevance = value
	case FieldStatus:
		p.Status = value
	case FieldPriority:
		p.Priority = value
	case FieldRating:
		p.Rating = value
	case FieldDateAdded:
		p.DateAdded = value
	case FieldKeyPoints:
		p.KeyPoints = value
	case FieldNotes:
		p.Notes = value
	case FieldLanguage:
		p.Language = value
	case FieldCitation:
		p.Citation = value
	case "pdf":
		p.PDF.Filename = value
		p.PDF.HasPDF = value != ""
	}
}

// Clone returns a copy of the paper without its transient cache.
func (p *Paper) Clone() *Paper {
	c := *p
	c.InvalidateCitationCache()
	return &c
}
