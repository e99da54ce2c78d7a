package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/refdeck/refdeck/internal/paper"
)

// JSONFormatVersion marks the export wrapper format.
const JSONFormatVersion = "2.0"

// jsonMetadata is the export wrapper header.
type jsonMetadata struct {
	ExportedAt string `json:"exportedAt"`
	Version    string `json:"version"`
	Count      int    `json:"count"`
}

// jsonPaper is the on-wire record shape. The flat HasPDF/PDFFilename
// pair duplicates the nested pdf object for older decoders; the
// duplication lives only here, never in the core model.
type jsonPaper struct {
	ID          int            `json:"id"`
	ItemType    string         `json:"itemType"`
	Title       string         `json:"title"`
	Authors     string         `json:"authors"`
	Year        string         `json:"year"`
	Keywords    string         `json:"keywords"`
	Journal     string         `json:"journal"`
	Volume      string         `json:"volume"`
	Issue       string         `json:"issue"`
	Pages       string         `json:"pages"`
	DOI         string         `json:"doi"`
	ISSN        string         `json:"issn"`
	Chapter     string         `json:"chapter"`
	Abstract    string         `json:"abstract"`
	Relevance   string         `json:"relevance"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	Rating      string         `json:"rating"`
	DateAdded   string         `json:"dateAdded"`
	KeyPoints   string         `json:"keyPoints"`
	Notes       string         `json:"notes"`
	Language    string         `json:"language"`
	Citation    string         `json:"citation"`
	PDF         *paper.PDFInfo `json:"pdf,omitempty"`
	HasPDF      bool           `json:"hasPDF"`
	PDFFilename string         `json:"pdfFilename,omitempty"`
}

// ToJSON encodes records into the export wrapper: metadata plus a
// papers array in the canonical field order.
func ToJSON(papers []*paper.Paper) ([]byte, error) {
	out := struct {
		Metadata jsonMetadata `json:"metadata"`
		Papers   []jsonPaper  `json:"papers"`
	}{
		Metadata: jsonMetadata{
			ExportedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    JSONFormatVersion,
			Count:      len(papers),
		},
		Papers: make([]jsonPaper, 0, len(papers)),
	}

	for _, p := range papers {
		jp := jsonPaper{
			ID: p.ID, ItemType: p.ItemType, Title: p.Title,
			Authors: p.Authors, Year: p.Year, Keywords: p.Keywords,
			Journal: p.Journal, Volume: p.Volume, Issue: p.Issue,
			Pages: p.Pages, DOI: p.DOI, ISSN: p.ISSN,
			Chapter: p.Chapter, Abstract: p.Abstract,
			Relevance: p.Relevance, Status: p.Status,
			Priority: p.Priority, Rating: p.Rating,
			DateAdded: p.DateAdded, KeyPoints: p.KeyPoints,
			Notes: p.Notes, Language: p.Language, Citation: p.Citation,
			HasPDF: p.PDF.HasPDF, PDFFilename: p.PDF.Filename,
		}
		if p.PDF.HasPDF {
			info := p.PDF
			jp.PDF = &info
		}
		out.Papers = append(out.Papers, jp)
	}

	return json.MarshalIndent(out, "", "  ")
}

// flexString unmarshals from either a JSON string or a number. Foreign
// exports disagree on whether year and rating are numeric.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexString(strconv.FormatBool(b))
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s as string", string(data))
}

// jsonPaperIn is the tolerant decode shape: every field optional,
// year/rating flexible, PDF in either the nested or the legacy flat
// form.
type jsonPaperIn struct {
	ItemType  string     `json:"itemType"`
	Title     string     `json:"title"`
	Authors   string     `json:"authors"`
	Year      flexString `json:"year"`
	Keywords  string     `json:"keywords"`
	Journal   string     `json:"journal"`
	Volume    flexString `json:"volume"`
	Issue     flexString `json:"issue"`
	Pages     string     `json:"pages"`
	DOI       string     `json:"doi"`
	ISSN      string     `json:"issn"`
	Chapter   string     `json:"chapter"`
	Abstract  string     `json:"abstract"`
	Relevance string     `json:"relevance"`
	Status    string     `json:"status"`
	Priority  string     `json:"priority"`
	Rating    flexString `json:"rating"`
	DateAdded string     `json:"dateAdded"`
	KeyPoints string     `json:"keyPoints"`
	Notes     string     `json:"notes"`
	Language  string     `json:"language"`
	Citation  string     `json:"citation"`

	PDF         *paper.PDFInfo `json:"pdf"`
	HasPDF      bool           `json:"hasPDF"`
	PDFFilename string         `json:"pdfFilename"`
	PDFPath     string         `json:"pdfPath"`
}

// ParseJSON decodes a JSON export. The only hard failure is a missing
// or non-array papers key; every record field defaults independently
// when absent.
func ParseJSON(data []byte) ([]*paper.Paper, error) {
	var in struct {
		Papers json.RawMessage `json:"papers"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if len(in.Papers) == 0 {
		return nil, fmt.Errorf("json: missing papers array")
	}

	var rows []jsonPaperIn
	if err := json.Unmarshal(in.Papers, &rows); err != nil {
		return nil, fmt.Errorf("json: papers is not an array: %w", err)
	}

	papers := make([]*paper.Paper, 0, len(rows))
	for _, row := range rows {
		p := paper.New()
		if row.ItemType != "" {
			p.ItemType = row.ItemType
		}
		p.Title = row.Title
		p.Authors = row.Authors
		p.Year = string(row.Year)
		p.Keywords = row.Keywords
		p.Journal = row.Journal
		p.Volume = string(row.Volume)
		p.Issue = string(row.Issue)
		p.Pages = row.Pages
		p.DOI = row.DOI
		p.ISSN = row.ISSN
		p.Chapter = row.Chapter
		p.Abstract = row.Abstract
		p.Relevance = row.Relevance
		if row.Status != "" {
			p.Status = row.Status
		}
		if row.Priority != "" {
			p.Priority = row.Priority
		}
		p.Rating = string(row.Rating)
		p.DateAdded = row.DateAdded
		p.KeyPoints = row.KeyPoints
		p.Notes = row.Notes
		if row.Language != "" {
			p.Language = row.Language
		}
		p.Citation = row.Citation
		p.PDF = coalescePDF(row)
		papers = append(papers, p)
	}

	return papers, nil
}

// coalescePDF accepts either the nested pdf object or the older flat
// fields, whichever is present.
func coalescePDF(row jsonPaperIn) paper.PDFInfo {
	if row.PDF != nil {
		return *row.PDF
	}
	filename := row.PDFFilename
	if filename == "" {
		filename = row.PDFPath
	}
	if row.HasPDF || filename != "" {
		return paper.PDFInfo{HasPDF: true, Filename: filename}
	}
	return paper.PDFInfo{}
}
