package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/refdeck/refdeck/internal/paper"
)

// ListTitleMaxLen truncates titles in list output.
const ListTitleMaxLen = 60

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	ID     int    `json:"id,omitempty"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// PaperSummary is the list-view shape for a record.
type PaperSummary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Year     string `json:"year"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Rating   string `json:"rating,omitempty"`
	HasPDF   bool   `json:"has_pdf"`
}

func summarize(p *paper.Paper) PaperSummary {
	return PaperSummary{
		ID:       p.ID,
		Title:    p.Title,
		Authors:  p.Authors,
		Year:     p.Year,
		Status:   p.Status,
		Priority: p.Priority,
		Rating:   p.Rating,
		HasPDF:   p.PDF.HasPDF,
	}
}

// printSummaryHuman prints one record line for list output.
func printSummaryHuman(s PaperSummary) {
	title := truncateString(s.Title, ListTitleMaxLen)
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("%4d  [%s] %s\n", s.ID, s.Status, title)
	if s.Authors != "" || s.Year != "" {
		fmt.Printf("      %s (%s)\n", s.Authors, orND(s.Year))
	}
}

func orND(year string) string {
	if year == "" {
		return "n.d."
	}
	return year
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
