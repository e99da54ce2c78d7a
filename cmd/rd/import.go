package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refdeck/refdeck/internal/codec"
	"github.com/refdeck/refdeck/internal/paper"
)

// MaxImportBytes caps import file size before any parsing happens.
const MaxImportBytes = 10 << 20

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import records from a CSV, JSON, or BibTeX file",
	Long: `Import records from a CSV, JSON, or BibTeX file.

The format is chosen by file extension (.csv, .json, .bib/.bibtex).
A structurally broken file is rejected before any record is created;
malformed rows inside an otherwise valid file are skipped one by one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		records, err := decodeImportFile(path)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}

		a, err := openApp(true)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		ids := a.Collection.BulkInsert(records)
		// One refresh cycle for the whole batch, not one per record.
		a.Scheduler.ImmediateRefresh()

		if humanOutput {
			outputHuman("Imported %d papers from %s\n", len(ids), path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "imported", Count: len(ids), Path: path})
	},
}

// decodeImportFile enforces the pre-parse guards (extension, size) and
// runs the matching decoder. No record is created on failure.
func decodeImportFile(path string) ([]*paper.Paper, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".json", ".bib", ".bibtex":
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv, .json, or .bib)", ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.Size() > MaxImportBytes {
		return nil, fmt.Errorf("%s is too large (%d bytes, limit %d)", path, info.Size(), MaxImportBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch ext {
	case ".csv":
		return codec.ParseCSV(string(data))
	case ".json":
		return codec.ParseJSON(data)
	default:
		return codec.ParseBibTeX(string(data))
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
}
