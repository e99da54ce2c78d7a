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

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export records to a CSV, JSON, or BibTeX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		a, err := openApp(true)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		data, err := encodeExport(a.Collection.List(), path)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", path, err)
		}

		if humanOutput {
			outputHuman("Exported %d papers to %s\n", a.Collection.Len(), path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "exported", Count: a.Collection.Len(), Path: path})
	},
}

func encodeExport(papers []*paper.Paper, path string) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return []byte(codec.ToCSV(papers)), nil
	case ".json":
		return codec.ToJSON(papers)
	case ".bib", ".bibtex":
		return []byte(codec.ToBibTeXList(papers)), nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv, .json, or .bib)", ext)
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
