package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/refdeck/refdeck/internal/paper"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Manage attached PDFs",
}

var pdfAttachCmd = &cobra.Command{
	Use:   "attach <id> <file>",
	Short: "Attach a PDF to a record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}

		a, err := openApp(true)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		p := a.Collection.Get(id)
		if p == nil {
			exitWithError(ExitDataError, "record %d not found", id)
		}

		src, err := os.Open(args[1])
		if err != nil {
			exitWithError(ExitError, "opening %s: %v", args[1], err)
		}
		defer src.Close()

		path, sniff, err := a.Blobs.Put(id, src)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}

		p.PDF.HasPDF = true
		p.PDF.Filename = filepath.Base(args[1])
		p.PDF.Pages = sniff.Pages
		p.PDF.AttachedAt = time.Now().Format("2006-01-02")
		if p.DOI == "" && sniff.DOI != "" {
			a.Collection.Update(id, "doi", sniff.DOI)
		}
		a.Scheduler.RecordDirty(id)

		if humanOutput {
			outputHuman("Attached %s (%d pages)\n", p.PDF.Filename, sniff.Pages)
			return nil
		}
		return outputJSON(StatusResponse{Status: "attached", ID: id, Path: path})
	},
}

var pdfOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a record's PDF in the configured reader",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}

		a, err := openApp(true)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		if err := a.Opener.Open(id); err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			outputHuman("Opened PDF for paper %d\n", id)
			return nil
		}
		return outputJSON(StatusResponse{Status: "opened", ID: id})
	},
}

var pdfRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a record's attached PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}

		a, err := openApp(true)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		p := a.Collection.Get(id)
		if p == nil {
			exitWithError(ExitDataError, "record %d not found", id)
		}

		if err := a.Blobs.Delete(id); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		p.PDF = paper.PDFInfo{}
		a.Scheduler.RecordDirty(id)

		if humanOutput {
			outputHuman("Removed PDF for paper %d\n", id)
			return nil
		}
		return outputJSON(StatusResponse{Status: "removed", ID: id})
	},
}

func init() {
	pdfCmd.AddCommand(pdfAttachCmd, pdfOpenCmd, pdfRmCmd)
	rootCmd.AddCommand(pdfCmd)
}
