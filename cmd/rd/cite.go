package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/refdeck/refdeck/internal/clipboard"
)

var (
	citeHTML bool
	citeCopy bool
)

var citeCmd = &cobra.Command{
	Use:   "cite <id>",
	Short: "Print or copy a record's APA citation",
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

		c := a.Collection.Formatter().FormatCached(p)
		if c.Plain == "" {
			exitWithError(ExitDataError, "record %d needs authors and a title to cite", id)
		}

		text := c.Plain
		if citeHTML {
			text = c.HTML
		}

		if citeCopy {
			copied, err := clipboard.WriteOrFallback(text, os.Stdout)
			if err != nil {
				exitWithError(ExitError, "%v", err)
			}
			status := "copied"
			if !copied {
				// Clipboard unavailable; the citation went to stdout.
				status = "printed"
			}
			if humanOutput {
				outputHuman("%s\n", status)
				return nil
			}
			return outputJSON(StatusResponse{Status: status, ID: id})
		}

		if humanOutput {
			outputHuman("%s\n", text)
			return nil
		}
		return outputJSON(struct {
			ID       int    `json:"id"`
			Citation string `json:"citation"`
			HTML     string `json:"html,omitempty"`
		}{id, c.Plain, c.HTML})
	},
}

func init() {
	citeCmd.Flags().BoolVar(&citeHTML, "html", false, "Use the HTML-annotated variant")
	citeCmd.Flags().BoolVar(&citeCopy, "copy", false, "Copy to the system clipboard")
	rootCmd.AddCommand(citeCmd)
}
