package main

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one record in full",
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

		if humanOutput {
			printSummaryHuman(summarize(p))
			if p.Journal != "" {
				outputHuman("      %s %s(%s) %s\n", p.Journal, p.Volume, p.Issue, p.Pages)
			}
			if p.DOI != "" {
				outputHuman("      %s\n", p.DOI)
			}
			if p.Citation != "" {
				outputHuman("      %s\n", p.Citation)
			}
			return nil
		}
		return outputJSON(p)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
