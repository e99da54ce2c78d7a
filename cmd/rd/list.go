package main

import (
	"github.com/spf13/cobra"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List paper records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(true)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		var summaries []PaperSummary
		for _, p := range a.Collection.List() {
			if listStatus != "" && p.Status != listStatus {
				continue
			}
			summaries = append(summaries, summarize(p))
		}

		if humanOutput {
			for _, s := range summaries {
				printSummaryHuman(s)
			}
			outputHuman("\n%d papers\n", len(summaries))
			return nil
		}
		return outputJSON(summaries)
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	rootCmd.AddCommand(listCmd)
}
