package main

import (
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate collection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(true)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		stats := a.Collection.ComputeStats()

		if humanOutput {
			outputHuman("%d papers, %.0f%% read, %d with PDF\n",
				stats.Total, stats.ReadPct, stats.WithPDF)
			var statuses []string
			for s := range stats.ByStatus {
				statuses = append(statuses, s)
			}
			sort.Strings(statuses)
			for _, s := range statuses {
				outputHuman("  %-8s %d\n", s, stats.ByStatus[s])
			}
			if stats.AvgRating > 0 {
				outputHuman("  average rating %.1f\n", stats.AvgRating)
			}
			return nil
		}
		return outputJSON(stats)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
