package main

import (
	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record and reset id allocation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(clearYes)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		if !a.Collection.Clear() {
			exitWithError(ExitError, "clear cancelled")
		}

		if humanOutput {
			outputHuman("Cleared all papers\n")
			return nil
		}
		return outputJSON(StatusResponse{Status: "cleared"})
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(clearCmd)
}
