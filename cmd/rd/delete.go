package main

import (
	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record and its attached PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}

		a, err := openApp(deleteYes)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		if a.Collection.Get(id) == nil {
			exitWithError(ExitDataError, "record %d not found", id)
		}

		if !a.Collection.Delete(id) {
			exitWithError(ExitError, "delete cancelled")
		}

		if humanOutput {
			outputHuman("Deleted paper %d\n", id)
			return nil
		}
		return outputJSON(StatusResponse{Status: "deleted", ID: id})
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(deleteCmd)
}
