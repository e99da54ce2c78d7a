package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/refdeck/refdeck/internal/app"
	"github.com/refdeck/refdeck/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new deck in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			exitWithError(ExitError, "getting current directory: %v", err)
		}

		if err := app.Init(cwd); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		if humanOutput {
			outputHuman("Initialized deck in %s\n", config.DeckPath(cwd))
			return nil
		}
		return outputJSON(StatusResponse{Status: "initialized", Path: config.DeckPath(cwd)})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
