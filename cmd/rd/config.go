package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/refdeck/refdeck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set deck configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show deck configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustFindDeck()
		cfg, err := config.Load(root)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		if humanOutput {
			outputHuman("pdf_reader = %s\n", cfg.PDFReader)
			if cfg.MaxSnapshotBytes > 0 {
				outputHuman("max_snapshot_bytes = %d\n", cfg.MaxSnapshotBytes)
			}
			return nil
		}
		return outputJSON(cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a deck configuration key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := mustFindDeck()
		cfg, err := config.Load(root)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		key, value := args[0], args[1]
		switch key {
		case "pdf_reader":
			if !validReader(value) {
				exitWithError(ExitError, "invalid pdf_reader %q (want one of %v)", value, config.ValidReaders)
			}
			cfg.PDFReader = value
		case "max_snapshot_bytes":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				exitWithError(ExitError, "invalid max_snapshot_bytes %q", value)
			}
			cfg.MaxSnapshotBytes = n
		default:
			exitWithError(ExitError, "unknown config key %q", key)
		}

		if err := cfg.Save(root); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		if humanOutput {
			outputHuman("%s = %s\n", key, value)
			return nil
		}
		return outputJSON(struct {
			Status string `json:"status"`
			Key    string `json:"key"`
			Value  string `json:"value"`
		}{"updated", key, value})
	},
}

func validReader(v string) bool {
	for _, r := range config.ValidReaders {
		if v == r {
			return true
		}
	}
	return false
}

func mustFindDeck() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	root, err := config.FindDeck(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return root
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
