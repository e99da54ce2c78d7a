package main

import (
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <id> <field> <value>",
	Short: "Update one field of a record",
	Long: `Update one field of a record.

The value is coerced into the field's domain: out-of-range years,
ratings and unknown enum values become the field default. Edits to
citation-relevant fields regenerate the stored citation.`,
	Args: cobra.ExactArgs(3),
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

		if a.Collection.Get(id) == nil {
			exitWithError(ExitDataError, "record %d not found", id)
		}

		field, value := args[1], args[2]
		a.Collection.Update(id, field, value)

		p := a.Collection.Get(id)
		if humanOutput {
			outputHuman("%s = %q\n", field, p.Get(field))
			return nil
		}
		return outputJSON(struct {
			Status string `json:"status"`
			ID     int    `json:"id"`
			Field  string `json:"field"`
			Value  string `json:"value"`
		}{"updated", id, field, p.Get(field)})
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}
