package main

import (
	"github.com/spf13/cobra"

	"github.com/refdeck/refdeck/internal/paper"
)

// newFields maps flag names to record fields settable at creation.
var newFields = []string{
	paper.FieldTitle, paper.FieldAuthors, paper.FieldYear,
	paper.FieldJournal, paper.FieldVolume, paper.FieldIssue,
	paper.FieldPages, paper.FieldDOI, paper.FieldISSN,
	paper.FieldChapter, paper.FieldKeywords, paper.FieldAbstract,
	paper.FieldStatus, paper.FieldPriority, paper.FieldRating,
	paper.FieldNotes, paper.FieldItemType, paper.FieldLanguage,
}

var newFlagValues map[string]*string

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a paper record",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(true)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		defer a.Close()

		id := a.Collection.Create()
		for _, field := range newFields {
			if cmd.Flags().Changed(field) {
				a.Collection.Update(id, field, *newFlagValues[field])
			}
		}

		p := a.Collection.Get(id)
		if humanOutput {
			outputHuman("Created paper %d\n", id)
			printSummaryHuman(summarize(p))
			return nil
		}
		return outputJSON(summarize(p))
	},
}

func init() {
	newFlagValues = make(map[string]*string, len(newFields))
	for _, field := range newFields {
		newFlagValues[field] = newCmd.Flags().String(field, "", "Set "+field)
	}
	rootCmd.AddCommand(newCmd)
}
