package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove mastered flashcards from the collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		defer log.Sync()

		engine, err := openEngine(cmd, log)
		if err != nil {
			return err
		}

		removed := engine.PurgeMastered()
		fmt.Printf("Removed %d mastered card(s).\n", removed)
		return nil
	},
}
