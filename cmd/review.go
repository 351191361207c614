package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tanvik/bugdrill/internal/flashcard"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Drill the active flashcards until they master",
	Long: `Loops over the non-mastered cards: shows the flawed snippet,
reads your corrected version, grades it (whitespace-insensitively) and
records the answer. A card masters after three consecutive hits and
drops out of the loop; the session ends when no active cards remain or
you type :q.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		defer log.Sync()

		engine, err := openEngine(cmd, log)
		if err != nil {
			return err
		}

		session := flashcard.NewSession(engine)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for {
			card := session.Current()
			if card == nil {
				color.Green("All cards mastered — nothing left to review.")
				return nil
			}

			fmt.Println()
			color.New(color.Bold).Printf("[%s] %s\n", card.Stats.Status, card.Concept)
			fmt.Println(highlightFault(card.FrontCode, card.ErrorHighlight))
			fmt.Print("fix> ")

			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			typed := scanner.Text()
			if typed == ":q" {
				return nil
			}

			correct, updated, err := session.Answer(typed)
			if err != nil {
				return err
			}

			if correct {
				color.Green("✓ correct (streak %d)", updated.Stats.CorrectStreak)
			} else {
				color.Red("✗ not quite")
				fmt.Printf("  fix: %s\n", color.GreenString(updated.BackCode))
			}
			if updated.Explanation != "" {
				fmt.Printf("  %s\n", updated.Explanation)
			}

			switch updated.Stats.Status {
			case flashcard.StatusMastered:
				color.Green("★ mastered!")
			case flashcard.StatusCritical:
				color.Red("⚠ critical — this one keeps biting")
			}

			session.Advance()
		}
	},
}
