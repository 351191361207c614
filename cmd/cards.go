package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tanvik/bugdrill/internal/flashcard"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the flashcard collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		defer log.Sync()

		engine, err := openEngine(cmd, log)
		if err != nil {
			return err
		}

		cards := engine.Cards()
		if len(cards) == 0 {
			fmt.Println("No flashcards yet. Run `bugdrill analyze` on some broken code.")
			return nil
		}

		fmt.Printf("%-12s  %-10s  %-6s  %-6s  %s\n", "ID", "Status", "Streak", "Misses", "Concept")
		fmt.Println(strings.Repeat("─", 80))
		for _, c := range cards {
			fmt.Printf("%-12s  %s  %-6d  %-6d  %s\n",
				shortID(c.ID), statusLabel(c.Stats.Status),
				c.Stats.CorrectStreak, c.Stats.IncorrectCount, c.Concept)
		}

		pending := len(engine.ActiveCards())
		fmt.Printf("\n%d card(s), %d pending review\n", len(cards), pending)
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 10 {
		return id[:10]
	}
	return id
}

func statusLabel(s flashcard.Status) string {
	switch s {
	case flashcard.StatusMastered:
		return color.GreenString("%-10s", s)
	case flashcard.StatusCritical:
		return color.RedString("%-10s", s)
	case flashcard.StatusLearning:
		return color.YellowString("%-10s", s)
	default:
		return fmt.Sprintf("%-10s", string(s))
	}
}
