package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tanvik/bugdrill/internal/flashcard"
	"github.com/tanvik/bugdrill/internal/logging"
	"github.com/tanvik/bugdrill/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "bugdrill",
	Short: "Trace your code's bugs and drill them into flashcards",
	Long: `Bugdrill sends a snippet of code to a hosted model, renders the
diagnosis as a step-by-step execution trace, and turns each detected
error into a flashcard you drill until mastered.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Best effort: a missing .env is the common case.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("cards", "", "Path to the flashcard collection file (overrides BUGDRILL_DATA)")
	rootCmd.PersistentFlags().String("db", "", "Path to the event log database (overrides BUGDRILL_DATA)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.New(verbose)
}

// resolveCardsPath returns the collection path using the --cards flag,
// then the BUGDRILL_DATA/XDG default.
func resolveCardsPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("cards"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultCardsPath()
}

// resolveDBPath returns the event log path using the --db flag, then the
// BUGDRILL_DATA/XDG default.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openEngine loads the flashcard collection for commands that don't need
// the model at all.
func openEngine(cmd *cobra.Command, log *zap.Logger) (*flashcard.Engine, error) {
	cardsPath, err := resolveCardsPath(cmd)
	if err != nil {
		return nil, err
	}
	return flashcard.NewEngine(store.NewFileCardStore(cardsPath), log), nil
}
