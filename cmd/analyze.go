package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tanvik/bugdrill/internal/diagnose"
	"github.com/tanvik/bugdrill/internal/llm"
	"github.com/tanvik/bugdrill/internal/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Diagnose a code snippet and mint flashcards from its errors",
	Long: `Reads code from the given file, or from stdin when no file is
given, sends it to the model for a step-by-step execution trace, and
ingests one flashcard per detected error concept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		defer log.Sync()

		code, err := readSubmission(args)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open event store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()
		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), log)
		if err != nil {
			return fmt.Errorf("model provider not configured: %w", err)
		}

		pipeline := diagnose.NewPipeline(provider, diagnose.DefaultConfig())

		spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = " Analyzing..."
		spin.Start()
		result, err := pipeline.Submit(ctx, code)
		spin.Stop()

		if err != nil {
			if errors.Is(err, diagnose.ErrEmptySubmission) {
				return fmt.Errorf("nothing to analyze: the submission is empty")
			}
			var analysisErr *diagnose.AnalysisError
			if errors.As(err, &analysisErr) {
				return fmt.Errorf("%v — run analyze again to retry", analysisErr)
			}
			return err
		}

		renderResult(result)

		engine, err := openEngine(cmd, log)
		if err != nil {
			return err
		}
		created := engine.Ingest(result.Flashcards)
		if len(created) > 0 {
			fmt.Printf("\n%s %d new flashcard(s) added — run %s to drill them.\n",
				color.GreenString("+"), len(created), color.New(color.Bold).Sprint("bugdrill review"))
		}

		return nil
	},
}

// readSubmission reads the code from the file argument or stdin.
func readSubmission(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read submission: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func renderResult(result *diagnose.Result) {
	fmt.Println()
	color.New(color.Bold).Println(result.RawError)
	fmt.Println()

	for i, step := range result.Trace {
		fmt.Printf("%s %s %s\n", stepIcon(step.Status),
			color.New(color.Bold).Sprintf("%d. %s", i+1, step.Title),
			step.Description)

		if step.IsError {
			if step.BadCode != "" {
				fmt.Printf("     %s %s\n", color.RedString("bad: "), highlightFault(step.BadCode, step.ErrorHighlight))
			}
			if step.GoodCode != "" {
				fmt.Printf("     %s %s\n", color.GreenString("good:"), step.GoodCode)
			}
			if step.Reason != "" {
				fmt.Printf("     why:  %s\n", step.Reason)
			}
			if step.Tip != "" {
				fmt.Printf("     tip:  %s\n", step.Tip)
			}
		}
	}
}

func stepIcon(status diagnose.StepStatus) string {
	switch status {
	case diagnose.StepError:
		return color.RedString("✗")
	case diagnose.StepWarning:
		return color.YellowString("!")
	default:
		return color.GreenString("✓")
	}
}

// highlightFault paints the errorHighlight substring red inside badCode.
// The highlight is expected to occur verbatim, but the model may drift;
// when it doesn't match, the code renders unhighlighted.
func highlightFault(badCode, highlight string) string {
	if highlight == "" {
		return badCode
	}
	idx := strings.Index(badCode, highlight)
	if idx < 0 {
		return badCode
	}
	return badCode[:idx] + color.New(color.FgRed, color.Underline).Sprint(highlight) + badCode[idx+len(highlight):]
}
