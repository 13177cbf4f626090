package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driving"
)

var dailyCmd = &cobra.Command{
	Use:   "daily [date]",
	Short: "Ingest one day's scanned reflection into its daily note",
	Long: `Runs the reflection pipeline for a date (YYYY-MM-DD, default today):
rasterizes the scanned PDF, recognises the handwriting, generates
coaching feedback, and merges everything into the daily note.
Re-running for the same date replaces the generated sections only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, args []string) error {
	if dailyPipeline == nil {
		return errors.New("daily pipeline not configured")
	}

	date, err := dateArg(args)
	if err != nil {
		return err
	}

	report, err := dailyPipeline.Run(context.Background(), date)
	if err != nil {
		return withHint(err)
	}

	printRunReport(cmd, report)
	return nil
}

// dateArg parses the optional date argument, defaulting to today.
func dateArg(args []string) (domain.ReflectionDate, error) {
	if len(args) == 0 {
		return domain.ParseReflectionDate(time.Now().Format("2006-01-02"))
	}
	return domain.ParseReflectionDate(args[0])
}

func printRunReport(cmd *cobra.Command, report *driving.RunReport) {
	cmd.Printf("Merged %s into %s\n", report.Date, report.NotePath)
	cmd.Printf("  pages: %d, AI attempts: %d\n", report.Pages, report.Attempts)
	if report.EmptyReflection {
		cmd.Println("  note: OCR found no text; placeholders were written")
	} else if report.Partial() {
		cmd.Printf("  note: %d page(s) could not be read: %v\n",
			len(report.FailedPages), report.FailedPages)
	}
}

// errorHint maps well-known failures to actionable messages.
func errorHint(err error) string {
	switch {
	case errors.Is(err, domain.ErrInputNotFound):
		return "scan the reflection sheet into the vault's 50_daily_pdf folder first"
	case errors.Is(err, domain.ErrMalformedMarkers):
		return "the daily note's generated-section markers are damaged; fix or remove them and re-run"
	case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, domain.ErrRateLimited):
		return "the AI provider is unreachable or throttling; try again later or use stub_mode"
	default:
		return ""
	}
}

// withHint augments the error with a hint when one is known.
func withHint(err error) error {
	if hint := errorHint(err); hint != "" {
		return fmt.Errorf("%w\n  hint: %s", err, hint)
	}
	return err
}
