package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly [week]",
	Short: "Roll a week of daily notes into a review note",
	Long: `Generates a weekly review from the week's daily notes (ISO week,
e.g. 2026-W08, default the current week). The review file is fully
regenerated each time; the daily notes are never modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWeekly,
}

func init() {
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(cmd *cobra.Command, args []string) error {
	if weeklyReviewer == nil {
		return errors.New("weekly reviewer not configured")
	}

	week, err := weekArg(args)
	if err != nil {
		return err
	}

	path, err := weeklyReviewer.Review(context.Background(), week)
	if err != nil {
		if errors.Is(err, domain.ErrInputNotFound) {
			return fmt.Errorf("%w\n  hint: no daily notes exist for %s yet", err, week)
		}
		return withHint(err)
	}

	cmd.Printf("Wrote weekly review for %s to %s\n", week, path)
	return nil
}

// weekArg parses the optional week argument, defaulting to the current
// ISO week.
func weekArg(args []string) (domain.ISOWeek, error) {
	if len(args) == 0 {
		year, week := time.Now().ISOWeek()
		return domain.ParseISOWeek(fmt.Sprintf("%04d-W%02d", year, week))
	}
	return domain.ParseISOWeek(args[0])
}
