package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent pipeline runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if runJournal == nil {
		return errors.New("run journal not configured")
	}

	records, err := runJournal.Recent(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%s  %-10s  %-8s  %-8s  pages=%d",
			rec.StartedAt.Local().Format(time.DateTime),
			rec.Date, rec.Status, rec.Stage, rec.Pages)
		if rec.FailedPages > 0 {
			cmd.Printf("  failed_pages=%d", rec.FailedPages)
		}
		if rec.Status == domain.RunStatusFailed && rec.Error != "" {
			cmd.Printf("  error=%s", rec.Error)
		}
		cmd.Println()
	}
	return nil
}
