package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var enrichSince string

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetch full article bodies for bookmarked notes",
	Long: `Scans the vault's bookmarked-article notes, downloads each linked
page, and writes the readable body into the note. Re-running replaces
previously fetched bodies instead of appending.`,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().StringVar(&enrichSince, "since", "", "only notes created on or after this date (YYYY-MM-DD)")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	if articleEnricher == nil {
		return errors.New("article enricher not configured")
	}

	var since *time.Time
	if enrichSince != "" {
		parsed, err := time.Parse("2006-01-02", enrichSince)
		if err != nil {
			return fmt.Errorf("invalid --since date %q: %w", enrichSince, err)
		}
		since = &parsed
	}

	report, err := articleEnricher.Enrich(context.Background(), since)
	if err != nil {
		return err
	}

	cmd.Printf("Enriched %d of %d article notes", report.Updated, report.Scanned)
	if report.Failed > 0 {
		cmd.Printf(" (%d failed)", report.Failed)
	}
	cmd.Println()
	return nil
}
