package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <path>",
	Short: "Split source notes into per-topic fleeting notes",
	Long: `Summarizes a source note (voice memo transcript, manual note) into
one fleeting note per topic, written to the vault's 10_fleeting folder.
Given a directory, every markdown file in it is processed; sources that
already have a fleeting note are skipped. Paths are vault-relative.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if noteSummarizer == nil {
		return errors.New("note summarizer not configured")
	}

	// No withHint here: a missing source is the path the user typed,
	// not a missing scan.
	report, err := noteSummarizer.Summarize(context.Background(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Created %d fleeting notes from %d source(s)", report.Created, report.Sources)
	if report.Skipped > 0 {
		cmd.Printf(", %d already processed", report.Skipped)
	}
	if report.Failed > 0 {
		cmd.Printf(", %d failed", report.Failed)
	}
	cmd.Println()
	return nil
}
