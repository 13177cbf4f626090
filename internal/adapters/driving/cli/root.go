// Package cli implements the hansei command-line interface using cobra.
// Commands receive their services through Set* injection from the
// composition root; a nil service means the command is unavailable.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driving"
	"github.com/kagami-labs/hansei-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected services.
var (
	dailyPipeline   driving.DailyPipeline
	weeklyReviewer  driving.WeeklyReviewer
	articleEnricher driving.ArticleEnricher
	noteSummarizer  driving.NoteSummarizer
	runJournal      driven.RunJournal
)

// Persistent flags.
var (
	verboseFlag   bool
	configDirFlag string
)

// initServices is invoked after flag parsing, so the composition root
// can build services with the resolved config directory.
var initServices func(configDir string) error

var rootCmd = &cobra.Command{
	Use:   "hansei",
	Short: "Daily reflection ingestion for a note vault",
	Long: `hansei turns scanned handwritten reflection sheets into coached
daily notes: it rasterizes the PDF, recognises the handwriting, asks an
AI coach for feedback and next-day actions, and merges the result into
the day's note without touching manual edits.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if initServices != nil {
			return initServices(configDirFlag)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config", "", "config directory (default ~/.hansei)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	version = v
}

// SetInitServices registers the service builder run after flag parsing.
func SetInitServices(fn func(configDir string) error) {
	initServices = fn
}

// SetDailyPipeline injects the daily pipeline service.
func SetDailyPipeline(p driving.DailyPipeline) {
	dailyPipeline = p
}

// SetWeeklyReviewer injects the weekly review service.
func SetWeeklyReviewer(r driving.WeeklyReviewer) {
	weeklyReviewer = r
}

// SetArticleEnricher injects the article enrichment service.
func SetArticleEnricher(e driving.ArticleEnricher) {
	articleEnricher = e
}

// SetNoteSummarizer injects the note summarization service.
func SetNoteSummarizer(n driving.NoteSummarizer) {
	noteSummarizer = n
}

// SetRunJournal injects the run journal.
func SetRunJournal(j driven.RunJournal) {
	runJournal = j
}
