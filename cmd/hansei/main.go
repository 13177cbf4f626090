// Command hansei ingests scanned daily reflections into a note vault.
package main

import (
	"fmt"
	"os"

	configfile "github.com/kagami-labs/hansei-cli/internal/adapters/driven/config/file"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/llm"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/ocr/poppler"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/ocr/tesseract"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/storage/sqlite"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/stub"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/vault"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/web"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driving/cli"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
	"github.com/kagami-labs/hansei-cli/internal/core/services"
	"github.com/kagami-labs/hansei-cli/internal/logger"
)

// version is overridden at build time via
// -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetInitServices(initServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initServices builds the adapter graph and injects it into the CLI.
// Runs after flag parsing so --config is honoured.
func initServices(configDir string) error {
	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings := configfile.LoadSettings(configStore)

	if settings.VaultDir == "" {
		return fmt.Errorf("vault directory is not configured: set %s in %s or export %s",
			configfile.KeyVaultDir, configStore.Path(), configfile.EnvVaultDir)
	}

	store, err := vault.NewStore(settings.VaultDir)
	if err != nil {
		return err
	}

	prompts, err := configfile.NewPromptStore(promptDir(configDir))
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	var rasterizer driven.Rasterizer
	var recognizer driven.Recognizer
	if settings.StubMode {
		rasterizer = stub.Rasterizer{}
		recognizer = stub.Recognizer{}
	} else {
		rasterizer = poppler.New(nil)
		recognizer = tesseract.New(nil)
	}

	coach, err := llm.NewCoachService(settings)
	if err != nil {
		return err
	}

	// The journal is optional: a broken database degrades to warnings,
	// never blocks ingestion.
	var journal driven.RunJournal
	if j, err := sqlite.NewJournal(dataDir(configDir)); err != nil {
		logger.Warn("run journal unavailable: %v", err)
	} else {
		journal = j
	}

	extractor := services.NewReflectionExtractor(rasterizer, recognizer, settings.DPI, settings.LanguageHint)
	composer := services.NewPromptComposer(prompts, settings.HistoryMaxBytes)

	cli.SetDailyPipeline(services.NewDailyPipeline(store, extractor, composer, coach, journal, settings))
	cli.SetWeeklyReviewer(services.NewWeeklyReview(store, composer, coach, settings))
	cli.SetArticleEnricher(services.NewArticleEnrich(store, web.NewFetcher(0)))
	cli.SetNoteSummarizer(services.NewNoteSummarize(store, prompts, coach, settings))
	if journal != nil {
		cli.SetRunJournal(journal)
	}
	cli.SetWatchConfig(&cli.WatchConfig{PDFDir: store.PDFDir()})

	return nil
}

// promptDir resolves the prompt directory under an explicit config dir,
// or empty for the default.
func promptDir(configDir string) string {
	if configDir == "" {
		return ""
	}
	return configDir + "/prompts"
}

// dataDir resolves the journal directory under an explicit config dir,
// or empty for the default.
func dataDir(configDir string) string {
	if configDir == "" {
		return ""
	}
	return configDir + "/data"
}
