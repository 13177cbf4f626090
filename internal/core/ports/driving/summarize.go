package driving

import "context"

// NoteSummarizer splits source notes into per-topic fleeting notes.
// Already-summarized sources are skipped, so a directory pass is safe
// to re-run.
type NoteSummarizer interface {
	// Summarize processes one source note, or every unprocessed source
	// under a directory. relPath is vault-relative.
	Summarize(ctx context.Context, relPath string) (*SummaryReport, error)
}

// SummaryReport summarises a summarization pass.
type SummaryReport struct {
	// Sources is how many source notes were considered.
	Sources int

	// Skipped is how many were already summarized.
	Skipped int

	// Created is how many fleeting notes were written.
	Created int

	// Failed is how many sources errored; failures are per-source
	// warnings, not fatal.
	Failed int
}
