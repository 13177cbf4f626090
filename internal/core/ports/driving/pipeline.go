package driving

import (
	"context"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

// DailyPipeline runs the reflection ingestion pipeline for one date:
// OCR the scanned PDF, generate coaching, merge into the daily note.
// Safe to re-run for the same date.
type DailyPipeline interface {
	Run(ctx context.Context, date domain.ReflectionDate) (*RunReport, error)
}

// RunReport summarises a completed run.
type RunReport struct {
	// Date the run targeted.
	Date domain.ReflectionDate

	// NotePath is where the merged note was written.
	NotePath string

	// Pages is the number of PDF pages processed.
	Pages int

	// FailedPages lists pages whose recognition failed and were
	// recorded as placeholders. Non-empty means a partial result.
	FailedPages []int

	// EmptyReflection is set when OCR found no text at all.
	EmptyReflection bool

	// Attempts is how many AI calls were made before success.
	Attempts int
}

// Partial reports whether the run degraded to placeholders.
func (r *RunReport) Partial() bool {
	return len(r.FailedPages) > 0
}
