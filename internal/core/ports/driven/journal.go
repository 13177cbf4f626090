package driven

import (
	"context"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

// RunJournal records the outcome of pipeline runs so an operator can
// see what happened for each date. Optional: a nil journal disables
// recording.
type RunJournal interface {
	// Record stores one run outcome.
	Record(ctx context.Context, rec domain.RunRecord) error

	// Recent returns the most recent runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Close releases resources.
	Close() error
}
