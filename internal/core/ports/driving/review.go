package driving

import (
	"context"
	"time"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

// WeeklyReviewer rolls one ISO week of daily notes into a review note.
// Read-only over the daily notes; the review file is fully regenerated
// each time.
type WeeklyReviewer interface {
	// Review generates the weekly note and returns its path.
	Review(ctx context.Context, week domain.ISOWeek) (string, error)
}

// ArticleEnricher fetches full bodies for bookmarked-article notes.
type ArticleEnricher interface {
	Enrich(ctx context.Context, since *time.Time) (*EnrichReport, error)
}

// EnrichReport summarises an enrichment pass.
type EnrichReport struct {
	// Scanned is how many linked notes were considered.
	Scanned int

	// Updated is how many notes received a fresh body.
	Updated int

	// Failed is how many notes errored; failures are per-note warnings,
	// not fatal.
	Failed int
}
