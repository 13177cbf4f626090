package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driving"
	"github.com/kagami-labs/hansei-cli/internal/logger"
)

// Ensure WeeklyReviewService implements the interface.
var _ driving.WeeklyReviewer = (*WeeklyReviewService)(nil)

var reviewOptions = driven.GenerateOptions{
	MaxTokens:   1536,
	Temperature: 0.4,
}

// WeeklyReviewService rolls a week of daily notes into a review note.
// Read-only over the daily notes; the weekly file is regenerated whole,
// so no merge state machine is involved.
type WeeklyReviewService struct {
	store    driven.NoteStore
	composer *PromptComposer
	coach    driven.CoachService
	policy   retryPolicy

	// now is swappable for tests.
	now func() time.Time
}

// NewWeeklyReview creates the weekly reviewer.
func NewWeeklyReview(
	store driven.NoteStore,
	composer *PromptComposer,
	coach driven.CoachService,
	settings domain.Settings,
) *WeeklyReviewService {
	return &WeeklyReviewService{
		store:    store,
		composer: composer,
		coach:    coach,
		policy:   policyFromSettings(settings),
		now:      time.Now,
	}
}

// Review generates the review note for one ISO week and returns its
// path. A week with no daily notes at all is fatal.
func (s *WeeklyReviewService) Review(ctx context.Context, week domain.ISOWeek) (string, error) {
	logger.Section("weekly review " + week.String())

	var excerpts []string
	for _, date := range week.Dates() {
		content, found, err := s.store.ReadNote(date)
		if err != nil {
			return "", fmt.Errorf("week %s: read %s: %w", week, date, err)
		}
		if !found {
			continue
		}
		excerpt := historyExcerpt(domain.HistoryEntry{Date: date, Content: content})
		if excerpt == "" {
			continue
		}
		excerpts = append(excerpts, fmt.Sprintf("--- Date: %s ---\n%s", date, excerpt))
	}
	if len(excerpts) == 0 {
		return "", fmt.Errorf("week %s: %w: no daily notes found", week, domain.ErrInputNotFound)
	}
	logger.Debug("collected %d daily excerpts", len(excerpts))

	prompt, err := s.composer.ComposeWeekly(week, excerpts)
	if err != nil {
		return "", fmt.Errorf("week %s: compose: %w", week, err)
	}

	raw, _, err := generateWithRetry(ctx, s.coach, prompt, reviewOptions, s.policy)
	if err != nil {
		return "", fmt.Errorf("week %s: generate: %w", week, err)
	}
	body := domain.StripFences(raw)
	if body == "" {
		return "", fmt.Errorf("week %s: generate: %w", week, domain.ErrEmptyResponse)
	}

	dates := week.Dates()
	content := fmt.Sprintf(`---
week: %s
from: %s
to: %s
generated: %s
---

# %s Weekly Review

%s
`, week, dates[0], dates[6], s.now().UTC().Format(time.RFC3339), week, body)

	path, err := s.store.WriteWeeklyReview(week, content)
	if err != nil {
		return "", fmt.Errorf("week %s: persist: %w", week, err)
	}
	logger.Info("wrote weekly review %s", path)
	return path, nil
}
