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

// Ensure ArticleEnrichService implements the interface.
var _ driving.ArticleEnricher = (*ArticleEnrichService)(nil)

// ArticleEnrichService fetches full bodies for bookmarked-article
// notes. Each note's body section uses the same marker discipline as
// the daily merge, so re-running replaces instead of appending.
type ArticleEnrichService struct {
	store   driven.ArticleStore
	fetcher driven.ArticleFetcher
}

// NewArticleEnrich creates the enricher.
func NewArticleEnrich(store driven.ArticleStore, fetcher driven.ArticleFetcher) *ArticleEnrichService {
	return &ArticleEnrichService{store: store, fetcher: fetcher}
}

// Enrich processes every linked article note created on or after since
// (all of them when since is nil). Per-note failures are warnings; the
// pass fails only when listing the notes fails.
func (s *ArticleEnrichService) Enrich(ctx context.Context, since *time.Time) (*driving.EnrichReport, error) {
	notes, err := s.store.ListArticleNotes(since)
	if err != nil {
		return nil, fmt.Errorf("list article notes: %w", err)
	}

	report := &driving.EnrichReport{}
	for _, note := range notes {
		report.Scanned++
		if err := s.enrichOne(ctx, note); err != nil {
			logger.Warn("enrich %s: %v", note.Path, err)
			report.Failed++
			continue
		}
		report.Updated++
	}
	logger.Info("enriched %d/%d article notes (%d failed)",
		report.Updated, report.Scanned, report.Failed)
	return report, nil
}

func (s *ArticleEnrichService) enrichOne(ctx context.Context, note domain.ArticleNote) error {
	article, err := s.fetcher.Fetch(ctx, note.Link)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", note.Link, err)
	}

	parsed, err := domain.ParseNote(note.Body)
	if err != nil {
		return err
	}
	parsed.SetBlock(domain.BlockArticle, domain.HeadingArticle+"\n\n"+article.Markdown)
	note.Body = parsed.Render()

	return s.store.SaveArticleNote(note)
}
