package services

import (
	"context"
	"fmt"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driving"
	"github.com/kagami-labs/hansei-cli/internal/logger"
)

// Ensure NoteSummarizeService implements the interface.
var _ driving.NoteSummarizer = (*NoteSummarizeService)(nil)

// NoteSummarizeService splits source notes into per-topic fleeting
// notes through the coach. A source whose path already appears in a
// fleeting note's frontmatter is skipped, so directory passes are
// idempotent.
type NoteSummarizeService struct {
	store   driven.SourceStore
	prompts driven.PromptStore
	coach   driven.CoachService
	policy  retryPolicy
}

// NewNoteSummarize creates the summarizer.
func NewNoteSummarize(
	store driven.SourceStore,
	prompts driven.PromptStore,
	coach driven.CoachService,
	settings domain.Settings,
) *NoteSummarizeService {
	return &NoteSummarizeService{
		store:   store,
		prompts: prompts,
		coach:   coach,
		policy:  policyFromSettings(settings),
	}
}

// Summarize processes the sources under relPath. Per-source failures
// are warnings; the pass fails only when resolving the sources or the
// prompt fails.
func (s *NoteSummarizeService) Summarize(ctx context.Context, relPath string) (*driving.SummaryReport, error) {
	sources, err := s.store.ListSourceNotes(relPath)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no markdown sources under %s", domain.ErrInputNotFound, relPath)
	}

	processed, err := s.store.ProcessedSourcePaths()
	if err != nil {
		return nil, fmt.Errorf("scan fleeting notes: %w", err)
	}

	template, err := s.prompts.Load(driven.PromptNoteSummary)
	if err != nil {
		return nil, fmt.Errorf("load summary prompt: %w", err)
	}

	report := &driving.SummaryReport{}
	for _, src := range sources {
		report.Sources++
		if processed[src] {
			logger.Debug("summarize: %s already processed, skipping", src)
			report.Skipped++
			continue
		}

		created, err := s.summarizeOne(ctx, template, src)
		if err != nil {
			logger.Warn("summarize %s: %v", src, err)
			report.Failed++
			continue
		}
		report.Created += created
	}

	logger.Info("summarized %d sources into %d fleeting notes (%d skipped, %d failed)",
		report.Sources, report.Created, report.Skipped, report.Failed)
	return report, nil
}

func (s *NoteSummarizeService) summarizeOne(ctx context.Context, template, src string) (int, error) {
	content, err := s.store.ReadSourceNote(src)
	if err != nil {
		return 0, err
	}

	meta := domain.InferSourceMeta(src)
	prompt := fmt.Sprintf(template, meta.Type, src, meta.Date, content)

	reply, _, err := generateWithRetry(ctx, s.coach, prompt, driven.GenerateOptions{}, s.policy)
	if err != nil {
		return 0, err
	}

	summary, err := domain.ParseNoteSummary(reply)
	if err != nil {
		return 0, err
	}
	// The model echoes the meta fields; fall back to the inferred ones.
	if summary.SourceType == "" {
		summary.SourceType = meta.Type
	}
	if summary.SourcePath == "" {
		summary.SourcePath = src
	}
	if summary.Date == "" {
		summary.Date = meta.Date
	}

	created := 0
	for i, topic := range summary.Topics {
		index := i + 1
		name := domain.FleetingFileName(meta.Date, index, domain.Slug(topic.Title))
		if _, err := s.store.WriteFleetingNote(name, domain.RenderFleetingNote(summary, topic, index)); err != nil {
			return created, fmt.Errorf("write fleeting note %s: %w", name, err)
		}
		created++
	}
	if created == 0 {
		logger.Info("summarize: %s produced no topics", src)
	}
	return created, nil
}
