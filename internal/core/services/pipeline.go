package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driving"
	"github.com/kagami-labs/hansei-cli/internal/logger"
)

// Ensure DailyPipelineService implements the interface.
var _ driving.DailyPipeline = (*DailyPipelineService)(nil)

// coachOptions shape the daily generation call. Low temperature keeps
// the coaching output close to the requested format.
var coachOptions = driven.GenerateOptions{
	MaxTokens:   1024,
	Temperature: 0.4,
}

// DailyPipelineService sequences the reflection ingestion pipeline:
// input check, extraction, prompt composition, bounded-retry AI call,
// merge, atomic persist. One logical run per invocation; no shared
// mutable state across runs.
type DailyPipelineService struct {
	store     driven.NoteStore
	extractor *ReflectionExtractor
	composer  *PromptComposer
	coach     driven.CoachService
	journal   driven.RunJournal // optional, nil disables recording
	policy    retryPolicy
	history   int
}

// NewDailyPipeline creates the pipeline orchestrator.
func NewDailyPipeline(
	store driven.NoteStore,
	extractor *ReflectionExtractor,
	composer *PromptComposer,
	coach driven.CoachService,
	journal driven.RunJournal,
	settings domain.Settings,
) *DailyPipelineService {
	historyDays := settings.HistoryDays
	if historyDays <= 0 {
		historyDays = domain.DefaultHistoryDays
	}
	return &DailyPipelineService{
		store:     store,
		extractor: extractor,
		composer:  composer,
		coach:     coach,
		journal:   journal,
		policy:    policyFromSettings(settings),
		history:   historyDays,
	}
}

// Run executes the pipeline for one date. Re-running for the same date
// replaces the generated blocks of the note and never touches manual
// content. No partially merged document is ever written: the note file
// only changes after a successful AI response, via temp-and-rename.
func (p *DailyPipelineService) Run(ctx context.Context, date domain.ReflectionDate) (*driving.RunReport, error) {
	started := time.Now()
	report := &driving.RunReport{Date: date}

	fail := func(stage string, err error) (*driving.RunReport, error) {
		wrapped := fmt.Errorf("date %s: %s: %w", date, stage, err)
		p.record(ctx, date, stage, domain.RunStatusFailed, report, started, wrapped)
		return nil, wrapped
	}

	logger.Section("daily pipeline " + date.String())

	// 1. The scanned PDF must exist; its absence is fatal, not retried.
	pdfPath := p.store.PDFPath(date)
	exists, err := p.store.PDFExists(date)
	if err != nil {
		return fail(domain.StageInput, err)
	}
	if !exists {
		return fail(domain.StageInput, fmt.Errorf("%w: %s", domain.ErrInputNotFound, pdfPath))
	}

	// 2. OCR. Page failures degrade to placeholders inside Extract.
	reflection, err := p.extractor.Extract(ctx, pdfPath)
	if err != nil {
		return fail(domain.StageExtract, err)
	}
	report.Pages = reflection.Pages
	report.FailedPages = reflection.FailedPages
	report.EmptyReflection = reflection.Empty()

	// 3. Load and parse the existing note before spending an AI call:
	// malformed markers abort the run with the offending path and no
	// file is ever written.
	existing, found, err := p.store.ReadNote(date)
	if err != nil {
		return fail(domain.StageMerge, err)
	}
	note, err := domain.ParseNote(existing)
	if err != nil {
		return fail(domain.StageMerge, fmt.Errorf("%w (%s)", err, p.store.NotePath(date)))
	}

	// 4. Compose the prompt from reflection plus recent history.
	history, err := p.store.History(date, p.history)
	if err != nil {
		return fail(domain.StageCompose, err)
	}
	prompt, err := p.composer.ComposeDaily(reflection, history)
	if err != nil {
		return fail(domain.StageCompose, err)
	}

	// 5. Call the coach with bounded retry.
	raw, attempts, err := generateWithRetry(ctx, p.coach, prompt, coachOptions, p.policy)
	report.Attempts = attempts
	if err != nil {
		return fail(domain.StageGenerate, err)
	}
	reply, err := domain.ParseCoachingReply(raw)
	if err != nil {
		// An empty coaching block is never merged.
		return fail(domain.StageGenerate, err)
	}

	// 6. Merge. Each generated block is replaced in place or inserted
	// at its canonical position; manual content is untouched.
	if !found {
		note.Prepend(domain.DailyNoteTitle(date))
	}
	note.SetBlock(domain.BlockReflection, reflectionSection(reflection))
	note.SetBlock(domain.BlockFeedback, reply.FeedbackSection())
	note.SetBlock(domain.BlockActions, reply.ActionsSection())

	// 7. Persist atomically.
	if err := p.store.WriteNote(date, note.Render()); err != nil {
		return fail(domain.StagePersist, err)
	}
	report.NotePath = p.store.NotePath(date)

	status := domain.RunStatusSuccess
	if report.Partial() {
		status = domain.RunStatusPartial
	}
	p.record(ctx, date, domain.StagePersist, status, report, started, nil)

	logger.Info("merged note %s (%d pages, %d failed, %d AI attempts)",
		report.NotePath, report.Pages, len(report.FailedPages), attempts)
	return report, nil
}

// reflectionSection renders the reflection block content, heading
// included.
func reflectionSection(r domain.RawReflection) string {
	if r.Text == "" {
		return domain.HeadingReflection
	}
	return domain.HeadingReflection + "\n" + r.Text
}

// record writes a journal entry; journal failures are warnings, never
// run failures.
func (p *DailyPipelineService) record(
	ctx context.Context,
	date domain.ReflectionDate,
	stage, status string,
	report *driving.RunReport,
	started time.Time,
	runErr error,
) {
	if p.journal == nil {
		return
	}
	rec := domain.RunRecord{
		ID:          uuid.New().String(),
		Date:        date.String(),
		Stage:       stage,
		Status:      status,
		Pages:       report.Pages,
		FailedPages: len(report.FailedPages),
		Duration:    time.Since(started),
		StartedAt:   started,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if err := p.journal.Record(ctx, rec); err != nil {
		logger.Warn("run journal: %v", err)
	}
}
