package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/storage/memory"
	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driving"
)

// resetCommandState saves and restores the package-level injection
// points and flag values the tests mutate.
func resetCommandState(t *testing.T) {
	t.Helper()
	savedPipeline := dailyPipeline
	savedReviewer := weeklyReviewer
	savedEnricher := articleEnricher
	savedSummarizer := noteSummarizer
	savedJournal := runJournal
	savedInit := initServices
	t.Cleanup(func() {
		dailyPipeline = savedPipeline
		weeklyReviewer = savedReviewer
		articleEnricher = savedEnricher
		noteSummarizer = savedSummarizer
		runJournal = savedJournal
		initServices = savedInit
		enrichSince = ""
		historyLimit = 20
		configDirFlag = ""
		verboseFlag = false
	})
	dailyPipeline = nil
	weeklyReviewer = nil
	articleEnricher = nil
	noteSummarizer = nil
	runJournal = nil
	initServices = nil
}

func executeCommand(args ...string) (string, error) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

type fakePipeline struct {
	date   domain.ReflectionDate
	report *driving.RunReport
	err    error
}

func (f *fakePipeline) Run(_ context.Context, date domain.ReflectionDate) (*driving.RunReport, error) {
	f.date = date
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeReviewer struct {
	week domain.ISOWeek
	path string
	err  error
}

func (f *fakeReviewer) Review(_ context.Context, week domain.ISOWeek) (string, error) {
	f.week = week
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

type fakeEnricher struct {
	since  *time.Time
	report *driving.EnrichReport
}

func (f *fakeEnricher) Enrich(_ context.Context, since *time.Time) (*driving.EnrichReport, error) {
	f.since = since
	return f.report, nil
}

type fakeSummarizer struct {
	relPath string
	report  *driving.SummaryReport
	err     error
}

func (f *fakeSummarizer) Summarize(_ context.Context, relPath string) (*driving.SummaryReport, error) {
	f.relPath = relPath
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func TestDailyCommand_Success(t *testing.T) {
	resetCommandState(t)
	date, err := domain.ParseReflectionDate("2026-02-10")
	require.NoError(t, err)

	pipeline := &fakePipeline{report: &driving.RunReport{
		Date:     date,
		NotePath: "50_daily/2026-02-10.md",
		Pages:    2,
		Attempts: 1,
	}}
	dailyPipeline = pipeline

	out, err := executeCommand("daily", "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-10", pipeline.date.String())
	assert.Contains(t, out, "Merged 2026-02-10 into 50_daily/2026-02-10.md")
	assert.Contains(t, out, "pages: 2, AI attempts: 1")
}

func TestDailyCommand_PartialReport(t *testing.T) {
	resetCommandState(t)
	date, _ := domain.ParseReflectionDate("2026-02-10")
	dailyPipeline = &fakePipeline{report: &driving.RunReport{
		Date:        date,
		NotePath:    "50_daily/2026-02-10.md",
		Pages:       3,
		FailedPages: []int{2},
		Attempts:    1,
	}}

	out, err := executeCommand("daily", "2026-02-10")
	require.NoError(t, err)
	assert.Contains(t, out, "1 page(s) could not be read")
}

func TestDailyCommand_InvalidDate(t *testing.T) {
	resetCommandState(t)
	dailyPipeline = &fakePipeline{}

	_, err := executeCommand("daily", "Feb 10")
	assert.Error(t, err)
}

func TestDailyCommand_NotConfigured(t *testing.T) {
	resetCommandState(t)

	_, err := executeCommand("daily", "2026-02-10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestDailyCommand_MissingPDFHint(t *testing.T) {
	resetCommandState(t)
	dailyPipeline = &fakePipeline{err: fmt.Errorf("%w: no scan", domain.ErrInputNotFound)}

	_, err := executeCommand("daily", "2026-02-10")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputNotFound)
	assert.Contains(t, err.Error(), "hint: scan the reflection sheet")
}

func TestWeeklyCommand_Success(t *testing.T) {
	resetCommandState(t)
	reviewer := &fakeReviewer{path: "60_weekly/2026-W08_Weekly_Review.md"}
	weeklyReviewer = reviewer

	out, err := executeCommand("weekly", "2026-W08")
	require.NoError(t, err)
	assert.Equal(t, "2026-W08", reviewer.week.String())
	assert.Contains(t, out, "Wrote weekly review for 2026-W08")
}

func TestWeeklyCommand_EmptyWeekHint(t *testing.T) {
	resetCommandState(t)
	weeklyReviewer = &fakeReviewer{err: fmt.Errorf("%w: no notes", domain.ErrInputNotFound)}

	_, err := executeCommand("weekly", "2026-W08")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no daily notes exist for 2026-W08")
}

func TestEnrichCommand_Success(t *testing.T) {
	resetCommandState(t)
	enricher := &fakeEnricher{report: &driving.EnrichReport{Scanned: 3, Updated: 2, Failed: 1}}
	articleEnricher = enricher

	out, err := executeCommand("enrich", "--since", "2026-01-15")
	require.NoError(t, err)
	require.NotNil(t, enricher.since)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *enricher.since)
	assert.Contains(t, out, "Enriched 2 of 3 article notes (1 failed)")
}

func TestEnrichCommand_InvalidSince(t *testing.T) {
	resetCommandState(t)
	articleEnricher = &fakeEnricher{report: &driving.EnrichReport{}}

	_, err := executeCommand("enrich", "--since", "last week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --since date")
}

func TestSummarizeCommand_Success(t *testing.T) {
	resetCommandState(t)
	summarizer := &fakeSummarizer{report: &driving.SummaryReport{Sources: 3, Created: 5, Skipped: 1}}
	noteSummarizer = summarizer

	out, err := executeCommand("summarize", "00_inbox/Voicememo")
	require.NoError(t, err)
	assert.Equal(t, "00_inbox/Voicememo", summarizer.relPath)
	assert.Contains(t, out, "Created 5 fleeting notes from 3 source(s), 1 already processed")
}

func TestSummarizeCommand_ReportsFailures(t *testing.T) {
	resetCommandState(t)
	noteSummarizer = &fakeSummarizer{report: &driving.SummaryReport{Sources: 2, Created: 1, Failed: 1}}

	out, err := executeCommand("summarize", "00_inbox/Manual")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 1 fleeting notes from 2 source(s), 1 failed")
}

func TestSummarizeCommand_NotConfigured(t *testing.T) {
	resetCommandState(t)

	_, err := executeCommand("summarize", "00_inbox/Voicememo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSummarizeCommand_MissingSource(t *testing.T) {
	resetCommandState(t)
	noteSummarizer = &fakeSummarizer{err: fmt.Errorf("%w: no such note", domain.ErrInputNotFound)}

	_, err := executeCommand("summarize", "00_inbox/missing.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputNotFound)
}

func TestHistoryCommand_Empty(t *testing.T) {
	resetCommandState(t)
	runJournal = memory.NewJournal()

	out, err := executeCommand("history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet.")
}

func TestHistoryCommand_ShowsRuns(t *testing.T) {
	resetCommandState(t)
	journal := memory.NewJournal()
	require.NoError(t, journal.Record(context.Background(), domain.RunRecord{
		ID:        "run-1",
		Date:      "2026-02-10",
		Stage:     domain.StageGenerate,
		Status:    domain.RunStatusFailed,
		Error:     "provider unavailable",
		StartedAt: time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC),
	}))
	runJournal = journal

	out, err := executeCommand("history", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-02-10")
	assert.Contains(t, out, domain.RunStatusFailed)
	assert.Contains(t, out, "error=provider unavailable")
}

func TestVersionCommand(t *testing.T) {
	resetCommandState(t)
	saved := version
	t.Cleanup(func() { version = saved })
	SetVersion("1.2.3")

	out, err := executeCommand("version")
	require.NoError(t, err)
	assert.Contains(t, out, "hansei version 1.2.3")
}

func TestInitServices_ReceivesConfigFlag(t *testing.T) {
	resetCommandState(t)
	var gotDir string
	initServices = func(configDir string) error {
		gotDir = configDir
		return nil
	}
	dailyPipeline = &fakePipeline{report: &driving.RunReport{}}

	_, err := executeCommand("--config", "/tmp/hansei-test", "daily", "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hansei-test", gotDir)
}
