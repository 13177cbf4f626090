package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/storage/memory"
	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

const coachReply = `## 改善ポイント（AIコーチ）
- もっと早く寝るべきでした。

## 明日のアクション（AIコーチ）
- [ ] 朝7時に起きる`

// pipelineFixture wires a pipeline against in-memory stores and fakes.
type pipelineFixture struct {
	store   *memory.NoteStore
	journal *memory.Journal
	coach   *fakeCoach
	service *DailyPipelineService
}

func newPipelineFixture(coach *fakeCoach) *pipelineFixture {
	store := memory.NewNoteStore()
	journal := memory.NewJournal()
	extractor := NewReflectionExtractor(
		&fakeRasterizer{pages: []domain.RawPage{{Index: 1}}},
		&fakeRecognizer{texts: map[int]string{1: "手書きの振り返り"}},
		0, "",
	)
	composer := NewPromptComposer(testPrompts(), 0)
	settings := domain.Settings{MaxAttempts: 2, InitialBackoff: 1, AITimeout: 0}

	return &pipelineFixture{
		store:   store,
		journal: journal,
		coach:   coach,
		service: NewDailyPipeline(store, extractor, composer, coach, journal, settings),
	}
}

func TestPipelineRun_CreatesNote(t *testing.T) {
	f := newPipelineFixture(&fakeCoach{script: []fakeCall{{reply: coachReply}}})
	date := mustDate(t, "2026-02-10")
	f.store.AddPDF(date)

	report, err := f.service.Run(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, 1, report.Attempts)
	assert.False(t, report.Partial())

	content, found, err := f.store.ReadNote(date)
	require.NoError(t, err)
	require.True(t, found)

	assert.True(t, strings.HasPrefix(content, "# 2026-02-10 Daily Note\n"))
	assert.Contains(t, content, domain.HeadingReflection+"\n手書きの振り返り")
	assert.Contains(t, content, domain.HeadingFeedback+"\n- もっと早く寝るべきでした。")
	assert.Contains(t, content, domain.HeadingActions+"\n- [ ] 朝7時に起きる")

	records := f.journal.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.RunStatusSuccess, records[0].Status)
}

func TestPipelineRun_Idempotent(t *testing.T) {
	f := newPipelineFixture(&fakeCoach{script: []fakeCall{{reply: coachReply}}})
	date := mustDate(t, "2026-02-10")
	f.store.AddPDF(date)

	_, err := f.service.Run(context.Background(), date)
	require.NoError(t, err)
	first, _, _ := f.store.ReadNote(date)

	_, err = f.service.Run(context.Background(), date)
	require.NoError(t, err)
	second, _, _ := f.store.ReadNote(date)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(second, domain.BeginMarker(domain.BlockFeedback)))
}

func TestPipelineRun_PreservesManualEdits(t *testing.T) {
	f := newPipelineFixture(&fakeCoach{script: []fakeCall{{reply: coachReply}}})
	date := mustDate(t, "2026-02-10")
	f.store.AddPDF(date)

	_, err := f.service.Run(context.Background(), date)
	require.NoError(t, err)

	content, _, _ := f.store.ReadNote(date)
	edited := content + "\n私のメモ: 大事な追記\n"
	require.NoError(t, f.store.WriteNote(date, edited))

	_, err = f.service.Run(context.Background(), date)
	require.NoError(t, err)

	after, _, _ := f.store.ReadNote(date)
	assert.Contains(t, after, "私のメモ: 大事な追記")
	assert.Equal(t, 1, strings.Count(after, domain.BeginMarker(domain.BlockReflection)))
}

func TestPipelineRun_MissingPDF(t *testing.T) {
	f := newPipelineFixture(&fakeCoach{script: []fakeCall{{reply: coachReply}}})
	date := mustDate(t, "2026-02-10")

	_, err := f.service.Run(context.Background(), date)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputNotFound)
	assert.Contains(t, err.Error(), date.PDFFileName())
	assert.Zero(t, f.coach.calls(), "no AI call without an input PDF")

	records := f.journal.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.RunStatusFailed, records[0].Status)
	assert.Equal(t, domain.StageInput, records[0].Stage)
}

func TestPipelineRun_MalformedNoteAbortsBeforeAICall(t *testing.T) {
	f := newPipelineFixture(&fakeCoach{script: []fakeCall{{reply: coachReply}}})
	date := mustDate(t, "2026-02-10")
	f.store.AddPDF(date)

	damaged := domain.BeginMarker(domain.BlockReflection) + "\nnever closed\n"
	require.NoError(t, f.store.WriteNote(date, damaged))

	_, err := f.service.Run(context.Background(), date)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedMarkers)
	assert.Contains(t, err.Error(), f.store.NotePath(date))
	assert.Zero(t, f.coach.calls(), "a malformed note must not cost an AI call")

	content, _, _ := f.store.ReadNote(date)
	assert.Equal(t, damaged, content, "a failed run must not modify the note")
}

func TestPipelineRun_RetryExhaustionWritesNothing(t *testing.T) {
	coach := &fakeCoach{script: []fakeCall{
		{err: fmt.Errorf("%w: down", domain.ErrProviderUnavailable)},
	}}
	f := newPipelineFixture(coach)
	date := mustDate(t, "2026-02-10")
	f.store.AddPDF(date)

	_, err := f.service.Run(context.Background(), date)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Equal(t, 2, coach.calls(), "MaxAttempts bounds the calls")

	_, found, _ := f.store.ReadNote(date)
	assert.False(t, found, "no note may be written after a failed run")

	records := f.journal.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.StageGenerate, records[0].Stage)
}

func TestPipelineRun_EmptyCoachReplyIsFatal(t *testing.T) {
	f := newPipelineFixture(&fakeCoach{script: []fakeCall{{reply: "```\n```"}}})
	date := mustDate(t, "2026-02-10")
	f.store.AddPDF(date)

	_, err := f.service.Run(context.Background(), date)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)

	_, found, _ := f.store.ReadNote(date)
	assert.False(t, found)
}

func TestPipelineRun_PartialOCRStatus(t *testing.T) {
	store := memory.NewNoteStore()
	journal := memory.NewJournal()
	extractor := NewReflectionExtractor(
		&fakeRasterizer{pages: []domain.RawPage{{Index: 1}, {Index: 2}}},
		&fakeRecognizer{texts: map[int]string{1: "ok"}, fail: map[int]bool{2: true}},
		0, "",
	)
	service := NewDailyPipeline(store, extractor, NewPromptComposer(testPrompts(), 0),
		&fakeCoach{script: []fakeCall{{reply: coachReply}}}, journal, domain.Settings{})

	date := mustDate(t, "2026-02-10")
	store.AddPDF(date)

	report, err := service.Run(context.Background(), date)
	require.NoError(t, err)
	assert.True(t, report.Partial())
	assert.Equal(t, []int{2}, report.FailedPages)

	content, _, _ := store.ReadNote(date)
	assert.Contains(t, content, domain.UnreadablePage)

	records := journal.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.RunStatusPartial, records[0].Status)
	assert.Equal(t, 1, records[0].FailedPages)
}

func TestPipelineRun_HistoryFeedsPrompt(t *testing.T) {
	f := newPipelineFixture(&fakeCoach{script: []fakeCall{{reply: coachReply}}})
	date := mustDate(t, "2026-02-10")
	f.store.AddPDF(date)
	require.NoError(t, f.store.WriteNote(mustDate(t, "2026-02-09"), historyNote("昨日の振り返り", "- [ ] 昨日のアクション")))

	_, err := f.service.Run(context.Background(), date)
	require.NoError(t, err)

	prompt := f.coach.lastPrompt()
	assert.Contains(t, prompt, "昨日の振り返り")
	assert.Contains(t, prompt, "手書きの振り返り")
}
