package services

import (
	"fmt"
	"strings"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// noHistory is rendered when no prior notes are available.
const noHistory = "（履歴なし）"

// PromptComposer builds model prompts from a reflection plus recent
// historical context. Deterministic function of its inputs: no side
// effects, no randomness, so composition is directly testable.
type PromptComposer struct {
	prompts         driven.PromptStore
	historyMaxBytes int
}

// NewPromptComposer creates a composer. historyMaxBytes caps the
// historical context; oldest entries are dropped first.
func NewPromptComposer(prompts driven.PromptStore, historyMaxBytes int) *PromptComposer {
	if historyMaxBytes <= 0 {
		historyMaxBytes = domain.DefaultHistoryMaxBytes
	}
	return &PromptComposer{prompts: prompts, historyMaxBytes: historyMaxBytes}
}

// ComposeDaily builds the coaching prompt for one day's reflection.
// The template's first placeholder receives the historical context,
// the second the raw reflection.
func (c *PromptComposer) ComposeDaily(reflection domain.RawReflection, history []domain.HistoryEntry) (string, error) {
	template, err := c.prompts.Load(driven.PromptDailyCoaching)
	if err != nil {
		return "", fmt.Errorf("load daily prompt: %w", err)
	}
	return fmt.Sprintf(template, c.renderHistory(history), reflection.Text), nil
}

// ComposeWeekly builds the weekly review prompt from per-day excerpts.
func (c *PromptComposer) ComposeWeekly(week domain.ISOWeek, excerpts []string) (string, error) {
	template, err := c.prompts.Load(driven.PromptWeeklyReview)
	if err != nil {
		return "", fmt.Errorf("load weekly prompt: %w", err)
	}
	return fmt.Sprintf(template, week, strings.Join(excerpts, "\n")), nil
}

// renderHistory formats prior notes most recent first, trimming whole
// entries from the tail (the oldest, per the most-recent-first
// ordering) until the result fits the byte budget.
func (c *PromptComposer) renderHistory(history []domain.HistoryEntry) string {
	if len(history) == 0 {
		return noHistory
	}

	rendered := make([]string, 0, len(history))
	for _, entry := range history {
		excerpt := historyExcerpt(entry)
		if excerpt == "" {
			continue
		}
		rendered = append(rendered, fmt.Sprintf("--- Date: %s ---\n%s", entry.Date, excerpt))
	}

	for len(rendered) > 0 && totalLen(rendered) > c.historyMaxBytes {
		rendered = rendered[:len(rendered)-1]
	}
	if len(rendered) == 0 {
		return noHistory
	}
	return strings.Join(rendered, "\n\n")
}

// historyExcerpt pulls the handwritten reflection and the coach's
// actions out of a prior note. Notes that fail to parse are skipped:
// history is best-effort context, not an input that can abort a run.
func historyExcerpt(entry domain.HistoryEntry) string {
	note, err := domain.ParseNote(entry.Content)
	if err != nil {
		return ""
	}

	var parts []string
	if text, ok := note.Block(domain.BlockReflection); ok && text != "" {
		parts = append(parts, text)
	}
	if text, ok := note.Block(domain.BlockActions); ok && text != "" {
		parts = append(parts, text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func totalLen(parts []string) int {
	n := 0
	for _, p := range parts {
		n += len(p) + 2 // joined with a blank line
	}
	return n
}
