package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferSourceMeta(t *testing.T) {
	tests := []struct {
		name    string
		relPath string
		want    SourceMeta
	}{
		{
			name:    "voicememo with ISO date",
			relPath: "00_inbox/Voicememo/memo_2026-02-10.md",
			want:    SourceMeta{Type: SourceVoicememo, Date: "2026-02-10"},
		},
		{
			name:    "voicememo without date",
			relPath: "00_inbox/Voicememo/untitled.md",
			want:    SourceMeta{Type: SourceVoicememo, Date: "0000-00-00"},
		},
		{
			name:    "manual with compact date prefix",
			relPath: "00_inbox/Manual/20260210_買い物メモ.md",
			want:    SourceMeta{Type: SourceManual, Date: "2026-02-10"},
		},
		{
			name:    "manual date not at start",
			relPath: "00_inbox/Manual/メモ_20260210_x.md",
			want:    SourceMeta{Type: SourceManual, Date: "0000-00-00"},
		},
		{
			name:    "unknown folder",
			relPath: "30_random/note.md",
			want:    SourceMeta{Type: SourceUnknown, Date: "0000-00-00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSourceMeta(tt.relPath))
		})
	}
}

func TestInferSourceMeta_DateReadFromFilenameOnly(t *testing.T) {
	// A date in a folder name must not leak into the capture date.
	meta := InferSourceMeta("00_inbox/Voicememo/2026-01-01/memo.md")
	assert.Equal(t, SourceVoicememo, meta.Type)
	assert.Equal(t, "0000-00-00", meta.Date)
}

func TestParseNoteSummary(t *testing.T) {
	raw := `{
  "source_type": "voicememo",
  "source_path": "00_inbox/Voicememo/2026-02-10.md",
  "date": "2026-02-10",
  "topics": [
    {"title": "睡眠", "summary": "早寝が続いている。", "tags": ["#topic/健康"]},
    {"title": "読書", "summary": "新しい本を始めた。", "tags": []}
  ]
}`

	summary, err := ParseNoteSummary(raw)
	require.NoError(t, err)
	assert.Equal(t, "voicememo", summary.SourceType)
	assert.Equal(t, "2026-02-10", summary.Date)
	require.Len(t, summary.Topics, 2)
	assert.Equal(t, "睡眠", summary.Topics[0].Title)
	assert.Equal(t, []string{"#topic/健康"}, summary.Topics[0].Tags)
}

func TestParseNoteSummary_FencedReply(t *testing.T) {
	raw := "```json\n{\"source_type\":\"manual\",\"topics\":[{\"title\":\"A\",\"summary\":\"B\"}]}\n```"

	summary, err := ParseNoteSummary(raw)
	require.NoError(t, err)
	assert.Equal(t, "manual", summary.SourceType)
	require.Len(t, summary.Topics, 1)
}

func TestParseNoteSummary_Empty(t *testing.T) {
	_, err := ParseNoteSummary("   \n  ")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestParseNoteSummary_NotJSON(t *testing.T) {
	_, err := ParseNoteSummary("今日のまとめ: 特になし")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestParseNoteSummary_NoTopics(t *testing.T) {
	summary, err := ParseNoteSummary(`{"source_type":"manual","topics":[]}`)
	require.NoError(t, err)
	assert.Empty(t, summary.Topics)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"仕事の優先順位", "仕事の優先順位"},
		{"morning walk", "morning_walk"},
		{"今日の　気づき", "今日の_気づき"},
		{`a/b\c:d*e?f"g<h>i|j`, "abcdefghij"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.title), "title %q", tt.title)
	}
}

func TestFleetingFileName(t *testing.T) {
	assert.Equal(t, "2026-02-10_01_睡眠.md", FleetingFileName("2026-02-10", 1, "睡眠"))
	assert.Equal(t, "0000-00-00_12_x.md", FleetingFileName("0000-00-00", 12, "x"))
}

func TestRenderFleetingNote(t *testing.T) {
	summary := NoteSummary{
		SourceType: "voicememo",
		SourcePath: "00_inbox/Voicememo/2026-02-10.md",
		Date:       "2026-02-10",
	}
	topic := TopicSummary{
		Title:   "睡眠",
		Summary: "早寝が続いている。",
		Tags:    []string{"#topic/健康"},
	}

	note := RenderFleetingNote(summary, topic, 1)
	assert.Contains(t, note, "tags: [\"#topic/健康\"]\n")
	assert.Contains(t, note, "source_type: voicememo\n")
	assert.Contains(t, note, "source_path: 00_inbox/Voicememo/2026-02-10.md\n")
	assert.Contains(t, note, "created: 2026-02-10\n")
	assert.Contains(t, note, "index: 1\n")
	assert.Contains(t, note, "# 睡眠\n")
	assert.Contains(t, note, "早寝が続いている。\n")
}

func TestRenderFleetingNote_NoTags(t *testing.T) {
	note := RenderFleetingNote(NoteSummary{SourceType: "manual", Date: "0000-00-00"}, TopicSummary{Title: "T", Summary: "S"}, 2)
	assert.Contains(t, note, "tags: []\n")
	assert.Contains(t, note, "index: 2\n")
}
