package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Source types inferred from a note's location in the vault.
const (
	SourceVoicememo = "voicememo"
	SourceManual    = "manual"
	SourceUnknown   = "unknown"
)

// unknownDate marks a source whose filename carries no date.
const unknownDate = "0000-00-00"

// SourceMeta describes where a source note came from, inferred from its
// vault-relative path.
type SourceMeta struct {
	// Type is one of the Source* constants.
	Type string

	// Date is the capture date (YYYY-MM-DD) read from the filename, or
	// 0000-00-00 when the filename carries none.
	Date string
}

var (
	isoDateInName     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	compactDateInName = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})_`)
	invalidSlugChars  = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// InferSourceMeta derives the source type from the path's folder names
// and the capture date from the filename. Voicememo files carry an
// ISO date anywhere in the name; manual files start with YYYYMMDD_.
func InferSourceMeta(relPath string) SourceMeta {
	meta := SourceMeta{Type: SourceUnknown, Date: unknownDate}

	name := relPath
	if idx := strings.LastIndexByte(relPath, '/'); idx >= 0 {
		name = relPath[idx+1:]
	}

	switch {
	case strings.Contains(relPath, "Voicememo"):
		meta.Type = SourceVoicememo
		if m := isoDateInName.FindStringSubmatch(name); m != nil {
			meta.Date = m[1]
		}
	case strings.Contains(relPath, "Manual"):
		meta.Type = SourceManual
		if m := compactDateInName.FindStringSubmatch(name); m != nil {
			meta.Date = fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
		}
	}
	return meta
}

// TopicSummary is one topic extracted from a source note.
type TopicSummary struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// NoteSummary is the model's structured reply for one source note. The
// echoed meta fields are advisory; callers fall back to the inferred
// values when the model leaves them out.
type NoteSummary struct {
	SourceType string         `json:"source_type"`
	SourcePath string         `json:"source_path"`
	Date       string         `json:"date"`
	Topics     []TopicSummary `json:"topics"`
}

// ParseNoteSummary decodes a raw model reply into a NoteSummary. Code
// fences are stripped first. An empty topics list is not an error; it
// means the source had nothing worth splitting out.
func ParseNoteSummary(raw string) (NoteSummary, error) {
	text := StripFences(raw)
	if strings.TrimSpace(text) == "" {
		return NoteSummary{}, ErrEmptyResponse
	}

	var summary NoteSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		return NoteSummary{}, fmt.Errorf("summary reply is not valid JSON: %w", err)
	}
	return summary, nil
}

// Slug turns a topic title into a filename-safe fragment: spaces become
// underscores and characters invalid in filenames are removed.
func Slug(title string) string {
	slug := strings.ReplaceAll(title, "　", "_")
	slug = strings.ReplaceAll(slug, " ", "_")
	return invalidSlugChars.ReplaceAllString(slug, "")
}

// FleetingFileName names one per-topic note: {date}_{index}_{slug}.md.
func FleetingFileName(date string, index int, slug string) string {
	return fmt.Sprintf("%s_%02d_%s.md", date, index, slug)
}

// RenderFleetingNote renders one topic as a standalone note. The
// source_path frontmatter key is what marks the source as processed on
// later runs.
func RenderFleetingNote(summary NoteSummary, topic TopicSummary, index int) string {
	tags := "[]"
	if len(topic.Tags) > 0 {
		if data, err := json.Marshal(topic.Tags); err == nil {
			tags = string(data)
		}
	}
	return fmt.Sprintf(`---
tags: %s
source_type: %s
source_path: %s
created: %s
index: %d
---

# %s

%s
`, tags, summary.SourceType, summary.SourcePath, summary.Date, index, topic.Title, topic.Summary)
}
