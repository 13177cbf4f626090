package domain

import (
	"fmt"
	"strings"
)

// CoachingReply is the AI coach's response split into its two
// subsections. Sections are located by their heading text, never by
// byte offsets: the model is asked for a fixed format but is not
// trusted to honour it exactly.
type CoachingReply struct {
	// Feedback is the body under the improvement-points heading.
	Feedback string

	// Actions is the body under the next-day actions heading.
	Actions string
}

// ParseCoachingReply splits a raw model response into feedback and
// actions. Code fences are stripped first. When the expected headings
// are missing the whole reply is kept as feedback rather than dropped,
// so the operator still sees what the model said.
func ParseCoachingReply(raw string) (CoachingReply, error) {
	text := StripFences(raw)
	if strings.TrimSpace(text) == "" {
		return CoachingReply{}, ErrEmptyResponse
	}

	sections := splitByHeadings(text, []string{HeadingFeedback, HeadingActions})
	reply := CoachingReply{
		Feedback: sections[HeadingFeedback],
		Actions:  sections[HeadingActions],
	}
	if reply.Feedback == "" && reply.Actions == "" {
		reply.Feedback = strings.TrimSpace(text)
	}
	return reply, nil
}

// FeedbackSection returns the feedback block content, heading included.
func (r CoachingReply) FeedbackSection() string {
	return joinHeading(HeadingFeedback, r.Feedback)
}

// ActionsSection returns the actions block content, heading included.
func (r CoachingReply) ActionsSection() string {
	return joinHeading(HeadingActions, r.Actions)
}

func joinHeading(heading, body string) string {
	if body == "" {
		return heading
	}
	return heading + "\n" + body
}

// StripFences removes a surrounding markdown code fence, which models
// routinely add despite instructions not to.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimSuffix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}
	return strings.TrimSpace(trimmed)
}

// splitByHeadings collects the body text under each of the given
// headings. Text under an unknown "## " heading is ignored; everything
// else accumulates under the most recent known heading.
func splitByHeadings(text string, headings []string) map[string]string {
	known := map[string]bool{}
	for _, h := range headings {
		known[h] = true
	}

	bodies := map[string][]string{}
	var current string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if known[trimmed] {
			current = trimmed
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			current = ""
			continue
		}
		if current != "" {
			bodies[current] = append(bodies[current], line)
		}
	}

	out := make(map[string]string, len(headings))
	for _, h := range headings {
		out[h] = strings.TrimSpace(strings.Join(bodies[h], "\n"))
	}
	return out
}

// DailyNoteTitle returns the seed title line for a brand new note.
func DailyNoteTitle(date ReflectionDate) string {
	return fmt.Sprintf("# %s Daily Note", date)
}
