package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// fakeCoach returns scripted replies or errors in order. After the
// script is exhausted the last entry repeats.
type fakeCoach struct {
	mu      sync.Mutex
	script  []fakeCall
	prompts []string
}

type fakeCall struct {
	reply string
	err   error
}

func (c *fakeCoach) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, prompt)
	if len(c.script) == 0 {
		return "", fmt.Errorf("fakeCoach: no scripted reply")
	}
	call := c.script[0]
	if len(c.script) > 1 {
		c.script = c.script[1:]
	}
	return call.reply, call.err
}

func (c *fakeCoach) ModelName() string { return "fake" }

func (c *fakeCoach) Ping(context.Context) error { return nil }

func (c *fakeCoach) Close() error { return nil }

func (c *fakeCoach) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func (c *fakeCoach) lastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.prompts) == 0 {
		return ""
	}
	return c.prompts[len(c.prompts)-1]
}

// fakePrompts serves fixed templates without touching the filesystem.
type fakePrompts map[string]string

func (p fakePrompts) Load(name string) (string, error) {
	template, ok := p[name]
	if !ok {
		return "", fmt.Errorf("fakePrompts: unknown prompt %q", name)
	}
	return template, nil
}

// testPrompts returns minimal templates with the same placeholder
// layout as the embedded defaults.
func testPrompts() fakePrompts {
	return fakePrompts{
		driven.PromptDailyCoaching: "HISTORY:\n%s\n\nREFLECTION:\n%s",
		driven.PromptWeeklyReview:  "WEEK %s\n\n%s",
		driven.PromptNoteSummary:   "TYPE %s PATH %s DATE %s\n\n%s",
	}
}
