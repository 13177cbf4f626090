// Package llm provides factory functions for creating coaching service
// adapters.
package llm

import (
	"fmt"
	"time"

	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/llm/gemini"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/llm/openai"
	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/stub"
	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// NewCoachService creates the coaching service the settings select,
// wrapped in a request rate limiter when one is configured.
func NewCoachService(settings domain.Settings) (driven.CoachService, error) {
	coach, err := createProvider(settings)
	if err != nil {
		return nil, err
	}
	if settings.RequestsPerMinute > 0 {
		coach = WithRateLimit(coach, settings.RequestsPerMinute)
	}
	return coach, nil
}

func createProvider(settings domain.Settings) (driven.CoachService, error) {
	if settings.StubMode {
		return stub.NewCoach(), nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return gemini.New(gemini.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout(settings),
		})

	case domain.AIProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout(settings),
		})

	case domain.AIProviderStub:
		return stub.NewCoach(), nil

	default:
		return nil, fmt.Errorf("%w: unsupported AI provider: %s", domain.ErrInvalidInput, settings.Provider)
	}
}

func timeout(settings domain.Settings) time.Duration {
	if settings.AITimeout > 0 {
		return settings.AITimeout
	}
	return 0
}
