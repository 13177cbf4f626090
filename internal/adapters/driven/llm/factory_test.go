package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

func TestNewCoachService_StubMode(t *testing.T) {
	coach, err := NewCoachService(domain.Settings{StubMode: true, Provider: domain.AIProviderGemini})
	require.NoError(t, err)
	assert.Equal(t, "stub", coach.ModelName())
}

func TestNewCoachService_StubProvider(t *testing.T) {
	coach, err := NewCoachService(domain.Settings{Provider: domain.AIProviderStub})
	require.NoError(t, err)
	assert.Equal(t, "stub", coach.ModelName())
}

func TestNewCoachService_Gemini(t *testing.T) {
	coach, err := NewCoachService(domain.Settings{
		Provider: domain.AIProviderGemini,
		APIKey:   "k",
		Model:    "gemini-2.0-flash",
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", coach.ModelName())
}

func TestNewCoachService_OpenAI(t *testing.T) {
	coach, err := NewCoachService(domain.Settings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "k",
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", coach.ModelName())
}

func TestNewCoachService_MissingKey(t *testing.T) {
	_, err := NewCoachService(domain.Settings{Provider: domain.AIProviderGemini})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewCoachService_UnknownProvider(t *testing.T) {
	_, err := NewCoachService(domain.Settings{Provider: "claude"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewCoachService_RateLimitWrapping(t *testing.T) {
	coach, err := NewCoachService(domain.Settings{
		Provider:          domain.AIProviderStub,
		RequestsPerMinute: 10,
	})
	require.NoError(t, err)

	_, ok := coach.(*rateLimitedCoach)
	assert.True(t, ok, "a configured rate must wrap the provider")
	assert.Equal(t, "stub", coach.ModelName(), "wrapper must pass ModelName through")
}

// countingCoach records Generate calls.
type countingCoach struct {
	calls int
}

func (c *countingCoach) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	c.calls++
	return "ok", nil
}
func (c *countingCoach) ModelName() string { return "counting" }

func (c *countingCoach) Ping(context.Context) error { return nil }

func (c *countingCoach) Close() error { return nil }

func TestWithRateLimit_ThrottlesSecondCall(t *testing.T) {
	inner := &countingCoach{}
	coach := WithRateLimit(inner, 6000) // 100 req/s keeps the test fast

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := coach.Generate(context.Background(), "p", driven.GenerateOptions{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.calls)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond,
		"the bucket holds one token, later calls wait for refill")
}

func TestWithRateLimit_CancelledContext(t *testing.T) {
	coach := WithRateLimit(&countingCoach{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := coach.Generate(ctx, "p", driven.GenerateOptions{})
	require.NoError(t, err, "the first token is available immediately")

	cancel()
	_, err = coach.Generate(ctx, "p", driven.GenerateOptions{})
	assert.Error(t, err, "a cancelled wait must not reach the provider")
}
