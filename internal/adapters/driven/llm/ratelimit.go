package llm

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// Ensure rateLimitedCoach implements the interface.
var _ driven.CoachService = (*rateLimitedCoach)(nil)

// rateLimitedCoach throttles Generate calls with a token bucket so
// batch runs (watch mode, weekly reviews) stay inside provider quotas.
type rateLimitedCoach struct {
	inner  driven.CoachService
	bucket *rate.Limiter
}

// WithRateLimit wraps a coaching service with a requests-per-minute
// throttle.
func WithRateLimit(inner driven.CoachService, requestsPerMinute int) driven.CoachService {
	return &rateLimitedCoach{
		inner:  inner,
		bucket: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

// Generate waits for a token before delegating.
func (c *rateLimitedCoach) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := c.bucket.Wait(ctx); err != nil {
		return "", err
	}
	return c.inner.Generate(ctx, prompt, opts)
}

// ModelName returns the wrapped service's model name.
func (c *rateLimitedCoach) ModelName() string {
	return c.inner.ModelName()
}

// Ping is not throttled.
func (c *rateLimitedCoach) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

// Close releases the wrapped service.
func (c *rateLimitedCoach) Close() error {
	return c.inner.Close()
}
