package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
	"github.com/kagami-labs/hansei-cli/internal/logger"
)

// retryPolicy bounds AI generation retries. The orchestrator is the
// sole decision point for retry versus fatal abort; coach adapters
// never retry on their own.
type retryPolicy struct {
	maxAttempts    int
	initialBackoff time.Duration
	timeout        time.Duration
}

func policyFromSettings(s domain.Settings) retryPolicy {
	p := retryPolicy{
		maxAttempts:    s.MaxAttempts,
		initialBackoff: s.InitialBackoff,
		timeout:        s.AITimeout,
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = domain.DefaultMaxAttempts
	}
	if p.initialBackoff <= 0 {
		p.initialBackoff = domain.DefaultInitialBackoff
	}
	if p.timeout <= 0 {
		p.timeout = domain.DefaultAITimeout
	}
	return p
}

// generateWithRetry calls the coach with a per-call timeout and
// exponential backoff on retryable failures. A call timeout is treated
// as provider-unavailable, hence retryable. Returns the reply text and
// the number of attempts made.
func generateWithRetry(
	ctx context.Context,
	coach driven.CoachService,
	prompt string,
	opts driven.GenerateOptions,
	policy retryPolicy,
) (string, int, error) {
	backoff := policy.initialBackoff

	for attempt := 1; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, policy.timeout)
		reply, err := coach.Generate(callCtx, prompt, opts)
		cancel()

		if err == nil {
			return reply, attempt, nil
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w: call timed out after %s", domain.ErrProviderUnavailable, policy.timeout)
		}

		if !retryable(err) || attempt == policy.maxAttempts {
			return "", attempt, err
		}

		logger.Warn("AI call failed (attempt %d/%d), retrying in %s: %v",
			attempt, policy.maxAttempts, backoff, err)
		select {
		case <-ctx.Done():
			return "", attempt, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// retryable reports whether the orchestrator should try the call again.
func retryable(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrProviderUnavailable)
}
