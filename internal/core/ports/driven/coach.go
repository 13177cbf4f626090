package driven

import "context"

// CoachService executes a composed prompt against a generative model
// and returns its free-form text response. Implementations perform no
// retries; the orchestrator owns the retry policy.
//
// Failure classes, via errors.Is:
//   - domain.ErrProviderUnavailable: network, auth, server errors
//   - domain.ErrRateLimited: provider throttling, retryable
//   - domain.ErrEmptyResponse: the model returned no usable text
type CoachService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request, without running inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
