package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInputNotFound indicates the scanned PDF for the requested date
	// does not exist. Fatal, never retried.
	ErrInputNotFound = errors.New("input not found")

	// ErrCorruptPDF indicates the rasterizer could not read the PDF.
	ErrCorruptPDF = errors.New("corrupt PDF")

	// ErrExtractionFailed indicates rasterization failed before any page
	// could be recognised. Per-page recognition failures degrade to
	// placeholders instead.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrRecognitionFailed indicates OCR failed for a single page.
	// Absorbed into a placeholder by the extractor, never fatal.
	ErrRecognitionFailed = errors.New("recognition failed")

	// ErrProviderUnavailable indicates the AI provider could not be
	// reached (network, auth, timeout). Retryable.
	ErrProviderUnavailable = errors.New("AI provider unavailable")

	// ErrRateLimited indicates the AI provider rejected the request due
	// to rate limiting. Retryable with backoff.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyResponse indicates the AI provider returned no usable text.
	// Fatal: an empty coaching block is never merged.
	ErrEmptyResponse = errors.New("empty AI response")

	// ErrMalformedMarkers indicates a note's generated-block markers are
	// inconsistent (unclosed, unopened, or duplicated). Fatal: the merger
	// refuses to guess rather than risk corrupting manual content.
	ErrMalformedMarkers = errors.New("malformed markers")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
