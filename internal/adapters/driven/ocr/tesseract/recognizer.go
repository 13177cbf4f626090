// Package tesseract recognizes text in page images through the
// tesseract tool.
package tesseract

import (
	"context"
	"fmt"
	"os"

	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/ocr"
	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// Ensure Recognizer implements the interface.
var _ driven.Recognizer = (*Recognizer)(nil)

// Recognizer converts page images to text with tesseract.
type Recognizer struct {
	runner driven.CommandRunner
}

// New creates a recognizer. A nil runner uses os/exec.
func New(runner driven.CommandRunner) *Recognizer {
	if runner == nil {
		runner = ocr.ExecRunner{}
	}
	return &Recognizer{runner: runner}
}

// Recognize runs tesseract over one page image with the configured
// language hint. Failures surface as domain.ErrRecognitionFailed and
// are absorbed into placeholders by the extractor.
func (r *Recognizer) Recognize(ctx context.Context, page domain.RawPage, languageHint string) (string, error) {
	img, err := os.CreateTemp("", "hansei-page-*.png")
	if err != nil {
		return "", fmt.Errorf("%w: create temp image: %w", domain.ErrRecognitionFailed, err)
	}
	defer os.Remove(img.Name())

	if _, err := img.Write(page.PNG); err != nil {
		img.Close()
		return "", fmt.Errorf("%w: write temp image: %w", domain.ErrRecognitionFailed, err)
	}
	if err := img.Close(); err != nil {
		return "", fmt.Errorf("%w: close temp image: %w", domain.ErrRecognitionFailed, err)
	}

	out, err := r.runner.Run(ctx, "tesseract", img.Name(), "stdout", "-l", languageHint)
	if err != nil {
		return "", fmt.Errorf("%w: page %d: %w", domain.ErrRecognitionFailed, page.Index, err)
	}
	return string(out), nil
}
