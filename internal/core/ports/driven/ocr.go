package driven

import (
	"context"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

// Rasterizer converts a PDF's pages into raster images.
// This is a capability boundary: the engine itself (poppler) is
// external and never reimplemented here.
type Rasterizer interface {
	// Rasterize renders every page of the PDF at the given resolution,
	// in page order. Fails with domain.ErrCorruptPDF when the file
	// cannot be read as a PDF.
	Rasterize(ctx context.Context, pdfPath string, dpi int) ([]domain.RawPage, error)
}

// Recognizer converts a raster image into recognised text, honouring a
// language hint. Failures surface as domain.ErrRecognitionFailed and
// are absorbed into per-page placeholders by the extractor.
type Recognizer interface {
	Recognize(ctx context.Context, page domain.RawPage, languageHint string) (string, error)
}

// CommandRunner executes an external tool and returns its stdout.
// Abstracted so OCR adapters are testable without poppler or tesseract
// installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
