package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
	"github.com/kagami-labs/hansei-cli/internal/logger"
)

// recognizeConcurrency bounds parallel OCR processes. Pages are
// independent; order is restored at the concatenation step.
const recognizeConcurrency = 4

// ReflectionExtractor runs PDF pages through rasterization and
// recognition and assembles the raw reflection text. Pure transform:
// nothing is persisted.
type ReflectionExtractor struct {
	rasterizer driven.Rasterizer
	recognizer driven.Recognizer
	dpi        int
	language   string
}

// NewReflectionExtractor creates an extractor with the configured
// resolution and OCR language hint.
func NewReflectionExtractor(
	rasterizer driven.Rasterizer,
	recognizer driven.Recognizer,
	dpi int,
	language string,
) *ReflectionExtractor {
	if dpi <= 0 {
		dpi = domain.DefaultDPI
	}
	if language == "" {
		language = domain.DefaultLanguageHint
	}
	return &ReflectionExtractor{
		rasterizer: rasterizer,
		recognizer: recognizer,
		dpi:        dpi,
		language:   language,
	}
}

// Extract produces the raw reflection for a PDF. Rasterization failure
// is fatal (domain.ErrExtractionFailed); a recognition failure on one
// page degrades to a placeholder so partial OCR still reaches the
// reader.
func (e *ReflectionExtractor) Extract(ctx context.Context, pdfPath string) (domain.RawReflection, error) {
	pages, err := e.rasterizer.Rasterize(ctx, pdfPath, e.dpi)
	if err != nil {
		return domain.RawReflection{}, fmt.Errorf("%w: rasterize %s: %w", domain.ErrExtractionFailed, pdfPath, err)
	}
	if len(pages) == 0 {
		return domain.RawReflection{}, fmt.Errorf("%w: %s has no pages", domain.ErrExtractionFailed, pdfPath)
	}

	logger.Debug("rasterized %d pages at %d dpi", len(pages), e.dpi)

	texts := make([]domain.PageText, len(pages))
	sem := make(chan struct{}, recognizeConcurrency)
	var wg sync.WaitGroup

	for i, page := range pages {
		wg.Add(1)
		go func(i int, page domain.RawPage) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			text, err := e.recognizer.Recognize(ctx, page, e.language)
			if err != nil {
				logger.Warn("page %d: recognition failed: %v", page.Index, err)
				texts[i] = domain.PageText{Index: page.Index, Failed: true}
				return
			}
			texts[i] = domain.PageText{Index: page.Index, Text: text}
		}(i, page)
	}
	wg.Wait()

	reflection := domain.AssembleReflection(texts)
	if reflection.Empty() {
		logger.Warn("OCR found no text in %s", pdfPath)
	}
	return reflection, nil
}
