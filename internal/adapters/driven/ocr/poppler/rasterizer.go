// Package poppler rasterizes PDF pages through the pdftoppm tool.
package poppler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/ocr"
	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// Ensure Rasterizer implements the interface.
var _ driven.Rasterizer = (*Rasterizer)(nil)

// pagePrefix names the rendered page files inside the temp directory.
const pagePrefix = "page"

// Rasterizer renders PDF pages to PNG images with pdftoppm.
type Rasterizer struct {
	runner driven.CommandRunner
}

// New creates a rasterizer. A nil runner uses os/exec.
func New(runner driven.CommandRunner) *Rasterizer {
	if runner == nil {
		runner = ocr.ExecRunner{}
	}
	return &Rasterizer{runner: runner}
}

// Rasterize renders every page of the PDF at the given resolution, in
// page order. pdftoppm writes one numbered PNG per page into a temp
// directory; the files are read back and ordered by page number.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath string, dpi int) ([]domain.RawPage, error) {
	workDir, err := os.MkdirTemp("", "hansei-rasterize-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	prefix := filepath.Join(workDir, pagePrefix)
	if _, err := r.runner.Run(ctx, "pdftoppm", "-png", "-r", strconv.Itoa(dpi), pdfPath, prefix); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorruptPDF, pdfPath, err)
	}

	pages, err := collectPages(workDir)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s: pdftoppm produced no pages", domain.ErrCorruptPDF, pdfPath)
	}
	return pages, nil
}

// collectPages reads the rendered PNGs and orders them by the page
// number pdftoppm encodes in the filename (page-1.png, page-02.png...).
func collectPages(dir string) ([]domain.RawPage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read temp dir: %w", err)
	}

	var pages []domain.RawPage
	for _, entry := range entries {
		index, ok := pageNumber(entry.Name())
		if !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", index, err)
		}
		pages = append(pages, domain.RawPage{Index: index, PNG: data})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })
	return pages, nil
}

// pageNumber extracts the page index from a pdftoppm output filename.
func pageNumber(name string) (int, bool) {
	if !strings.HasPrefix(name, pagePrefix+"-") || !strings.HasSuffix(name, ".png") {
		return 0, false
	}
	numeric := strings.TrimSuffix(strings.TrimPrefix(name, pagePrefix+"-"), ".png")
	index, err := strconv.Atoi(numeric)
	if err != nil || index < 1 {
		return 0, false
	}
	return index, true
}
