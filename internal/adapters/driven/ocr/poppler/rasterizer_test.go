package poppler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

// mockRunner records the invocation and writes page files into the
// output prefix directory, the way pdftoppm would.
type mockRunner struct {
	pages []string
	err   error

	name string
	args []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	if m.err != nil {
		return nil, m.err
	}
	prefix := args[len(args)-1]
	for _, page := range m.pages {
		path := prefix + "-" + page + ".png"
		if err := os.WriteFile(path, []byte("png-"+page), 0644); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func TestRasterize_OrdersPages(t *testing.T) {
	runner := &mockRunner{pages: []string{"2", "10", "1"}}
	r := New(runner)

	pages, err := r.Rasterize(context.Background(), "/vault/50_daily_pdf/2026-02-10_daily_filled.pdf", 300)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, "pdftoppm", runner.name)
	assert.Equal(t, []string{"-png", "-r", "300"}, runner.args[:3])
	assert.Equal(t, "/vault/50_daily_pdf/2026-02-10_daily_filled.pdf", runner.args[3])

	assert.Equal(t, 1, pages[0].Index)
	assert.Equal(t, 2, pages[1].Index)
	assert.Equal(t, 10, pages[2].Index)
	assert.Equal(t, []byte("png-10"), pages[2].PNG)
}

func TestRasterize_RunnerFailureIsCorruptPDF(t *testing.T) {
	runner := &mockRunner{err: fmt.Errorf("exit status 1: Syntax Error")}
	r := New(runner)

	_, err := r.Rasterize(context.Background(), "broken.pdf", 300)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptPDF)
	assert.Contains(t, err.Error(), "broken.pdf")
}

func TestRasterize_NoPagesIsCorruptPDF(t *testing.T) {
	r := New(&mockRunner{})

	_, err := r.Rasterize(context.Background(), "empty.pdf", 300)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptPDF)
}

func TestRasterize_IgnoresForeignFiles(t *testing.T) {
	runner := &mockRunner{pages: []string{"1"}}
	r := New(&sideEffectRunner{inner: runner, extra: "notes.txt"})

	pages, err := r.Rasterize(context.Background(), "in.pdf", 150)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Index)
}

// sideEffectRunner drops an unrelated file next to the rendered pages.
type sideEffectRunner struct {
	inner *mockRunner
	extra string
}

func (s *sideEffectRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := s.inner.Run(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(args[len(args)-1])
	if werr := os.WriteFile(filepath.Join(dir, s.extra), []byte("x"), 0644); werr != nil {
		return nil, werr
	}
	return out, nil
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		name  string
		index int
		ok    bool
	}{
		{"page-1.png", 1, true},
		{"page-02.png", 2, true},
		{"page-10.png", 10, true},
		{"page-0.png", 0, false},
		{"page-x.png", 0, false},
		{"page-1.jpg", 0, false},
		{"other-1.png", 0, false},
		{"page-1", 0, false},
	}
	for _, tt := range tests {
		index, ok := pageNumber(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.index, index, tt.name)
	}
}
