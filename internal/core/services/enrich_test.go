package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagami-labs/hansei-cli/internal/adapters/driven/storage/memory"
	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// fakeFetcher maps URL to markdown, or fails for URLs in errs.
type fakeFetcher struct {
	bodies map[string]string
	errs   map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*driven.Article, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, fmt.Errorf("fakeFetcher: unknown url %s", url)
	}
	return &driven.Article{Title: "t", Markdown: body}, nil
}

func articleNote(path, link string, created time.Time) domain.ArticleNote {
	return domain.ArticleNote{
		Path:        path,
		Link:        link,
		Created:     created,
		Frontmatter: fmt.Sprintf("\nlink: %s\n", link),
		Body:        "\n# ブックマーク\n",
	}
}

func TestEnrich_WritesArticleBody(t *testing.T) {
	store := memory.NewNoteStore()
	store.AddArticle(articleNote("20_inputs/Resource_Raindrop/a.md", "https://example.com/a", time.Time{}))

	service := NewArticleEnrich(store, &fakeFetcher{
		bodies: map[string]string{"https://example.com/a": "記事の本文です。"},
	})

	report, err := service.Enrich(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	assert.Zero(t, report.Failed)

	note, found := store.Article("20_inputs/Resource_Raindrop/a.md")
	require.True(t, found)
	assert.Contains(t, note.Body, domain.HeadingArticle+"\n\n記事の本文です。")
	assert.Contains(t, note.Body, domain.BeginMarker(domain.BlockArticle))
	assert.Contains(t, note.Body, "# ブックマーク", "manual body must survive")
}

func TestEnrich_Rerun_ReplacesBody(t *testing.T) {
	store := memory.NewNoteStore()
	store.AddArticle(articleNote("20_inputs/Resource_Raindrop/a.md", "https://example.com/a", time.Time{}))

	fetcher := &fakeFetcher{bodies: map[string]string{"https://example.com/a": "初版"}}
	service := NewArticleEnrich(store, fetcher)

	_, err := service.Enrich(context.Background(), nil)
	require.NoError(t, err)

	fetcher.bodies["https://example.com/a"] = "改訂版"
	_, err = service.Enrich(context.Background(), nil)
	require.NoError(t, err)

	note, _ := store.Article("20_inputs/Resource_Raindrop/a.md")
	assert.Contains(t, note.Body, "改訂版")
	assert.NotContains(t, note.Body, "初版")
}

func TestEnrich_PerNoteFailuresAreWarnings(t *testing.T) {
	store := memory.NewNoteStore()
	store.AddArticle(articleNote("20_inputs/Resource_Raindrop/ok.md", "https://example.com/ok", time.Time{}))
	store.AddArticle(articleNote("20_inputs/Resource_Raindrop/bad.md", "https://example.com/bad", time.Time{}))

	service := NewArticleEnrich(store, &fakeFetcher{
		bodies: map[string]string{"https://example.com/ok": "body"},
		errs:   map[string]error{"https://example.com/bad": fmt.Errorf("%w: 503", domain.ErrProviderUnavailable)},
	})

	report, err := service.Enrich(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Failed)
}

func TestEnrich_SinceFilter(t *testing.T) {
	store := memory.NewNoteStore()
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	store.AddArticle(articleNote("20_inputs/Resource_Raindrop/old.md", "https://example.com/old", old))
	store.AddArticle(articleNote("20_inputs/Resource_Raindrop/new.md", "https://example.com/new", fresh))

	service := NewArticleEnrich(store, &fakeFetcher{
		bodies: map[string]string{"https://example.com/new": "body"},
	})

	since := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	report, err := service.Enrich(context.Background(), &since)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Updated)
}
