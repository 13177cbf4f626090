// Package web fetches article bodies over HTTP and reduces them to
// markdown.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.ArticleFetcher = (*Fetcher)(nil)

// DefaultTimeout bounds a single article download.
const DefaultTimeout = 30 * time.Second

// userAgent identifies the fetcher; some sites reject the Go default.
const userAgent = "hansei/1.0 (+https://github.com/kagami-labs/hansei-cli)"

// Fetcher downloads an article page and converts its main content to
// markdown.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher. A zero timeout uses the default.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the page and returns the main content as markdown.
// The <article> element is preferred; the <body> is the fallback.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*driven.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", domain.ErrProviderUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrProviderUnavailable, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	node := contentNode(doc)
	if node == nil {
		return nil, fmt.Errorf("%w: %s has no content element", domain.ErrEmptyResponse, url)
	}

	markdownBytes, err := htmltomarkdown.ConvertNode(node)
	if err != nil {
		return nil, fmt.Errorf("convert HTML to markdown: %w", err)
	}

	markdown := strings.TrimSpace(string(markdownBytes))
	if markdown == "" {
		return nil, fmt.Errorf("%w: %s converted to empty markdown", domain.ErrEmptyResponse, url)
	}

	return &driven.Article{
		Title:    extractTitle(doc),
		Markdown: markdown,
	}, nil
}

// contentNode picks the node to convert: the first <article> element,
// or the <body> when the page has none.
func contentNode(doc *html.Node) *html.Node {
	if article := findNodeByTag(doc, "article"); article != nil {
		return article
	}
	return findNodeByTag(doc, "body")
}

func findNodeByTag(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findNodeByTag(c, tag); result != nil {
			return result
		}
	}
	return nil
}

// extractTitle extracts the title from the HTML document.
func extractTitle(doc *html.Node) string {
	node := findNodeByTag(doc, "title")
	if node == nil || node.FirstChild == nil || node.FirstChild.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(node.FirstChild.Data)
}
