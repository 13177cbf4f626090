package driven

import "context"

// Article is fetched remote content reduced to markdown.
type Article struct {
	Title    string
	Markdown string
}

// ArticleFetcher retrieves an article body from the web.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (*Article, error)
}
