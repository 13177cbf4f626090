package domain

import (
	"fmt"
	"sort"
	"strings"
)

// UnreadablePage is the placeholder recorded for a page whose
// recognition failed. Partial OCR output is still useful to a human
// reader, so one bad page never aborts the document.
const UnreadablePage = "（判読できませんでした）"

// RawPage is one rasterized page image plus its page index (1-based).
// Ephemeral: it exists only during extraction and is never persisted.
type RawPage struct {
	Index int
	PNG   []byte
}

// PageText is the recognition result for a single page.
type PageText struct {
	Index  int
	Text   string
	Failed bool
}

// RawReflection is the concatenated, order-preserving text recognised
// from all pages of one PDF.
type RawReflection struct {
	Text        string
	Pages       int
	FailedPages []int
}

// Empty reports whether OCR found no text at all. An empty reflection
// is a valid result, but callers should surface it as a warning.
func (r RawReflection) Empty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Partial reports whether any page failed recognition.
func (r RawReflection) Partial() bool {
	return len(r.FailedPages) > 0
}

// pageBoundary renders the separator written between pages so a reader
// can tell page breaks apart.
func pageBoundary(index int) string {
	return fmt.Sprintf("--- Page %d ---", index)
}

// AssembleReflection joins per-page recognition results into a single
// reflection. Page order follows the page index regardless of the order
// results arrive in. Outer whitespace is stripped per page; internal
// line breaks are preserved because handwritten structure is meaningful.
func AssembleReflection(pages []PageText) RawReflection {
	ordered := make([]PageText, len(pages))
	copy(ordered, pages)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	r := RawReflection{Pages: len(ordered)}
	parts := make([]string, 0, len(ordered))
	for i, page := range ordered {
		text := strings.TrimSpace(page.Text)
		if page.Failed {
			text = UnreadablePage
			r.FailedPages = append(r.FailedPages, page.Index)
		}
		if i > 0 {
			parts = append(parts, "", pageBoundary(page.Index), "")
		}
		parts = append(parts, text)
	}
	r.Text = strings.Join(parts, "\n")
	return r
}
