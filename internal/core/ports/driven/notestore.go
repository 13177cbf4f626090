package driven

import (
	"time"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
)

// NoteStore reads and writes the vault documents of the daily pipeline
// at deterministic, date-keyed paths. It holds no business logic.
type NoteStore interface {
	// PDFPath returns the expected location of the scanned input PDF.
	PDFPath(date domain.ReflectionDate) string

	// PDFExists reports whether the scanned input PDF is present.
	PDFExists(date domain.ReflectionDate) (bool, error)

	// ReadNote returns the daily note content. found is false when the
	// note does not exist yet; that is not an error.
	ReadNote(date domain.ReflectionDate) (content string, found bool, err error)

	// WriteNote persists the daily note atomically
	// (write-temp-then-rename), so a crash mid-run never leaves a
	// half-written file.
	WriteNote(date domain.ReflectionDate, content string) error

	// NotePath returns the daily note location, for error reporting.
	NotePath(date domain.ReflectionDate) string

	// History returns up to days prior notes, most recent first.
	// Missing days are skipped.
	History(date domain.ReflectionDate, days int) ([]domain.HistoryEntry, error)

	// WriteWeeklyReview persists a weekly review note atomically and
	// returns its path.
	WriteWeeklyReview(week domain.ISOWeek, content string) (string, error)
}

// ArticleStore lists and rewrites bookmarked-article notes.
type ArticleStore interface {
	// ListArticleNotes returns notes carrying a frontmatter link,
	// optionally filtered to those created on or after since.
	ListArticleNotes(since *time.Time) ([]domain.ArticleNote, error)

	// SaveArticleNote rewrites a note atomically, preserving its
	// frontmatter verbatim.
	SaveArticleNote(note domain.ArticleNote) error
}
