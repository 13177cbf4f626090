// Package memory provides in-memory implementations of driven port
// interfaces for testing.
package memory

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// Ensure NoteStore implements the interfaces.
var (
	_ driven.NoteStore    = (*NoteStore)(nil)
	_ driven.ArticleStore = (*NoteStore)(nil)
	_ driven.SourceStore  = (*NoteStore)(nil)
)

// NoteStore is an in-memory implementation of the vault store ports
// for testing.
type NoteStore struct {
	mu       sync.RWMutex
	pdfs     map[string]bool
	notes    map[string]string
	weeklies map[string]string
	articles map[string]domain.ArticleNote
	sources  map[string]string
	fleeting map[string]string
}

// NewNoteStore creates a new in-memory note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{
		pdfs:     make(map[string]bool),
		notes:    make(map[string]string),
		weeklies: make(map[string]string),
		articles: make(map[string]domain.ArticleNote),
		sources:  make(map[string]string),
		fleeting: make(map[string]string),
	}
}

// AddPDF marks a scanned PDF as present for a date.
func (s *NoteStore) AddPDF(date domain.ReflectionDate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdfs[date.String()] = true
}

// AddArticle seeds an article note.
func (s *NoteStore) AddArticle(note domain.ArticleNote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[note.Path] = note
}

// PDFPath returns a synthetic path for a date.
func (s *NoteStore) PDFPath(date domain.ReflectionDate) string {
	return path.Join("50_daily_pdf", date.PDFFileName())
}

// PDFExists reports whether a PDF was added for the date.
func (s *NoteStore) PDFExists(date domain.ReflectionDate) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pdfs[date.String()], nil
}

// NotePath returns a synthetic path for a date.
func (s *NoteStore) NotePath(date domain.ReflectionDate) string {
	return path.Join("50_daily", date.NoteFileName())
}

// ReadNote returns the stored note content.
func (s *NoteStore) ReadNote(date domain.ReflectionDate) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.notes[date.String()]
	return content, ok, nil
}

// WriteNote stores the note content.
func (s *NoteStore) WriteNote(date domain.ReflectionDate, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[date.String()] = content
	return nil
}

// History returns stored prior notes, most recent first.
func (s *NoteStore) History(date domain.ReflectionDate, days int) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []domain.HistoryEntry
	for _, prior := range date.History(days) {
		if content, ok := s.notes[prior.String()]; ok {
			entries = append(entries, domain.HistoryEntry{Date: prior, Content: content})
		}
	}
	return entries, nil
}

// WriteWeeklyReview stores a weekly review.
func (s *NoteStore) WriteWeeklyReview(week domain.ISOWeek, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := path.Join("60_weekly", week.ReviewFileName())
	s.weeklies[week.String()] = content
	return p, nil
}

// WeeklyReview returns a stored weekly review.
func (s *NoteStore) WeeklyReview(week domain.ISOWeek) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.weeklies[week.String()]
	return content, ok
}

// ListArticleNotes returns seeded article notes, filtered by since.
func (s *NoteStore) ListArticleNotes(since *time.Time) ([]domain.ArticleNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []domain.ArticleNote
	for _, note := range s.articles {
		if since != nil && (note.Created.IsZero() || note.Created.Before(*since)) {
			continue
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// SaveArticleNote stores an article note.
func (s *NoteStore) SaveArticleNote(note domain.ArticleNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[note.Path] = note
	return nil
}

// Article returns a stored article note.
func (s *NoteStore) Article(notePath string) (domain.ArticleNote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	note, ok := s.articles[notePath]
	return note, ok
}

// AddSource seeds a source note.
func (s *NoteStore) AddSource(relPath, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[relPath] = content
}

// ListSourceNotes resolves a path against the seeded sources: an exact
// match, or all sources under the path as a directory.
func (s *NoteStore) ListSourceNotes(relPath string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sources[relPath]; ok {
		return []string{relPath}, nil
	}

	var paths []string
	for p := range s.sources {
		if strings.HasPrefix(p, relPath+"/") {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInputNotFound, relPath)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadSourceNote returns a seeded source note.
func (s *NoteStore) ReadSourceNote(relPath string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.sources[relPath]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrInputNotFound, relPath)
	}
	return content, nil
}

// ProcessedSourcePaths scans stored fleeting notes for source_path
// frontmatter lines.
func (s *NoteStore) ProcessedSourcePaths() (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	processed := make(map[string]bool)
	for _, content := range s.fleeting {
		for _, line := range strings.Split(content, "\n") {
			if src, ok := strings.CutPrefix(line, "source_path: "); ok {
				processed[strings.TrimSpace(src)] = true
				break
			}
		}
	}
	return processed, nil
}

// WriteFleetingNote stores a fleeting note, suffixing on collision.
func (s *NoteStore) WriteFleetingNote(fileName, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := fileName
	stem := strings.TrimSuffix(fileName, ".md")
	for counter := 1; ; counter++ {
		if _, ok := s.fleeting[name]; !ok {
			break
		}
		name = fmt.Sprintf("%s_%d.md", stem, counter)
	}
	s.fleeting[name] = content
	return path.Join("10_fleeting", name), nil
}

// FleetingNotes returns the stored fleeting notes keyed by filename.
func (s *NoteStore) FleetingNotes() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.fleeting))
	for name, content := range s.fleeting {
		out[name] = content
	}
	return out
}
