// Package vault is the filesystem document store adapter. It reads and
// writes vault files at deterministic date-keyed paths and holds no
// business logic.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kagami-labs/hansei-cli/internal/core/domain"
	"github.com/kagami-labs/hansei-cli/internal/core/ports/driven"
)

// Ensure Store implements the store interfaces.
var (
	_ driven.NoteStore    = (*Store)(nil)
	_ driven.ArticleStore = (*Store)(nil)
	_ driven.SourceStore  = (*Store)(nil)
)

// Vault subdirectories. These follow the vault's existing numbering
// convention.
const (
	pdfDir      = "50_daily_pdf"
	dailyDir    = "50_daily"
	weeklyDir   = "60_weekly"
	articleDir  = "20_inputs/Resource_Raindrop"
	fleetingDir = "10_fleeting"
)

// Store accesses a note vault rooted at a local directory.
type Store struct {
	root string
}

// NewStore creates a vault store. The root directory must exist;
// subdirectories are created on first write.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: vault directory is not configured", domain.ErrInvalidInput)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: vault root %s is not a directory", domain.ErrInvalidInput, root)
	}
	return &Store{root: root}, nil
}

// PDFDir returns the scanned-input directory, used by watch mode.
func (s *Store) PDFDir() string {
	return filepath.Join(s.root, pdfDir)
}

// PDFPath returns the expected location of the scanned PDF for a date.
func (s *Store) PDFPath(date domain.ReflectionDate) string {
	return filepath.Join(s.root, pdfDir, date.PDFFileName())
}

// PDFExists reports whether the scanned PDF is present.
func (s *Store) PDFExists(date domain.ReflectionDate) (bool, error) {
	_, err := os.Stat(s.PDFPath(date))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// NotePath returns the daily note location for a date.
func (s *Store) NotePath(date domain.ReflectionDate) string {
	return filepath.Join(s.root, dailyDir, date.NoteFileName())
}

// ReadNote returns the daily note content; found is false when the
// note does not exist yet.
func (s *Store) ReadNote(date domain.ReflectionDate) (string, bool, error) {
	data, err := os.ReadFile(s.NotePath(date))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// WriteNote persists the daily note atomically.
func (s *Store) WriteNote(date domain.ReflectionDate, content string) error {
	return writeAtomic(s.NotePath(date), content)
}

// History returns up to days prior notes, most recent first. Missing
// days are skipped.
func (s *Store) History(date domain.ReflectionDate, days int) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	for _, prior := range date.History(days) {
		content, found, err := s.ReadNote(prior)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", prior, err)
		}
		if !found {
			continue
		}
		entries = append(entries, domain.HistoryEntry{Date: prior, Content: content})
	}
	return entries, nil
}

// WriteWeeklyReview persists a weekly review note atomically and
// returns its path.
func (s *Store) WriteWeeklyReview(week domain.ISOWeek, content string) (string, error) {
	path := filepath.Join(s.root, weeklyDir, week.ReviewFileName())
	if err := writeAtomic(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// articleFrontmatter is the subset of frontmatter keys the enricher
// needs. The raw frontmatter text is preserved verbatim on write.
type articleFrontmatter struct {
	Link    string `yaml:"link"`
	Created string `yaml:"created"`
}

// ListArticleNotes returns bookmarked-article notes carrying a
// frontmatter link, sorted by path. since filters on the created date.
func (s *Store) ListArticleNotes(since *time.Time) ([]domain.ArticleNote, error) {
	paths, err := doublestar.Glob(os.DirFS(s.root), articleDir+"/**/*.md")
	if err != nil {
		return nil, fmt.Errorf("glob article notes: %w", err)
	}
	sort.Strings(paths)

	var notes []domain.ArticleNote
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(s.root, rel))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}

		note, ok := parseArticleNote(rel, string(data))
		if !ok {
			continue
		}
		if since != nil && (note.Created.IsZero() || note.Created.Before(*since)) {
			continue
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// SaveArticleNote rewrites a note atomically, frontmatter verbatim.
// The body is kept off the closing delimiter line; a rendered body does
// not necessarily start with a newline.
func (s *Store) SaveArticleNote(note domain.ArticleNote) error {
	body := note.Body
	if !strings.HasPrefix(body, "\n") {
		body = "\n" + body
	}
	content := "---" + note.Frontmatter + "---" + body
	return writeAtomic(filepath.Join(s.root, note.Path), content)
}

// ListSourceNotes resolves a vault-relative path to its markdown
// sources: the path itself for a file, the sorted top-level *.md
// entries for a directory.
func (s *Store) ListSourceNotes(relPath string) ([]string, error) {
	full := filepath.Join(s.root, relPath)
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInputNotFound, relPath)
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.ToSlash(relPath)}, nil
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		paths = append(paths, filepath.ToSlash(filepath.Join(relPath, entry.Name())))
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadSourceNote returns a source note's content.
func (s *Store) ReadSourceNote(relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.root, relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrInputNotFound, relPath)
		}
		return "", err
	}
	return string(data), nil
}

// fleetingFrontmatter is the subset of fleeting-note frontmatter the
// processed-source scan needs.
type fleetingFrontmatter struct {
	SourcePath string `yaml:"source_path"`
}

// ProcessedSourcePaths scans the fleeting notes for the source paths
// they were generated from.
func (s *Store) ProcessedSourcePaths() (map[string]bool, error) {
	processed := make(map[string]bool)

	dir := filepath.Join(s.root, fleetingDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return processed, nil
		}
		return nil, fmt.Errorf("read %s: %w", fleetingDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		content := string(data)
		if !strings.HasPrefix(content, "---") {
			continue
		}
		parts := strings.SplitN(content, "---", 3)
		if len(parts) < 3 {
			continue
		}
		var meta fleetingFrontmatter
		if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil || meta.SourcePath == "" {
			continue
		}
		processed[meta.SourcePath] = true
	}
	return processed, nil
}

// WriteFleetingNote persists one per-topic note atomically. An existing
// file with the same name is never overwritten; the name gets a numeric
// suffix instead.
func (s *Store) WriteFleetingNote(fileName, content string) (string, error) {
	dir := filepath.Join(s.root, fleetingDir)

	name := fileName
	stem := strings.TrimSuffix(fileName, ".md")
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			break
		}
		name = fmt.Sprintf("%s_%d.md", stem, counter)
	}

	if err := writeAtomic(filepath.Join(dir, name), content); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(fleetingDir, name)), nil
}

// parseArticleNote splits a note into frontmatter and body and pulls
// the link and created date. Notes without frontmatter or without a
// link are skipped, matching how the vault mixes note types in one
// folder.
func parseArticleNote(path, content string) (domain.ArticleNote, bool) {
	if !strings.HasPrefix(content, "---") {
		return domain.ArticleNote{}, false
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return domain.ArticleNote{}, false
	}

	var meta articleFrontmatter
	if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil || meta.Link == "" {
		return domain.ArticleNote{}, false
	}

	note := domain.ArticleNote{
		Path:        path,
		Link:        meta.Link,
		Frontmatter: parts[1],
		Body:        parts[2],
	}
	if len(meta.Created) >= 10 {
		if created, err := time.Parse("2006-01-02", meta.Created[:10]); err == nil {
			note.Created = created
		}
	}
	return note, true
}

// writeAtomic writes content to a temp file in the destination
// directory and renames it into place, so a crash never leaves a
// half-written file at the final path.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
