package driven

// SourceStore reads raw source notes (voice memo transcripts, manual
// notes) and writes the per-topic fleeting notes the summarizer
// produces. Paths are vault-relative.
type SourceStore interface {
	// ListSourceNotes resolves a path to its markdown sources: the path
	// itself for a file, the sorted *.md entries for a directory.
	ListSourceNotes(relPath string) ([]string, error)

	// ReadSourceNote returns a source note's content.
	ReadSourceNote(relPath string) (string, error)

	// ProcessedSourcePaths returns the source paths already summarized,
	// read from the source_path frontmatter of existing fleeting notes.
	ProcessedSourcePaths() (map[string]bool, error)

	// WriteFleetingNote persists one per-topic note atomically,
	// suffixing the filename on collision, and returns the path written.
	WriteFleetingNote(fileName, content string) (string, error)
}
