package domain

import (
	"fmt"
	"strings"
)

// BlockKind identifies one generated section of a note.
type BlockKind string

// Generated block kinds, in canonical document order.
const (
	BlockReflection BlockKind = "reflection"
	BlockFeedback   BlockKind = "feedback"
	BlockActions    BlockKind = "actions"
	BlockArticle    BlockKind = "article"
)

// Section headings written inside the generated blocks. These match the
// vault's existing Japanese note conventions.
const (
	HeadingReflection = "## 今日の振り返り（手書き）"
	HeadingFeedback   = "## 改善ポイント（AIコーチ）"
	HeadingActions    = "## 明日のアクション（AIコーチ）"
	HeadingArticle    = "## 本文"
)

// markerPrefix introduces every generated-block delimiter. HTML comments
// stay invisible in Obsidian's preview mode.
const markerPrefix = "<!-- hansei:"

// canonicalOrder positions a block relative to its siblings when it has
// to be inserted into a note for the first time.
var canonicalOrder = map[BlockKind]int{
	BlockReflection: 1,
	BlockFeedback:   2,
	BlockActions:    3,
	BlockArticle:    4,
}

// BeginMarker returns the opening delimiter line for a block kind.
func BeginMarker(kind BlockKind) string {
	return fmt.Sprintf("%sbegin %s -->", markerPrefix, kind)
}

// EndMarker returns the closing delimiter line for a block kind.
func EndMarker(kind BlockKind) string {
	return fmt.Sprintf("%send %s -->", markerPrefix, kind)
}

// segment is one region of a parsed note: either manual text the
// automation never touches, or a generated block addressed by kind.
type segment struct {
	kind BlockKind // empty for manual text
	text string    // manual: verbatim lines; block: interior content
}

// Note is a daily note parsed into an ordered list of typed segments.
// All merge operations happen on this structure; the flat document is
// only reconstructed by Render. Re-merging identical inputs yields
// byte-identical output.
type Note struct {
	segments []segment
}

// ParseNote parses a note document into typed segments. Marker problems
// (begin without end, end without begin, duplicated or unrecognised
// markers) fail with ErrMalformedMarkers: the merger must not guess
// where manual content ends.
func ParseNote(content string) (*Note, error) {
	n := &Note{}
	if content == "" {
		return n, nil
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	var (
		manual     []string
		block      []string
		current    BlockKind
		afterBlock bool
		seen       = map[BlockKind]bool{}
	)

	flushManual := func() {
		if len(manual) > 0 {
			n.segments = append(n.segments, segment{text: strings.Join(manual, "\n")})
			manual = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, markerPrefix) {
			if current != "" {
				block = append(block, line)
				continue
			}
			// A single blank line directly after a block is the
			// structural separator Render emits, not manual content.
			if afterBlock && line == "" && len(manual) == 0 {
				afterBlock = false
				continue
			}
			afterBlock = false
			manual = append(manual, line)
			continue
		}

		kind, begin, ok := parseMarker(trimmed)
		switch {
		case !ok:
			return nil, fmt.Errorf("%w: unrecognised marker %q", ErrMalformedMarkers, trimmed)
		case begin && current != "":
			return nil, fmt.Errorf("%w: %q opened inside unclosed %q block", ErrMalformedMarkers, kind, current)
		case begin && seen[kind]:
			return nil, fmt.Errorf("%w: duplicate %q block", ErrMalformedMarkers, kind)
		case begin:
			// A single blank line before a block is a structural
			// separator, not manual content.
			if len(manual) > 0 && manual[len(manual)-1] == "" {
				manual = manual[:len(manual)-1]
			}
			flushManual()
			current = kind
			seen[kind] = true
			block = nil
		case current == "":
			return nil, fmt.Errorf("%w: %q closed but never opened", ErrMalformedMarkers, kind)
		case kind != current:
			return nil, fmt.Errorf("%w: %q closed while %q is open", ErrMalformedMarkers, kind, current)
		default:
			n.segments = append(n.segments, segment{kind: kind, text: strings.Join(block, "\n")})
			current = ""
			block = nil
			afterBlock = true
		}
	}

	if current != "" {
		return nil, fmt.Errorf("%w: %q block is never closed", ErrMalformedMarkers, current)
	}
	flushManual()
	return n, nil
}

// parseMarker decodes a marker line into its kind and direction.
func parseMarker(line string) (kind BlockKind, begin bool, ok bool) {
	if !strings.HasSuffix(line, " -->") {
		return "", false, false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, markerPrefix), " -->")
	verb, name, found := strings.Cut(body, " ")
	if !found {
		return "", false, false
	}
	k := BlockKind(name)
	if _, known := canonicalOrder[k]; !known {
		return "", false, false
	}
	switch verb {
	case "begin":
		return k, true, true
	case "end":
		return k, false, true
	default:
		return "", false, false
	}
}

// Block returns the interior content of a generated block, if present.
func (n *Note) Block(kind BlockKind) (string, bool) {
	for _, seg := range n.segments {
		if seg.kind == kind {
			return seg.text, true
		}
	}
	return "", false
}

// SetBlock replaces the content of an existing block, or inserts a new
// block at its canonical position: after every block that canonically
// precedes it and before every block that follows it, otherwise at the
// end of the document. Manual segments are never moved or rewritten.
func (n *Note) SetBlock(kind BlockKind, content string) {
	content = strings.TrimRight(content, " \t\n")
	for i, seg := range n.segments {
		if seg.kind == kind {
			n.segments[i].text = content
			return
		}
	}

	idx := len(n.segments)
	for i, seg := range n.segments {
		if seg.kind != "" && canonicalOrder[seg.kind] > canonicalOrder[kind] {
			idx = i
			break
		}
	}

	n.segments = append(n.segments, segment{})
	copy(n.segments[idx+1:], n.segments[idx:])
	n.segments[idx] = segment{kind: kind, text: content}
}

// Prepend inserts manual text at the top of the note. Used to seed a
// title line when the note did not exist before the run.
func (n *Note) Prepend(text string) {
	text = strings.TrimRight(text, "\n")
	n.segments = append([]segment{{text: text}}, n.segments...)
}

// Empty reports whether the note has no content at all.
func (n *Note) Empty() bool {
	return len(n.segments) == 0
}

// Render serialises the note back to its flat document form. Manual
// segments are emitted verbatim; generated blocks are wrapped in their
// begin/end markers and separated from neighbours by one blank line.
func (n *Note) Render() string {
	if len(n.segments) == 0 {
		return ""
	}
	parts := make([]string, len(n.segments))
	for i, seg := range n.segments {
		if seg.kind == "" {
			parts[i] = seg.text
			continue
		}
		if seg.text == "" {
			parts[i] = BeginMarker(seg.kind) + "\n" + EndMarker(seg.kind)
		} else {
			parts[i] = BeginMarker(seg.kind) + "\n" + seg.text + "\n" + EndMarker(seg.kind)
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}
