// Package textpos provides zero-indexed text positions and the offset
// arithmetic shared by the extractor, the parsers and the indexes.
//
// Design goals:
//   - Zero external dependencies (pure integer math over the source text)
//   - Line/character pairs match editor conventions: both start at 0
//   - Two lookup strategies: a linear scan for one-off conversions and a
//     precomputed line-start index with binary search for batch conversions
package textpos

import "sort"

// Position is a zero-indexed line/character pair.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open [Start, End) span in a document.
type Range struct {
	Start Position
	End   Position
}

// FromOffset converts a byte offset into a Position with a single scan of
// the prefix. Offsets past the end of content clamp to the final position.
func FromOffset(content string, offset int) Position {
	if offset > len(content) {
		offset = len(content)
	}
	line := 0
	lineStart := 0
	for i := 0; i < offset; i++ {
		if content[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return Position{Line: line, Character: offset - lineStart}
}

// LineIndex holds the byte offset of the start of every line, for repeated
// offset conversions over the same content.
type LineIndex []int

// NewLineIndex scans content once and records each line-start offset.
// Line 0 always starts at offset 0, even for empty content.
func NewLineIndex(content string) LineIndex {
	starts := LineIndex{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Position converts a byte offset using binary search over the line starts.
func (ix LineIndex) Position(offset int) Position {
	line := sort.Search(len(ix), func(i int) bool { return ix[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Position{Line: line, Character: offset - ix[line]}
}
