package index

import (
	"regexp"
	"strings"

	"asp-intel/internal/textpos"
	"asp-intel/internal/vbs"
)

// Identifiers start with a letter or underscore. \b keeps a match from
// starting mid-token.
var reIdentifier = regexp.MustCompile(`\b([a-zA-Z_][a-zA-Z0-9_]*)\b`)

// ReferenceTracker records every identifier occurrence per document, with
// comment and string spans excluded. Two indexes: by URI for purging, by
// lowercased name for lookup.
type ReferenceTracker struct {
	byURI  map[string][]Reference
	byName map[string][]Reference
	// lowercased names defined per document, for scope-aware callers
	definedByURI map[string]map[string]struct{}
}

func NewReferenceTracker() *ReferenceTracker {
	return &ReferenceTracker{
		byURI:        make(map[string][]Reference),
		byName:       make(map[string][]Reference),
		definedByURI: make(map[string]map[string]struct{}),
	}
}

// Update replaces the references recorded for uri. symbols supplies the
// definition lines; an identifier on the declaration line of a same-named
// symbol is classified as a definition.
func (t *ReferenceTracker) Update(uri, content string, symbols []vbs.Symbol) {
	t.Remove(uri)

	defined := make(map[string]struct{})
	collectNames(symbols, defined)
	t.definedByURI[uri] = defined

	defLines := make(map[lineName]struct{})
	collectDefinitionLines(symbols, defLines)

	var references []Reference
	for lineNum, line := range strings.Split(content, "\n") {
		references = append(references, extractLineReferences(uri, line, lineNum, defLines)...)
	}

	t.byURI[uri] = references
	for _, ref := range references {
		key := strings.ToLower(ref.Name)
		t.byName[key] = append(t.byName[key], ref)
	}
}

// Remove purges every reference uri contributed, including its by-name
// entries; emptied name buckets are deleted.
func (t *ReferenceTracker) Remove(uri string) {
	refs, ok := t.byURI[uri]
	if !ok {
		return
	}
	for _, ref := range refs {
		key := strings.ToLower(ref.Name)
		bucket := t.byName[key]
		kept := bucket[:0]
		for _, r := range bucket {
			if r.URI != uri {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(t.byName, key)
		} else {
			t.byName[key] = kept
		}
	}
	delete(t.byURI, uri)
	delete(t.definedByURI, uri)
}

// FindReferences returns every recorded occurrence of name, across all
// documents, case-insensitively. Definitions are filtered out unless
// includeDeclaration is set.
func (t *ReferenceTracker) FindReferences(name string, includeDeclaration bool) []Reference {
	bucket := t.byName[strings.ToLower(name)]
	if includeDeclaration {
		return append([]Reference(nil), bucket...)
	}
	var refs []Reference
	for _, r := range bucket {
		if !r.IsDefinition {
			refs = append(refs, r)
		}
	}
	return refs
}

// DefinedNames reports the lowercased symbol names defined in uri.
func (t *ReferenceTracker) DefinedNames(uri string) map[string]struct{} {
	return t.definedByURI[uri]
}

type lineName struct {
	line int
	name string
}

func collectNames(symbols []vbs.Symbol, names map[string]struct{}) {
	for _, s := range symbols {
		names[strings.ToLower(s.Name)] = struct{}{}
		collectNames(s.Children, names)
	}
}

func collectDefinitionLines(symbols []vbs.Symbol, out map[lineName]struct{}) {
	for _, s := range symbols {
		out[lineName{s.Range.Start.Line, strings.ToLower(s.Name)}] = struct{}{}
		collectDefinitionLines(s.Children, out)
	}
}

// --- line scanning ---

func extractLineReferences(uri, line string, lineNum int, defLines map[lineName]struct{}) []Reference {
	var references []Reference

	commentStart := findCommentStart(line)
	stringRanges := findStringRanges(line, commentStart)

	for _, m := range reIdentifier.FindAllStringIndex(line, -1) {
		start, end := m[0], m[1]
		if commentStart >= 0 && start >= commentStart {
			continue
		}
		if inRanges(start, stringRanges) {
			continue
		}
		identifier := line[start:end]
		if vbs.IsReservedWord(identifier) {
			continue
		}
		_, isDef := defLines[lineName{lineNum, strings.ToLower(identifier)}]
		references = append(references, Reference{
			Name: identifier,
			URI:  uri,
			Range: textpos.Range{
				Start: textpos.Position{Line: lineNum, Character: start},
				End:   textpos.Position{Line: lineNum, Character: end},
			},
			IsDefinition: isDef,
		})
	}
	return references
}

// findCommentStart locates an unquoted ' or word-bounded REM, whichever
// comes first. Returns -1 when the line has no comment. The REM boundary
// test is alphanumeric-only, so an underscore counts as a boundary.
func findCommentStart(line string) int {
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			inString = !inString
		} else if c == '\'' && !inString {
			return i
		} else if !inString && i+3 <= len(line) {
			wordStart := i == 0 || !isAlnum(line[i-1])
			if wordStart && equalFoldREM(line[i:i+3]) {
				wordEnd := i+3 >= len(line) || !isAlnum(line[i+3])
				if wordEnd {
					return i
				}
			}
		}
	}
	return -1
}

func equalFoldREM(s string) bool {
	return (s[0] == 'r' || s[0] == 'R') && (s[1] == 'e' || s[1] == 'E') && (s[2] == 'm' || s[2] == 'M')
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// findStringRanges returns the [start, end) spans of string literals before
// the comment, with "" treated as an escaped quote inside a string.
func findStringRanges(line string, commentStart int) [][2]int {
	effective := line
	if commentStart >= 0 {
		effective = line[:commentStart]
	}

	var ranges [][2]int
	inString := false
	stringStart := 0
	for i := 0; i < len(effective); i++ {
		if effective[i] != '"' {
			continue
		}
		if inString {
			if i+1 < len(effective) && effective[i+1] == '"' {
				i++
				continue
			}
			ranges = append(ranges, [2]int{stringStart, i + 1})
			inString = false
		} else {
			stringStart = i
			inString = true
		}
	}
	return ranges
}

func inRanges(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if r[0] <= pos && pos < r[1] {
			return true
		}
	}
	return false
}
