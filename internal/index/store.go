package index

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pmezard/go-difflib/difflib"
)

// contentStore keeps the last indexed text of every document, hashed for
// cheap equality. The hash is what lets a no-op didChange skip reparsing.
type contentStore struct {
	entries map[string]storeEntry
}

type storeEntry struct {
	content string
	hash    uint64
	lines   int
}

func newContentStore() *contentStore {
	return &contentStore{entries: make(map[string]storeEntry)}
}

func (s *contentStore) set(uri, content string) {
	s.entries[uri] = storeEntry{
		content: content,
		hash:    xxhash.Sum64String(content),
		lines:   strings.Count(content, "\n") + 1,
	}
}

func (s *contentStore) remove(uri string) {
	delete(s.entries, uri)
}

func (s *contentStore) content(uri string) (string, bool) {
	e, ok := s.entries[uri]
	return e.content, ok
}

func (s *contentStore) upToDate(uri, content string) bool {
	e, ok := s.entries[uri]
	return ok && e.hash == xxhash.Sum64String(content) && e.content == content
}

// ChangeSummary describes how uri's stored content differs from next, as a
// count of changed lines, for debug logging around re-index decisions.
// Returns 0 and false when uri was never stored.
func (x *SymbolIndex) ChangeSummary(uri, next string) (int, bool) {
	e, ok := x.store.entries[uri]
	if !ok {
		return 0, false
	}
	diff := difflib.UnifiedDiff{
		A: difflib.SplitLines(e.content),
		B: difflib.SplitLines(next),
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return 0, false
	}
	changed := 0
	for _, line := range strings.Split(text, "\n") {
		if len(line) == 0 {
			continue
		}
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			continue
		}
		if line[0] == '+' || line[0] == '-' {
			changed++
		}
	}
	return changed, true
}
