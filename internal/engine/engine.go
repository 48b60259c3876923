// Package engine runs the per-document analysis pipeline and answers the
// editor-level questions: outline, go to definition, find references.
//
// The pipeline for every content change is extract → parse → resolve
// includes → update graph → update index, always as a full reparse.
// A content hash short-circuits no-op changes before any of that runs.
//
// One mutex serializes all mutation and query; the core structures are
// single-threaded by design and the engine is their concurrency boundary.
package engine

import (
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"asp-intel/internal/asp"
	"asp-intel/internal/graph"
	"asp-intel/internal/index"
	"asp-intel/internal/textpos"
	"asp-intel/internal/vbs"
)

// Engine owns one graph and one index per workspace session.
type Engine struct {
	mu       sync.Mutex
	root     string
	includes *asp.IncludeParser
	graph    *graph.IncludeGraph
	index    *index.SymbolIndex
	trees    map[string][]vbs.Symbol
	log      commonlog.Logger
}

// New creates an engine for a workspace. workspaceRoot anchors virtual
// include resolution; empty means virtual includes stay unresolved.
func New(workspaceRoot string) *Engine {
	return &Engine{
		root:     workspaceRoot,
		includes: asp.NewIncludeParser(workspaceRoot),
		graph:    graph.New(),
		index:    index.New(),
		trees:    make(map[string][]vbs.Symbol),
		log:      commonlog.GetLogger("asp-intel.engine"),
	}
}

// UpdateDocument reindexes one document from its full text and returns the
// URIs whose workspace view may have shifted. A content-identical update
// returns nil without reparsing.
func (e *Engine) UpdateDocument(uri, content string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.index.UpToDate(uri, content) {
		e.log.Debugf("unchanged, skipping reindex: %s", uri)
		return nil
	}
	if changed, ok := e.index.ChangeSummary(uri, content); ok {
		e.log.Debugf("reindexing %s (%d changed lines)", uri, changed)
	}

	symbols := vbs.ParseDocument(content, uri)
	directives := e.includes.ExtractIncludes(content, uri)
	affected := e.graph.Update(uri, directives)
	e.index.Update(uri, content, symbols)
	e.trees[uri] = symbols

	if e.graph.HasCycle(uri) {
		e.log.Warningf("circular include reachable from %s", uri)
	}
	return affected
}

// RemoveDocument drops a document from every structure and returns the
// URIs affected by the removal.
func (e *Engine) RemoveDocument(uri string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	affected := e.graph.Remove(uri)
	e.index.Remove(uri)
	delete(e.trees, uri)
	return affected
}

// HasDocument reports whether uri has been indexed.
func (e *Engine) HasDocument(uri string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.index.DocumentContent(uri)
	return ok
}

// Outline returns the symbol tree of a document with its include
// directives woven in as synthetic file entries, sorted by position.
// Unresolvable directives are flagged in the display name so the problem
// is visible right in the outline.
func (e *Engine) Outline(uri string) []vbs.Symbol {
	e.mu.Lock()
	defer e.mu.Unlock()

	outline := append([]vbs.Symbol(nil), e.trees[uri]...)
	for _, d := range e.graph.Directives(uri) {
		name := "#include " + string(d.Type) + "=\"" + d.RawPath + "\""
		if !d.Valid {
			name += " [unresolved]"
		}
		outline = append(outline, vbs.Symbol{
			Name:           name,
			Kind:           vbs.KindFile,
			Range:          d.Range,
			SelectionRange: d.Range,
		})
	}
	sort.SliceStable(outline, func(i, j int) bool {
		a, b := outline[i].Range.Start, outline[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
	return outline
}

// Definitions resolves the symbol under pos with widening scope: the
// document itself, then everything it transitively includes, then
// everything that transitively includes it, and finally the whole
// workspace. Within the first scope that matches, all same-named
// definitions are returned.
func (e *Engine) Definitions(uri string, pos textpos.Position) []index.IndexedSymbol {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := e.wordAt(uri, pos)
	if name == "" || vbs.IsReservedWord(name) {
		return nil
	}

	scopes := [][]string{
		{uri},
		e.graph.TransitiveIncludes(uri),
		e.graph.TransitiveIncluders(uri),
	}
	for _, scope := range scopes {
		if symbols := e.index.FindDefinitionsInScope(name, scope); len(symbols) > 0 {
			return symbols
		}
	}
	if sym, ok := e.index.FindDefinition(name); ok {
		return []index.IndexedSymbol{sym}
	}
	return nil
}

// References returns the occurrences of the symbol under pos, scoped to
// the documents that can actually see it under the flat-inclusion model:
// the document itself plus its transitive includers.
func (e *Engine) References(uri string, pos textpos.Position, includeDeclaration bool) []index.Location {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := e.wordAt(uri, pos)
	if name == "" || vbs.IsReservedWord(name) {
		return nil
	}

	scope := map[string]struct{}{uri: {}}
	for _, includer := range e.graph.TransitiveIncluders(uri) {
		scope[includer] = struct{}{}
	}

	var out []index.Location
	for _, loc := range e.index.FindReferences(name, includeDeclaration) {
		if _, ok := scope[loc.URI]; ok {
			out = append(out, loc)
		}
	}
	return out
}

// DocumentContent returns the last indexed text of uri.
func (e *Engine) DocumentContent(uri string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.DocumentContent(uri)
}

// Suggestions returns near-miss symbol names for a failed lookup.
func (e *Engine) Suggestions(name string, max int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Suggest(name, max)
}

// WorkspaceSymbols returns every indexed definition whose name contains
// query, case-insensitively; an empty query matches everything. When the
// substring pass finds nothing, near-miss names are tried so a slightly
// misspelled query still surfaces the intended symbols. Output is ordered
// by URI then position so results are stable across calls.
func (e *Engine) WorkspaceSymbols(query string) []index.IndexedSymbol {
	e.mu.Lock()
	defer e.mu.Unlock()

	q := strings.ToLower(query)
	var out []index.IndexedSymbol
	for _, name := range e.index.AllNames() {
		if q != "" && !strings.Contains(name, q) {
			continue
		}
		out = append(out, e.index.SymbolsByName(name)...)
	}
	if len(out) == 0 && q != "" {
		for _, name := range e.index.Suggest(query, 5) {
			out = append(out, e.index.SymbolsByName(name)...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].URI != out[j].URI {
			return out[i].URI < out[j].URI
		}
		if out[i].StartLine != out[j].StartLine {
			return out[i].StartLine < out[j].StartLine
		}
		return out[i].StartCharacter < out[j].StartCharacter
	})
	return out
}

// IncludeInfo is the graph's view of one document, for diagnostics output.
type IncludeInfo struct {
	Direct     []string
	Transitive []string
	Includers  []string
	Directives []asp.IncludeDirective
	HasCycle   bool
}

func (e *Engine) Includes(uri string) IncludeInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return IncludeInfo{
		Direct:     e.graph.DirectIncludes(uri),
		Transitive: e.graph.TransitiveIncludes(uri),
		Includers:  e.graph.TransitiveIncluders(uri),
		Directives: e.graph.Directives(uri),
		HasCycle:   e.graph.HasCycle(uri),
	}
}

// wordAt finds the identifier covering pos in the stored content of uri.
// A cursor at the end of a token still hits it. Callers hold the mutex.
func (e *Engine) wordAt(uri string, pos textpos.Position) string {
	content, ok := e.index.DocumentContent(uri)
	if !ok {
		return ""
	}
	return WordAt(content, pos)
}

// WordAt extracts the identifier at pos in content, or "" when pos does
// not touch one.
func WordAt(content string, pos textpos.Position) string {
	lines := strings.Split(content, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	for _, m := range identifierPattern.FindAllStringIndex(line, -1) {
		if m[0] <= pos.Character && pos.Character <= m[1] {
			return line[m[0]:m[1]]
		}
	}
	return ""
}
