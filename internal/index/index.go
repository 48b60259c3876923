package index

import (
	"strings"

	"asp-intel/internal/vbs"
)

// IndexedSymbol is one definition in flat, queryable form. Class members
// are indexed at the top level with ContainerName naming their class.
type IndexedSymbol struct {
	Name           string
	Kind           vbs.Kind
	URI            string
	StartLine      int
	StartCharacter int
	EndLine        int
	EndCharacter   int
	ContainerName  string
}

// SymbolIndex tracks definitions across the workspace, with the reference
// tracker and a content store riding along so one Update call keeps all
// three views consistent.
type SymbolIndex struct {
	byURI  map[string][]IndexedSymbol
	byName map[string][]IndexedSymbol
	refs   *ReferenceTracker
	store  *contentStore
}

func New() *SymbolIndex {
	return &SymbolIndex{
		byURI:  make(map[string][]IndexedSymbol),
		byName: make(map[string][]IndexedSymbol),
		refs:   NewReferenceTracker(),
		store:  newContentStore(),
	}
}

// UpToDate reports whether the stored content for uri already matches
// content, by hash. Callers use it to skip the whole reparse pipeline on
// no-op change events.
func (x *SymbolIndex) UpToDate(uri, content string) bool {
	return x.store.upToDate(uri, content)
}

// Update replaces everything indexed for uri: the flattened symbols, the
// references, and the stored content.
func (x *SymbolIndex) Update(uri, content string, symbols []vbs.Symbol) {
	x.Remove(uri)

	flat := flattenSymbols(uri, symbols, "")
	x.byURI[uri] = flat
	for _, sym := range flat {
		key := strings.ToLower(sym.Name)
		x.byName[key] = append(x.byName[key], sym)
	}

	x.refs.Update(uri, content, symbols)
	x.store.set(uri, content)
}

// Remove purges uri from every view of the index.
func (x *SymbolIndex) Remove(uri string) {
	x.refs.Remove(uri)
	x.store.remove(uri)

	symbols, ok := x.byURI[uri]
	if !ok {
		return
	}
	for _, sym := range symbols {
		key := strings.ToLower(sym.Name)
		bucket := x.byName[key]
		kept := bucket[:0]
		for _, s := range bucket {
			if s.URI != uri {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(x.byName, key)
		} else {
			x.byName[key] = kept
		}
	}
	delete(x.byURI, uri)
}

// FindDefinition returns the first definition recorded under name,
// case-insensitively, across the whole workspace.
func (x *SymbolIndex) FindDefinition(name string) (IndexedSymbol, bool) {
	bucket := x.byName[strings.ToLower(name)]
	if len(bucket) == 0 {
		return IndexedSymbol{}, false
	}
	return bucket[0], true
}

// FindDefinitionInScope returns the first definition of name within the
// given URIs. An empty scope finds nothing, by contract.
func (x *SymbolIndex) FindDefinitionInScope(name string, scopeURIs []string) (IndexedSymbol, bool) {
	if len(scopeURIs) == 0 {
		return IndexedSymbol{}, false
	}
	scope := make(map[string]struct{}, len(scopeURIs))
	for _, u := range scopeURIs {
		scope[u] = struct{}{}
	}
	for _, sym := range x.byName[strings.ToLower(name)] {
		if _, ok := scope[sym.URI]; ok {
			return sym, true
		}
	}
	return IndexedSymbol{}, false
}

// FindDefinitionsInScope returns every definition of name within the given
// URIs, preserving index order.
func (x *SymbolIndex) FindDefinitionsInScope(name string, scopeURIs []string) []IndexedSymbol {
	if len(scopeURIs) == 0 {
		return nil
	}
	scope := make(map[string]struct{}, len(scopeURIs))
	for _, u := range scopeURIs {
		scope[u] = struct{}{}
	}
	var out []IndexedSymbol
	for _, sym := range x.byName[strings.ToLower(name)] {
		if _, ok := scope[sym.URI]; ok {
			out = append(out, sym)
		}
	}
	return out
}

// FindReferences projects the tracker's occurrences of name to locations.
func (x *SymbolIndex) FindReferences(name string, includeDeclaration bool) []Location {
	refs := x.refs.FindReferences(name, includeDeclaration)
	if len(refs) == 0 {
		return nil
	}
	locations := make([]Location, len(refs))
	for i, ref := range refs {
		locations[i] = Location{URI: ref.URI, Range: ref.Range}
	}
	return locations
}

// SymbolsInDocument returns the flat symbols indexed for uri.
func (x *SymbolIndex) SymbolsInDocument(uri string) []IndexedSymbol {
	return x.byURI[uri]
}

// DocumentContent returns the stored content for uri, if indexed.
func (x *SymbolIndex) DocumentContent(uri string) (string, bool) {
	return x.store.content(uri)
}

// AllNames returns every lowercased symbol name currently indexed.
func (x *SymbolIndex) AllNames() []string {
	names := make([]string, 0, len(x.byName))
	for name := range x.byName {
		names = append(names, name)
	}
	return names
}

// SymbolsByName returns the bucket for a lowercased name, for tooling that
// wants all same-named definitions regardless of scope.
func (x *SymbolIndex) SymbolsByName(name string) []IndexedSymbol {
	return append([]IndexedSymbol(nil), x.byName[strings.ToLower(name)]...)
}

func flattenSymbols(uri string, symbols []vbs.Symbol, container string) []IndexedSymbol {
	var out []IndexedSymbol
	for _, s := range symbols {
		out = append(out, IndexedSymbol{
			Name:           s.Name,
			Kind:           s.Kind,
			URI:            uri,
			StartLine:      s.Range.Start.Line,
			StartCharacter: s.Range.Start.Character,
			EndLine:        s.Range.End.Line,
			EndCharacter:   s.Range.End.Character,
			ContainerName:  container,
		})
		if len(s.Children) > 0 {
			out = append(out, flattenSymbols(uri, s.Children, s.Name)...)
		}
	}
	return out
}
