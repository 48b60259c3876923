// Package graph tracks include relationships between ASP documents as a
// directed graph. Include directives are the only cross-file mechanism in
// the dialect, so this graph is the whole story of workspace visibility.
//
// Design goals:
//   - Forward and reverse adjacency kept in lockstep, purged together
//   - All directives retained, valid or not, for outline display
//   - Traversals total on cyclic graphs (visited sets, never depth limits)
//   - Deterministic order: edges appear in directive order, affected lists
//     preserve first-seen order
package graph

import "asp-intel/internal/asp"

// Edge is one resolved include relationship. The directive is kept so
// callers can recover the position and raw path behind the edge.
type Edge struct {
	SourceURI string
	TargetURI string
	Directive asp.IncludeDirective
}

// IncludeGraph is a mutable directed graph keyed by document URI.
// Not safe for concurrent use; the engine serializes access.
type IncludeGraph struct {
	edges      map[string][]Edge
	reverse    map[string][]string
	directives map[string][]asp.IncludeDirective
}

func New() *IncludeGraph {
	return &IncludeGraph{
		edges:      make(map[string][]Edge),
		reverse:    make(map[string][]string),
		directives: make(map[string][]asp.IncludeDirective),
	}
}

// Update replaces the outgoing edges of uri with the given directives.
// Invalid directives are stored but produce no edges. The returned list
// holds the URIs whose view of the workspace may have changed: the updated
// document first, then each newly linked target, deduplicated.
func (g *IncludeGraph) Update(uri string, directives []asp.IncludeDirective) []string {
	affected := []string{uri}
	seen := map[string]struct{}{uri: {}}

	g.removeEdgesFrom(uri)
	g.directives[uri] = append([]asp.IncludeDirective(nil), directives...)

	var edges []Edge
	for _, d := range directives {
		if !d.Valid || d.ResolvedURI == "" {
			continue
		}
		edges = append(edges, Edge{SourceURI: uri, TargetURI: d.ResolvedURI, Directive: d})

		if !containsString(g.reverse[d.ResolvedURI], uri) {
			g.reverse[d.ResolvedURI] = append(g.reverse[d.ResolvedURI], uri)
		}
		if _, ok := seen[d.ResolvedURI]; !ok {
			seen[d.ResolvedURI] = struct{}{}
			affected = append(affected, d.ResolvedURI)
		}
	}
	if len(edges) > 0 {
		g.edges[uri] = edges
	}
	return affected
}

// Remove drops a document from the graph entirely: its outgoing edges, its
// stored directives, and its reverse entry. Returns the removed document
// plus its former targets, or nil if the graph never saw the URI.
func (g *IncludeGraph) Remove(uri string) []string {
	_, hasEdges := g.edges[uri]
	_, hasDirectives := g.directives[uri]
	if !hasEdges && !hasDirectives {
		return nil
	}

	affected := []string{uri}
	seen := map[string]struct{}{uri: {}}
	for _, e := range g.edges[uri] {
		if _, ok := seen[e.TargetURI]; !ok {
			seen[e.TargetURI] = struct{}{}
			affected = append(affected, e.TargetURI)
		}
	}

	g.removeEdgesFrom(uri)
	delete(g.directives, uri)
	delete(g.reverse, uri)
	return affected
}

// Clear empties the graph.
func (g *IncludeGraph) Clear() {
	g.edges = make(map[string][]Edge)
	g.reverse = make(map[string][]string)
	g.directives = make(map[string][]asp.IncludeDirective)
}

// DirectIncludes returns the targets uri includes, in directive order.
func (g *IncludeGraph) DirectIncludes(uri string) []string {
	edges := g.edges[uri]
	if len(edges) == 0 {
		return nil
	}
	targets := make([]string, len(edges))
	for i, e := range edges {
		targets[i] = e.TargetURI
	}
	return targets
}

// Includers returns the documents whose directives point at uri.
func (g *IncludeGraph) Includers(uri string) []string {
	return append([]string(nil), g.reverse[uri]...)
}

// Directives returns every stored directive for uri, invalid ones included.
func (g *IncludeGraph) Directives(uri string) []asp.IncludeDirective {
	return append([]asp.IncludeDirective(nil), g.directives[uri]...)
}

// TransitiveIncludes returns every document reachable from uri through
// include edges, in depth-first discovery order. uri itself is excluded,
// even when a cycle leads back to it.
func (g *IncludeGraph) TransitiveIncludes(uri string) []string {
	return g.closure(uri, g.DirectIncludes)
}

// TransitiveIncluders is the reverse closure: every document that reaches
// uri through include edges.
func (g *IncludeGraph) TransitiveIncluders(uri string) []string {
	return g.closure(uri, g.Includers)
}

func (g *IncludeGraph) closure(uri string, next func(string) []string) []string {
	var result []string
	visited := map[string]struct{}{uri: {}}
	var dfs func(string)
	dfs = func(current string) {
		for _, n := range next(current) {
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			result = append(result, n)
			dfs(n)
		}
	}
	dfs(uri)
	return result
}

// HasCycle reports whether any include cycle is reachable from uri.
func (g *IncludeGraph) HasCycle(uri string) bool {
	path := map[string]struct{}{}
	visited := map[string]struct{}{}
	var dfs func(string) bool
	dfs = func(current string) bool {
		if _, onPath := path[current]; onPath {
			return true
		}
		if _, done := visited[current]; done {
			return false
		}
		path[current] = struct{}{}
		visited[current] = struct{}{}
		for _, target := range g.DirectIncludes(current) {
			if dfs(target) {
				return true
			}
		}
		delete(path, current)
		return false
	}
	return dfs(uri)
}

// removeEdgesFrom purges uri's forward edges and scrubs uri out of each
// former target's reverse list, deleting buckets that empty out.
func (g *IncludeGraph) removeEdgesFrom(uri string) {
	edges, ok := g.edges[uri]
	if !ok {
		return
	}
	for _, e := range edges {
		sources := g.reverse[e.TargetURI]
		kept := sources[:0]
		for _, s := range sources {
			if s != uri {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(g.reverse, e.TargetURI)
		} else {
			g.reverse[e.TargetURI] = kept
		}
	}
	delete(g.edges, uri)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
