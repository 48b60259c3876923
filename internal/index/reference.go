// Package index holds the workspace-wide symbol and reference indexes.
// Everything is keyed case-insensitively: VBScript does not distinguish
// GetValue from GETVALUE, so the by-name maps use lowercased keys while
// entries keep the spelling the author wrote.
//
// Design goals:
//   - Updates are purge-then-insert: no stale entries survive a re-index
//   - Lexical honesty: comments and string literals never produce
//     references, reserved words are filtered
//   - The index stays log-free and returns data; callers decide what a
//     miss means
package index

import "asp-intel/internal/textpos"

// Reference is one identifier occurrence in a document. IsDefinition marks
// occurrences on a definition line of the same name. ContainerName is
// reserved for enclosing-symbol attribution; nothing populates it yet.
type Reference struct {
	Name          string
	URI           string
	Range         textpos.Range
	IsDefinition  bool
	ContainerName string
}

// Location pairs a URI with a range, the shape reference results project to.
type Location struct {
	URI   string
	Range textpos.Range
}
