// Package vbs extracts VBScript symbols with ordered, case-insensitive
// regex recognizers. There is no grammar for the language worth the name;
// lexical recovery over raw text is the contract here.
//
// Design goals:
//   - Line-anchored patterns ([ \t]* leading, never \s*, so a recognizer
//     cannot swallow a newline and misreport its line)
//   - Degraded output over failure: unterminated bodies collapse to their
//     declaration line, malformed lines simply do not match
//   - Deterministic order: symbols sorted by start position
package vbs

import "asp-intel/internal/textpos"

// Kind identifies what a symbol is. Values follow the LSP SymbolKind
// numbering so the server layer converts without a table.
type Kind int

const (
	KindFile     Kind = 1
	KindClass    Kind = 5
	KindProperty Kind = 7
	KindFunction Kind = 12
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindClass:
		return "class"
	case KindProperty:
		return "property"
	case KindFunction:
		return "function"
	}
	return "unknown"
}

// Symbol is one recovered definition. Range spans the declaration through
// its matching End line; SelectionRange covers just the name. Both Sub and
// Function report KindFunction: VBScript's split is about return values,
// not about what kind of thing the name denotes.
type Symbol struct {
	Name           string
	Kind           Kind
	Range          textpos.Range
	SelectionRange textpos.Range
	Children       []Symbol
}
