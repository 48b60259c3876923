package server

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"asp-intel/internal/index"
	"asp-intel/internal/textpos"
	"asp-intel/internal/vbs"
)

func toProtocolPosition(p textpos.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(p.Line),
		Character: protocol.UInteger(p.Character),
	}
}

func fromProtocolPosition(p protocol.Position) textpos.Position {
	return textpos.Position{Line: int(p.Line), Character: int(p.Character)}
}

func toProtocolRange(r textpos.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}

// Symbol kinds already carry LSP numbering; unknown values degrade to
// Variable rather than confusing the client.
func toProtocolKind(k vbs.Kind) protocol.SymbolKind {
	switch k {
	case vbs.KindFile, vbs.KindClass, vbs.KindProperty, vbs.KindFunction:
		return protocol.SymbolKind(k)
	}
	return protocol.SymbolKindVariable
}

func toDocumentSymbol(sym vbs.Symbol) protocol.DocumentSymbol {
	out := protocol.DocumentSymbol{
		Name:           sym.Name,
		Kind:           toProtocolKind(sym.Kind),
		Range:          toProtocolRange(sym.Range),
		SelectionRange: toProtocolRange(sym.SelectionRange),
	}
	for _, child := range sym.Children {
		out.Children = append(out.Children, toDocumentSymbol(child))
	}
	return out
}

func definitionLocation(def index.IndexedSymbol) protocol.Location {
	return protocol.Location{
		URI: def.URI,
		Range: protocol.Range{
			Start: protocol.Position{
				Line:      protocol.UInteger(def.StartLine),
				Character: protocol.UInteger(def.StartCharacter),
			},
			End: protocol.Position{
				Line:      protocol.UInteger(def.EndLine),
				Character: protocol.UInteger(def.EndCharacter),
			},
		},
	}
}

func toSymbolInformation(sym index.IndexedSymbol) protocol.SymbolInformation {
	info := protocol.SymbolInformation{
		Name:     sym.Name,
		Kind:     toProtocolKind(sym.Kind),
		Location: definitionLocation(sym),
	}
	if sym.ContainerName != "" {
		container := sym.ContainerName
		info.ContainerName = &container
	}
	return info
}
