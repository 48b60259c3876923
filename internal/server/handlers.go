package server

import (
	"os"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"asp-intel/internal/engine"
	"asp-intel/internal/fileuri"
	"asp-intel/internal/textpos"
	"asp-intel/internal/workspace"
)

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	root := s.workspaceRoot(params)
	s.engine = engine.New(s.cfg.VirtualRootFor(root))
	s.log.Infof("initializing for workspace %s", root)

	// Index the whole workspace up front so cross-file navigation works
	// before the client has opened anything.
	scanner := workspace.NewScanner(root, s.cfg)
	files, err := scanner.Scan()
	if err != nil {
		s.log.Errorf("workspace scan failed: %s", err.Error())
	} else {
		for _, f := range files {
			s.engine.UpdateDocument(f.URI, f.Content)
		}
		s.log.Infof("indexed %d documents", len(files))
	}

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) workspaceRoot(params *protocol.InitializeParams) string {
	if params.RootURI != nil {
		if path, err := fileuri.ToPath(*params.RootURI); err == nil {
			return path
		}
	}
	if params.RootPath != nil {
		return *params.RootPath
	}
	if len(params.WorkspaceFolders) > 0 {
		if path, err := fileuri.ToPath(params.WorkspaceFolders[0].URI); err == nil {
			return path
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Info("server ready")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.engine.UpdateDocument(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			s.engine.UpdateDocument(uri, c.Text)
		case protocol.TextDocumentContentChangeEvent:
			// Full sync is advertised, but a client sending ranged edits
			// anyway gets them applied rather than dropped.
			s.engine.UpdateDocument(uri, s.applyChange(uri, c))
		}
	}
	return nil
}

// applyChange splices a ranged edit into the stored content. Without
// stored content or a range there is nothing to splice and the event text
// is the document.
func (s *Server) applyChange(uri string, c protocol.TextDocumentContentChangeEvent) string {
	current, ok := s.engine.DocumentContent(uri)
	if !ok || c.Range == nil {
		return c.Text
	}
	start := offsetFor(current, fromProtocolPosition(c.Range.Start))
	end := offsetFor(current, fromProtocolPosition(c.Range.End))
	if end < start {
		end = start
	}
	return current[:start] + c.Text + current[end:]
}

func offsetFor(content string, pos textpos.Position) int {
	ix := textpos.NewLineIndex(content)
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(ix) {
		return len(content)
	}
	off := ix[pos.Line] + pos.Character
	if off > len(content) {
		off = len(content)
	}
	return off
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	// Closing a tab does not remove the file from the workspace; keep the
	// index so other documents still resolve into it.
	return nil
}

func (s *Server) documentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	outline := s.engine.Outline(params.TextDocument.URI)
	symbols := make([]protocol.DocumentSymbol, 0, len(outline))
	for _, sym := range outline {
		symbols = append(symbols, toDocumentSymbol(sym))
	}
	return symbols, nil
}

func (s *Server) definition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	defs := s.engine.Definitions(params.TextDocument.URI, fromProtocolPosition(params.Position))
	if len(defs) == 0 {
		return nil, nil
	}
	locations := make([]protocol.Location, len(defs))
	for i, def := range defs {
		locations[i] = definitionLocation(def)
	}
	return locations, nil
}

func (s *Server) references(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	refs := s.engine.References(
		params.TextDocument.URI,
		fromProtocolPosition(params.Position),
		params.Context.IncludeDeclaration,
	)
	locations := make([]protocol.Location, len(refs))
	for i, ref := range refs {
		locations[i] = protocol.Location{URI: ref.URI, Range: toProtocolRange(ref.Range)}
	}
	return locations, nil
}

func (s *Server) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	matches := s.engine.WorkspaceSymbols(params.Query)
	infos := make([]protocol.SymbolInformation, len(matches))
	for i, sym := range matches {
		infos[i] = toSymbolInformation(sym)
	}
	return infos, nil
}
