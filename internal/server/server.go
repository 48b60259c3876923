// Package server exposes the engine over the Language Server Protocol on
// stdio. Documents sync with full text; every change runs the engine's
// reparse pipeline, which is cheap at the file sizes this dialect sees.
package server

import (
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserv "github.com/tliron/glsp/server"

	"asp-intel/internal/config"
	"asp-intel/internal/engine"
)

const serverName = "asp-intel"

// Server holds the per-session state. The engine is created at initialize
// time, once the client has told us where the workspace is.
type Server struct {
	version string
	cfg     *config.Config
	handler protocol.Handler
	engine  *engine.Engine
	log     commonlog.Logger
}

func New(cfg *config.Config, version string) *Server {
	s := &Server{
		version: version,
		cfg:     cfg,
		log:     commonlog.GetLogger("asp-intel.server"),
	}
	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.didOpen,
		TextDocumentDidChange:      s.didChange,
		TextDocumentDidClose:       s.didClose,
		TextDocumentDocumentSymbol: s.documentSymbol,
		TextDocumentDefinition:     s.definition,
		TextDocumentReferences:     s.references,
		WorkspaceSymbol:            s.workspaceSymbol,
	}
	return s
}

// RunStdio serves LSP over stdin/stdout until the client disconnects.
func (s *Server) RunStdio() error {
	srv := glspserv.NewServer(&s.handler, serverName, false)
	return srv.RunStdio()
}
