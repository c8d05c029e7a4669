// Package mcp exposes the conformance engine as MCP tools over stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/tokenlint/pkg/auditlog"
	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/lint"
)

const serverVersion = "0.1.0-dev"

// Options configures a Server. Every field is optional.
type Options struct {
	Logger   *slog.Logger
	AuditLog *auditlog.Logger
	Lint     lint.Options
}

// Server serves audit tools against a fixed catalog bundle. Documents and
// extra libraries arrive per call.
type Server struct {
	mcpServer *server.MCPServer
	bundle    *catalog.Bundle
	index     *catalog.Index
	logger    *slog.Logger
	auditLog  *auditlog.Logger
	lintOpts  lint.Options
}

// NewServer creates a server over bundle, which may be nil.
func NewServer(bundle *catalog.Bundle, opts Options) *Server {
	if bundle == nil {
		bundle = &catalog.Bundle{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		bundle:   bundle,
		index:    catalog.BuildIndex(bundle.Libraries),
		logger:   logger,
		auditLog: opts.AuditLog,
		lintOpts: opts.Lint,
	}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.loggingMiddleware()),
	}
	s.mcpServer = server.NewMCPServer("tokenlint", serverVersion, serverOpts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: auditDocumentTool(), Handler: s.handleAuditDocument},
		server.ServerTool{Tool: listSuggestionsTool(), Handler: s.handleListSuggestions},
		server.ServerTool{Tool: summarizeFindingsTool(), Handler: s.handleSummarizeFindings},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
