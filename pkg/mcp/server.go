// Package mcp exposes the structural code finder as an MCP server.
//
// The server speaks JSON-RPC over stdio; all human-readable logging must
// therefore go to stderr or the JSONL tool log, never stdout.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/codefind/pkg/finder"
	"github.com/gnana997/codefind/pkg/mcplog"
	"github.com/gnana997/codefind/pkg/workspace"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server, exposing element lookup, signature
// extraction, syntax checking, source rewriting and workspace search
// tools.
type Server struct {
	mcpServer *server.MCPServer
	finder    *finder.Finder
	workspace *workspace.Workspace // may be nil when no root was given
	logger    *mcplog.Logger       // may be nil, meaning tool logging disabled
}

// NewServer creates an MCP server backed by the given Finder and
// optional Workspace. A nil workspace disables the search_workspace
// tool at call time, not at registration.
func NewServer(f *finder.Finder, ws *workspace.Workspace, logger *mcplog.Logger) *Server {
	s := &Server{finder: f, workspace: ws, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer(
		"codefind",
		serverVersion,
		opts...,
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: findElementTool(), Handler: s.handleFindElement},
		server.ServerTool{Tool: listElementsTool(), Handler: s.handleListElements},
		server.ServerTool{Tool: functionSignatureTool(), Handler: s.handleFunctionSignature},
		server.ServerTool{Tool: checkSyntaxTool(), Handler: s.handleCheckSyntax},
		server.ServerTool{Tool: classForMethodTool(), Handler: s.handleClassForMethod},
		server.ServerTool{Tool: updatePropertyTool(), Handler: s.handleUpdateProperty},
		server.ServerTool{Tool: searchWorkspaceTool(), Handler: s.handleSearchWorkspace},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
