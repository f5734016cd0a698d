// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/xref-mcp/internal/config"
	"github.com/tejzpr/xref-mcp/internal/database"
	"github.com/tejzpr/xref-mcp/internal/editor"
	"github.com/tejzpr/xref-mcp/internal/graph"
	"github.com/tejzpr/xref-mcp/internal/logger"
	"github.com/tejzpr/xref-mcp/internal/tools"
	"gorm.io/gorm"
)

// MCPServer wraps the mcp-go server with our configuration
type MCPServer struct {
	mcpServer *server.MCPServer
	config    *config.Config
	db        *gorm.DB
	sessions  *editor.Registry
	explorer  *graph.Manager
}

// NewMCPServer creates a new MCP server instance with every tool registered
func NewMCPServer(cfg *config.Config, db *gorm.DB, version string) (*MCPServer, error) {
	identity, err := graph.ParseIdentityMode(cfg.Graph.Identity)
	if err != nil {
		return nil, err
	}
	if version == "" {
		version = "dev"
	}

	store := database.NewStore(db)
	sessions := editor.NewRegistry(editor.Options{
		Lookup:      store,
		Persister:   store,
		Resolver:    store,
		Renderer:    editor.RendererFunc(logGraph),
		Identity:    identity,
		LookupLimit: cfg.Editor.LookupLimit,
	})

	// Unsaved drafts die with the client session
	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(_ context.Context, session server.ClientSession) {
		sessions.Drop(session.SessionID())
		logger.Debug("Client session closed", "session", session.SessionID())
	})

	srv := &MCPServer{
		mcpServer: server.NewMCPServer(
			"XRef",
			version,
			server.WithToolCapabilities(true),
			server.WithHooks(hooks),
		),
		config:   cfg,
		db:       db,
		sessions: sessions,
		explorer: graph.NewManager(db),
	}
	srv.registerTools()

	return srv, nil
}

func (s *MCPServer) registerTools() {
	toolCtx := tools.NewToolContext(s.sessions, s.explorer)

	// lookup
	s.mcpServer.AddTool(tools.NewFindDocumentsTool(), tools.FindDocumentsHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewFindProvisionsTool(), tools.FindProvisionsHandler(toolCtx))

	// draft editing
	s.mcpServer.AddTool(tools.NewSuggestTool(), tools.SuggestHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewDraftAddTool(), tools.DraftAddHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewDraftRemoveTool(), tools.DraftRemoveHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewDraftListTool(), tools.DraftListHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewDraftClearTool(), tools.DraftClearHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewGraphTool(), tools.GraphHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewSaveTool(), tools.SaveHandler(toolCtx))

	// saved references
	s.mcpServer.AddTool(tools.NewExploreTool(), tools.ExploreHandler(toolCtx))
	s.mcpServer.AddTool(tools.NewUnlinkTool(), tools.UnlinkHandler(toolCtx))
}

// ToolCount is the number of registered tools
const ToolCount = 11

// GetMCPServer returns the underlying MCP server
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// Sessions returns the editing session registry
func (s *MCPServer) Sessions() *editor.Registry {
	return s.sessions
}

// Addr returns the HTTP listen address from configuration
func (s *MCPServer) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
}

func logGraph(g *graph.Graph) {
	logger.Debug("Draft graph rebuilt", "nodes", len(g.Nodes), "edges", len(g.Edges))
}
