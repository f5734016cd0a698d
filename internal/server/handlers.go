// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"encoding/json"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/xref-mcp/internal/database"
)

// HTTPServer handles HTTP routes
type HTTPServer struct {
	mcpServer *MCPServer
	mcp       http.Handler
}

// NewHTTPServer creates the HTTP front of an MCP server
func NewHTTPServer(mcpServer *MCPServer) *HTTPServer {
	return &HTTPServer{
		mcpServer: mcpServer,
		mcp:       server.NewStreamableHTTPServer(mcpServer.GetMCPServer()),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/mcp", h.mcp)
	mux.HandleFunc("/healthz", h.HandleHealth)
}

// HandleHealth reports database reachability and the number of live sessions
func (h *HTTPServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{
		"status":   "ok",
		"sessions": h.mcpServer.Sessions().Len(),
	}
	if err := database.Ping(h.mcpServer.db); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		body["error"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
