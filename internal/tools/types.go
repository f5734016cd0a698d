// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/xref-mcp/internal/editor"
	"github.com/tejzpr/xref-mcp/internal/graph"
	"github.com/tejzpr/xref-mcp/internal/legal"
)

// ToolContext holds shared dependencies for all tools
type ToolContext struct {
	Sessions *editor.Registry
	Explorer *graph.Manager
}

// NewToolContext creates a new tool context
func NewToolContext(sessions *editor.Registry, explorer *graph.Manager) *ToolContext {
	return &ToolContext{
		Sessions: sessions,
		Explorer: explorer,
	}
}

// Session returns the editing session of the calling client
func (tc *ToolContext) Session(ctx context.Context) *editor.Session {
	id := editor.DefaultSessionID
	if cs := server.ClientSessionFromContext(ctx); cs != nil {
		id = cs.SessionID()
	}
	return tc.Sessions.Get(id)
}

// Handler is the signature shared by every tool handler. It is an alias so
// handlers can be passed straight to server.AddTool.
type Handler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func sourceKindNames() string {
	names := make([]string, 0, len(legal.SourceKinds()))
	for _, k := range legal.SourceKinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func relationKindNames() string {
	names := make([]string, 0, len(legal.RelationKinds()))
	for _, k := range legal.RelationKinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}
