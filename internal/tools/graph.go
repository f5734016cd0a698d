// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/xref-mcp/internal/graph"
)

// NewGraphTool creates the xref_graph tool definition
func NewGraphTool() mcp.Tool {
	return mcp.NewTool("xref_graph",
		mcp.WithDescription("Return the draft as a graph of nodes and edges for display. Nodes carry kind, label, group and layout hints; edges carry the relation and a color."),
	)
}

// GraphHandler handles the xref_graph tool
func GraphHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(tc.Session(c).Graph())
	}
}

// NewExploreTool creates the xref_explore tool definition
func NewExploreTool() mcp.Tool {
	return mcp.NewTool("xref_explore",
		mcp.WithDescription("Walk saved cross references around a provision, both directions, and return the graph."),
		mcp.WithString("provision_id",
			mcp.Required(),
			mcp.Description("Provision to start from"),
		),
		mcp.WithNumber("max_hops",
			mcp.Description(fmt.Sprintf("How far to walk. Default: 1, max: %d", graph.MaxHops)),
		),
	)
}

// ExploreHandler handles the xref_explore tool
func ExploreHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		provisionID, err := request.RequireString("provision_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		g, err := tc.Explorer.Neighborhood(c, provisionID, int(request.GetFloat("max_hops", 1)))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("explore failed: %v", err)), nil
		}
		return jsonResult(g)
	}
}
