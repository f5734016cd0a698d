// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/xref-mcp/internal/editor"
	"github.com/tejzpr/xref-mcp/internal/graph"
	"github.com/tejzpr/xref-mcp/internal/xref"
)

// NewSaveTool creates the xref_save tool definition
func NewSaveTool() mcp.Tool {
	return mcp.NewTool("xref_save",
		mcp.WithDescription("Store every draft entry as a cross reference in one batch. On failure nothing is stored and the draft is kept for a retry."),
	)
}

// SaveHandler handles the xref_save tool
func SaveHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		n, err := tc.Session(c).Save(c)
		switch {
		case err == nil:
			return mcp.NewToolResultText(fmt.Sprintf("Saved %d cross references", n)), nil
		case errors.Is(err, editor.ErrEmptyDraft):
			return mcp.NewToolResultError("draft is empty, nothing to save"), nil
		case errors.Is(err, xref.ErrIncompleteRelation):
			return mcp.NewToolResultError(fmt.Sprintf("%v. Select the missing provision or document and add the draft again.", err)), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("save failed, draft kept: %v", err)), nil
		}
	}
}

// NewUnlinkTool creates the xref_unlink tool definition
func NewUnlinkTool() mcp.Tool {
	return mcp.NewTool("xref_unlink",
		mcp.WithDescription("Delete a saved cross reference. Reference ids appear as xref-<id> edge ids in xref_explore."),
		mcp.WithNumber("reference_id",
			mcp.Required(),
			mcp.Description("Numeric id of the saved reference"),
		),
	)
}

// UnlinkHandler handles the xref_unlink tool
func UnlinkHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireFloat("reference_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if id < 1 || id != math.Trunc(id) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid reference id: %v", id)), nil
		}

		if err := tc.Explorer.DeleteReference(c, uint(id)); err != nil {
			if errors.Is(err, graph.ErrReferenceNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("cross reference not found: %d", uint(id))), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("failed to delete: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted cross reference %d", uint(id))), nil
	}
}
