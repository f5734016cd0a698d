// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/xref-mcp/internal/editor"
	"github.com/tejzpr/xref-mcp/internal/legal"
)

// selectPair resolves the from/to provision arguments of a request
func selectPair(c context.Context, s *editor.Session, request mcp.CallToolRequest) (editor.Selection, editor.Selection, *mcp.CallToolResult) {
	fromID, err := request.RequireString("from_provision_id")
	if err != nil {
		return editor.Selection{}, editor.Selection{}, mcp.NewToolResultError(err.Error())
	}
	toID, err := request.RequireString("to_provision_id")
	if err != nil {
		return editor.Selection{}, editor.Selection{}, mcp.NewToolResultError(err.Error())
	}

	from, err := s.Select(c, fromID)
	if err != nil {
		return editor.Selection{}, editor.Selection{}, mcp.NewToolResultError(fmt.Sprintf("from provision: %v", err))
	}
	to, err := s.Select(c, toID)
	if err != nil {
		return editor.Selection{}, editor.Selection{}, mcp.NewToolResultError(fmt.Sprintf("to provision: %v", err))
	}
	return from, to, nil
}

// NewSuggestTool creates the xref_suggest tool definition
func NewSuggestTool() mcp.Tool {
	return mcp.NewTool("xref_suggest",
		mcp.WithDescription("Propose a relation for a pair of provisions from the kinds of their documents. The suggestion is only a default; any relation can be used when adding the draft."),
		mcp.WithString("from_provision_id",
			mcp.Required(),
			mcp.Description("Provision being referred to"),
		),
		mcp.WithString("to_provision_id",
			mcp.Required(),
			mcp.Description("Provision that refers to it"),
		),
	)
}

// SuggestHandler handles the xref_suggest tool
func SuggestHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s := tc.Session(c)
		from, to, errResult := selectPair(c, s, request)
		if errResult != nil {
			return errResult, nil
		}

		return jsonResult(map[string]any{
			"from_kind": from.Kind(),
			"to_kind":   to.Kind(),
			"relation":  s.Suggest(from, to),
		})
	}
}

// NewDraftAddTool creates the xref_draft_add tool definition
func NewDraftAddTool() mcp.Tool {
	return mcp.NewTool("xref_draft_add",
		mcp.WithDescription("Add a cross reference to the unsaved draft. Nothing is stored until xref_save."),
		mcp.WithString("from_provision_id",
			mcp.Required(),
			mcp.Description("Provision being referred to"),
		),
		mcp.WithString("to_provision_id",
			mcp.Required(),
			mcp.Description("Provision that refers to it"),
		),
		mcp.WithString("relation",
			mcp.Description("One of: "+relationKindNames()+". Default: the suggested relation"),
		),
		mcp.WithString("note",
			mcp.Description("Optional free text stored with the reference"),
		),
	)
}

// DraftAddHandler handles the xref_draft_add tool
func DraftAddHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var kind legal.RelationKind
		if name := request.GetString("relation", ""); name != "" {
			k, err := legal.ParseRelationKind(name)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("%v. Valid: %s", err, relationKindNames())), nil
			}
			kind = k
		}

		s := tc.Session(c)
		from, to, errResult := selectPair(c, s, request)
		if errResult != nil {
			return errResult, nil
		}
		if kind == 0 {
			kind = s.Suggest(from, to)
		}

		id, err := s.Add(from, to, kind, request.GetString("note", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to add draft: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Added draft %s: %s -%s-> %s (%d in draft)",
			id, from.Provision.ID, kind, to.Provision.ID, s.Len())), nil
	}
}

// NewDraftRemoveTool creates the xref_draft_remove tool definition
func NewDraftRemoveTool() mcp.Tool {
	return mcp.NewTool("xref_draft_remove",
		mcp.WithDescription("Remove one entry from the draft by its temp id."),
		mcp.WithString("temp_id",
			mcp.Required(),
			mcp.Description("Temp id returned by xref_draft_add"),
		),
	)
}

// DraftRemoveHandler handles the xref_draft_remove tool
func DraftRemoveHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tempID, err := request.RequireString("temp_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		s := tc.Session(c)
		if !s.Remove(tempID) {
			return mcp.NewToolResultText(fmt.Sprintf("No draft entry %s (%d in draft)", tempID, s.Len())), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Removed draft %s (%d in draft)", tempID, s.Len())), nil
	}
}

// NewDraftListTool creates the xref_draft_list tool definition
func NewDraftListTool() mcp.Tool {
	return mcp.NewTool("xref_draft_list",
		mcp.WithDescription("List the unsaved draft in the order it was built."),
	)
}

// DraftListHandler handles the xref_draft_list tool
func DraftListHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(tc.Session(c).Drafts())
	}
}

// NewDraftClearTool creates the xref_draft_clear tool definition
func NewDraftClearTool() mcp.Tool {
	return mcp.NewTool("xref_draft_clear",
		mcp.WithDescription("Discard the whole unsaved draft."),
	)
}

// DraftClearHandler handles the xref_draft_clear tool
func DraftClearHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s := tc.Session(c)
		n := s.Len()
		s.Clear()
		return mcp.NewToolResultText(fmt.Sprintf("Discarded %d draft entries", n)), nil
	}
}
