// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/xref-mcp/internal/legal"
)

// documentView adds the resolved kind to a document
type documentView struct {
	legal.Document
	Kind legal.SourceKind `json:"kind"`
}

// NewFindDocumentsTool creates the xref_find_documents tool definition
func NewFindDocumentsTool() mcp.Tool {
	return mcp.NewTool("xref_find_documents",
		mcp.WithDescription("Find legal documents by kind and free text. Use this to pick the documents on both ends of a cross reference."),
		mcp.WithString("kind",
			mcp.Description("Only documents of this kind: "+sourceKindNames()),
		),
		mcp.WithString("query",
			mcp.Description("Text matched against title, document number and id"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results. Default from configuration"),
		),
	)
}

// FindDocumentsHandler handles the xref_find_documents tool
func FindDocumentsHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var kind *legal.SourceKind
		if name := request.GetString("kind", ""); name != "" {
			k, ok := legal.ParseSourceKind(name)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("invalid kind: '%s'. Valid: %s", name, sourceKindNames())), nil
			}
			kind = &k
		}

		docs, err := tc.Session(c).FindDocuments(c, kind, request.GetString("query", ""), int(request.GetFloat("limit", 0)))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}

		views := make([]documentView, 0, len(docs))
		for i := range docs {
			views = append(views, documentView{Document: docs[i], Kind: docs[i].Kind()})
		}
		return jsonResult(views)
	}
}

// NewFindProvisionsTool creates the xref_find_provisions tool definition
func NewFindProvisionsTool() mcp.Tool {
	return mcp.NewTool("xref_find_provisions",
		mcp.WithDescription("List the provisions of a document in order, optionally filtered by text."),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document id from xref_find_documents"),
		),
		mcp.WithString("query",
			mcp.Description("Text matched against provision number, title and anchor"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results. Default from configuration"),
		),
	)
}

// FindProvisionsHandler handles the xref_find_provisions tool
func FindProvisionsHandler(tc *ToolContext) Handler {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		documentID, err := request.RequireString("document_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		provisions, err := tc.Session(c).FindProvisions(c, documentID, request.GetString("query", ""), int(request.GetFloat("limit", 0)))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		return jsonResult(provisions)
	}
}
