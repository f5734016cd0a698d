// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/xref-mcp/internal/catalog"
	"github.com/tejzpr/xref-mcp/internal/database"
	"github.com/tejzpr/xref-mcp/internal/draft"
	"github.com/tejzpr/xref-mcp/internal/editor"
	"github.com/tejzpr/xref-mcp/internal/graph"
	"gorm.io/gorm/logger"
)

const testCatalog = `
documents:
  - id: lov-1998-07-17-56
    title: Regnskapsloven
    source_kind: statute
    document_number: LOV-1998-07-17-56
    provisions:
      - {id: lov-56-3-1, number: "3-1", anchor: LOV-1998-07-17-56.§3-1}
      - {id: lov-56-3-2, number: "3-2", anchor: LOV-1998-07-17-56.§3-2}
  - id: for-1999-12-11-1319
    title: Regnskapsforskriften
    document_number: FOR-1999-12-11-1319
    provisions:
      - {id: for-1319-1-1, number: "1-1"}
  - id: rs-2016-1
    title: Rundskriv om regnskap
    document_number: RS-2016-1
    provisions:
      - {id: rs-2016-1-1, number: "1"}
`

func setupTools(t *testing.T) *ToolContext {
	t.Helper()

	db, err := database.Open(&database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "xref.db"),
		LogLevel:   logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	store := database.NewStore(db)
	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)
	_, err = catalog.Import(context.Background(), store, cat)
	require.NoError(t, err)

	sessions := editor.NewRegistry(editor.Options{
		Lookup:    store,
		Persister: store,
		Resolver:  store,
	})
	return NewToolContext(sessions, graph.NewManager(db))
}

// Handlers are registered with server.AddTool as they are.
var _ server.ToolHandlerFunc = SaveHandler(nil)

func call(t *testing.T, h Handler, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	result, err := h(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func text(result *mcp.CallToolResult) string {
	return result.Content[0].(mcp.TextContent).Text
}

func addDraft(t *testing.T, tc *ToolContext, from, to, relation string) string {
	t.Helper()
	args := map[string]interface{}{"from_provision_id": from, "to_provision_id": to}
	if relation != "" {
		args["relation"] = relation
	}
	result := call(t, DraftAddHandler(tc), args)
	require.False(t, result.IsError, text(result))
	fields := strings.Fields(text(result))
	return strings.TrimSuffix(fields[2], ":")
}

func TestFindDocuments(t *testing.T) {
	tc := setupTools(t)

	result := call(t, FindDocumentsHandler(tc), map[string]interface{}{"kind": "regulation"})
	require.False(t, result.IsError)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(result)), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "for-1999-12-11-1319", docs[0]["id"])
	assert.Equal(t, "regulation", docs[0]["kind"])

	result = call(t, FindDocumentsHandler(tc), map[string]interface{}{"query": "rundskriv"})
	require.NoError(t, json.Unmarshal([]byte(text(result)), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "circular", docs[0]["kind"])

	result = call(t, FindDocumentsHandler(tc), map[string]interface{}{"kind": "Statute"})
	assert.True(t, result.IsError)
	assert.Contains(t, text(result), "invalid kind")
}

func TestFindProvisions(t *testing.T) {
	tc := setupTools(t)

	result := call(t, FindProvisionsHandler(tc), map[string]interface{}{"document_id": "lov-1998-07-17-56"})
	require.False(t, result.IsError)
	assert.Contains(t, text(result), "lov-56-3-1")
	assert.Contains(t, text(result), "lov-56-3-2")

	result = call(t, FindProvisionsHandler(tc), map[string]interface{}{})
	assert.True(t, result.IsError)

	result = call(t, FindProvisionsHandler(tc), map[string]interface{}{"document_id": "missing"})
	assert.True(t, result.IsError)
	assert.Contains(t, text(result), "lookup failed")
}

func TestSuggest(t *testing.T) {
	tc := setupTools(t)

	result := call(t, SuggestHandler(tc), map[string]interface{}{
		"from_provision_id": "lov-56-3-1",
		"to_provision_id":   "for-1319-1-1",
	})
	require.False(t, result.IsError)
	assert.JSONEq(t, `{"from_kind":"statute","to_kind":"regulation","relation":"enabled_by"}`, text(result))

	result = call(t, SuggestHandler(tc), map[string]interface{}{
		"from_provision_id": "lov-56-3-1",
		"to_provision_id":   "rs-2016-1-1",
	})
	assert.Contains(t, text(result), `"clarifies"`)

	result = call(t, SuggestHandler(tc), map[string]interface{}{
		"from_provision_id": "lov-56-3-1",
		"to_provision_id":   "nope",
	})
	assert.True(t, result.IsError)
}

func TestDraftLifecycle(t *testing.T) {
	tc := setupTools(t)

	first := addDraft(t, tc, "lov-56-3-1", "for-1319-1-1", "")
	second := addDraft(t, tc, "lov-56-3-2", "rs-2016-1-1", "mentions")
	assert.NotEqual(t, first, second)

	result := call(t, DraftListHandler(tc), nil)
	var drafts []draft.Relation
	require.NoError(t, json.Unmarshal([]byte(text(result)), &drafts))
	require.Len(t, drafts, 2)
	assert.Equal(t, "enabled_by", drafts[0].Kind.String())
	assert.Equal(t, "mentions", drafts[1].Kind.String())

	result = call(t, GraphHandler(tc), nil)
	var g struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(result)), &g))
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Edges, 2)

	result = call(t, DraftRemoveHandler(tc), map[string]interface{}{"temp_id": first})
	assert.Contains(t, text(result), "Removed draft")
	result = call(t, DraftRemoveHandler(tc), map[string]interface{}{"temp_id": first})
	assert.False(t, result.IsError)
	assert.Contains(t, text(result), "No draft entry")

	result = call(t, DraftClearHandler(tc), nil)
	assert.Equal(t, "Discarded 1 draft entries", text(result))
	assert.Equal(t, 0, tc.Session(context.Background()).Len())
}

func TestDraftAdd_InvalidRelation(t *testing.T) {
	tc := setupTools(t)

	result := call(t, DraftAddHandler(tc), map[string]interface{}{
		"from_provision_id": "lov-56-3-1",
		"to_provision_id":   "for-1319-1-1",
		"relation":          "overrides",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, text(result), "invalid relation kind")
	assert.Equal(t, 0, tc.Session(context.Background()).Len())
}

func TestSaveAndExplore(t *testing.T) {
	tc := setupTools(t)

	result := call(t, SaveHandler(tc), nil)
	assert.True(t, result.IsError)
	assert.Contains(t, text(result), "draft is empty")

	addDraft(t, tc, "lov-56-3-1", "for-1319-1-1", "")
	result = call(t, SaveHandler(tc), nil)
	require.False(t, result.IsError, text(result))
	assert.Equal(t, "Saved 1 cross references", text(result))
	assert.Equal(t, 0, tc.Session(context.Background()).Len())

	result = call(t, ExploreHandler(tc), map[string]interface{}{"provision_id": "lov-56-3-1"})
	require.False(t, result.IsError, text(result))
	var g struct {
		Edges []graph.Edge `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(result)), &g))
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "xref-1", g.Edges[0].ID)

	result = call(t, UnlinkHandler(tc), map[string]interface{}{"reference_id": 1.9})
	assert.True(t, result.IsError)
	assert.Contains(t, text(result), "invalid reference id")

	result = call(t, UnlinkHandler(tc), map[string]interface{}{"reference_id": float64(1)})
	require.False(t, result.IsError, text(result))
	result = call(t, UnlinkHandler(tc), map[string]interface{}{"reference_id": float64(1)})
	assert.True(t, result.IsError)
	assert.Contains(t, text(result), "not found")

	result = call(t, ExploreHandler(tc), map[string]interface{}{"provision_id": "missing"})
	assert.True(t, result.IsError)
}
