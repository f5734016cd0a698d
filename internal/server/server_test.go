// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/xref-mcp/internal/config"
	"github.com/tejzpr/xref-mcp/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "xref.db"),
		LogLevel:   logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestNewMCPServer_RegistersTools(t *testing.T) {
	srv, err := NewMCPServer(config.DefaultConfig(), setupTestDB(t), "test")
	require.NoError(t, err)

	response := srv.GetMCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	names := make([]string, 0, len(decoded.Result.Tools))
	for _, tool := range decoded.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.Len(t, names, ToolCount)
	assert.Contains(t, names, "xref_draft_add")
	assert.Contains(t, names, "xref_save")
	assert.Contains(t, names, "xref_explore")
}

func TestNewMCPServer_InvalidIdentity(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Graph.Identity = "document"

	_, err := NewMCPServer(cfg, setupTestDB(t), "test")
	assert.Error(t, err)
}

func TestHandleHealth(t *testing.T) {
	srv, err := NewMCPServer(config.DefaultConfig(), setupTestDB(t), "test")
	require.NoError(t, err)
	srv.Sessions().Get("client-1")

	mux := http.NewServeMux()
	NewHTTPServer(srv).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":1}`, rec.Body.String())
}

func TestAddr(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Port = 9123

	srv, err := NewMCPServer(cfg, setupTestDB(t), "")
	require.NoError(t, err)
	assert.Equal(t, "localhost:9123", srv.Addr())
}
