// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/xref-mcp/internal/catalog"
	"github.com/tejzpr/xref-mcp/internal/config"
	"github.com/tejzpr/xref-mcp/internal/database"
	"github.com/tejzpr/xref-mcp/internal/logger"
	"github.com/tejzpr/xref-mcp/internal/logger/console"
	"github.com/tejzpr/xref-mcp/internal/server"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Version is set at build time via ldflags (e.g. goreleaser -X main.Version={{.Version}}).
var Version string

func main() {
	httpMode := flag.Bool("http", false, "Run in HTTP server mode (default: stdio for MCP)")
	configPath := flag.String("config", "", "Path to config file")
	dbType := flag.String("db-type", "", "Database type (sqlite or postgres)")
	dbPath := flag.String("db-path", "", "Database path (for sqlite)")
	dbDSN := flag.String("db-dsn", "", "Database DSN (for postgres)")
	port := flag.Int("port", 0, "Server port (HTTP mode only)")
	importPath := flag.String("import", "", "Import a YAML catalog of documents before serving")
	importOnly := flag.Bool("import-only", false, "Exit after --import")
	graphIdentity := flag.String("graph-identity", "", "Graph node identity (provision or role)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "XRef MCP Server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s                           Start MCP server (stdio)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --http                    Start MCP server (streamable HTTP)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --import catalog.yaml     Load documents, then serve\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (a .env file is read first):\n")
		fmt.Fprintf(os.Stderr, "  DB_TYPE               Database type (sqlite or postgres)\n")
		fmt.Fprintf(os.Stderr, "  DB_PATH               SQLite database path\n")
		fmt.Fprintf(os.Stderr, "  DB_DSN                PostgreSQL connection string\n")
		fmt.Fprintf(os.Stderr, "  PORT                  Server port (HTTP mode only)\n")
		fmt.Fprintf(os.Stderr, "  XREF_GRAPH_IDENTITY   Graph node identity (provision or role)\n")
		fmt.Fprintf(os.Stderr, "  XREF_DEBUG            Enable debug logging\n")
	}

	flag.Parse()

	if *importOnly && *importPath == "" {
		fmt.Fprintln(os.Stderr, "ERROR: --import-only requires --import")
		os.Exit(2)
	}

	// A missing .env file is fine
	envErr := godotenv.Load()

	cfg, cfgSource, cfgErr := loadConfig(*configPath)
	applied := config.ApplyEnv(cfg)
	applyCLIOverrides(cfg, *dbType, *dbPath, *dbDSN, *graphIdentity, *port, *debug)

	// CRITICAL: MCP servers must ONLY output JSON-RPC to stdout
	logger.Init(console.New(console.Params{Debug: cfg.Logging.Debug}))

	if envErr == nil {
		logger.Debug("Loaded .env file")
	}
	if cfgErr != nil {
		logger.Warn("Failed to load config, using built-in defaults", "source", cfgSource, "err", cfgErr)
	} else {
		logger.Info("Loaded configuration", "source", cfgSource)
	}
	if len(applied) > 0 {
		logger.Info("Configuration from ENV", "vars", applied)
	}

	if err := config.Validate(cfg); err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	db, err := database.Open(&database.Config{
		Type:        cfg.Database.Type,
		SQLitePath:  cfg.Database.SQLitePath,
		PostgresDSN: cfg.Database.PostgresDSN,
		LogLevel:    gormlogger.Silent, // CRITICAL: Silence GORM stdout output for MCP
	})
	if err != nil {
		logger.Fatal("Failed to open database", "type", cfg.Database.Type, "err", err)
	}
	defer database.Close(db)

	logger.Info("Connected to database", "type", cfg.Database.Type)

	if *importPath != "" {
		runImport(db, *importPath)
		if *importOnly {
			return
		}
	}

	mcpServer, err := server.NewMCPServer(cfg, db, Version)
	if err != nil {
		logger.Fatal("Failed to create MCP server", "err", err)
	}

	if *httpMode {
		runHTTPMode(mcpServer)
	} else {
		runStdioMode(mcpServer)
	}
}

// loadConfig loads the config file, falling back to defaults
func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.LoadFromPath(path)
		if err != nil {
			return config.DefaultConfig(), path, err
		}
		return cfg, path, nil
	}

	source := "~/" + config.DefaultConfigDir + "/" + config.DefaultConfigFile
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig(), source, err
	}
	return cfg, source, nil
}

// applyCLIOverrides applies command-line flag overrides to configuration
func applyCLIOverrides(cfg *config.Config, dbType, dbPath, dbDSN, graphIdentity string, port int, debug bool) {
	if dbType != "" {
		cfg.Database.Type = dbType
	}
	if dbPath != "" {
		cfg.Database.SQLitePath = dbPath
	}
	if dbDSN != "" {
		cfg.Database.PostgresDSN = dbDSN
	}
	if graphIdentity != "" {
		cfg.Graph.Identity = graphIdentity
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if debug {
		cfg.Logging.Debug = true
	}
}

// runImport loads a YAML catalog into the database
func runImport(db *gorm.DB, path string) {
	cat, err := catalog.Load(path)
	if err != nil {
		logger.Fatal("Failed to load catalog", "path", path, "err", err)
	}

	store := database.NewStore(db)
	res, err := catalog.Import(context.Background(), store, cat)
	if err != nil {
		logger.Fatal("Catalog import failed", "path", path, "err", err)
	}
	logger.Info("Catalog imported", "path", path,
		"documents", res.Documents, "provisions", res.Provisions, "references", res.References)
}

// runStdioMode serves MCP over stdin/stdout
func runStdioMode(mcpServer *server.MCPServer) {
	logger.Info("MCP server ready (stdio mode)", "tools", server.ToolCount)

	if err := mcpserver.ServeStdio(mcpServer.GetMCPServer()); err != nil {
		logger.Fatal("MCP server error", "err", err)
	}
}

// runHTTPMode serves MCP over streamable HTTP
func runHTTPMode(mcpServer *server.MCPServer) {
	mux := http.NewServeMux()
	server.NewHTTPServer(mcpServer).RegisterRoutes(mux)

	addr := mcpServer.Addr()
	logger.Info("HTTP server starting", "addr", addr, "tools", server.ToolCount)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", "err", err)
	}
}
