// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".xref/configs"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.json"
	// DefaultDBPath is the sqlite path below the home directory
	DefaultDBPath = ".xref/db/xref.db"
)

// Load reads configuration from ~/.xref/configs/config.json
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(homeDir, DefaultConfigDir))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("database.type", d.Database.Type)
	v.SetDefault("database.sqlite_path", d.Database.SQLitePath)

	v.SetDefault("editor.lookup_limit", d.Editor.LookupLimit)
	v.SetDefault("graph.identity", d.Graph.Identity)
	v.SetDefault("logging.debug", d.Logging.Debug)
}

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	if !isValidType(cfg.Database.Type, ValidDatabaseTypes()) {
		return fmt.Errorf("database.type must be 'sqlite' or 'postgres', got '%s'", cfg.Database.Type)
	}
	if cfg.Database.Type == DatabaseTypeSQLite && cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required when type is 'sqlite'")
	}
	if cfg.Database.Type == DatabaseTypePostgres && cfg.Database.PostgresDSN == "" {
		return fmt.Errorf("database.postgres_dsn is required when type is 'postgres'")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	if cfg.Editor.LookupLimit < 1 || cfg.Editor.LookupLimit > MaxLookupLimit {
		return fmt.Errorf("editor.lookup_limit must be between 1 and %d, got %d", MaxLookupLimit, cfg.Editor.LookupLimit)
	}

	if !isValidType(cfg.Graph.Identity, ValidGraphIdentities()) {
		return fmt.Errorf("graph.identity must be 'provision' or 'role', got '%s'", cfg.Graph.Identity)
	}

	return nil
}

// ApplyEnv overrides cfg from environment variables and returns the names
// of the variables that were applied
func ApplyEnv(cfg *Config) []string {
	var applied []string

	if v := getEnv("DB_TYPE", "XREF_DB_TYPE"); v != "" {
		cfg.Database.Type = v
		applied = append(applied, "DB_TYPE")
	}
	if v := getEnv("DB_PATH", "XREF_DB_PATH"); v != "" {
		cfg.Database.SQLitePath = v
		applied = append(applied, "DB_PATH")
	}
	if v := getEnv("DB_DSN", "XREF_DB_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
		applied = append(applied, "DB_DSN")
	}
	if v := getEnv("PORT", "XREF_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
			applied = append(applied, "PORT")
		}
	}
	if v := getEnv("XREF_GRAPH_IDENTITY"); v != "" {
		cfg.Graph.Identity = v
		applied = append(applied, "XREF_GRAPH_IDENTITY")
	}
	if v := getEnv("XREF_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.Debug = debug
			applied = append(applied, "XREF_DEBUG")
		}
	}

	return applied
}

// getEnv tries multiple environment variable names and returns the first non-empty value
func getEnv(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Type:       DatabaseTypeSQLite,
			SQLitePath: filepath.Join(homeDir, DefaultDBPath),
		},
		Editor: EditorConfig{
			LookupLimit: 20,
		},
		Graph: GraphConfig{
			Identity: GraphIdentityProvision,
		},
	}
}
