// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Editor   EditorConfig   `mapstructure:"editor"`
	Graph    GraphConfig    `mapstructure:"graph"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type        string `mapstructure:"type"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// EditorConfig holds editing session settings
type EditorConfig struct {
	LookupLimit int `mapstructure:"lookup_limit"` // used when a lookup asks for no limit
}

// GraphConfig holds graph view settings
type GraphConfig struct {
	Identity string `mapstructure:"identity"` // "provision" or "role"
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Database types
const (
	DatabaseTypeSQLite   = "sqlite"
	DatabaseTypePostgres = "postgres"
)

// Graph identity modes
const (
	GraphIdentityProvision = "provision"
	GraphIdentityRole      = "role"
)

// MaxLookupLimit is the largest accepted editor.lookup_limit
const MaxLookupLimit = 200

// ValidDatabaseTypes returns all valid database types
func ValidDatabaseTypes() []string {
	return []string{DatabaseTypeSQLite, DatabaseTypePostgres}
}

// ValidGraphIdentities returns all valid graph identity modes
func ValidGraphIdentities() []string {
	return []string{GraphIdentityProvision, GraphIdentityRole}
}

// isValidType is a generic helper to check if a type is in a list of valid types
func isValidType(aType string, validTypes []string) bool {
	for _, valid := range validTypes {
		if aType == valid {
			return true
		}
	}
	return false
}
