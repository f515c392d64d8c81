// Package config provides the SceneCast server configuration schema.
//
// Configuration is file-based (YAML) with environment variable
// overrides. The schema covers the HTTP listener, handshake
// authentication, the scene collection database, and the request
// policy rules.
package config

import "github.com/spf13/viper"

// Config is the top-level SceneCast server configuration.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Auth configures handshake authentication.
	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`

	// Collection configures scene collection persistence.
	Collection CollectionConfig `yaml:"collection" mapstructure:"collection"`

	// Policy defines the request policy rules.
	// Optional: when empty, all request types are allowed.
	Policy PolicyConfig `yaml:"policy" mapstructure:"policy"`

	// DevMode enables development features (debug logging, trace
	// export to stdout).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// ServerConfig configures the HTTP server.
// TLS is out of scope; front the server with a reverse proxy.
type ServerConfig struct {
	// HTTPAddr is the address to listen on (e.g. "127.0.0.1:4455").
	// Defaults to "127.0.0.1:4455" (localhost only) if empty.
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr" validate:"omitempty,hostname_port"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty. DevMode=true overrides to "debug".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// SessionTimeout is the duration before idle sessions expire
	// (e.g. "30m", "1h"). Defaults to "30m" if not specified.
	SessionTimeout string `yaml:"session_timeout" mapstructure:"session_timeout" validate:"omitempty"`
}

// AuthConfig configures handshake authentication.
type AuthConfig struct {
	// PasswordHash is the Argon2id hash of the control password.
	// Generate with: scenecast hash-password
	// Empty disables authentication (local development only).
	PasswordHash string `yaml:"password_hash" mapstructure:"password_hash" validate:"omitempty,startswith=$argon2id$"`
}

// CollectionConfig configures scene collection persistence.
type CollectionConfig struct {
	// DBPath is the SQLite database file holding the scene
	// collection. Defaults to "scenecast.db" in the working
	// directory. The file is created on first run.
	DBPath string `yaml:"db_path" mapstructure:"db_path"`
}

// PolicyConfig defines the request policy rules.
type PolicyConfig struct {
	// Rules are evaluated on every request; all rules must allow a
	// request for it to proceed.
	Rules []RuleConfig `yaml:"rules" mapstructure:"rules" validate:"omitempty,dive"`
}

// RuleConfig defines a single request policy rule.
type RuleConfig struct {
	// Name is a human-readable identifier used in logs and deny
	// responses.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`

	// Expression is a CEL expression over the request context
	// (requestType, rpcVersion, lenient) that must evaluate to a
	// boolean. False denies the request.
	Expression string `yaml:"expression" mapstructure:"expression" validate:"required,cel_expression"`
}

// SetDefaults applies sensible default values to the configuration.
func (c *Config) SetDefaults() {
	// Bind to localhost only. Users who need network access must
	// explicitly set http_addr: "0.0.0.0:4455".
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:4455"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.SessionTimeout == "" {
		c.Server.SessionTimeout = "30m"
	}
	if c.Collection.DBPath == "" {
		c.Collection.DBPath = "scenecast.db"
	}
}

// SetDevDefaults applies permissive defaults for development mode.
// Applied after SetDefaults and before validation.
func (c *Config) SetDevDefaults() {
	if !c.DevMode {
		return
	}
	// viper.IsSet distinguishes "not set" from an explicit value.
	if !viper.IsSet("server.log_level") {
		c.Server.LogLevel = "debug"
	}
}
