package config

import (
	"strings"
	"testing"
)

func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()

	if cfg.Server.HTTPAddr != "127.0.0.1:4455" {
		t.Errorf("unexpected default addr: %q", cfg.Server.HTTPAddr)
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("unexpected default log level: %q", cfg.Server.LogLevel)
	}
	if cfg.Server.SessionTimeout != "30m" {
		t.Errorf("unexpected default session timeout: %q", cfg.Server.SessionTimeout)
	}
	if cfg.Collection.DBPath != "scenecast.db" {
		t.Errorf("unexpected default db path: %q", cfg.Collection.DBPath)
	}
}

func TestSetDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{
			HTTPAddr: "0.0.0.0:9000",
			LogLevel: "warn",
		},
	}
	cfg.SetDefaults()

	if cfg.Server.HTTPAddr != "0.0.0.0:9000" {
		t.Errorf("explicit addr overwritten: %q", cfg.Server.HTTPAddr)
	}
	if cfg.Server.LogLevel != "warn" {
		t.Errorf("explicit log level overwritten: %q", cfg.Server.LogLevel)
	}
}

func TestValidate_Defaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got: %v", err)
	}
}

func TestValidate_BadAddr(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	cfg.Server.HTTPAddr = "not an address"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for bad address")
	}
	if !strings.Contains(err.Error(), "host:port") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	cfg.Server.LogLevel = "loud"

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for bad log level")
	}
}

func TestValidate_PasswordHashPrefix(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	cfg.Auth.PasswordHash = "plaintext-password"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for non-argon2id hash")
	}
	if !strings.Contains(err.Error(), "$argon2id$") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidate_PolicyRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   []RuleConfig
		wantErr string
	}{
		{
			name:  "valid rule",
			rules: []RuleConfig{{Name: "read-only", Expression: `requestType.startsWith("Get")`}},
		},
		{
			name:    "missing name",
			rules:   []RuleConfig{{Expression: "true"}},
			wantErr: "required",
		},
		{
			name:    "bad expression",
			rules:   []RuleConfig{{Name: "broken", Expression: "requestType ==="}},
			wantErr: "CEL expression",
		},
		{
			name: "duplicate names",
			rules: []RuleConfig{
				{Name: "dup", Expression: "true"},
				{Name: "dup", Expression: "false"},
			},
			wantErr: "duplicate rule name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.SetDefaults()
			cfg.Policy.Rules = tt.rules

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid config, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %v does not contain %q", err, tt.wantErr)
			}
		})
	}
}
