package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and
// environment variables. If configFile is empty, scenecast.yaml/.yml
// is searched in standard locations. The search requires an explicit
// YAML extension so the binary itself (same base name, no extension)
// is never matched.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file in any standard location. Set name/type
		// without search paths so ReadInConfig returns
		// ConfigFileNotFoundError, which callers handle gracefully.
		viper.SetConfigName("scenecast")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: SCENECAST_SERVER_HTTP_ADDR
	viper.SetEnvPrefix("SCENECAST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches standard locations for scenecast.yaml or
// scenecast.yml. Returns the first match, or empty if none found.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".scenecast"),
		"/etc/scenecast",
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "scenecast"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds nested config keys so environment variables
// can override them. Example: SCENECAST_AUTH_PASSWORD_HASH overrides
// auth.password_hash.
func bindNestedEnvKeys() {
	_ = viper.BindEnv("server.http_addr")
	_ = viper.BindEnv("server.log_level")
	_ = viper.BindEnv("server.session_timeout")

	_ = viper.BindEnv("auth.password_hash")

	_ = viper.BindEnv("collection.db_path")

	// Note: policy.rules is an array; use the config file for rules.

	_ = viper.BindEnv("dev_mode")
}

// Load reads the configuration file, applies environment overrides,
// sets defaults, and validates. A missing config file is not an
// error; the server then runs on defaults and environment variables.
func Load() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()
	cfg.SetDevDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// FileUsed returns the path of the loaded configuration file, or an
// empty string when running on environment variables only.
func FileUsed() string {
	return viper.ConfigFileUsed()
}
