package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and environment variables.
// If configFile is empty, it searches for beisman-maps.yaml/.yml in standard locations.
// The search requires an explicit YAML extension to avoid matching the binary itself,
// which Viper's built-in SetConfigName would match (same base name, no extension).
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file found in any standard location.
		// Set name/type without search paths so ReadInConfig returns
		// ConfigFileNotFoundError (handled gracefully by callers).
		viper.SetConfigName("beisman-maps")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: BEISMAN_MAPS_SERVER_HTTP_ADDR
	viper.SetEnvPrefix("BEISMAN_MAPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches standard locations for a beisman-maps config file
// with an explicit YAML extension (.yaml or .yml). This prevents Viper from
// matching the binary "beisman-maps" (no extension) in the current directory.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".beisman-maps"),
	}
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			paths = append(paths, filepath.Join(pd, "beisman-maps"))
		}
	} else {
		paths = append(paths, "/etc/beisman-maps")
	}
	return findConfigFileInPaths(paths)
}

// findConfigFileInPaths searches the given directories for beisman-maps.yaml or .yml.
// Returns the full path of the first match, or empty string if none found.
func findConfigFileInPaths(paths []string) string {
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "beisman-maps"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds all config keys for environment variable support.
// Example: BEISMAN_MAPS_SERVER_HTTP_ADDR overrides server.http_addr
func bindNestedEnvKeys() {
	_ = viper.BindEnv("server.http_addr")
	_ = viper.BindEnv("server.log_level")
	_ = viper.BindEnv("server.log_format")
	_ = viper.BindEnv("server.secure_cookies")

	_ = viper.BindEnv("auth.admin_username")
	_ = viper.BindEnv("auth.admin_password")
	_ = viper.BindEnv("auth.display_name")
	_ = viper.BindEnv("auth.login_rate_limit")

	_ = viper.BindEnv("session.ttl")
	_ = viper.BindEnv("session.remember_ttl")
	_ = viper.BindEnv("session.cleanup_interval")

	_ = viper.BindEnv("database.path")

	_ = viper.BindEnv("dev_mode")
}

// LoadConfig reads the configuration file, applies environment overrides,
// sets defaults, and returns the Config.
// Note: Caller should apply any CLI flag overrides (e.g. --dev), then call
// cfg.SetDevDefaults() and cfg.Validate() to complete initialization.
func LoadConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars only
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

// LoadConfigRaw reads the configuration file and applies defaults,
// but does NOT apply dev defaults or validate.
// Use this when CLI flags may override DevMode before validation.
func LoadConfigRaw() (*Config, error) {
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
	return &cfg, nil
}

// ConfigFileUsed returns the path to the configuration file that was loaded.
// Returns an empty string if no config file was found (env vars only mode).
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
