package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/beismanmaps/server/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter config file",
	Long: `Write a starter beisman-maps.yaml with defaults filled in.

Defaults to ./beisman-maps.yaml. Refuses to overwrite an existing file
unless --force is given. Edit auth.admin_username and auth.admin_password
before running in production.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "beisman-maps.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	defaults := config.Config{}
	defaults.SetDefaults()

	// Durations are written as strings ("8h") rather than letting
	// yaml.Marshal emit raw nanosecond integers.
	starter := starterConfig{}
	starter.Server.HTTPAddr = defaults.Server.HTTPAddr
	starter.Server.LogLevel = defaults.Server.LogLevel
	starter.Server.LogFormat = defaults.Server.LogFormat
	starter.Auth.AdminUsername = "admin"
	starter.Auth.AdminPassword = "change-me"
	starter.Auth.DisplayName = defaults.Auth.DisplayName
	starter.Auth.LoginRateLimit = 10
	starter.Session.TTL = defaults.Session.TTL.String()
	starter.Session.RememberTTL = defaults.Session.RememberTTL.String()
	starter.Session.CleanupInterval = time.Hour.String()
	starter.Database.Path = defaults.Database.Path

	data, err := yaml.Marshal(&starter)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}

// starterConfig mirrors config.Config with string durations for readable YAML.
type starterConfig struct {
	Server struct {
		HTTPAddr      string `yaml:"http_addr"`
		LogLevel      string `yaml:"log_level"`
		LogFormat     string `yaml:"log_format"`
		SecureCookies bool   `yaml:"secure_cookies"`
	} `yaml:"server"`
	Auth struct {
		AdminUsername  string `yaml:"admin_username"`
		AdminPassword  string `yaml:"admin_password"`
		DisplayName    string `yaml:"display_name"`
		LoginRateLimit int    `yaml:"login_rate_limit"`
	} `yaml:"auth"`
	Session struct {
		TTL             string `yaml:"ttl"`
		RememberTTL     string `yaml:"remember_ttl"`
		CleanupInterval string `yaml:"cleanup_interval"`
	} `yaml:"session"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	DevMode bool `yaml:"dev_mode"`
}

