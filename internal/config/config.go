// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultPortalURL is the activity report page the automation agent opens.
const DefaultPortalURL = "https://arbetsformedlingen.se/for-arbetssokande/mina-sidor/aktivitetsrapportera/lagg-till-aktivitet"

// DefaultTagOptions is the tag vocabulary offered by the dashboard and tallied by the stats engine.
var DefaultTagOptions = []string{
	"devops",
	"it_service_specialist",
	"it_manager",
	"second_line",
	"team_lead",
	"on_site_support",
	"first_line",
}

// Config represents the tracker configuration.
// Values come from (lowest to highest precedence) built-in defaults, an optional
// JSON/YAML file, JOB_TRACKER_* environment variables and finally CLI flags.
type Config struct {
	// Server
	Port int `mapstructure:"port"` // HTTP port for the dashboard

	// Store
	Driver       string `mapstructure:"driver"`        // "sqlite" or "postgres"
	DatabasePath string `mapstructure:"database_path"` // SQLite file path
	DatabaseURL  string `mapstructure:"database_url"`  // PostgreSQL connection URL

	// Logging
	LogLevel  string `mapstructure:"log_level"`  // debug, info, warn, error
	LogFormat string `mapstructure:"log_format"` // console or json

	// Domain
	TagOptions   []string `mapstructure:"tag_options"`   // Dashboard tag vocabulary
	AgentCommand []string `mapstructure:"agent_command"` // Command used to launch the automation agent
	PortalURL    string   `mapstructure:"portal_url"`    // Portal page opened by the agent
	FontDir      string   `mapstructure:"font_dir"`      // Directory holding DejaVu TTF fonts for PDF reports
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:         5000,
		Driver:       DriverSQLite,
		DatabasePath: "job_tracker.db",
		LogLevel:     "info",
		LogFormat:    "console",
		TagOptions:   append([]string(nil), DefaultTagOptions...),
		PortalURL:    DefaultPortalURL,
	}
}

// LoadConfig loads configuration from an optional file and the environment.
// An empty path skips the file and only applies defaults and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("JOB_TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("port", d.Port)
	v.SetDefault("driver", d.Driver)
	v.SetDefault("database_path", d.DatabasePath)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("tag_options", d.TagOptions)
	v.SetDefault("agent_command", []string{})
	v.SetDefault("portal_url", d.PortalURL)
	v.SetDefault("font_dir", d.FontDir)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}

	switch c.Driver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return errors.New("config error: 'database_path' is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config error: 'database_url' is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config error: unknown driver %q (want %q or %q)", c.Driver, DriverSQLite, DriverPostgres)
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be console or json, got %q", c.LogFormat)
	}

	if len(c.TagOptions) == 0 {
		return errors.New("config error: 'tag_options' must not be empty")
	}

	if c.FontDir != "" {
		if _, err := os.Stat(c.FontDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: font directory not found: %s", c.FontDir)
		}
	}

	return nil
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.Driver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Driver == "" {
		result.Driver = defaults.Driver
	}
	if result.DatabasePath == "" {
		result.DatabasePath = defaults.DatabasePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if len(result.TagOptions) == 0 {
		result.TagOptions = defaults.TagOptions
	}
	if len(result.AgentCommand) == 0 {
		result.AgentCommand = defaults.AgentCommand
	}
	if result.PortalURL == "" {
		result.PortalURL = defaults.PortalURL
	}
	if result.FontDir == "" {
		result.FontDir = defaults.FontDir
	}

	return result
}
