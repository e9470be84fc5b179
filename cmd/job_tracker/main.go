// Package main provides the job_tracker command: the dashboard server, the
// JSON bulk loader, the mock data generator and the portal upload agent.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath   string
	logLevel     string
	driver       string
	databasePath string
)

var rootCmd = &cobra.Command{
	Use:   "job_tracker",
	Short: "Personal job application tracker",
	Long: `job_tracker keeps a local record of job applications, shows a statistics dashboard,
exports monthly reports and replays applications into the Arbetsförmedlingen activity report.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Store driver override (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "database-path", "", "SQLite file override")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration shared by every subcommand. Non-empty
// fields of flags, plus the persistent root flags, take precedence over the
// file, environment and built-in defaults.
func loadConfig(flags config.Config) (*config.Config, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		flags.LogLevel = logLevel
	}
	if driver != "" {
		flags.Driver = driver
	}
	if databasePath != "" {
		flags.DatabasePath = databasePath
	}

	cfg := flags.MergeWithDefaults(*fileCfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

// openStore opens the configured record store and makes sure the table exists.
func openStore(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	store, err := db.New(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}
