package main

import (
	"fmt"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/server"
	"github.com/jonathan/job-tracker/internal/upload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long:  `Start the HTTP dashboard for adding, searching and updating applications, exporting reports and launching portal uploads.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.Config{Port: servePort})
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	agentCmd, err := agentCommand(cfg.AgentCommand)
	if err != nil {
		return err
	}
	bridge := upload.NewBridge(store, upload.NewExecLauncher(agentCmd, log), log)

	srv, err := server.New(server.Config{
		Port:       cfg.Port,
		TagOptions: cfg.TagOptions,
		FontDir:    cfg.FontDir,
	}, store, bridge, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("starting dashboard",
		zap.Int("port", cfg.Port),
		zap.String("driver", cfg.Driver),
		zap.Strings("agent_command", agentCmd))
	return srv.Start()
}

// agentCommand returns the configured agent command, or this binary's
// upload-af subcommand when none is set. The config file is passed on so the
// agent sees the same portal settings.
func agentCommand(configured []string) ([]string, error) {
	if len(configured) > 0 {
		return configured, nil
	}
	command, err := upload.DefaultCommand()
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		command = append(command, "--config", configPath)
	}
	return command, nil
}
