package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/job-tracker/internal/agent"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	uploadPayloadFile string
	uploadBatchID     string
	uploadHeadless    bool
	uploadChromePath  string
)

var uploadAFCmd = &cobra.Command{
	Use:   "upload-af [json]",
	Short: "Enter job applications into the Arbetsförmedlingen activity report",
	Long: `Open the activity report page in Chrome, wait for you to log in with BankID,
then enter each application from the JSON array argument (or --payload-file).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUploadAF,
}

func init() {
	uploadAFCmd.Flags().StringVar(&uploadPayloadFile, "payload-file", "", "Read the JSON array from this file and delete it afterwards")
	uploadAFCmd.Flags().StringVar(&uploadBatchID, "batch-id", "", "Batch id for log correlation")
	uploadAFCmd.Flags().BoolVar(&uploadHeadless, "headless", false, "Run Chrome without a window")
	uploadAFCmd.Flags().StringVar(&uploadChromePath, "chrome-path", "", "Path to the Chrome executable")
	rootCmd.AddCommand(uploadAFCmd)
}

func runUploadAF(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(args, uploadPayloadFile)
	if err != nil {
		return err
	}
	records, err := parsePayload(payload)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(config.Config{})
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if uploadBatchID != "" {
		log = log.With(zap.String("batch_id", uploadBatchID))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := agent.NewChromeDriver(ctx, agent.ChromeOptions{
		Headless: uploadHeadless,
		ExecPath: uploadChromePath,
	})
	if err != nil {
		return err
	}

	a := agent.New(driver, agent.ConsoleGate{In: os.Stdin, Out: cmd.OutOrStdout()}, agent.Config{
		PortalURL: cfg.PortalURL,
		Locators:  agent.DefaultLocators(),
		Timing:    agent.DefaultTiming(),
	}, log)

	log.Info("starting portal upload", zap.Int("records", len(records)))
	summary, err := a.Run(ctx, records)
	observability.NewPrinter(cmd.OutOrStdout()).PrintAgentSummary(summary)
	return err
}

// readPayload returns the JSON payload from the single argument or from
// payloadFile, which is removed once read.
func readPayload(args []string, payloadFile string) ([]byte, error) {
	switch {
	case payloadFile != "" && len(args) > 0:
		return nil, errors.New("pass the JSON payload either as an argument or with --payload-file, not both")
	case payloadFile != "":
		data, err := os.ReadFile(payloadFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		_ = os.Remove(payloadFile)
		return data, nil
	case len(args) == 1:
		return []byte(args[0]), nil
	default:
		return nil, errors.New("missing JSON payload argument")
	}
}

// parsePayload decodes the JSON array of application fields handed over by the dashboard.
func parsePayload(payload []byte) ([]types.ApplicationFields, error) {
	var records []types.ApplicationFields
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return records, nil
}
