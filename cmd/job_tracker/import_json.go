package main

import (
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/importer"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/spf13/cobra"
)

var importJSONCmd = &cobra.Command{
	Use:   "import-json <file>",
	Short: "Bulk-load job applications from a JSON file",
	Long: `Read a JSON array of job objects and insert every well-formed one in a single transaction.
Records missing job_tittle or company are skipped and listed in the summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportJSON,
}

func init() {
	rootCmd.AddCommand(importJSONCmd)
}

func runImportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.Config{})
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

	summary, err := importer.New(store, log).ImportFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintImportSummary(args[0], summary)
	return nil
}
