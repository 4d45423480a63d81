package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/turia-capital/scout-cli/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load raw listing batches into the cleaned dataset",
	Long: `Reads every raw JSON batch file in the input directory, deduplicates
listings by property code (last seen wins), drops records missing price,
size, or coordinates, applies the plausibility floors, and writes the
cleaned dataset CSV consumed by scan.

Examples:
  # Ingest the default raw directory
  ingest

  # Ingest a specific batch directory into a specific artifact
  ingest --input data/raw/2024-06 --output data/processed/june.csv`,
	RunE: runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.String("input", "", "raw batch directory (default from config)")
	f.String("output", "", "cleaned dataset path (default from config)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	if input == "" {
		input = cfg.Ingest.RawDir
	}
	if output == "" {
		output = cfg.Ingest.Dataset
	}

	log := zap.L().With(zap.String("command", "ingest"))

	listings, counts, err := ingest.LoadDir(input)
	if err != nil {
		return err
	}

	cleaned, counts := ingest.Clean(listings, cfg.Ingest, counts)
	if err := ingest.WriteDataset(output, cleaned); err != nil {
		return err
	}

	log.Info("ingest complete",
		zap.Int("files", counts.Files),
		zap.Int("records", counts.Records),
		zap.Int("duplicates", counts.Duplicates),
		zap.Int("dropped", counts.Dropped),
		zap.Int("kept", counts.Kept),
		zap.String("dataset", output),
	)
	return nil
}
