package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/turia-capital/scout-cli/internal/estimator"
	"github.com/turia-capital/scout-cli/internal/ingest"
	"github.com/turia-capital/scout-cli/internal/model"
	"github.com/turia-capital/scout-cli/internal/opportunity"
	"github.com/turia-capital/scout-cli/internal/report"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Score the cleaned dataset and rank investment opportunities",
	Long: `Enriches every listing in the cleaned dataset (distances, zone
clusters, text flags, market momentum, financial model), obtains an
independent price estimate per listing from the estimator service, computes
the composite investment score, applies the safety filters, and prints the
ranked opportunity set with a funnel summary.

Examples:
  # Scan the default dataset and print the top 20
  scan --top 20

  # Export the full ranked set to CSV
  scan --format csv --output opportunities.csv

  # Export to a workbook and persist the run
  scan --format xlsx --output opportunities.xlsx --save`,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.String("dataset", "", "cleaned dataset path (default from config)")
	f.String("format", "table", "output format: table, csv, or xlsx")
	f.String("output", "", "output file path (required for csv/xlsx)")
	f.Int("top", 0, "limit table output to the top N opportunities")
	f.Bool("save", false, "persist the run and its opportunities to the store")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataset, _ := cmd.Flags().GetString("dataset")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	top, _ := cmd.Flags().GetInt("top")
	save, _ := cmd.Flags().GetBool("save")

	if dataset == "" {
		dataset = cfg.Ingest.Dataset
	}
	if format != "table" && output == "" {
		return eris.Errorf("--output is required for format %s", format)
	}

	log := zap.L().With(zap.String("command", "scan"))

	batch, err := ingest.ReadDataset(dataset)
	if err != nil {
		return err
	}

	enricher, err := buildEnricher()
	if err != nil {
		return err
	}
	enriched, err := enricher.Run(ctx, batch)
	if err != nil {
		return err
	}

	matrix, err := estimator.BuildMatrix(enriched.Listings)
	if err != nil {
		return err
	}
	if cfg.Estimator.ModelVersion != "" {
		matrix.Version = cfg.Estimator.ModelVersion
	}

	client, err := estimator.NewClient(cfg.Estimator)
	if err != nil {
		return err
	}
	estimates, err := client.Predict(ctx, matrix)
	if err != nil {
		return err
	}

	scorer, err := opportunity.NewScorer(cfg.Scorer)
	if err != nil {
		return err
	}
	opps, counts, err := scorer.Score(enriched.Listings, estimates)
	if err != nil {
		return err
	}
	counts.RecordsIn = enriched.RecordsIn
	counts.RiskyExcluded = enriched.RiskyExcluded
	counts.AfterRiskFilter = len(enriched.Listings)

	switch format {
	case "table":
		report.RenderTable(cmd.OutOrStdout(), opps, top)
	case "csv":
		if err := report.WriteCSV(output, opps); err != nil {
			return err
		}
	case "xlsx":
		if err := report.WriteXLSX(output, opps); err != nil {
			return err
		}
	default:
		return eris.Errorf("unsupported format: %s", format)
	}

	report.RenderFunnel(os.Stderr, counts)

	if save {
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run := &model.ScanRun{
			Dataset:      dataset,
			ModelVersion: matrix.Version,
			Counts:       *counts,
		}
		if err := st.SaveRun(ctx, run, opps); err != nil {
			return err
		}
		log.Info("scan run saved", zap.String("run_id", run.ID))
	}

	log.Info("scan complete",
		zap.Int("records_in", counts.RecordsIn),
		zap.Int("opportunities", counts.Opportunities),
	)
	return nil
}
