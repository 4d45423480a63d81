package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turia-capital/scout-cli/internal/model"
	"github.com/turia-capital/scout-cli/internal/report"
	"github.com/turia-capital/scout-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored scan runs",
	Long:  "Commands for listing saved scan runs and viewing their ranked opportunities.",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scan runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		dataset, _ := cmd.Flags().GetString("dataset")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{Dataset: dataset, Limit: limit})
		if err != nil {
			return err
		}

		formatRunsList(cmd.OutOrStdout(), runs)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a saved run's ranked opportunities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		opps, err := st.ListOpportunities(ctx, run.ID, limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "run %s  dataset=%s  model=%s  created=%s\n\n",
			run.ID, run.Dataset, run.ModelVersion, run.CreatedAt.Format("2006-01-02 15:04:05"))
		report.RenderTable(out, opps, 0)
		_, _ = fmt.Fprintln(out)
		report.RenderFunnel(out, &run.Counts)
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("dataset", "", "filter by dataset path")
	runsListCmd.Flags().Int("limit", 20, "maximum runs to list")
	runsShowCmd.Flags().Int("limit", 50, "maximum opportunities to show")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.ScanRun) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATASET\tMODEL\tIN\tOPPS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-------\t-----\t--\t----\t-------")

	for _, r := range runs {
		dataset := r.Dataset
		if len(dataset) > 40 {
			dataset = "..." + dataset[len(dataset)-37:]
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			truncateID(r.ID), dataset, r.ModelVersion,
			r.Counts.RecordsIn, r.Counts.Opportunities,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
