package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-enrich/internal/model"
	"github.com/sells-group/company-enrich/internal/sheet"
	"github.com/sells-group/company-enrich/internal/store"
)

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "Inspect enrichment batch history",
	Long:  "Commands for listing recorded batches, re-exporting their results and importing JSON exports.",
}

// -- batches list --

var batchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded batches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("batches"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		batches, err := st.ListBatches(ctx, store.BatchFilter{
			Status: model.BatchStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "batches list")
		}

		if len(batches) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No batches found.")
			return nil
		}

		formatBatchList(cmd.OutOrStdout(), batches)
		return nil
	},
}

// -- batches show --

var batchesShowCmd = &cobra.Command{
	Use:   "show <batch-id>",
	Short: "Show a batch and its results, or export them with --output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("batches"); err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		formatName, _ := cmd.Flags().GetString("format")
		format, err := resolveFormat(output, formatName)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		batch, err := st.GetBatch(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "batches show")
		}
		results, err := st.ListResults(ctx, batch.ID)
		if err != nil {
			return eris.Wrap(err, "batches show")
		}

		if format != "" {
			return writeResults(cmd.OutOrStdout(), output, format, results)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*model.Batch
			Results []model.EnrichmentResult `json:"results"`
		}{batch, results})
	},
}

// -- batches import --

var batchesImportCmd = &cobra.Command{
	Use:   "import <results.json>",
	Short: "Record a JSON results export as a completed batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("batches"); err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrap(err, "batches import")
		}
		defer f.Close() //nolint:errcheck

		results, err := sheet.ReadResultsJSON(f)
		if err != nil {
			return eris.Wrapf(err, "batches import %s", args[0])
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		batch, err := store.ImportResults(ctx, st, "import:"+filepath.Base(args[0]), results)
		if err != nil {
			return eris.Wrap(err, "batches import")
		}

		zap.L().Info("imported batch", zap.String("batch_id", batch.ID), zap.Int("results", len(results)))
		fmt.Fprintf(cmd.OutOrStdout(), "batch %s (%s): %d results\n", batch.ID, batch.Status, len(results))
		return nil
	},
}

func init() {
	batchesListCmd.Flags().String("status", "", "filter by batch status (running, complete, cancelled, failed)")
	batchesListCmd.Flags().Int("limit", 50, "max number of batches to display")

	batchesShowCmd.Flags().StringP("output", "o", "", "export results to this file")
	batchesShowCmd.Flags().String("format", "", "export format: xlsx, csv or json")

	batchesCmd.AddCommand(batchesListCmd)
	batchesCmd.AddCommand(batchesShowCmd)
	batchesCmd.AddCommand(batchesImportCmd)
	rootCmd.AddCommand(batchesCmd)
}

// formatBatchList writes a tabular list of batches to out.
func formatBatchList(out io.Writer, batches []model.Batch) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSOURCE\tSTATUS\tTOTAL\tFOUND\tNOT_FOUND\tERRORS\tCREATED")
	for _, b := range batches {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			b.ID, b.Source, b.Status, b.Total,
			b.Stats.Succeeded, b.Stats.NotFound, b.Stats.Failed,
			b.CreatedAt.Local().Format(time.DateTime))
	}
	_ = w.Flush()
}
