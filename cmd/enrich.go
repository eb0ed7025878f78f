package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-enrich/internal/enrich"
	"github.com/sells-group/company-enrich/internal/model"
	"github.com/sells-group/company-enrich/internal/sheet"
	"github.com/sells-group/company-enrich/pkg/notion"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a list of emails or company names",
	Long: `Reads inputs from a spreadsheet, pasted text, stdin or a Notion lead
database, looks each one up in the company registry and writes the
enriched rows as xlsx, csv or json.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("enrich"); err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("file")
		text, _ := cmd.Flags().GetString("text")
		useStdin, _ := cmd.Flags().GetBool("stdin")
		notionDB, _ := cmd.Flags().GetString("notion-db")
		output, _ := cmd.Flags().GetString("output")
		formatName, _ := cmd.Flags().GetString("format")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		noStore, _ := cmd.Flags().GetBool("no-store")

		var nc notion.Client
		if notionDB != "" {
			var err error
			if nc, err = notion.NewClient(notionConfig()); err != nil {
				return eris.Wrap(err, "--notion-db needs notion.token (ENRICH_NOTION_TOKEN)")
			}
		}

		var stdin io.Reader
		if useStdin {
			stdin = cmd.InOrStdin()
		}
		inputs, source, err := collectInputs(ctx, inputSources{File: file, Text: text, Stdin: stdin, NotionDB: notionDB}, nc)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return eris.New("no inputs to enrich")
		}

		format, err := resolveFormat(output, formatName)
		if err != nil {
			return err
		}

		env, err := initEnricher(ctx, noStore)
		if err != nil {
			return err
		}
		defer env.Close()

		errOut := cmd.ErrOrStderr()
		opts := runnerOptions(concurrency)
		opts = append(opts, enrich.WithProgress(func(p enrich.Progress) {
			fmt.Fprintf(errOut, "\r%d/%d", p.Current, p.Total)
			if p.Current == p.Total {
				fmt.Fprintln(errOut)
			}
		}))
		if nc != nil {
			opts = append(opts, enrich.WithResultHook(notionWriteBack(ctx, nc)))
		}

		batch, report, err := enrich.RunRecorded(ctx, env.Store, source, env.Enricher, inputs, opts...)
		if err != nil && batch == nil {
			return err
		}
		if err != nil {
			zap.L().Warn("finalize batch", zap.Error(err))
		}
		if batch != nil {
			fmt.Fprintf(errOut, "batch %s (%s)\n", batch.ID, batch.Status)
		}

		if err := writeResults(cmd.OutOrStdout(), output, format, report.Results); err != nil {
			return err
		}
		formatStats(errOut, report.Stats)

		if report.Err != nil {
			return eris.Wrap(report.Err, "enrich")
		}
		return nil
	},
}

func init() {
	enrichCmd.Flags().String("file", "", "xlsx, csv or txt file of inputs")
	enrichCmd.Flags().String("text", "", "inputs, one per line")
	enrichCmd.Flags().Bool("stdin", false, "read inputs from stdin, one per line")
	enrichCmd.Flags().String("notion-db", "", "Notion lead database ID; queued leads are enriched and updated")
	enrichCmd.Flags().StringP("output", "o", "", "output file (format from extension unless --format)")
	enrichCmd.Flags().String("format", "", "output format: xlsx, csv or json")
	enrichCmd.Flags().Int("concurrency", 0, "parallel lookups, 1-8 (default from config)")
	enrichCmd.Flags().Bool("no-store", false, "do not record the batch or use the search cache")
	rootCmd.AddCommand(enrichCmd)
}

// inputSources are the enrich command's input flags. Sources are combined
// in field order.
type inputSources struct {
	File     string
	Text     string
	Stdin    io.Reader
	NotionDB string
}

// collectInputs gathers inputs from every set source and returns them with
// a batch source label.
func collectInputs(ctx context.Context, src inputSources, nc notion.Client) ([]model.CompanyInput, string, error) {
	var (
		inputs []model.CompanyInput
		labels []string
	)
	if src.File != "" {
		in, err := sheet.ReadFile(src.File)
		if err != nil {
			return nil, "", err
		}
		inputs = append(inputs, in...)
		labels = append(labels, "file:"+filepath.Base(src.File))
	}
	if src.Text != "" {
		inputs = append(inputs, sheet.ParseText(src.Text)...)
		labels = append(labels, "text")
	}
	if src.Stdin != nil {
		data, err := io.ReadAll(src.Stdin)
		if err != nil {
			return nil, "", eris.Wrap(err, "read stdin")
		}
		inputs = append(inputs, sheet.ParseText(string(data))...)
		labels = append(labels, "stdin")
	}
	if src.NotionDB != "" {
		if nc == nil {
			return nil, "", eris.New("notion client is not configured")
		}
		pages, err := notion.QueryQueuedLeads(ctx, nc, src.NotionDB)
		if err != nil {
			return nil, "", err
		}
		inputs = append(inputs, notion.LeadsToInputs(pages)...)
		labels = append(labels, "notion:"+src.NotionDB)
	}
	if len(labels) == 0 {
		return nil, "", eris.New("one of --file, --text, --stdin or --notion-db is required")
	}
	return inputs, strings.Join(labels, "+"), nil
}

// resolveFormat picks the export format from --format, then the output
// extension. Without either, results are printed as a table (empty format).
func resolveFormat(output, name string) (sheet.Format, error) {
	if name != "" {
		return sheet.ParseFormat(name)
	}
	if output == "" {
		return "", nil
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if ext == "" {
		return sheet.FormatXLSX, nil
	}
	return sheet.ParseFormat(ext)
}

func writeResults(stdout io.Writer, output string, format sheet.Format, results []model.EnrichmentResult) error {
	if format == "" {
		formatResultsTable(stdout, results)
		return nil
	}
	if output == "" {
		return sheet.Write(stdout, format, results)
	}

	f, err := os.Create(output)
	if err != nil {
		return eris.Wrapf(err, "create %s", output)
	}
	if err := sheet.Write(f, format, results); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "close %s", output)
	}
	zap.L().Info("results written", zap.String("path", output), zap.Int("rows", len(results)))
	return nil
}

// notionWriteBack updates each lead page as its result completes. Failures
// are logged and do not stop the batch.
func notionWriteBack(ctx context.Context, nc notion.Client) func(int, model.EnrichmentResult) {
	return func(_ int, res model.EnrichmentResult) {
		if res.NotionPageID == "" {
			return
		}
		if err := notion.UpdateLeadResult(context.WithoutCancel(ctx), nc, res.NotionPageID, res); err != nil {
			zap.L().Warn("notion write-back failed",
				zap.String("page_id", res.NotionPageID),
				zap.String("input", res.OriginalInput),
				zap.Error(err),
			)
		}
	}
}

// formatResultsTable writes a short tabular view of results to out.
func formatResultsTable(out io.Writer, results []model.EnrichmentResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "INPUT\tCOMPANY\tSIREN\tINDUSTRY\tCITY\tSTATUS")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.OriginalInput, dash(r.CompanyName), dash(r.SIREN), dash(r.Industry), dash(r.City), r.Status.Label())
	}
	_ = w.Flush()
}

func formatStats(out io.Writer, s model.BatchStats) {
	_, _ = fmt.Fprintf(out, "%d processed: %d found, %d not found, %d errors\n",
		s.Completed, s.Succeeded, s.NotFound, s.Failed)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
