// Package scrape implements the one-shot scrape command.
package scrape

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/startup-scout/cmd/common"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/export"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
)

// Output formats accepted by --format besides the export formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"

	titleWidth = 60
)

type options struct {
	from    string
	regions []string
	format  string
	out     string
	sources string
}

// Command returns the scrape command.
func Command() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape and print the results",
		Long: `Fetch every enabled source, keep articles published on or after --from that
mention one of --region, enrich them and print the deduplicated results.`,
		Example: `  startup-scout scrape --from 2024-01-01 --region singapore
  startup-scout scrape --format xlsx --out startups.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "keep articles published on or after this date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringSliceVar(&opts.regions, "region", nil, "keep articles mentioning any of these regions (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", FormatTable, "output format: table, json, csv or xlsx")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write output to this file instead of stdout")
	cmd.Flags().StringVar(&opts.sources, "sources", "", "YAML sources file overriding the configured sources")
	cmd.Flags().Int("limit", 0, "maximum concurrent enrichments (overrides scrape.limit)")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	format := strings.ToLower(strings.TrimSpace(opts.format))
	if !validFormat(format) {
		return fmt.Errorf("unsupported format %q (want table, json, csv or xlsx)", opts.format)
	}

	if cmd.Flags().Changed("limit") {
		if err := viper.BindPFlag("scrape.limit", cmd.Flags().Lookup("limit")); err != nil {
			return fmt.Errorf("failed to bind limit flag: %w", err)
		}
	}
	if opts.sources != "" {
		viper.Set("scrape.sources_file", opts.sources)
	}

	deps, err := common.Build(cmd.Context(), viper.GetViper())
	if err != nil {
		return err
	}
	defer deps.Close()

	resp := deps.Service.Scrape(cmd.Context(), domain.ScrapeRequest{
		FromDateISO: opts.from,
		Regions:     opts.regions,
	})

	w := cmd.OutOrStdout()
	if opts.out != "" {
		f, createErr := os.Create(opts.out)
		if createErr != nil {
			return fmt.Errorf("create output file: %w", createErr)
		}
		defer f.Close()
		w = f
	}

	if writeErr := Write(w, format, resp.Results); writeErr != nil {
		return writeErr
	}

	if opts.out != "" {
		deps.Logger.Info("Results written",
			logger.String("path", opts.out),
			logger.String("format", format),
			logger.Int("results", len(resp.Results)),
		)
	}

	return nil
}

func validFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, string(export.FormatCSV), string(export.FormatXLSX):
		return true
	default:
		return false
	}
}

// Write renders results in format.
func Write(w io.Writer, format string, results []domain.EnrichedResult) error {
	switch format {
	case FormatTable:
		RenderTable(w, results)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(domain.ScrapeResponse{Results: results}); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		return export.Write(w, f, results)
	}
}

// RenderTable prints results as a terminal table.
func RenderTable(w io.Writer, results []domain.EnrichedResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: titleWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	t.AppendHeader(table.Row{"Source", "Published", "Company", "Title", "Website", "Emails"})

	for _, r := range results {
		published := ""
		if r.PublishedAt != nil {
			published = r.PublishedAt.UTC().Format("2006-01-02")
		}
		t.AppendRow(table.Row{
			r.SourceName,
			published,
			r.CompanyName,
			r.ArticleTitle,
			r.Website,
			strings.Join(r.Emails, export.EmailSeparator),
		})
	}

	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d results", len(results)), "", ""})
	t.Render()
}
