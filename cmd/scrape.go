package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"retailkpi/internal/report"
	"retailkpi/internal/scrape"
	"retailkpi/internal/ui"
	"retailkpi/pkg/models"
)

// ListingsFile is the scraper report written under --out-dir.
const ListingsFile = "resultados_scraping.csv"

func newScrapeCmd(app *App) *cobra.Command {
	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape property listings and summarize UF prices",
		Long: `Collect house and apartment listings from the configured search pages,
one request at a time with a randomized delay, and report count, median and
mean price in UF and mean UF per square meter for each kind.`,
		Example: `  retailkpi scrape --max-pages 2
  retailkpi scrape --demo-fallback --out-dir reports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runScrape(cmd.Context(), app, cmd.OutOrStdout())
			return err
		},
	}

	fs := scrapeCmd.Flags()
	fs.Int("max-pages", 3, "result pages per property kind")
	fs.Bool("demo-fallback", false, "use seeded sample data when too few listings are collected")
	fs.Bool("respect-robots", true, "honor robots.txt rules and crawl delay")
	fs.String("out-dir", "", "write "+ListingsFile+" into this directory")
	bindFlag(fs, "max-pages", "scrape.max_pages")
	bindFlag(fs, "demo-fallback", "scrape.demo_fallback")
	bindFlag(fs, "respect-robots", "scrape.respect_robots")
	bindFlag(fs, "out-dir", "output.dir")
	return scrapeCmd
}

func runScrape(ctx context.Context, app *App, w io.Writer) (*scrape.Result, error) {
	cfg := app.Config
	scraper, err := app.NewScraper(cfg.Scrape, app.Logger)
	if err != nil {
		return nil, err
	}

	spinner := ui.NewSpinner(fmt.Sprintf("Scraping up to %d pages per kind", cfg.Scrape.MaxPages))
	spinner.Start()
	res, err := scraper.Run(ctx, cfg.Scrape)
	if err != nil {
		spinner.Stop(false, "Scrape failed")
		return nil, err
	}
	spinner.Stop(true, fmt.Sprintf("%d listings", len(res.Listings)))

	kinds := make([]string, 0, len(res.Errors))
	for kind := range res.Errors {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		ui.ShowWarning(fmt.Sprintf("%s collection stopped early: %s", kind, firstLine(res.Errors[models.PropertyKind(kind)].Error())))
	}
	if res.UsedFallback {
		ui.ShowWarning("Too few listings were collected; the summary uses generated sample data")
	}

	ui.ShowHeader("Listing prices (UF)")
	report.NewRenderer(app.useColor()).RenderListings(w, res.Summaries)

	for _, s := range res.Summaries {
		if s.Skewed {
			ui.ShowInfo(fmt.Sprintf("%s mean is above the median: a few high value listings pull the average up", s.Kind))
		}
	}

	if cfg.Output.Dir != "" {
		path, err := writeFile(cfg.Output.Dir, ListingsFile, func(f io.Writer) error {
			return report.WriteListingsCSV(f, res.Summaries)
		})
		if err != nil {
			return nil, err
		}
		ui.ShowSuccess("Wrote " + path)
	}
	return res, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
