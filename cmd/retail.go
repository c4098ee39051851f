package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"retailkpi/internal/common"
	"retailkpi/internal/dataset"
	"retailkpi/internal/normalize"
	"retailkpi/internal/pipeline"
	"retailkpi/internal/reconcile"
	"retailkpi/internal/report"
	"retailkpi/internal/ui"
	apperrors "retailkpi/pkg/errors"
	"retailkpi/pkg/models"
)

// Report file names written under --out-dir.
const (
	GMROIFile    = "gmroi.csv"
	MarkdownFile = "markdown.csv"
)

func newMatcher(cfg *models.Config) *reconcile.Matcher {
	return reconcile.NewMatcher(cfg.Reconcile.Vocabulary, cfg.Reconcile.Threshold, cfg.Reconcile.Aliases)
}

func newPipeline(cfg *models.Config, logger *zap.Logger) *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		Normalize: normalize.Options{ReferenceYear: cfg.Normalize.ReferenceYear},
		Matcher:   newMatcher(cfg),
		Top:       cfg.Output.Top,
	}, logger)
}

func loadTables(cfg *models.Config, logger *zap.Logger) (models.RawTables, error) {
	raw, err := dataset.Load(dataset.Paths{
		Products:     cfg.Inputs.Products,
		Inventory:    cfg.Inputs.Inventory,
		Transactions: cfg.Inputs.Transactions,
	})
	if err != nil {
		return models.RawTables{}, err
	}
	logger.Debug("tables loaded",
		zap.Int("products", len(raw.Products)),
		zap.Int("inventory", len(raw.Inventory)),
		zap.Int("transactions", len(raw.Transactions)))
	return raw, nil
}

// runRetail loads the inputs, runs the pipeline and reports the KPIs
// according to cfg.Output.
func runRetail(ctx context.Context, app *App, w io.Writer) (*pipeline.Result, error) {
	cfg := app.Config
	raw, err := loadTables(cfg, app.Logger)
	if err != nil {
		return nil, err
	}

	res, err := newPipeline(cfg, app.Logger).Run(ctx, raw)
	if err != nil {
		return nil, err
	}

	if cfg.Output.Format == "csv" {
		if err := writeKPICSV(w, res); err != nil {
			return nil, err
		}
	} else {
		renderKPITables(w, res, cfg.Output.Top, report.NewRenderer(app.useColor()))
	}

	if len(res.Unmatched) > 0 {
		ui.ShowWarning(fmt.Sprintf("%d category values are below the match threshold; run 'retailkpi review' to map them", len(res.Unmatched)))
	}

	if cfg.Output.Dir != "" {
		files, err := writeKPIFiles(cfg.Output.Dir, res)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			ui.ShowSuccess("Wrote " + f)
		}
	}

	if cfg.Output.SQLite != "" {
		if err := exportSQLite(ctx, cfg.Output.SQLite, res); err != nil {
			return nil, err
		}
		ui.ShowSuccess(fmt.Sprintf("Saved run %s to %s", res.RunID, cfg.Output.SQLite))
	}
	return res, nil
}

func renderKPITables(w io.Writer, res *pipeline.Result, top int, r *report.Renderer) {
	ui.ShowHeader("GMROI by category")
	r.RenderGMROI(w, res.GMROI)

	ui.ShowHeader("Markdown by category")
	r.RenderMarkdown(w, res.Markdown)

	if top > 0 {
		ui.ShowHeader(fmt.Sprintf("Top %d categories by GMROI", top))
		r.RenderRanking(w, res.Ranking)
	}
}

func writeKPICSV(w io.Writer, res *pipeline.Result) error {
	if err := report.WriteGMROICSV(w, res.GMROI); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return report.WriteMarkdownCSV(w, res.Markdown)
}

func writeKPIFiles(dir string, res *pipeline.Result) ([]string, error) {
	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{GMROIFile, func(w io.Writer) error { return report.WriteGMROICSV(w, res.GMROI) }},
		{MarkdownFile, func(w io.Writer) error { return report.WriteMarkdownCSV(w, res.Markdown) }},
	}

	var written []string
	for _, wr := range writers {
		path, err := writeFile(dir, wr.name, wr.write)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// writeFile creates name under dir and fills it with write.
func writeFile(dir, name string, write func(io.Writer) error) (string, error) {
	path, err := common.OutputFile(dir, name)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeExportFailed, "invalid output path").
			WithContext("dir", dir)
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, common.FilePermissionNormal)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeExportFailed, "failed to create report file").
			WithContext("path", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeExportFailed, "failed to write report file").
			WithContext("path", path)
	}
	return path, nil
}

func exportSQLite(ctx context.Context, path string, res *pipeline.Result) error {
	exporter, err := report.OpenSQLite(path)
	if err != nil {
		return err
	}
	if err := exporter.Export(ctx, res); err != nil {
		_ = exporter.Close()
		return err
	}
	return exporter.Close()
}
