// Package pipeline composes normalization, reconciliation, completion and
// KPI calculation into one run over freshly loaded tables.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"retailkpi/internal/complete"
	"retailkpi/internal/kpi"
	"retailkpi/internal/normalize"
	"retailkpi/internal/reconcile"
	apperrors "retailkpi/pkg/errors"
	"retailkpi/pkg/models"
)

// Stage names as they appear in logs.
const (
	StageNormalize = "normalize"
	StageReconcile = "reconcile"
	StageComplete  = "complete"
	StageKPI       = "kpi"
)

// Options configures a run.
type Options struct {
	Normalize normalize.Options
	Matcher   *reconcile.Matcher
	// Top limits the GMROI ranking; 0 keeps every defined category.
	Top int
}

// DefaultOptions uses the built-in vocabulary and threshold.
func DefaultOptions() Options {
	return Options{
		Normalize: normalize.DefaultOptions(),
		Matcher:   reconcile.NewMatcher(nil, reconcile.DefaultThreshold, nil),
	}
}

// Result holds everything a run produced.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	Tables    models.Tables
	Unmatched []models.UnmatchedCategory
	Stats     complete.Stats

	GMROI    []models.GMROIRow
	Markdown []models.MarkdownRow
	Ranking  []models.GMROIRow
}

// Pipeline runs the stages in order. It holds no state between runs.
type Pipeline struct {
	Options Options
	Logger  *zap.Logger
}

// New returns a pipeline; a nil logger discards output.
func New(opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Matcher == nil {
		opts.Matcher = reconcile.NewMatcher(nil, reconcile.DefaultThreshold, nil)
	}
	return &Pipeline{Options: opts, Logger: logger}
}

// Clean runs normalization, reconciliation and completion.
func (p *Pipeline) Clean(ctx context.Context, raw models.RawTables) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := p.Logger.With(zap.String("run_id", res.RunID))

	log.Info("run started",
		zap.Int("products", len(raw.Products)),
		zap.Int("inventory", len(raw.Inventory)),
		zap.Int("transactions", len(raw.Transactions)))

	if err := checkpoint(ctx, StageNormalize); err != nil {
		return nil, err
	}
	tables := normalize.Tables(raw, p.Options.Normalize)
	log.Debug("stage finished", zap.String("stage", StageNormalize), zap.Int("rows", rowCount(tables)))

	if err := checkpoint(ctx, StageReconcile); err != nil {
		return nil, err
	}
	tables = reconcile.ReconcileTables(tables, p.Options.Matcher)
	res.Unmatched = reconcile.Unmatched(tables, p.Options.Matcher)
	log.Debug("stage finished", zap.String("stage", StageReconcile), zap.Int("unmatched", len(res.Unmatched)))
	for _, u := range res.Unmatched {
		log.Warn("category not reconciled",
			zap.String("value", u.Value),
			zap.Int("count", u.Count),
			zap.String("best_match", u.BestMatch),
			zap.Float64("score", u.Score))
	}

	if err := checkpoint(ctx, StageComplete); err != nil {
		return nil, err
	}
	tables, res.Stats = complete.Complete(tables)
	res.Tables = tables
	log.Info("stage finished",
		zap.String("stage", StageComplete),
		zap.Int("rows", rowCount(tables)),
		zap.Int("products_added", res.Stats.Products.Added),
		zap.Any("fills", res.Stats))

	res.FinishedAt = time.Now()
	return res, nil
}

// Run executes all four stages.
func (p *Pipeline) Run(ctx context.Context, raw models.RawTables) (*Result, error) {
	res, err := p.Clean(ctx, raw)
	if err != nil {
		return nil, err
	}
	log := p.Logger.With(zap.String("run_id", res.RunID))

	if err := checkpoint(ctx, StageKPI); err != nil {
		return nil, err
	}
	res.GMROI = kpi.GMROI(res.Tables.Transactions, res.Tables.Inventory)
	res.Markdown = kpi.Markdown(res.Tables.Transactions)
	res.Ranking = kpi.RankGMROI(res.GMROI, p.Options.Top)

	undefined := 0
	for _, r := range res.GMROI {
		if !r.Defined() {
			undefined++
		}
	}
	log.Info("stage finished",
		zap.String("stage", StageKPI),
		zap.Int("gmroi_categories", len(res.GMROI)),
		zap.Int("gmroi_undefined", undefined),
		zap.Int("markdown_categories", len(res.Markdown)))

	res.FinishedAt = time.Now()
	log.Info("run finished", zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

func checkpoint(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodePipelineAborted, "run cancelled before "+stage).
			WithContext("stage", stage)
	}
	return nil
}

func rowCount(t models.Tables) int {
	return len(t.Products) + len(t.Inventory) + len(t.Transactions)
}
