package report

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailkpi/internal/pipeline"
	apperrors "retailkpi/pkg/errors"
	"retailkpi/pkg/models"
)

func sampleGMROI() []models.GMROIRow {
	return []models.GMROIRow{
		{Category: "a", GrossMargin: 1000, AverageInventoryAtCost: 500, GMROI: models.Float(2)},
		{Category: "b", GrossMargin: 10, AverageInventoryAtCost: 0},
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "2.00", Money(2))
	assert.Equal(t, "17.65", Money(17.647058))
	assert.Equal(t, "-0.13", Money(-0.125))
}

func TestMoneyNonFinite(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, "+Inf", Money(math.Inf(1)))
		assert.Equal(t, "-Inf", Money(math.Inf(-1)))
		assert.Equal(t, "NaN", Money(math.NaN()))
	})
}

func TestRenderGMROI(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).RenderGMROI(&buf, sampleGMROI())

	out := buf.String()
	assert.Contains(t, out, "GMROI")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "2.00")
	assert.Contains(t, out, Undefined)
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderGMROIColor(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(true).RenderGMROI(&buf, sampleGMROI())
	assert.Contains(t, buf.String(), "\x1b[33m"+Undefined)
}

func TestRenderMarkdownAndRanking(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(false)
	r.RenderMarkdown(&buf, []models.MarkdownRow{{Category: "hogar", DiscountTotal: 30, GrossSales: 170, Markdown: 30.0 / 170, MarkdownPct: 3000.0 / 170}})
	r.RenderRanking(&buf, sampleGMROI()[:1])
	r.RenderUnmatched(&buf, []models.UnmatchedCategory{{Value: "zzz", Count: 2, BestMatch: "belleza", Score: 20}})

	out := buf.String()
	assert.Contains(t, out, "17.65")
	assert.Contains(t, out, "0.1765")
	assert.Contains(t, out, `"zzz"`)
	assert.Contains(t, out, "20.0")
}

func TestRenderListings(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).RenderListings(&buf, []models.ListingSummary{
		{Kind: models.KindHouse, Count: 3, MedianPriceUF: 5000, MeanPriceUF: 6000, MeanUFPerSqMeter: 40, Skewed: true},
		{Kind: models.KindApartment, Count: 2, FromSample: true},
	})
	out := buf.String()
	assert.Contains(t, out, "5000.00")
	assert.Contains(t, out, "skew")
	assert.Contains(t, out, "sample data")
}

func TestWriteGMROICSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGMROICSV(&buf, sampleGMROI()))
	assert.Equal(t, "category,gross_margin,average_inventory_at_cost,gmroi\na,1000,500,2\nb,10,0,\n", buf.String())
}

func TestWriteMarkdownCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdownCSV(&buf, []models.MarkdownRow{{Category: "x", DiscountTotal: 5, GrossSales: 50, Markdown: 0.1, MarkdownPct: 10}}))
	assert.Equal(t, "category,discount_total,gross_sales,markdown,markdown_pct\nx,5,50,0.1,10\n", buf.String())
}

func TestWriteListingsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListingsCSV(&buf, []models.ListingSummary{{Kind: models.KindHouse, Count: 2, MedianPriceUF: 1.005}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"metric,value", "house_count,2", "house_median_price_uf,1.01", "house_mean_price_uf,0.00", "house_uf_per_m2,0.00"}, lines)
}

func sampleResult() *pipeline.Result {
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &pipeline.Result{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
		Tables: models.Tables{
			Products: []models.Product{{ProductID: "P1", Category: models.String("a"), UnitCost: models.Float(2)}},
		},
		GMROI:    sampleGMROI(),
		Markdown: []models.MarkdownRow{{Category: "a", DiscountTotal: 1, GrossSales: 10, Markdown: 0.1, MarkdownPct: 10}},
	}
}

func expectSchema(mock sqlmock.Sqlmock) {
	for _, stmt := range schemaStatements {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func TestSQLiteExport(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectSchema(mock)
	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO "runs"`).ExpectExec().
		WithArgs("run-1", "2025-01-02T03:04:05Z", "2025-01-02T03:04:06Z", 1, 0, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	gmroi := mock.ExpectPrepare(`INSERT INTO "gmroi"`)
	gmroi.ExpectExec().WithArgs("run-1", "a", 1000.0, 500.0, 2.0).WillReturnResult(sqlmock.NewResult(1, 1))
	gmroi.ExpectExec().WithArgs("run-1", "b", 10.0, 0.0, nil).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectPrepare(`INSERT INTO "markdown"`).ExpectExec().
		WithArgs("run-1", "a", 1.0, 10.0, 0.1, 10.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectPrepare(`INSERT INTO "products"`).ExpectExec().
		WithArgs("run-1", "P1", "a", 2.0, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, NewSQLiteExporter(db).Export(context.Background(), sampleResult()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteExportRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectSchema(mock)
	mock.ExpectBegin()
	mock.ExpectPrepare(`INSERT INTO "runs"`).ExpectExec().WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	err = NewSQLiteExporter(db).Export(context.Background(), sampleResult())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSQLite, apperrors.GetErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteFile(t *testing.T) {
	path := t.TempDir() + "/retailkpi.db"
	exp, err := OpenSQLite(path)
	require.NoError(t, err)
	defer exp.Close()

	require.NoError(t, exp.Export(context.Background(), sampleResult()))

	var n int
	require.NoError(t, exp.db.QueryRow(`SELECT COUNT(*) FROM gmroi WHERE run_id = ? AND gmroi IS NULL`, "run-1").Scan(&n))
	assert.Equal(t, 1, n)
}
