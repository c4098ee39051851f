package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"retailkpi/internal/normalize"
	"retailkpi/internal/pipeline"
	apperrors "retailkpi/pkg/errors"
)

// SQLiteDriver is the database/sql driver name registered by modernc.org/sqlite.
const SQLiteDriver = "sqlite"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS "runs" ("run_id" TEXT PRIMARY KEY, "started_at" TEXT, "finished_at" TEXT, "products" INTEGER, "inventory" INTEGER, "transactions" INTEGER)`,
	`CREATE TABLE IF NOT EXISTS "gmroi" ("run_id" TEXT, "category" TEXT, "gross_margin" REAL, "average_inventory_at_cost" REAL, "gmroi" REAL)`,
	`CREATE TABLE IF NOT EXISTS "markdown" ("run_id" TEXT, "category" TEXT, "discount_total" REAL, "gross_sales" REAL, "markdown" REAL, "markdown_pct" REAL)`,
	`CREATE TABLE IF NOT EXISTS "products" ("run_id" TEXT, "product_id" TEXT, "category" TEXT, "unit_cost" REAL, "list_price" REAL)`,
	`CREATE TABLE IF NOT EXISTS "inventory" ("run_id" TEXT, "product_id" TEXT, "date" TEXT, "category" TEXT, "stock_quantity" REAL, "inventory_value_at_cost" REAL)`,
	`CREATE TABLE IF NOT EXISTS "transactions" ("run_id" TEXT, "product_id" TEXT, "date" TEXT, "category" TEXT, "units_sold" REAL, "unit_sale_price" REAL, "original_list_price" REAL, "unit_discount_amount" REAL, "unit_cost" REAL)`,
	`CREATE INDEX IF NOT EXISTS idx_gmroi_run ON gmroi(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_markdown_run ON markdown(run_id)`,
}

// SQLiteExporter appends pipeline results to a SQLite database, one set of
// rows per run id.
type SQLiteExporter struct {
	db *sql.DB
}

// NewSQLiteExporter wraps an open database.
func NewSQLiteExporter(db *sql.DB) *SQLiteExporter {
	return &SQLiteExporter{db: db}
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*SQLiteExporter, error) {
	db, err := sql.Open(SQLiteDriver, path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSQLite, "failed to open SQLite database").
			WithContext("path", path)
	}
	return NewSQLiteExporter(db), nil
}

// Close closes the underlying database.
func (e *SQLiteExporter) Close() error {
	return e.db.Close()
}

// Export writes res in a single transaction.
func (e *SQLiteExporter) Export(ctx context.Context, res *pipeline.Result) (err error) {
	for _, stmt := range schemaStatements {
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeSQLite, "failed to create schema")
		}
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSQLite, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	run := [][]any{{
		res.RunID,
		res.StartedAt.UTC().Format(time.RFC3339),
		res.FinishedAt.UTC().Format(time.RFC3339),
		len(res.Tables.Products),
		len(res.Tables.Inventory),
		len(res.Tables.Transactions),
	}}
	if err = insertRows(ctx, tx, "runs", []string{"run_id", "started_at", "finished_at", "products", "inventory", "transactions"}, run); err != nil {
		return err
	}

	var rows [][]any
	for _, r := range res.GMROI {
		rows = append(rows, []any{res.RunID, r.Category, r.GrossMargin, r.AverageInventoryAtCost, nullFloat(r.GMROI)})
	}
	if err = insertRows(ctx, tx, "gmroi", append([]string{"run_id"}, GMROIColumns...), rows); err != nil {
		return err
	}

	rows = nil
	for _, r := range res.Markdown {
		rows = append(rows, []any{res.RunID, r.Category, r.DiscountTotal, r.GrossSales, r.Markdown, r.MarkdownPct})
	}
	if err = insertRows(ctx, tx, "markdown", append([]string{"run_id"}, MarkdownColumns...), rows); err != nil {
		return err
	}

	rows = nil
	for _, p := range res.Tables.Products {
		rows = append(rows, []any{res.RunID, p.ProductID, nullString(p.Category), nullFloat(p.UnitCost), nullFloat(p.ListPrice)})
	}
	if err = insertRows(ctx, tx, "products", []string{"run_id", "product_id", "category", "unit_cost", "list_price"}, rows); err != nil {
		return err
	}

	rows = nil
	for _, s := range res.Tables.Inventory {
		rows = append(rows, []any{
			res.RunID, s.ProductID, nullDate(normalize.FormatDate(s.Date)), nullString(s.Category),
			nullFloat(s.StockQuantity), nullFloat(s.InventoryValueAtCost),
		})
	}
	if err = insertRows(ctx, tx, "inventory", []string{"run_id", "product_id", "date", "category", "stock_quantity", "inventory_value_at_cost"}, rows); err != nil {
		return err
	}

	rows = nil
	for _, t := range res.Tables.Transactions {
		rows = append(rows, []any{
			res.RunID, t.ProductID, nullDate(normalize.FormatDate(t.Date)), nullString(t.Category),
			nullFloat(t.UnitsSold), nullFloat(t.UnitSalePrice), nullFloat(t.OriginalListPrice),
			nullFloat(t.UnitDiscountAmount), nullFloat(t.UnitCost),
		})
	}
	if err = insertRows(ctx, tx, "transactions", []string{
		"run_id", "product_id", "date", "category", "units_sold", "unit_sale_price",
		"original_list_price", "unit_discount_amount", "unit_cost",
	}, rows); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSQLite, "failed to commit export")
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, table, strings.Join(quoted, ","), ph))
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSQLite, "failed to prepare insert").WithContext("table", table)
	}
	defer stmt.Close()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeSQLite, "failed to insert row").WithContext("table", table)
		}
	}
	return nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}
