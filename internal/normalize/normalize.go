// Package normalize turns raw text cells into typed, canonical values.
// A cell that cannot be interpreted becomes absent; no row is ever dropped.
package normalize

import (
	"strings"

	"retailkpi/pkg/models"
)

// Options tunes normalization.
type Options struct {
	ReferenceYear int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{ReferenceYear: DefaultReferenceYear}
}

// ProductID trims an identifier cell. An absent or blank id is "".
func ProductID(raw *string) string {
	if raw == nil {
		return ""
	}
	return strings.TrimSpace(*raw)
}

// Tables normalizes every column of the three input tables.
func Tables(raw models.RawTables, opts Options) models.Tables {
	if opts.ReferenceYear == 0 {
		opts.ReferenceYear = DefaultReferenceYear
	}

	return models.Tables{
		Products:     Products(raw.Products),
		Inventory:    Inventory(raw.Inventory, opts),
		Transactions: Transactions(raw.Transactions, opts),
	}
}

// Products normalizes the product master, which carries no date column.
func Products(rows []models.RawProduct) []models.Product {
	out := make([]models.Product, len(rows))
	for i, r := range rows {
		out[i] = models.Product{
			ProductID: ProductID(r.ProductID),
			Category:  Category(r.Category),
			UnitCost:  Number(r.UnitCost),
			ListPrice: Number(r.ListPrice),
		}
	}
	return out
}

// Inventory normalizes daily snapshots, forward filling the date column.
func Inventory(rows []models.RawInventory, opts Options) []models.InventorySnapshot {
	dates := make([]*string, len(rows))
	for i, r := range rows {
		dates[i] = r.Date
	}
	parsed := Dates(dates, opts.ReferenceYear)

	out := make([]models.InventorySnapshot, len(rows))
	for i, r := range rows {
		out[i] = models.InventorySnapshot{
			ProductID:            ProductID(r.ProductID),
			Date:                 parsed[i],
			Category:             Category(r.Category),
			StockQuantity:        Number(r.StockQuantity),
			InventoryValueAtCost: Number(r.InventoryValueAtCost),
		}
	}
	return out
}

// Transactions normalizes sales lines, forward filling the date column.
func Transactions(rows []models.RawTransaction, opts Options) []models.Transaction {
	dates := make([]*string, len(rows))
	for i, r := range rows {
		dates[i] = r.Date
	}
	parsed := Dates(dates, opts.ReferenceYear)

	out := make([]models.Transaction, len(rows))
	for i, r := range rows {
		out[i] = models.Transaction{
			ProductID:          ProductID(r.ProductID),
			Date:               parsed[i],
			Category:           Category(r.Category),
			UnitsSold:          Number(r.UnitsSold),
			UnitSalePrice:      Number(r.UnitSalePrice),
			OriginalListPrice:  Number(r.OriginalListPrice),
			UnitDiscountAmount: Number(r.UnitDiscountAmount),
			UnitCost:           Number(r.UnitCost),
		}
	}
	return out
}
