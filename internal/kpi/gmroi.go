// Package kpi derives category level financial indicators from completed
// retail tables.
package kpi

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"retailkpi/pkg/models"
)

type inventoryAccumulator struct {
	sum   decimal.Decimal
	count int64
}

// finite reports whether every value is a real number that decimal can hold.
func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// GMROI returns gross margin over average inventory at cost per category.
// Only categories present on both sides appear. A zero inventory at cost
// leaves GMROI undefined. Lines whose amounts overflow float64 are skipped.
func GMROI(transactions []models.Transaction, inventory []models.InventorySnapshot) []models.GMROIRow {
	margins := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Category == nil || tx.UnitsSold == nil || tx.UnitSalePrice == nil || tx.UnitCost == nil {
			continue
		}
		u, p, c := *tx.UnitsSold, *tx.UnitSalePrice, *tx.UnitCost
		if !finite(u, p, c, u*p, u*c) {
			continue
		}
		units := decimal.NewFromFloat(u)
		sales := units.Mul(decimal.NewFromFloat(*tx.UnitSalePrice))
		costOfSales := units.Mul(decimal.NewFromFloat(*tx.UnitCost))
		margins[*tx.Category] = margins[*tx.Category].Add(sales.Sub(costOfSales))
	}

	stock := make(map[string]*inventoryAccumulator)
	for _, s := range inventory {
		if s.Category == nil || s.InventoryValueAtCost == nil || !finite(*s.InventoryValueAtCost) {
			continue
		}
		acc, ok := stock[*s.Category]
		if !ok {
			acc = &inventoryAccumulator{}
			stock[*s.Category] = acc
		}
		acc.sum = acc.sum.Add(decimal.NewFromFloat(*s.InventoryValueAtCost))
		acc.count++
	}

	rows := make([]models.GMROIRow, 0, len(margins))
	for category, margin := range margins {
		acc, ok := stock[category]
		if !ok {
			continue
		}
		count := decimal.NewFromInt(acc.count)

		row := models.GMROIRow{
			Category:               category,
			GrossMargin:            margin.InexactFloat64(),
			AverageInventoryAtCost: acc.sum.InexactFloat64() / float64(acc.count),
		}
		// margin / (sum / count) without rounding the average first
		if !acc.sum.IsZero() {
			if g := margin.Mul(count).Div(acc.sum).InexactFloat64(); finite(g) {
				row.GMROI = &g
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}
