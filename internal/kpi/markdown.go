package kpi

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"retailkpi/pkg/models"
)

type markdownAccumulator struct {
	discounts decimal.Decimal
	sales     decimal.Decimal
}

// Markdown returns the share of gross sales given up to discounts per
// category. Lines with a blank category, non-positive sales or amounts that
// overflow float64 are ignored.
func Markdown(transactions []models.Transaction) []models.MarkdownRow {
	groups := make(map[string]*markdownAccumulator)
	for _, tx := range transactions {
		if tx.Category == nil || tx.UnitsSold == nil || tx.UnitSalePrice == nil || tx.UnitDiscountAmount == nil {
			continue
		}
		if strings.TrimSpace(*tx.Category) == "" {
			continue
		}

		u, p, d := *tx.UnitsSold, *tx.UnitSalePrice, *tx.UnitDiscountAmount
		if !finite(u, p, d, u*p, u*d) {
			continue
		}

		units := decimal.NewFromFloat(u)
		sales := units.Mul(decimal.NewFromFloat(p))
		if !sales.IsPositive() {
			continue
		}

		acc, ok := groups[*tx.Category]
		if !ok {
			acc = &markdownAccumulator{}
			groups[*tx.Category] = acc
		}
		acc.discounts = acc.discounts.Add(units.Mul(decimal.NewFromFloat(d)))
		acc.sales = acc.sales.Add(sales)
	}

	hundred := decimal.NewFromInt(100)
	rows := make([]models.MarkdownRow, 0, len(groups))
	for category, acc := range groups {
		if !acc.sales.IsPositive() {
			continue
		}
		markdown := acc.discounts.Div(acc.sales)
		rows = append(rows, models.MarkdownRow{
			Category:      category,
			DiscountTotal: acc.discounts.InexactFloat64(),
			GrossSales:    acc.sales.InexactFloat64(),
			Markdown:      markdown.InexactFloat64(),
			MarkdownPct:   markdown.Mul(hundred).InexactFloat64(),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}
