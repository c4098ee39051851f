package models

// GMROIRow is the gross margin return on inventory of one category.
// GMROI is nil when the ratio is undefined (zero average inventory).
type GMROIRow struct {
	Category               string   `json:"category"`
	GrossMargin            float64  `json:"gross_margin"`
	AverageInventoryAtCost float64  `json:"average_inventory_at_cost"`
	GMROI                  *float64 `json:"gmroi"`
}

// Defined reports whether the row carries a finite GMROI.
func (r GMROIRow) Defined() bool {
	return r.GMROI != nil
}

// MarkdownRow is the share of gross sales given up to discounts in a category.
type MarkdownRow struct {
	Category      string  `json:"category"`
	DiscountTotal float64 `json:"discount_total"`
	GrossSales    float64 `json:"gross_sales"`
	Markdown      float64 `json:"markdown"`
	MarkdownPct   float64 `json:"markdown_pct"`
}

// UnmatchedCategory is a normalized category value that did not reach the
// reconciliation threshold.
type UnmatchedCategory struct {
	Value     string  `json:"value"`
	Count     int     `json:"count"`
	BestMatch string  `json:"best_match"`
	Score     float64 `json:"score"`
}
