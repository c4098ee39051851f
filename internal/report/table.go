// Package report renders and exports KPI results.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"retailkpi/pkg/models"
)

// Undefined is shown in place of a GMROI that has no finite value.
const Undefined = "undefined"

// Renderer writes report tables.
type Renderer struct {
	useColor  bool
	undefined *color.Color
	good      *color.Color
}

// NewRenderer creates a renderer. With useColor the undefined cells and the
// ranking leader are highlighted regardless of terminal detection.
func NewRenderer(useColor bool) *Renderer {
	r := &Renderer{
		useColor:  useColor,
		undefined: color.New(color.FgYellow),
		good:      color.New(color.FgGreen, color.Bold),
	}
	if useColor {
		r.undefined.EnableColor()
		r.good.EnableColor()
	} else {
		r.undefined.DisableColor()
		r.good.DisableColor()
	}
	return r
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// Money rounds v to two decimals.
func Money(v float64) string {
	return fixed(v, 2)
}

// fixed formats v with the given decimal places. Values decimal cannot hold
// are printed as Go formats them.
func fixed(v float64, places int32) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

func (r *Renderer) gmroiCell(g *float64) string {
	if g == nil {
		return r.undefined.Sprint(Undefined)
	}
	return Money(*g)
}

// RenderGMROI writes the per-category GMROI table.
func (r *Renderer) RenderGMROI(w io.Writer, rows []models.GMROIRow) {
	table := newTable(w, []string{"Category", "Gross Margin", "Avg Inventory at Cost", "GMROI"})
	for _, row := range rows {
		table.Append([]string{
			row.Category,
			Money(row.GrossMargin),
			Money(row.AverageInventoryAtCost),
			r.gmroiCell(row.GMROI),
		})
	}
	table.Render()
}

// RenderMarkdown writes the per-category markdown table.
func (r *Renderer) RenderMarkdown(w io.Writer, rows []models.MarkdownRow) {
	table := newTable(w, []string{"Category", "Discount Total", "Gross Sales", "Markdown", "Markdown %"})
	for _, row := range rows {
		table.Append([]string{
			row.Category,
			Money(row.DiscountTotal),
			Money(row.GrossSales),
			fixed(row.Markdown, 4),
			Money(row.MarkdownPct),
		})
	}
	table.Render()
}

// RenderRanking writes categories by descending GMROI.
func (r *Renderer) RenderRanking(w io.Writer, rows []models.GMROIRow) {
	table := newTable(w, []string{"#", "Category", "GMROI"})
	for i, row := range rows {
		value := r.gmroiCell(row.GMROI)
		if i == 0 {
			value = r.good.Sprint(value)
		}
		table.Append([]string{strconv.Itoa(i + 1), row.Category, value})
	}
	table.Render()
}

// RenderUnmatched writes category values left outside the vocabulary.
func (r *Renderer) RenderUnmatched(w io.Writer, rows []models.UnmatchedCategory) {
	table := newTable(w, []string{"Value", "Rows", "Best Match", "Score"})
	for _, row := range rows {
		table.Append([]string{
			fmt.Sprintf("%q", row.Value),
			strconv.Itoa(row.Count),
			row.BestMatch,
			fixed(row.Score, 1),
		})
	}
	table.Render()
}

// RenderListings writes the scraper summary, one row per property kind.
func (r *Renderer) RenderListings(w io.Writer, summaries []models.ListingSummary) {
	table := newTable(w, []string{"Kind", "Listings", "Median UF", "Mean UF", "UF/m2", "Note"})
	for _, s := range summaries {
		note := ""
		if s.Skewed {
			note = "high value listings skew the mean"
		}
		if s.FromSample {
			note = r.undefined.Sprint("sample data")
		}
		table.Append([]string{
			string(s.Kind),
			strconv.Itoa(s.Count),
			Money(s.MedianPriceUF),
			Money(s.MeanPriceUF),
			Money(s.MeanUFPerSqMeter),
			note,
		})
	}
	table.Render()
}
