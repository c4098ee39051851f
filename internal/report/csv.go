package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"retailkpi/pkg/models"
)

// Column names of the delimited exports.
var (
	GMROIColumns    = []string{"category", "gross_margin", "average_inventory_at_cost", "gmroi"}
	MarkdownColumns = []string{"category", "discount_total", "gross_sales", "markdown", "markdown_pct"}
	ListingColumns  = []string{"metric", "value"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteGMROICSV writes rows with an undefined GMROI as an empty cell.
func WriteGMROICSV(w io.Writer, rows []models.GMROIRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GMROIColumns); err != nil {
		return err
	}
	for _, r := range rows {
		gmroi := ""
		if r.GMROI != nil {
			gmroi = formatFloat(*r.GMROI)
		}
		if err := cw.Write([]string{r.Category, formatFloat(r.GrossMargin), formatFloat(r.AverageInventoryAtCost), gmroi}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarkdownCSV writes the markdown report.
func WriteMarkdownCSV(w io.Writer, rows []models.MarkdownRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MarkdownColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Category,
			formatFloat(r.DiscountTotal),
			formatFloat(r.GrossSales),
			formatFloat(r.Markdown),
			formatFloat(r.MarkdownPct),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteListingsCSV writes the scraper metrics as metric/value pairs, values
// rounded to two decimals.
func WriteListingsCSV(w io.Writer, summaries []models.ListingSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ListingColumns); err != nil {
		return err
	}

	var recs [][]string
	for _, s := range summaries {
		recs = append(recs, []string{string(s.Kind) + "_count", strconv.Itoa(s.Count)})
	}
	for _, s := range summaries {
		recs = append(recs, []string{string(s.Kind) + "_median_price_uf", Money(s.MedianPriceUF)})
	}
	for _, s := range summaries {
		recs = append(recs, []string{string(s.Kind) + "_mean_price_uf", Money(s.MeanPriceUF)})
	}
	for _, s := range summaries {
		recs = append(recs, []string{string(s.Kind) + "_uf_per_m2", Money(s.MeanUFPerSqMeter)})
	}
	if err := cw.WriteAll(recs); err != nil {
		return err
	}
	return cw.Error()
}
