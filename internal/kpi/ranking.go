package kpi

import (
	"sort"

	"retailkpi/pkg/models"
)

// RankGMROI returns the rows with a defined GMROI, best first, ties broken
// by category name. n <= 0 returns all of them.
func RankGMROI(rows []models.GMROIRow, n int) []models.GMROIRow {
	ranked := make([]models.GMROIRow, 0, len(rows))
	for _, r := range rows {
		if r.Defined() {
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if *ranked[i].GMROI != *ranked[j].GMROI {
			return *ranked[i].GMROI > *ranked[j].GMROI
		}
		return ranked[i].Category < ranked[j].Category
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
