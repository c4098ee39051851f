package complete

import (
	"math"
	"sort"
)

// categoryMedians returns the median of the known values of each category,
// rounded half to even. Categories without any known value are omitted.
func categoryMedians(categories []*string, values []*float64) map[string]float64 {
	groups := make(map[string][]float64)
	for i, c := range categories {
		if c == nil || values[i] == nil {
			continue
		}
		groups[*c] = append(groups[*c], *values[i])
	}

	out := make(map[string]float64, len(groups))
	for c, vs := range groups {
		out[c] = math.RoundToEven(median(vs))
	}
	return out
}

func median(vs []float64) float64 {
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1]/2 + sorted[n/2]/2
}

// finite reports whether v is neither infinite nor NaN. Derived values that
// overflow stay absent.
func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// imputeMedian fills absent values of rows whose category has a median.
// It returns the number of filled cells.
func imputeMedian(categories []*string, values []*float64) int {
	medians := categoryMedians(categories, values)
	filled := 0
	for i, c := range categories {
		if values[i] != nil || c == nil {
			continue
		}
		if m, ok := medians[*c]; ok {
			v := m
			values[i] = &v
			filled++
		}
	}
	return filled
}
