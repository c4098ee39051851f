package scrape

import (
	"sort"

	"retailkpi/pkg/models"
)

// DefaultSkewRatio flags a price distribution whose mean exceeds the median
// by more than ten percent.
const DefaultSkewRatio = 1.1

// Summarize aggregates the listings of one kind. Listings of other kinds are
// ignored.
func Summarize(kind models.PropertyKind, listings []models.Listing, skewRatio float64) models.ListingSummary {
	if skewRatio <= 0 {
		skewRatio = DefaultSkewRatio
	}
	s := models.ListingSummary{Kind: kind}

	var prices []float64
	var priceSum, perMeterSum float64
	perMeterCount := 0
	sample := true
	for _, l := range listings {
		if l.Kind != kind {
			continue
		}
		prices = append(prices, l.PriceUF)
		priceSum += l.PriceUF
		if l.SquareMeters > 0 {
			perMeterSum += l.PricePerSquareMeter()
			perMeterCount++
		}
		if !l.Sample {
			sample = false
		}
	}
	if len(prices) == 0 {
		return s
	}

	s.Count = len(prices)
	s.MeanPriceUF = priceSum / float64(len(prices))
	s.MedianPriceUF = median(prices)
	if perMeterCount > 0 {
		s.MeanUFPerSqMeter = perMeterSum / float64(perMeterCount)
	}
	s.Skewed = s.MeanPriceUF > s.MedianPriceUF*skewRatio
	s.FromSample = sample
	return s
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
