package scrape

import (
	"math/rand"

	"retailkpi/pkg/models"
)

// DefaultFallbackSeed keeps the demo data stable between runs.
const DefaultFallbackSeed = 42

type sampleRange struct {
	count              int
	minPrice, maxPrice float64
	minArea, maxArea   float64
}

var sampleRanges = map[models.PropertyKind]sampleRange{
	models.KindHouse:     {count: 25, minPrice: 4000, maxPrice: 15000, minArea: 80, maxArea: 250},
	models.KindApartment: {count: 35, minPrice: 2000, maxPrice: 6000, minArea: 40, maxArea: 120},
}

// SampleListings generates demo listings for both kinds. The output depends
// only on seed.
func SampleListings(seed int64) []models.Listing {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 - demo data
	var out []models.Listing
	for _, kind := range []models.PropertyKind{models.KindHouse, models.KindApartment} {
		r := sampleRanges[kind]
		for i := 0; i < r.count; i++ {
			price := r.minPrice + rng.Float64()*(r.maxPrice-r.minPrice)
			area := r.minArea + rng.Float64()*(r.maxArea-r.minArea)
			out = append(out, models.Listing{
				Kind:         kind,
				PriceUF:      price,
				SquareMeters: area,
				Sample:       true,
			})
		}
	}
	return out
}
