package models

// PropertyKind identifies the listing category being scraped.
type PropertyKind string

const (
	KindHouse     PropertyKind = "house"
	KindApartment PropertyKind = "apartment"
)

// Listing is a single scraped property offer.
type Listing struct {
	Kind         PropertyKind `json:"kind"`
	PriceUF      float64      `json:"price_uf"`
	SquareMeters float64      `json:"square_meters"`
	Page         int          `json:"page"`
	Sample       bool         `json:"sample,omitempty"` // generated by the demo fallback
}

// PricePerSquareMeter returns UF per square meter.
func (l Listing) PricePerSquareMeter() float64 {
	if l.SquareMeters == 0 {
		return 0
	}
	return l.PriceUF / l.SquareMeters
}

// ListingSummary aggregates the listings of one kind.
type ListingSummary struct {
	Kind             PropertyKind `json:"kind"`
	Count            int          `json:"count"`
	MedianPriceUF    float64      `json:"median_price_uf"`
	MeanPriceUF      float64      `json:"mean_price_uf"`
	MeanUFPerSqMeter float64      `json:"mean_uf_per_m2"`
	Skewed           bool         `json:"skewed"`
	FromSample       bool         `json:"from_sample"`
}
