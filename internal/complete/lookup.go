package complete

// Source names a donor table for a backfill lookup.
type Source string

const (
	SourceProducts     Source = "products"
	SourceInventory    Source = "inventory"
	SourceTransactions Source = "transactions"
)

// Precedence of donor tables for each product backfill, first match wins.
var (
	ProductCategorySources  = []Source{SourceInventory, SourceTransactions}
	ProductUnitCostSources  = []Source{SourceTransactions}
	ProductListPriceSources = []Source{SourceTransactions}
)

// Lookup maps a product id to the first non-absent value seen for it.
type Lookup[T any] map[string]T

// BuildLookup indexes rows by key. Rows with an empty key or an absent value
// are skipped; the first remaining row per key wins.
func BuildLookup[R any, T any](rows []R, key func(R) string, value func(R) *T) Lookup[T] {
	l := make(Lookup[T])
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := l[k]; ok {
			continue
		}
		if v := value(r); v != nil {
			l[k] = *v
		}
	}
	return l
}

// Get returns a fresh pointer to the value for key, or nil.
func (l Lookup[T]) Get(key string) *T {
	if key == "" {
		return nil
	}
	v, ok := l[key]
	if !ok {
		return nil
	}
	return &v
}

// Chain is an ordered list of lookups consulted until one has the key.
type Chain[T any] []Lookup[T]

// NewChain orders lookups by sources. Sources without a lookup are skipped.
func NewChain[T any](sources []Source, lookups map[Source]Lookup[T]) Chain[T] {
	c := make(Chain[T], 0, len(sources))
	for _, s := range sources {
		if l, ok := lookups[s]; ok {
			c = append(c, l)
		}
	}
	return c
}

// Get returns the value of the first lookup holding key, or nil.
func (c Chain[T]) Get(key string) *T {
	for _, l := range c {
		if v := l.Get(key); v != nil {
			return v
		}
	}
	return nil
}
