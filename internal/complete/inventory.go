package complete

import "retailkpi/pkg/models"

// Inventory completes daily snapshots from the product master: category,
// median stock per category, then value at cost.
func Inventory(inventory []models.InventorySnapshot, products []models.Product) []models.InventorySnapshot {
	out, _ := completeInventory(inventory, products)
	return out
}

func completeInventory(inventory []models.InventorySnapshot, products []models.Product) ([]models.InventorySnapshot, InventoryStats) {
	var st InventoryStats
	lk := newProductLookups(products)

	out := make([]models.InventorySnapshot, len(inventory))
	for i, s := range inventory {
		s = s.Clone()
		if s.Category == nil && s.ProductID != "" {
			if s.Category = lk.category.Get(s.ProductID); s.Category != nil {
				st.Category++
			}
		}
		out[i] = s
	}

	categories := make([]*string, len(out))
	stock := make([]*float64, len(out))
	for i := range out {
		categories[i] = out[i].Category
		stock[i] = out[i].StockQuantity
	}
	st.StockQuantity = imputeMedian(categories, stock)

	for i := range out {
		s := &out[i]
		s.StockQuantity = stock[i]
		if s.InventoryValueAtCost != nil || s.StockQuantity == nil || s.ProductID == "" {
			continue
		}
		cost := lk.unitCost.Get(s.ProductID)
		if cost == nil {
			continue
		}
		if v := *s.StockQuantity * *cost; finite(v) {
			s.InventoryValueAtCost = &v
			st.InventoryValueAtCost++
		}
	}

	return out, st
}
