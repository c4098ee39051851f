package complete

import "retailkpi/pkg/models"

// Products completes the product master from inventory and transactions.
func Products(products []models.Product, inventory []models.InventorySnapshot, transactions []models.Transaction) []models.Product {
	out, _ := completeProducts(products, inventory, transactions)
	return out
}

func completeProducts(products []models.Product, inventory []models.InventorySnapshot, transactions []models.Transaction) ([]models.Product, ProductStats) {
	var st ProductStats

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		out = append(out, p.Clone())
	}

	// identifier unification, inventory first
	known := make(map[string]bool, len(out))
	for _, p := range out {
		if p.ProductID != "" {
			known[p.ProductID] = true
		}
	}
	for _, s := range inventory {
		if s.ProductID == "" || known[s.ProductID] {
			continue
		}
		known[s.ProductID] = true
		out = append(out, models.Product{ProductID: s.ProductID, Category: models.CopyString(s.Category)})
		st.Added++
	}
	for _, tx := range transactions {
		if tx.ProductID == "" || known[tx.ProductID] {
			continue
		}
		known[tx.ProductID] = true
		out = append(out, models.Product{ProductID: tx.ProductID, Category: models.CopyString(tx.Category)})
		st.Added++
	}
	out = dedupeProducts(out)

	invCategory := BuildLookup(inventory,
		func(s models.InventorySnapshot) string { return s.ProductID },
		func(s models.InventorySnapshot) *string { return s.Category })
	txCategory := BuildLookup(transactions,
		func(tx models.Transaction) string { return tx.ProductID },
		func(tx models.Transaction) *string { return tx.Category })
	txCost := BuildLookup(transactions,
		func(tx models.Transaction) string { return tx.ProductID },
		func(tx models.Transaction) *float64 { return tx.UnitCost })
	txListPrice := BuildLookup(transactions,
		func(tx models.Transaction) string { return tx.ProductID },
		func(tx models.Transaction) *float64 { return tx.OriginalListPrice })

	category := NewChain(ProductCategorySources, map[Source]Lookup[string]{
		SourceInventory:    invCategory,
		SourceTransactions: txCategory,
	})
	unitCost := NewChain(ProductUnitCostSources, map[Source]Lookup[float64]{
		SourceTransactions: txCost,
	})
	listPrice := NewChain(ProductListPriceSources, map[Source]Lookup[float64]{
		SourceTransactions: txListPrice,
	})

	for i := range out {
		p := &out[i]
		if p.ProductID == "" {
			continue
		}
		if p.Category == nil {
			if p.Category = category.Get(p.ProductID); p.Category != nil {
				st.Category++
			}
		}
		if p.UnitCost == nil {
			if p.UnitCost = unitCost.Get(p.ProductID); p.UnitCost != nil {
				st.UnitCost++
			}
		}
		if p.ListPrice == nil {
			if p.ListPrice = listPrice.Get(p.ProductID); p.ListPrice != nil {
				st.ListPrice++
			}
		}
	}

	return out, st
}

// dedupeProducts keeps the first row per product id. Rows without an id are
// all kept.
func dedupeProducts(rows []models.Product) []models.Product {
	seen := make(map[string]bool, len(rows))
	out := rows[:0]
	for _, p := range rows {
		if p.ProductID != "" {
			if seen[p.ProductID] {
				continue
			}
			seen[p.ProductID] = true
		}
		out = append(out, p)
	}
	return out
}

// productLookups indexes the completed product master for the other tables.
type productLookups struct {
	category  Lookup[string]
	listPrice Lookup[float64]
	unitCost  Lookup[float64]
}

func newProductLookups(products []models.Product) productLookups {
	id := func(p models.Product) string { return p.ProductID }
	return productLookups{
		category:  BuildLookup(products, id, func(p models.Product) *string { return p.Category }),
		listPrice: BuildLookup(products, id, func(p models.Product) *float64 { return p.ListPrice }),
		unitCost:  BuildLookup(products, id, func(p models.Product) *float64 { return p.UnitCost }),
	}
}
