// Package complete backfills absent fields across the product master, daily
// inventory and sales transactions. Present values are never overwritten and
// inputs are never mutated.
package complete

import "retailkpi/pkg/models"

// ProductStats counts product master fills.
type ProductStats struct {
	Added     int `json:"added"`
	Category  int `json:"category"`
	UnitCost  int `json:"unit_cost"`
	ListPrice int `json:"list_price"`
}

// TransactionStats counts sales line fills.
type TransactionStats struct {
	Category           int `json:"category"`
	OriginalListPrice  int `json:"original_list_price"`
	UnitCost           int `json:"unit_cost"`
	UnitSalePrice      int `json:"unit_sale_price"`
	UnitDiscountAmount int `json:"unit_discount_amount"`
	UnitsSold          int `json:"units_sold"`
}

// InventoryStats counts inventory fills.
type InventoryStats struct {
	Category             int `json:"category"`
	StockQuantity        int `json:"stock_quantity"`
	InventoryValueAtCost int `json:"inventory_value_at_cost"`
}

// Stats summarizes one completion run.
type Stats struct {
	Products     ProductStats     `json:"products"`
	Transactions TransactionStats `json:"transactions"`
	Inventory    InventoryStats   `json:"inventory"`
}

// Complete runs product, transaction and inventory backfill in that order.
// Transactions and inventory read the already completed product master.
func Complete(t models.Tables) (models.Tables, Stats) {
	var st Stats
	var out models.Tables

	out.Products, st.Products = completeProducts(t.Products, t.Inventory, t.Transactions)
	out.Transactions, st.Transactions = completeTransactions(t.Transactions, out.Products)
	out.Inventory, st.Inventory = completeInventory(t.Inventory, out.Products)

	return out, st
}
