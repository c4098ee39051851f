package models

import "time"

// Raw records hold every cell exactly as loaded. A nil pointer is an empty cell.

// RawProduct is one row of the product master before normalization.
type RawProduct struct {
	ProductID *string
	Category  *string
	UnitCost  *string
	ListPrice *string
}

// RawInventory is one row of the daily inventory before normalization.
type RawInventory struct {
	ProductID            *string
	Date                 *string
	Category             *string
	StockQuantity        *string
	InventoryValueAtCost *string
}

// RawTransaction is one row of the sales transactions before normalization.
type RawTransaction struct {
	ProductID          *string
	Date               *string
	Category           *string
	UnitsSold          *string
	UnitSalePrice      *string
	OriginalListPrice  *string
	UnitDiscountAmount *string
	UnitCost           *string
}

// RawTables is the loaded, untyped input of one pipeline run.
type RawTables struct {
	Products     []RawProduct
	Inventory    []RawInventory
	Transactions []RawTransaction
}

// Product is a row of the product master. Nil fields are absent.
type Product struct {
	ProductID string
	Category  *string
	UnitCost  *float64
	ListPrice *float64
}

// InventorySnapshot is a daily stock position for one product.
type InventorySnapshot struct {
	ProductID            string
	Date                 *time.Time
	Category             *string
	StockQuantity        *float64
	InventoryValueAtCost *float64
}

// Transaction is one sales line.
type Transaction struct {
	ProductID          string
	Date               *time.Time
	Category           *string
	UnitsSold          *float64
	UnitSalePrice      *float64
	OriginalListPrice  *float64
	UnitDiscountAmount *float64
	UnitCost           *float64
}

// Tables groups the three typed tables flowing between pipeline stages.
type Tables struct {
	Products     []Product
	Inventory    []InventorySnapshot
	Transactions []Transaction
}

// Clone returns a copy whose slices and pointed-to values are not shared with t.
func (t Tables) Clone() Tables {
	out := Tables{
		Products:     make([]Product, len(t.Products)),
		Inventory:    make([]InventorySnapshot, len(t.Inventory)),
		Transactions: make([]Transaction, len(t.Transactions)),
	}
	for i, p := range t.Products {
		out.Products[i] = p.Clone()
	}
	for i, s := range t.Inventory {
		out.Inventory[i] = s.Clone()
	}
	for i, tx := range t.Transactions {
		out.Transactions[i] = tx.Clone()
	}
	return out
}

// Clone returns a deep copy of p.
func (p Product) Clone() Product {
	return Product{
		ProductID: p.ProductID,
		Category:  CopyString(p.Category),
		UnitCost:  CopyFloat(p.UnitCost),
		ListPrice: CopyFloat(p.ListPrice),
	}
}

// Clone returns a deep copy of s.
func (s InventorySnapshot) Clone() InventorySnapshot {
	return InventorySnapshot{
		ProductID:            s.ProductID,
		Date:                 copyTime(s.Date),
		Category:             CopyString(s.Category),
		StockQuantity:        CopyFloat(s.StockQuantity),
		InventoryValueAtCost: CopyFloat(s.InventoryValueAtCost),
	}
}

// Clone returns a deep copy of t.
func (t Transaction) Clone() Transaction {
	return Transaction{
		ProductID:          t.ProductID,
		Date:               copyTime(t.Date),
		Category:           CopyString(t.Category),
		UnitsSold:          CopyFloat(t.UnitsSold),
		UnitSalePrice:      CopyFloat(t.UnitSalePrice),
		OriginalListPrice:  CopyFloat(t.OriginalListPrice),
		UnitDiscountAmount: CopyFloat(t.UnitDiscountAmount),
		UnitCost:           CopyFloat(t.UnitCost),
	}
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// CopyString returns a fresh pointer holding the same value, or nil.
func CopyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// CopyFloat returns a fresh pointer holding the same value, or nil.
func CopyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
