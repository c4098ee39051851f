package complete

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailkpi/pkg/models"
)

var (
	str = models.String
	num = models.Float
)

func productIDs(ps []models.Product) []string {
	var ids []string
	for _, p := range ps {
		ids = append(ids, p.ProductID)
	}
	return ids
}

func TestChainFirstMatchWins(t *testing.T) {
	inv := Lookup[string]{"P1": "hogar"}
	tx := Lookup[string]{"P1": "jardin", "P2": "moda"}
	c := NewChain(ProductCategorySources, map[Source]Lookup[string]{
		SourceInventory:    inv,
		SourceTransactions: tx,
	})

	assert.Equal(t, "hogar", *c.Get("P1"))
	assert.Equal(t, "moda", *c.Get("P2"))
	assert.Nil(t, c.Get("P3"))
	assert.Nil(t, c.Get(""))
}

func TestSourceOrder(t *testing.T) {
	assert.Equal(t, []Source{SourceInventory, SourceTransactions}, ProductCategorySources)
	assert.Equal(t, []Source{SourceTransactions}, ProductUnitCostSources)
	assert.Equal(t, []Source{SourceTransactions}, ProductListPriceSources)
}

func TestBuildLookupSkipsAbsent(t *testing.T) {
	rows := []models.Transaction{
		{ProductID: "P1"},
		{ProductID: "P1", UnitCost: num(4)},
		{ProductID: "P1", UnitCost: num(9)},
		{ProductID: "", UnitCost: num(1)},
	}
	l := BuildLookup(rows,
		func(tx models.Transaction) string { return tx.ProductID },
		func(tx models.Transaction) *float64 { return tx.UnitCost })

	assert.Equal(t, Lookup[float64]{"P1": 4}, l)
}

func TestProductsUnion(t *testing.T) {
	products := []models.Product{{ProductID: "P1", Category: str("hogar")}, {ProductID: "P1", Category: str("moda")}}
	inventory := []models.InventorySnapshot{
		{ProductID: "P2"},
		{ProductID: "P2", Category: str("jardin")},
		{ProductID: "P1"},
	}
	transactions := []models.Transaction{
		{ProductID: "P3", Category: str("bebidas"), UnitCost: num(2), OriginalListPrice: num(5)},
		{ProductID: "P2", Category: str("calzado")},
		{ProductID: ""},
	}

	got := Products(products, inventory, transactions)
	assert.Equal(t, []string{"P1", "P2", "P3"}, productIDs(got))
	assert.Equal(t, "hogar", *got[0].Category)
	// P2 arrived without category and is filled from inventory before transactions
	assert.Equal(t, "jardin", *got[1].Category)
	assert.Equal(t, "bebidas", *got[2].Category)
	assert.Equal(t, 2.0, *got[2].UnitCost)
	assert.Equal(t, 5.0, *got[2].ListPrice)
}

func TestProductsNoOverwrite(t *testing.T) {
	products := []models.Product{{ProductID: "P1", Category: str("hogar"), UnitCost: num(1), ListPrice: num(2)}}
	inventory := []models.InventorySnapshot{{ProductID: "P1", Category: str("moda")}}
	transactions := []models.Transaction{{ProductID: "P1", Category: str("jardin"), UnitCost: num(10), OriginalListPrice: num(20)}}

	got := Products(products, inventory, transactions)
	require.Len(t, got, 1)
	assert.Equal(t, "hogar", *got[0].Category)
	assert.Equal(t, 1.0, *got[0].UnitCost)
	assert.Equal(t, 2.0, *got[0].ListPrice)
}

func TestProductsDoesNotMutateInput(t *testing.T) {
	products := []models.Product{{ProductID: "P1"}}
	transactions := []models.Transaction{{ProductID: "P1", UnitCost: num(3)}}

	got := Products(products, nil, transactions)
	assert.Equal(t, 3.0, *got[0].UnitCost)
	assert.Nil(t, products[0].UnitCost)

	*got[0].UnitCost = 8
	assert.Equal(t, 3.0, *transactions[0].UnitCost)
}

func TestTransactionsSalePriceFromDiscount(t *testing.T) {
	got := Transactions([]models.Transaction{
		{ProductID: "P1", OriginalListPrice: num(100), UnitDiscountAmount: num(30)},
	}, nil)
	require.NotNil(t, got[0].UnitSalePrice)
	assert.Equal(t, 70.0, *got[0].UnitSalePrice)
}

func TestTransactionsDiscountIdentity(t *testing.T) {
	products := []models.Product{{ProductID: "P1", ListPrice: num(19.99), UnitCost: num(7.1), Category: str("hogar")}}
	transactions := []models.Transaction{
		{ProductID: "P1", UnitSalePrice: num(15.49)},
		{ProductID: "P1", UnitDiscountAmount: num(2.33)},
		{ProductID: "P1", OriginalListPrice: num(50), UnitSalePrice: num(40), UnitDiscountAmount: num(10)},
		{ProductID: "P2", UnitSalePrice: num(1)},
	}

	got := Transactions(transactions, products)
	for _, tx := range got {
		if tx.OriginalListPrice == nil || tx.UnitSalePrice == nil || tx.UnitDiscountAmount == nil {
			continue
		}
		assert.InDelta(t, *tx.UnitSalePrice, *tx.OriginalListPrice-*tx.UnitDiscountAmount, 1e-6)
	}
	assert.Equal(t, "hogar", *got[0].Category)
	assert.Equal(t, 7.1, *got[0].UnitCost)
	assert.Nil(t, got[3].OriginalListPrice)
	assert.Nil(t, got[3].UnitDiscountAmount)
}

func TestTransactionsNoOverwrite(t *testing.T) {
	products := []models.Product{{ProductID: "P1", Category: str("hogar"), UnitCost: num(20), ListPrice: num(50)}}
	transactions := []models.Transaction{{
		ProductID:          "P1",
		Category:           str("juguetes"),
		OriginalListPrice:  num(30),
		UnitCost:           num(10),
		UnitSalePrice:      num(25),
		UnitDiscountAmount: num(5),
		UnitsSold:          num(1),
	}}

	got, st := completeTransactions(transactions, products)
	require.Len(t, got, 1)
	assert.Equal(t, "juguetes", *got[0].Category)
	assert.Equal(t, 30.0, *got[0].OriginalListPrice)
	assert.Equal(t, 10.0, *got[0].UnitCost)
	assert.Equal(t, 25.0, *got[0].UnitSalePrice)
	assert.Equal(t, 5.0, *got[0].UnitDiscountAmount)
	assert.Equal(t, TransactionStats{}, st)
}

func TestTransactionsOverflowStaysAbsent(t *testing.T) {
	transactions := []models.Transaction{
		{ProductID: "P1", OriginalListPrice: num(math.MaxFloat64), UnitDiscountAmount: num(-math.MaxFloat64)},
		{ProductID: "P1", OriginalListPrice: num(-math.MaxFloat64), UnitSalePrice: num(math.MaxFloat64)},
	}

	got, st := completeTransactions(transactions, nil)
	assert.Nil(t, got[0].UnitSalePrice)
	assert.Nil(t, got[1].UnitDiscountAmount)
	assert.Equal(t, 0, st.UnitSalePrice)
	assert.Equal(t, 0, st.UnitDiscountAmount)
}

func TestTransactionsMedianUnits(t *testing.T) {
	transactions := []models.Transaction{
		{ProductID: "P1", Category: str("panaderia"), UnitsSold: num(5)},
		{ProductID: "P1", Category: str("panaderia"), UnitsSold: num(9)},
		{ProductID: "P1", Category: str("panaderia"), UnitsSold: num(7)},
		{ProductID: "P1", Category: str("panaderia")},
		{ProductID: "P9"},
		{ProductID: "P9", Category: str("moda")},
	}

	got := Transactions(transactions, nil)
	require.NotNil(t, got[3].UnitsSold)
	assert.Equal(t, 7.0, *got[3].UnitsSold)
	assert.Nil(t, got[4].UnitsSold)
	// no known units in the category
	assert.Nil(t, got[5].UnitsSold)
}

func TestMedianRoundsHalfToEven(t *testing.T) {
	medians := categoryMedians(
		[]*string{str("a"), str("a"), str("b"), str("b"), nil},
		[]*float64{num(2), num(3), num(3), num(4), num(100)},
	)
	assert.Equal(t, map[string]float64{"a": 2, "b": 4}, medians)
}

func TestInventory(t *testing.T) {
	products := []models.Product{
		{ProductID: "P1", Category: str("hogar"), UnitCost: num(2.5)},
		{ProductID: "P2", Category: str("hogar")},
	}
	inventory := []models.InventorySnapshot{
		{ProductID: "P1", StockQuantity: num(4)},
		{ProductID: "P1", StockQuantity: num(8)},
		{ProductID: "P1"},
		{ProductID: "P2"},
		{ProductID: "P1", StockQuantity: num(1), InventoryValueAtCost: num(99)},
	}

	got := Inventory(inventory, products)
	assert.Equal(t, "hogar", *got[0].Category)
	assert.Equal(t, 10.0, *got[0].InventoryValueAtCost)
	// median of 4, 8, 1 is 4
	assert.Equal(t, 4.0, *got[2].StockQuantity)
	assert.Equal(t, 10.0, *got[2].InventoryValueAtCost)
	assert.Equal(t, 4.0, *got[3].StockQuantity)
	// no unit cost known for P2
	assert.Nil(t, got[3].InventoryValueAtCost)
	assert.Equal(t, 99.0, *got[4].InventoryValueAtCost)
	assert.Nil(t, inventory[2].StockQuantity)
}

func TestInventoryValueOverflowStaysAbsent(t *testing.T) {
	products := []models.Product{{ProductID: "P1", Category: str("hogar"), UnitCost: num(1e200)}}
	inventory := []models.InventorySnapshot{{ProductID: "P1", StockQuantity: num(1e200)}}

	got, st := completeInventory(inventory, products)
	assert.Nil(t, got[0].InventoryValueAtCost)
	assert.Equal(t, 0, st.InventoryValueAtCost)
	assert.Equal(t, 1, st.Category)
}

func TestMedianOfHugeValuesIsFinite(t *testing.T) {
	assert.Equal(t, math.MaxFloat64, median([]float64{math.MaxFloat64, math.MaxFloat64}))
}

func TestComplete(t *testing.T) {
	tables := models.Tables{
		Products: []models.Product{{ProductID: "P1", Category: str("hogar")}},
		Inventory: []models.InventorySnapshot{
			{ProductID: "P1", StockQuantity: num(10)},
			{ProductID: "P2", Category: str("moda"), StockQuantity: num(3)},
		},
		Transactions: []models.Transaction{
			{ProductID: "P1", UnitCost: num(2), OriginalListPrice: num(5), UnitSalePrice: num(4), UnitsSold: num(1)},
			{ProductID: "P3", Category: str("jardin"), OriginalListPrice: num(100), UnitDiscountAmount: num(30), UnitsSold: num(2)},
		},
	}

	out, st := Complete(tables)
	assert.Equal(t, []string{"P1", "P2", "P3"}, productIDs(out.Products))
	assert.Equal(t, 2, st.Products.Added)
	assert.Equal(t, 1, st.Products.UnitCost)

	assert.Equal(t, "hogar", *out.Transactions[0].Category)
	assert.Equal(t, 1.0, *out.Transactions[0].UnitDiscountAmount)
	assert.Equal(t, 70.0, *out.Transactions[1].UnitSalePrice)
	assert.Equal(t, 1, st.Transactions.UnitSalePrice)
	assert.Equal(t, 1, st.Transactions.UnitDiscountAmount)

	assert.Equal(t, "hogar", *out.Inventory[0].Category)
	assert.Equal(t, 20.0, *out.Inventory[0].InventoryValueAtCost)
	assert.Nil(t, out.Inventory[1].InventoryValueAtCost)
	assert.Equal(t, 1, st.Inventory.InventoryValueAtCost)

	union := map[string]bool{}
	for _, id := range productIDs(out.Products) {
		union[id] = true
	}
	for _, s := range tables.Inventory {
		assert.True(t, union[s.ProductID])
	}
	for _, tx := range tables.Transactions {
		assert.True(t, union[tx.ProductID])
	}
}
