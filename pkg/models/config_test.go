package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigYAMLKeys(t *testing.T) {
	raw := `
inputs:
  products: data/maestro_productos.csv
  inventory: data/inventario_diario.csv
  transactions: data/transacciones_ventas.csv
normalize:
  reference_year: 2025
reconcile:
  threshold: 40
  aliases:
    electro: electronica
scrape:
  max_pages: 3
  min_delay: 1s
  respect_robots: true
runner:
  analyses: [retail, scrape]
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	assert.Equal(t, "data/maestro_productos.csv", cfg.Inputs.Products)
	assert.Equal(t, 2025, cfg.Normalize.ReferenceYear)
	assert.Equal(t, 40.0, cfg.Reconcile.Threshold)
	assert.Equal(t, "electronica", cfg.Reconcile.Aliases["electro"])
	assert.Equal(t, 3, cfg.Scrape.MaxPages)
	assert.Equal(t, "1s", cfg.Scrape.MinDelay)
	assert.True(t, cfg.Scrape.RespectRobots)
	assert.Equal(t, []string{"retail", "scrape"}, cfg.Runner.Analyses)
}

func TestEmptyConfig(t *testing.T) {
	data, err := yaml.Marshal(&Config{})
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Empty(t, cfg.Reconcile.Aliases)
	assert.Empty(t, cfg.Reconcile.Vocabulary)
}

func TestTablesCloneIsDeep(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	orig := Tables{
		Products:     []Product{{ProductID: "P1", Category: String("hogar"), UnitCost: Float(10)}},
		Inventory:    []InventorySnapshot{{ProductID: "P1", Date: &day, StockQuantity: Float(3)}},
		Transactions: []Transaction{{ProductID: "P1", UnitsSold: Float(2)}},
	}

	c := orig.Clone()
	*c.Products[0].Category = "jardin"
	*c.Products[0].UnitCost = 99
	*c.Inventory[0].StockQuantity = 7
	*c.Inventory[0].Date = day.AddDate(0, 0, 1)
	*c.Transactions[0].UnitsSold = 5

	assert.Equal(t, "hogar", *orig.Products[0].Category)
	assert.Equal(t, 10.0, *orig.Products[0].UnitCost)
	assert.Equal(t, 3.0, *orig.Inventory[0].StockQuantity)
	assert.Equal(t, day, *orig.Inventory[0].Date)
	assert.Equal(t, 2.0, *orig.Transactions[0].UnitsSold)
	assert.Nil(t, c.Products[0].ListPrice)
}

func TestListingPricePerSquareMeter(t *testing.T) {
	assert.Equal(t, 50.0, Listing{PriceUF: 5000, SquareMeters: 100}.PricePerSquareMeter())
	assert.Equal(t, 0.0, Listing{PriceUF: 5000}.PricePerSquareMeter())
}
