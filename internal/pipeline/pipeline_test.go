package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"retailkpi/internal/dataset"
	"retailkpi/internal/testutil"
	apperrors "retailkpi/pkg/errors"
	"retailkpi/pkg/models"
)

func loadSample(t *testing.T) models.RawTables {
	t.Helper()
	paths := testutil.WriteSampleData(t)
	raw, err := dataset.Load(dataset.Paths{Products: paths.Products, Inventory: paths.Inventory, Transactions: paths.Transactions})
	require.NoError(t, err)
	return raw
}

func gmroiByCategory(rows []models.GMROIRow) map[string]models.GMROIRow {
	out := make(map[string]models.GMROIRow, len(rows))
	for _, r := range rows {
		out[r.Category] = r
	}
	return out
}

func TestRunSample(t *testing.T) {
	res, err := New(DefaultOptions(), nil).Run(context.Background(), loadSample(t))
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)

	var ids []string
	for _, p := range res.Tables.Products {
		ids = append(ids, p.ProductID)
	}
	assert.Equal(t, []string{"P001", "P002", "P003", "P006", "P004", "P005"}, ids)

	var categories []string
	for _, r := range res.GMROI {
		categories = append(categories, r.Category)
	}
	assert.Equal(t, []string{"electronica", "hogar", "juguetes", "panaderia"}, categories)

	g := gmroiByCategory(res.GMROI)
	assert.InDelta(t, 1.0, *g["electronica"].GMROI, 1e-9)
	assert.InDelta(t, 90.0, g["hogar"].GrossMargin, 1e-9)
	assert.InDelta(t, 80.0, g["hogar"].AverageInventoryAtCost, 1e-9)
	assert.InDelta(t, 1.125, *g["hogar"].GMROI, 1e-9)
	assert.InDelta(t, 1.25, *g["panaderia"].GMROI, 1e-9)
	assert.False(t, g["juguetes"].Defined())

	var ranked []string
	for _, r := range res.Ranking {
		ranked = append(ranked, r.Category)
	}
	assert.Equal(t, []string{"panaderia", "hogar", "electronica"}, ranked)

	md := map[string]models.MarkdownRow{}
	for _, r := range res.Markdown {
		md[r.Category] = r
	}
	assert.Len(t, res.Markdown, 5)
	assert.InDelta(t, 30.0, md["hogar"].DiscountTotal, 1e-9)
	assert.InDelta(t, 170.0, md["hogar"].GrossSales, 1e-9)
	assert.InDelta(t, 17.647, md["hogar"].MarkdownPct, 1e-3)
	assert.InDelta(t, 16.667, md["juguetes"].MarkdownPct, 1e-3)

	require.Len(t, res.Unmatched, 1)
	assert.Equal(t, "zzz", res.Unmatched[0].Value)
}

func TestRunCompletesSampleRows(t *testing.T) {
	res, err := New(DefaultOptions(), nil).Run(context.Background(), loadSample(t))
	require.NoError(t, err)

	tx := res.Tables.Transactions
	assert.Equal(t, 40.0, *tx[1].UnitSalePrice)
	assert.Equal(t, "hogar", *tx[2].Category)
	assert.Equal(t, 5.0, *tx[2].UnitDiscountAmount)
	assert.Equal(t, 2.0, *tx[2].UnitsSold)

	inv := res.Tables.Inventory
	assert.Equal(t, "electronica", *inv[1].Category)
	assert.Equal(t, "hogar", *inv[3].Category)
	assert.Equal(t, 5.0, *inv[3].StockQuantity)
	assert.Equal(t, 100.0, *inv[2].InventoryValueAtCost)
	assert.Equal(t, "juguetes", *inv[5].Category)
	assert.Equal(t, *inv[2].Date, *inv[3].Date)
}

func TestRunHugeAmounts(t *testing.T) {
	str := models.String
	raw := models.RawTables{
		Products: []models.RawProduct{{ProductID: str("P1"), Category: str("hogar"), UnitCost: str("1e200"), ListPrice: str("30")}},
		Inventory: []models.RawInventory{
			{ProductID: str("P1"), Date: str("2024-01-01"), StockQuantity: str("1e200")},
			{ProductID: str("P1"), Date: str("2024-01-02"), StockQuantity: str("2")},
		},
		Transactions: []models.RawTransaction{
			{ProductID: str("P1"), Date: str("2024-01-01"), UnitsSold: str("1"), UnitSalePrice: str("20")},
		},
	}

	var res *Result
	var err error
	require.NotPanics(t, func() {
		res, err = New(DefaultOptions(), nil).Run(context.Background(), raw)
	})
	require.NoError(t, err)

	inv := res.Tables.Inventory
	assert.Nil(t, inv[0].InventoryValueAtCost)
	require.NotNil(t, inv[1].InventoryValueAtCost)
	assert.InEpsilon(t, 2e200, *inv[1].InventoryValueAtCost, 1e-9)

	require.Len(t, res.GMROI, 1)
	assert.Equal(t, "hogar", res.GMROI[0].Category)
	assert.True(t, res.GMROI[0].Defined())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultOptions(), nil).Run(ctx, models.RawTables{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePipelineAborted, apperrors.GetErrorCode(err))
}

func TestRunLogsStages(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := New(DefaultOptions(), zap.New(core)).Run(context.Background(), loadSample(t))
	require.NoError(t, err)

	stages := map[string]bool{}
	for _, e := range logs.FilterMessage("stage finished").All() {
		stages[e.ContextMap()["stage"].(string)] = true
	}
	assert.Equal(t, map[string]bool{StageNormalize: true, StageReconcile: true, StageComplete: true, StageKPI: true}, stages)
	assert.Equal(t, 1, logs.FilterMessage("category not reconciled").Len())
	for _, e := range logs.All() {
		assert.NotEmpty(t, e.ContextMap()["run_id"])
	}
}
