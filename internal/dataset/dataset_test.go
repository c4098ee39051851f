package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailkpi/internal/testutil"
	apperrors "retailkpi/pkg/errors"
	"retailkpi/pkg/models"
)

func TestReadFrame(t *testing.T) {
	in := "\xEF\xBB\xBFProduct_ID,Categoria,Extra\nP1,Hogar,x\nP2,,y\nP3\nP4,NaN\n"
	f, err := ReadFrame(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 4, f.Len())
	assert.True(t, f.Has(ColProductID))
	assert.True(t, f.Has(ColCategory))
	assert.False(t, f.Has(ColUnitCost))

	assert.Equal(t, "P1", *f.Cell(0, ColProductID))
	assert.Equal(t, "Hogar", *f.Cell(0, ColCategory))
	assert.Nil(t, f.Cell(1, ColCategory))
	assert.Nil(t, f.Cell(2, ColCategory))
	assert.Nil(t, f.Cell(3, ColCategory))
	assert.Nil(t, f.Cell(0, ColUnitCost))
}

func TestReadFrameEmpty(t *testing.T) {
	_, err := ReadFrame(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	paths := testutil.WriteSampleData(t)

	raw, err := Load(Paths{Products: paths.Products, Inventory: paths.Inventory, Transactions: paths.Transactions})
	require.NoError(t, err)

	assert.Len(t, raw.Products, len(testutil.SampleProducts)-1)
	assert.Len(t, raw.Inventory, len(testutil.SampleInventory)-1)
	assert.Len(t, raw.Transactions, len(testutil.SampleTransactions)-1)
	assert.Equal(t, "P001", *raw.Products[0].ProductID)
	assert.NotNil(t, raw.Transactions[0].UnitsSold)
}

func TestLoadMissingFile(t *testing.T) {
	paths := testutil.WriteSampleData(t)

	_, err := Load(Paths{Products: paths.Products, Inventory: filepath.Join(t.TempDir(), "nope.csv"), Transactions: paths.Transactions})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeFileNotFound, apperrors.GetErrorCode(err))
}

func TestLoadMissingProductID(t *testing.T) {
	paths := testutil.WriteSampleData(t)
	bad := testutil.WriteCSV(t, "bad.csv", [][]string{{"categoria"}, {"hogar"}})

	_, err := Load(Paths{Products: paths.Products, Inventory: paths.Inventory, Transactions: bad})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMissingColumn, apperrors.GetErrorCode(err))
}

func TestWriteTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	tables := models.Tables{
		Products: []models.Product{{ProductID: "P1", Category: models.String("hogar"), UnitCost: models.Float(2.5)}},
	}

	written, err := WriteTables(dir, tables)
	require.NoError(t, err)
	require.Len(t, written, 3)

	data, err := os.ReadFile(filepath.Join(dir, ProductsFile))
	require.NoError(t, err)
	assert.Equal(t, "product_id,category,unit_cost,list_price\nP1,hogar,2.5,\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, TransactionsFile))
	require.NoError(t, err)
	assert.Equal(t, "product_id,date,category,units_sold,unit_sale_price,original_list_price,unit_discount_amount,unit_cost\n", string(data))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "", FormatNumber(nil))
	assert.Equal(t, "70", FormatNumber(models.Float(70)))
	assert.Equal(t, "0.1", FormatNumber(models.Float(0.1)))
}
