// Package dataset reads and writes the three retail tables as CSV.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"retailkpi/internal/common"
	apperrors "retailkpi/pkg/errors"
	"retailkpi/pkg/models"
)

// Table names used in errors and logs.
const (
	TableProducts     = "products"
	TableInventory    = "inventory"
	TableTransactions = "transactions"
)

// Paths locates the three input files.
type Paths struct {
	Products     string
	Inventory    string
	Transactions string
}

// Column keys. Each accepts its English name and the Spanish source header.
const (
	ColProductID          = "product_id"
	ColCategory           = "category"
	ColUnitCost           = "unit_cost"
	ColListPrice          = "list_price"
	ColDate               = "date"
	ColStockQuantity      = "stock_quantity"
	ColInventoryValue     = "inventory_value_at_cost"
	ColUnitsSold          = "units_sold"
	ColUnitSalePrice      = "unit_sale_price"
	ColOriginalListPrice  = "original_list_price"
	ColUnitDiscountAmount = "unit_discount_amount"
)

var headerAliases = map[string]string{
	"product_id":               ColProductID,
	"category":                 ColCategory,
	"categoria":                ColCategory,
	"unit_cost":                ColUnitCost,
	"costo_unitario":           ColUnitCost,
	"list_price":               ColListPrice,
	"precio_lista":             ColListPrice,
	"date":                     ColDate,
	"fecha":                    ColDate,
	"stock_quantity":           ColStockQuantity,
	"cantidad_stock":           ColStockQuantity,
	"inventory_value_at_cost":  ColInventoryValue,
	"valor_inventario_costo":   ColInventoryValue,
	"units_sold":               ColUnitsSold,
	"unidades_vendidas":        ColUnitsSold,
	"unit_sale_price":          ColUnitSalePrice,
	"precio_unitario_venta":    ColUnitSalePrice,
	"original_list_price":      ColOriginalListPrice,
	"precio_lista_original":    ColOriginalListPrice,
	"unit_discount_amount":     ColUnitDiscountAmount,
	"monto_descuento_unitario": ColUnitDiscountAmount,
}

// naTokens are cell values read as empty, matching common dataframe readers.
var naTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "nan": true, "null": true,
	"none": true, "#n/a": true, "<na>": true, "-nan": true,
}

// Frame is a parsed CSV file addressed by column key.
type Frame struct {
	columns map[string]int
	records [][]string
}

// Len returns the number of data rows.
func (f *Frame) Len() int { return len(f.records) }

// Has reports whether the header carried the column.
func (f *Frame) Has(col string) bool {
	_, ok := f.columns[col]
	return ok
}

// Cell returns the value of col in row i, nil when the column is missing,
// the record is short or the cell is empty.
func (f *Frame) Cell(i int, col string) *string {
	idx, ok := f.columns[col]
	if !ok || idx >= len(f.records[i]) {
		return nil
	}
	v := f.records[i][idx]
	if naTokens[strings.ToLower(strings.TrimSpace(v))] {
		return nil
	}
	return &v
}

// ReadFrame parses CSV with a header row. A UTF-8 byte order mark is ignored
// and records may have fewer or more fields than the header.
func ReadFrame(r io.Reader) (*Frame, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})

	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("file is empty")
		}
		return nil, err
	}

	f := &Frame{columns: make(map[string]int, len(headers))}
	for i, h := range headers {
		key, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := f.columns[key]; !dup {
			f.columns[key] = i
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		f.records = append(f.records, rec)
	}
	return f, nil
}

func readTable(table, path string) (*Frame, error) {
	resolved, err := common.ResolvePath(path)
	if err != nil {
		return nil, apperrors.InputError(table, path, err)
	}

	file, err := os.Open(resolved) // #nosec G304 - input path is user configuration
	if err != nil {
		return nil, apperrors.InputError(table, path, err)
	}
	defer file.Close()

	frame, err := ReadFrame(file)
	if err != nil {
		return nil, apperrors.InputError(table, path, err)
	}
	if !frame.Has(ColProductID) {
		return nil, apperrors.MissingColumnError(table, ColProductID).WithContext("path", path)
	}
	return frame, nil
}

// Load reads all three tables. Any failure is fatal for the run.
func Load(paths Paths) (models.RawTables, error) {
	var raw models.RawTables

	products, err := readTable(TableProducts, paths.Products)
	if err != nil {
		return raw, err
	}
	inventory, err := readTable(TableInventory, paths.Inventory)
	if err != nil {
		return raw, err
	}
	transactions, err := readTable(TableTransactions, paths.Transactions)
	if err != nil {
		return raw, err
	}

	raw.Products = RawProducts(products)
	raw.Inventory = RawInventory(inventory)
	raw.Transactions = RawTransactions(transactions)
	return raw, nil
}

// RawProducts maps a frame onto product master rows.
func RawProducts(f *Frame) []models.RawProduct {
	out := make([]models.RawProduct, f.Len())
	for i := range out {
		out[i] = models.RawProduct{
			ProductID: f.Cell(i, ColProductID),
			Category:  f.Cell(i, ColCategory),
			UnitCost:  f.Cell(i, ColUnitCost),
			ListPrice: f.Cell(i, ColListPrice),
		}
	}
	return out
}

// RawInventory maps a frame onto daily inventory rows.
func RawInventory(f *Frame) []models.RawInventory {
	out := make([]models.RawInventory, f.Len())
	for i := range out {
		out[i] = models.RawInventory{
			ProductID:            f.Cell(i, ColProductID),
			Date:                 f.Cell(i, ColDate),
			Category:             f.Cell(i, ColCategory),
			StockQuantity:        f.Cell(i, ColStockQuantity),
			InventoryValueAtCost: f.Cell(i, ColInventoryValue),
		}
	}
	return out
}

// RawTransactions maps a frame onto sales lines.
func RawTransactions(f *Frame) []models.RawTransaction {
	out := make([]models.RawTransaction, f.Len())
	for i := range out {
		out[i] = models.RawTransaction{
			ProductID:          f.Cell(i, ColProductID),
			Date:               f.Cell(i, ColDate),
			Category:           f.Cell(i, ColCategory),
			UnitsSold:          f.Cell(i, ColUnitsSold),
			UnitSalePrice:      f.Cell(i, ColUnitSalePrice),
			OriginalListPrice:  f.Cell(i, ColOriginalListPrice),
			UnitDiscountAmount: f.Cell(i, ColUnitDiscountAmount),
			UnitCost:           f.Cell(i, ColUnitCost),
		}
	}
	return out
}
