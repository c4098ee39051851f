package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"retailkpi/internal/common"
	"retailkpi/internal/normalize"
	"retailkpi/pkg/models"
)

// Output file names of WriteTables.
const (
	ProductsFile     = "products_completed.csv"
	InventoryFile    = "inventory_completed.csv"
	TransactionsFile = "transactions_completed.csv"
)

var (
	productColumns     = []string{ColProductID, ColCategory, ColUnitCost, ColListPrice}
	inventoryColumns   = []string{ColProductID, ColDate, ColCategory, ColStockQuantity, ColInventoryValue}
	transactionColumns = []string{
		ColProductID, ColDate, ColCategory, ColUnitsSold, ColUnitSalePrice,
		ColOriginalListPrice, ColUnitDiscountAmount, ColUnitCost,
	}
)

// WriteTables writes the completed tables into dir and returns the paths
// written.
func WriteTables(dir string, t models.Tables) ([]string, error) {
	files := []struct {
		name  string
		write func(io.Writer, models.Tables) error
	}{
		{ProductsFile, writeProducts},
		{InventoryFile, writeInventory},
		{TransactionsFile, writeTransactions},
	}

	var written []string
	for _, f := range files {
		path, err := common.OutputFile(dir, f.name)
		if err != nil {
			return written, err
		}
		if err := writeFile(path, t, f.write); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, t models.Tables, write func(io.Writer, models.Tables) error) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, common.FilePermissionNormal) // #nosec G304 - path is inside the output directory
	if err != nil {
		return err
	}
	if err := write(file, t); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeProducts(w io.Writer, t models.Tables) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(productColumns); err != nil {
		return err
	}
	for _, p := range t.Products {
		if err := cw.Write([]string{p.ProductID, text(p.Category), FormatNumber(p.UnitCost), FormatNumber(p.ListPrice)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeInventory(w io.Writer, t models.Tables) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(inventoryColumns); err != nil {
		return err
	}
	for _, s := range t.Inventory {
		rec := []string{
			s.ProductID,
			normalize.FormatDate(s.Date),
			text(s.Category),
			FormatNumber(s.StockQuantity),
			FormatNumber(s.InventoryValueAtCost),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTransactions(w io.Writer, t models.Tables) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionColumns); err != nil {
		return err
	}
	for _, tx := range t.Transactions {
		rec := []string{
			tx.ProductID,
			normalize.FormatDate(tx.Date),
			text(tx.Category),
			FormatNumber(tx.UnitsSold),
			FormatNumber(tx.UnitSalePrice),
			FormatNumber(tx.OriginalListPrice),
			FormatNumber(tx.UnitDiscountAmount),
			FormatNumber(tx.UnitCost),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatNumber renders f in the shortest exact form, or "" when absent.
func FormatNumber(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
