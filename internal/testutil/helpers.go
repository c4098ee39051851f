package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"retailkpi/internal/common"
)

// Sample tables with the Spanish source headers. Expected results in the
// pipeline tests are derived from these rows, so change them together.
var (
	SampleProducts = [][]string{
		{"product_id", "categoria", "costo_unitario", "precio_lista"},
		{"P001", "Electrónica", "$100", "$150"},
		{"P002", "hogar ", "", "$50"},
		{"P003", "", "$5", "$10"},
		{"P006", "zzz", "1", "2"},
	}

	SampleInventory = [][]string{
		{"product_id", "fecha", "categoria", "cantidad_stock", "valor_inventario_costo"},
		{"P001", "01/03/2024", "electronica", "10", "1000"},
		{"P001", "02/03/2024", "ElectrÃ³nica", "0", "0"},
		{"P002", "2024-03-01", "Hogar", "5", ""},
		{"P002", "bad", "", "", "60"},
		{"P003", "03/03/2024", "panaderia", "4", "20"},
		{"P004", "03/03/2024", "Jugetes", "2", "0"},
	}

	SampleTransactions = [][]string{
		{"product_id", "fecha", "categoria", "unidades_vendidas", "precio_unitario_venta", "precio_lista_original", "monto_descuento_unitario", "costo_unitario"},
		{"P001", "05/03/2024", "electronica", "10", "$150", "$150", "0", "$100"},
		{"P002", "06/03/2024", "hogar", "2", "", "50", "10", "20"},
		{"P002", "07/03/2024", "", "", "45", "", "", ""},
		{"P003", "08/03/2024", "panaderia", "5", "10", "10", "0", "5"},
		{"P004", "08/03/2024", "juguetes", "1", "30", "35", "5", "20"},
		{"P005", "09/03/2024", "bebidas", "3", "2", "2", "0", "1"},
	}
)

// SamplePaths locates the sample files written by WriteSampleData.
type SamplePaths struct {
	Dir          string
	Products     string
	Inventory    string
	Transactions string
}

// TestHelper provides common test utilities
type TestHelper struct {
	t   *testing.T
	dir string
}

// NewTestHelper creates a helper writing into a fresh temporary directory
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	return &TestHelper{t: t, dir: t.TempDir()}
}

// Dir returns the helper's directory.
func (h *TestHelper) Dir() string { return h.dir }

// WriteFile writes content to a file in the helper's directory
func (h *TestHelper) WriteFile(filename, content string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, filename)

	if err := os.MkdirAll(filepath.Dir(path), common.DirPermissionNormal); err != nil {
		h.t.Fatalf("Failed to create directories: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), common.FilePermissionNormal); err != nil {
		h.t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

// WriteCSV writes rows, header first, to a file in the helper's directory
func (h *TestHelper) WriteCSV(filename string, rows [][]string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, filename)

	f, err := os.Create(path) // #nosec G304 - test path
	if err != nil {
		h.t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		h.t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteSample writes the three sample tables
func (h *TestHelper) WriteSample() SamplePaths {
	h.t.Helper()
	return SamplePaths{
		Dir:          h.dir,
		Products:     h.WriteCSV("maestro_productos.csv", SampleProducts),
		Inventory:    h.WriteCSV("inventario_diario.csv", SampleInventory),
		Transactions: h.WriteCSV("transacciones_ventas.csv", SampleTransactions),
	}
}

// WriteCSV writes rows into a new temporary directory.
func WriteCSV(t *testing.T, filename string, rows [][]string) string {
	t.Helper()
	return NewTestHelper(t).WriteCSV(filename, rows)
}

// WriteSampleData writes the sample tables into a new temporary directory.
func WriteSampleData(t *testing.T) SamplePaths {
	t.Helper()
	return NewTestHelper(t).WriteSample()
}
