package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"retailkpi/internal/complete"
	"retailkpi/internal/dataset"
	"retailkpi/internal/report"
	"retailkpi/internal/ui"
)

func newCleanCmd(app *App) *cobra.Command {
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Write the completed tables without computing KPIs",
		Long: `Run normalization, reconciliation and cross-table completion and write the
three completed tables as CSV files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			raw, err := loadTables(cfg, app.Logger)
			if err != nil {
				return err
			}
			res, err := newPipeline(cfg, app.Logger).Clean(cmd.Context(), raw)
			if err != nil {
				return err
			}

			dir := cfg.Output.Dir
			if dir == "" {
				dir = "."
			}
			files, err := dataset.WriteTables(dir, res.Tables)
			if err != nil {
				return err
			}

			showStats(res.Stats)
			if len(res.Unmatched) > 0 {
				ui.ShowWarning(fmt.Sprintf("%d category values were left as they are:", len(res.Unmatched)))
				report.NewRenderer(app.useColor()).RenderUnmatched(cmd.OutOrStdout(), res.Unmatched)
			}
			for _, f := range files {
				ui.ShowSuccess("Wrote " + f)
			}
			return nil
		},
	}
	cleanCmd.Flags().String("out-dir", "", "directory for the completed tables (default current directory)")
	bindFlag(cleanCmd.Flags(), "out-dir", "output.dir")
	return cleanCmd
}

func showStats(s complete.Stats) {
	ui.ShowInfo(fmt.Sprintf("products: %d added, %d categories, %d unit costs, %d list prices filled",
		s.Products.Added, s.Products.Category, s.Products.UnitCost, s.Products.ListPrice))
	ui.ShowInfo(fmt.Sprintf("inventory: %d categories, %d stock quantities, %d values filled",
		s.Inventory.Category, s.Inventory.StockQuantity, s.Inventory.InventoryValueAtCost))
	ui.ShowInfo(fmt.Sprintf("transactions: %d categories, %d list prices, %d unit costs, %d sale prices, %d discounts, %d units filled",
		s.Transactions.Category, s.Transactions.OriginalListPrice, s.Transactions.UnitCost,
		s.Transactions.UnitSalePrice, s.Transactions.UnitDiscountAmount, s.Transactions.UnitsSold))
}
