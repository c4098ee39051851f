package complete

import "retailkpi/pkg/models"

// Transactions completes sales lines from the product master and imputes
// missing units sold with the per-category median.
func Transactions(transactions []models.Transaction, products []models.Product) []models.Transaction {
	out, _ := completeTransactions(transactions, products)
	return out
}

func completeTransactions(transactions []models.Transaction, products []models.Product) ([]models.Transaction, TransactionStats) {
	var st TransactionStats
	lk := newProductLookups(products)

	out := make([]models.Transaction, len(transactions))
	for i, tx := range transactions {
		tx = tx.Clone()
		if tx.ProductID != "" {
			if tx.Category == nil {
				if tx.Category = lk.category.Get(tx.ProductID); tx.Category != nil {
					st.Category++
				}
			}
			if tx.OriginalListPrice == nil {
				if tx.OriginalListPrice = lk.listPrice.Get(tx.ProductID); tx.OriginalListPrice != nil {
					st.OriginalListPrice++
				}
			}
			if tx.UnitCost == nil {
				if tx.UnitCost = lk.unitCost.Get(tx.ProductID); tx.UnitCost != nil {
					st.UnitCost++
				}
			}
		}

		// sale = list - discount when the sale is missing, then
		// discount = list - sale when the discount is missing
		if tx.UnitSalePrice == nil && tx.OriginalListPrice != nil && tx.UnitDiscountAmount != nil {
			if v := *tx.OriginalListPrice - *tx.UnitDiscountAmount; finite(v) {
				tx.UnitSalePrice = &v
				st.UnitSalePrice++
			}
		}
		if tx.UnitDiscountAmount == nil && tx.OriginalListPrice != nil && tx.UnitSalePrice != nil {
			if v := *tx.OriginalListPrice - *tx.UnitSalePrice; finite(v) {
				tx.UnitDiscountAmount = &v
				st.UnitDiscountAmount++
			}
		}
		out[i] = tx
	}

	categories := make([]*string, len(out))
	units := make([]*float64, len(out))
	for i := range out {
		categories[i] = out[i].Category
		units[i] = out[i].UnitsSold
	}
	st.UnitsSold = imputeMedian(categories, units)
	for i := range out {
		out[i].UnitsSold = units[i]
	}

	return out, st
}
