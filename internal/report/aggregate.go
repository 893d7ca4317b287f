package report

import (
	"github.com/shopspring/decimal"

	"github.com/matejv/posteljnina/internal/model"
)

// The sums below deliberately skip malformed entries instead of failing.
// Rows written by this system always pass, but imported or hand-edited data
// can carry negative quantities or prices; such entries contribute zero to
// every aggregate, and no aggregation ever returns an error.

// wellFormedItem reports whether an item's quantity and price are usable
// numbers for aggregation.
func wellFormedItem(item *model.Item) bool {
	return item.StockQuantity >= 0 && !item.SalePrice.IsNegative()
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// InventoryValue sums stock quantity times sale price across the items.
func InventoryValue(items []model.Item) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		if !wellFormedItem(&items[i]) {
			continue
		}
		total = total.Add(items[i].SalePrice.Mul(decimalFromInt(items[i].StockQuantity)))
	}
	return total
}

// UnitsInStock sums the stock quantities across the items. An item malformed
// in either field contributes nothing here, just as in InventoryValue, so the
// two aggregates always describe the same view.
func UnitsInStock(items []model.Item) int {
	total := 0
	for i := range items {
		if !wellFormedItem(&items[i]) {
			continue
		}
		total += items[i].StockQuantity
	}
	return total
}

// SalesTotal sums the stored total sale amounts across the sales. The totals
// were computed at sale time and are not recomputed here.
func SalesTotal(sales []model.Sale) decimal.Decimal {
	total := decimal.Zero
	for i := range sales {
		if sales[i].TotalSaleAmount.IsNegative() {
			continue
		}
		total = total.Add(sales[i].TotalSaleAmount)
	}
	return total
}

// Summary is the derived overview of a filtered inventory/sales view.
type Summary struct {
	ItemCount      int             `json:"item_count"`
	UnitsInStock   int             `json:"units_in_stock"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	SaleCount      int             `json:"sale_count"`
	SalesTotal     decimal.Decimal `json:"sales_total"`
	LowStock       []model.Item    `json:"low_stock"`
}

// Summarize computes the full summary for a filtered view.
func Summarize(items []model.Item, sales []model.Sale) Summary {
	low := LowStock(items)
	if low == nil {
		low = []model.Item{}
	}
	return Summary{
		ItemCount:      len(items),
		UnitsInStock:   UnitsInStock(items),
		InventoryValue: InventoryValue(items),
		SaleCount:      len(sales),
		SalesTotal:     SalesTotal(sales),
		LowStock:       low,
	}
}
