package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/matejv/posteljnina/internal/model"
)

// Workbook builds an XLSX report with one sheet for the inventory view, one
// for the sales view, and a summary row at the top of each. The caller is
// expected to have filtered the collections already.
func Workbook(items []model.Item, sales []model.Sale) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeInventorySheet(f, items); err != nil {
		return nil, err
	}
	if err := writeSalesSheet(f, sales); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by Inventory.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	return f, nil
}

func writeInventorySheet(f *excelize.File, items []model.Item) error {
	const sheet = "Inventory"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating inventory sheet: %w", err)
	}

	headers := []string{"Code", "Name", "Category", "Size", "Color", "Supplier",
		"Location", "Stock", "Min threshold", "Sale price", "Stock value", "Status", "Intake date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i := range items {
		item := &items[i]
		row := i + 2
		value := "-"
		if wellFormedItem(item) {
			value = item.SalePrice.Mul(decimalFromInt(item.StockQuantity)).StringFixed(2)
		}
		values := []any{item.Code, item.Name, item.Category, item.Size, item.Color,
			item.Supplier, item.Location, item.StockQuantity, item.MinStockThreshold,
			item.SalePrice.StringFixed(2), value, item.Status, item.IntakeDate.Format("2006-01-02")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	totalRow := len(items) + 3
	f.SetCellValue(sheet, "A"+fmt.Sprint(totalRow), "Total units")
	f.SetCellValue(sheet, "B"+fmt.Sprint(totalRow), UnitsInStock(items))
	f.SetCellValue(sheet, "A"+fmt.Sprint(totalRow+1), "Total value")
	f.SetCellValue(sheet, "B"+fmt.Sprint(totalRow+1), InventoryValue(items).StringFixed(2))
	return nil
}

func writeSalesSheet(f *excelize.File, sales []model.Sale) error {
	const sheet = "Sales"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sales sheet: %w", err)
	}

	headers := []string{"Date", "Code", "Name", "Category", "Size", "Color",
		"Quantity", "Unit price", "Total", "Payment", "Customer", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i := range sales {
		sale := &sales[i]
		row := i + 2
		values := []any{sale.SoldAt.Format("2006-01-02 15:04"), sale.ItemCode, sale.ItemName,
			sale.ItemCategory, sale.ItemSize, sale.ItemColor, sale.QuantitySold,
			sale.UnitSalePrice.StringFixed(2), sale.TotalSaleAmount.StringFixed(2),
			sale.PaymentMethod, sale.Customer, sale.Notes}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	totalRow := len(sales) + 3
	f.SetCellValue(sheet, "A"+fmt.Sprint(totalRow), "Total sales")
	f.SetCellValue(sheet, "B"+fmt.Sprint(totalRow), SalesTotal(sales).StringFixed(2))
	return nil
}
