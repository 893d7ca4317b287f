package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matejv/posteljnina/internal/model"
)

const saleColumns = `id, item_id, item_code, item_name, item_category, item_size, item_color,
	quantity_sold, unit_sale_price, total_sale_amount, payment_method, customer, notes,
	sold_at, sold_by`

// Sell executes a sale against an item as a single transaction: it checks
// stock sufficiency, decrements the stock, transitions the status to sold when
// the stock reaches zero, and writes the sale record with the item fields
// snapshotted as they were before the decrement.
//
// The sufficiency check and the decrement are one conditional UPDATE
// (stock_quantity >= quantity guard), so two concurrent sales can never both
// pass the check and oversell the item. If the sale record cannot be written
// after the decrement, the transaction rolls back and an UnrecordedSaleError
// is returned; stock is left unchanged.
//
// priceOverride, when non-nil, replaces the item's current sale price for
// this sale only.
func Sell(ctx context.Context, db *sql.DB, itemID int64, quantity int, priceOverride *decimal.Decimal, paymentMethod, customer, notes string, soldBy *int64) (*model.Sale, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Reason: "quantity sold must be positive"}
	}
	if !model.ValidPaymentMethod(paymentMethod) {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown payment method %q", paymentMethod)}
	}
	if priceOverride != nil && priceOverride.IsNegative() {
		return nil, &ValidationError{Reason: "sale price cannot be negative"}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Snapshot the item before mutating it; the sale record carries these
	// values even if the item is later edited or deleted.
	row := tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, itemID)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading item: %w", err)
	}

	// Conditional decrement: the stock guard and the write are one statement,
	// and stock can never go negative. The status flips to sold exactly when
	// the remaining stock hits zero.
	result, err := tx.ExecContext(ctx,
		`UPDATE items
		 SET stock_quantity = stock_quantity - ?,
		     status = CASE WHEN stock_quantity - ? = 0 THEN ? ELSE status END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND stock_quantity >= ?`,
		quantity, quantity, model.StatusSold, itemID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("decrementing stock: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("decrementing stock: %w", err)
	}
	if n == 0 {
		return nil, &InsufficientStockError{ItemID: itemID, Have: item.StockQuantity, Need: quantity}
	}

	unitPrice := item.SalePrice
	if priceOverride != nil {
		unitPrice = *priceOverride
	}
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	// sold_at is written explicitly so all timestamps share the driver's
	// format and range queries compare cleanly.
	result, err = tx.ExecContext(ctx,
		`INSERT INTO sales (item_id, item_code, item_name, item_category, item_size, item_color,
		                    quantity_sold, unit_sale_price, total_sale_amount, payment_method,
		                    customer, notes, sold_at, sold_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		itemID, item.Code, item.Name, item.Category, item.Size, item.Color,
		quantity, unitPrice.String(), total.String(), paymentMethod,
		customer, notes, time.Now().UTC(), soldBy,
	)
	if err != nil {
		return nil, &UnrecordedSaleError{ItemID: itemID, Err: err}
	}

	saleID, err := result.LastInsertId()
	if err != nil {
		return nil, &UnrecordedSaleError{ItemID: itemID, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &UnrecordedSaleError{ItemID: itemID, Err: fmt.Errorf("committing sale: %w", err)}
	}

	return GetSale(ctx, db, saleID)
}

// GetSale returns a sale by ID, or ErrNotFound.
func GetSale(ctx context.Context, db *sql.DB, id int64) (*model.Sale, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
	sale, err := scanSale(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting sale: %w", err)
	}
	return sale, nil
}

// ListSales returns all sales, newest first.
func ListSales(ctx context.Context, db *sql.DB) ([]model.Sale, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY sold_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// ListSalesByDateRange returns sales whose timestamp falls within [start, end),
// newest first.
func ListSalesByDateRange(ctx context.Context, db *sql.DB, start, end time.Time) ([]model.Sale, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales
		 WHERE sold_at >= ? AND sold_at < ?
		 ORDER BY sold_at DESC, id DESC`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sales by date range: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// ListItemSales returns the sale history of one item, newest first. Works for
// deleted items too, since sale rows are self-contained.
func ListItemSales(ctx context.Context, db *sql.DB, itemID int64) ([]model.Sale, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE item_id = ? ORDER BY sold_at DESC, id DESC`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item sales: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// DeleteSale removes a sale record. When restoreStock is true the sold
// quantity is credited back to the item (and a sold status reopened to
// available); when false the deletion is a pure history edit and stock is
// left alone. A sale whose item no longer exists is deleted without restore
// in either mode.
func DeleteSale(ctx context.Context, db *sql.DB, id int64, restoreStock bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
	sale, err := scanSale(row)
	if err == sql.ErrNoRows {
		return fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading sale: %w", err)
	}

	if restoreStock {
		// Zero rows affected means the item was deleted since the sale;
		// the deletion then degrades to a plain history edit.
		_, err = tx.ExecContext(ctx,
			`UPDATE items
			 SET stock_quantity = stock_quantity + ?,
			     status = CASE WHEN status = ? THEN ? ELSE status END,
			     updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			sale.QuantitySold, model.StatusSold, model.StatusAvailable, sale.ItemID,
		)
		if err != nil {
			return fmt.Errorf("restoring stock: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sale deletion: %w", err)
	}
	return nil
}

func scanSale(s scanner) (*model.Sale, error) {
	sale := &model.Sale{}
	var size, color, customer, notes sql.NullString
	var unitPrice, total string
	err := s.Scan(&sale.ID, &sale.ItemID, &sale.ItemCode, &sale.ItemName, &sale.ItemCategory,
		&size, &color, &sale.QuantitySold, &unitPrice, &total, &sale.PaymentMethod,
		&customer, &notes, &sale.SoldAt, &sale.SoldBy)
	if err != nil {
		return nil, err
	}

	sale.ItemSize = size.String
	sale.ItemColor = color.String
	sale.Customer = customer.String
	sale.Notes = notes.String

	if err := sale.UnitSalePrice.Scan(unitPrice); err != nil {
		return nil, fmt.Errorf("parsing unit sale price: %w", err)
	}
	if err := sale.TotalSaleAmount.Scan(total); err != nil {
		return nil, fmt.Errorf("parsing total sale amount: %w", err)
	}
	return sale, nil
}

func scanSales(rows *sql.Rows) ([]model.Sale, error) {
	var sales []model.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}
