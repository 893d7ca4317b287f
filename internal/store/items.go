package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matejv/posteljnina/internal/model"
)

const itemColumns = `id, code, name, category, size, color, material, supplier, location,
	description, stock_quantity, min_stock_threshold, purchase_price, sale_price,
	intake_date, image_mime, status, created_at, updated_at`

// CreateItem creates a new item. A code is generated from the category when
// the item carries none. Returns ErrConflict when the code is already taken.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	if item.Code == "" {
		code, err := model.GenerateCode(item.Category)
		if err != nil {
			return nil, err
		}
		item.Code = code
	}
	if item.Status == "" {
		item.Status = model.StatusAvailable
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (code, name, category, size, color, material, supplier, location,
		                    description, stock_quantity, min_stock_threshold, purchase_price,
		                    sale_price, intake_date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Code, item.Name, item.Category, item.Size, item.Color, item.Material,
		item.Supplier, item.Location, item.Description, item.StockQuantity,
		item.MinStockThreshold, item.PurchasePrice.String(), item.SalePrice.String(),
		item.IntakeDate, item.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("item code %q: %w", item.Code, ErrConflict)
		}
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items, newest first.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's mutable fields. The code is immutable and is
// ignored even if set on the patch. Returns ErrNotFound when the id is absent.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, item model.Item) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, size = ?, color = ?, material = ?,
		        supplier = ?, location = ?, description = ?, stock_quantity = ?,
		        min_stock_threshold = ?, purchase_price = ?, sale_price = ?,
		        intake_date = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		item.Name, item.Category, item.Size, item.Color, item.Material,
		item.Supplier, item.Location, item.Description, item.StockQuantity,
		item.MinStockThreshold, item.PurchasePrice.String(), item.SalePrice.String(),
		item.IntakeDate, item.Status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteItem removes an item permanently. Sale history referencing the item
// is kept as-is (the snapshot fields make it self-contained).
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetItemImage sets an item's image data.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type. A nil slice means
// the item has no image.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var size, color, material, supplier, location, description, imageMime sql.NullString
	var purchasePrice, salePrice string
	err := s.Scan(&item.ID, &item.Code, &item.Name, &item.Category, &size, &color,
		&material, &supplier, &location, &description, &item.StockQuantity,
		&item.MinStockThreshold, &purchasePrice, &salePrice, &item.IntakeDate,
		&imageMime, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	item.Size = size.String
	item.Color = color.String
	item.Material = material.String
	item.Supplier = supplier.String
	item.Location = location.String
	item.Description = description.String
	item.ImageMime = imageMime.String

	if err := item.PurchasePrice.Scan(purchasePrice); err != nil {
		return nil, fmt.Errorf("parsing purchase price: %w", err)
	}
	if err := item.SalePrice.Scan(salePrice); err != nil {
		return nil, fmt.Errorf("parsing sale price: %w", err)
	}
	return item, nil
}
