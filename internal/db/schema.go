package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Prices are stored as TEXT and scanned
// into decimal values, so amounts never pass through floats.
//
// sales.item_id intentionally has no foreign key: items are hard-deleted and
// sale history must survive with a dangling reference, which is why the item
// fields are snapshotted onto the sale row.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'cashier' CHECK (role IN ('admin', 'manager', 'cashier')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id                  INTEGER PRIMARY KEY,
    code                TEXT NOT NULL UNIQUE,
    name                TEXT NOT NULL,
    category            TEXT NOT NULL CHECK (category IN ('sheets', 'pillows', 'blankets', 'duvets', 'covers', 'towels')),
    size                TEXT,
    color               TEXT,
    material            TEXT,
    supplier            TEXT,
    location            TEXT,
    description         TEXT,
    stock_quantity      INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
    min_stock_threshold INTEGER NOT NULL DEFAULT 0 CHECK (min_stock_threshold >= 0),
    purchase_price      TEXT NOT NULL DEFAULT '0',
    sale_price          TEXT NOT NULL DEFAULT '0',
    intake_date         DATE NOT NULL DEFAULT CURRENT_DATE,
    image               BLOB,
    image_mime          TEXT,
    status              TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'reserved', 'sold', 'damaged')),
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sales (
    id                INTEGER PRIMARY KEY,
    item_id           INTEGER NOT NULL,
    item_code         TEXT NOT NULL,
    item_name         TEXT NOT NULL,
    item_category     TEXT NOT NULL,
    item_size         TEXT,
    item_color        TEXT,
    quantity_sold     INTEGER NOT NULL CHECK (quantity_sold > 0),
    unit_sale_price   TEXT NOT NULL,
    total_sale_amount TEXT NOT NULL,
    payment_method    TEXT NOT NULL CHECK (payment_method IN ('cash', 'debit', 'credit')),
    customer          TEXT,
    notes             TEXT,
    sold_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    sold_by           INTEGER REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_sales_sold_at ON sales(sold_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
