package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a bedding product tracked by quantity.
type Item struct {
	ID                int64           `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Size              string          `json:"size,omitempty"`
	Color             string          `json:"color,omitempty"`
	Material          string          `json:"material,omitempty"`
	Supplier          string          `json:"supplier,omitempty"`
	Location          string          `json:"location,omitempty"`
	Description       string          `json:"description,omitempty"`
	StockQuantity     int             `json:"stock_quantity"`
	MinStockThreshold int             `json:"min_stock_threshold"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	IntakeDate        time.Time       `json:"intake_date"`
	ImageMime         string          `json:"image_mime,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Item statuses. StatusSold is set automatically when a sale empties the
// stock; the others are set by direct edit.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
	StatusDamaged   = "damaged"
)

// Bedding categories.
const (
	CategorySheets   = "sheets"
	CategoryPillows  = "pillows"
	CategoryBlankets = "blankets"
	CategoryDuvets   = "duvets"
	CategoryCovers   = "covers"
	CategoryTowels   = "towels"
)

// Sizes.
const (
	SizeSingle   = "single"
	SizeDouble   = "double"
	SizeQueen    = "queen"
	SizeKing     = "king"
	SizeStandard = "standard"
	SizeCustom   = "custom"
)

// ValidStatus reports whether s is a known item status.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold, StatusDamaged:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	switch c {
	case CategorySheets, CategoryPillows, CategoryBlankets, CategoryDuvets, CategoryCovers, CategoryTowels:
		return true
	}
	return false
}

// ValidSize reports whether s is a known size.
func ValidSize(s string) bool {
	switch s {
	case SizeSingle, SizeDouble, SizeQueen, SizeKing, SizeStandard, SizeCustom:
		return true
	}
	return false
}

// codePrefixes maps categories to the prefix used in generated item codes.
var codePrefixes = map[string]string{
	CategorySheets:   "SHT",
	CategoryPillows:  "PLW",
	CategoryBlankets: "BLK",
	CategoryDuvets:   "DVT",
	CategoryCovers:   "CVR",
	CategoryTowels:   "TWL",
}

// GenerateCode builds a human-readable item code from the category prefix,
// the current date, and a random suffix, e.g. "SHT-20260901-4f2a".
// Used when an item is created without an explicit code. Codes are
// immutable once set.
func GenerateCode(category string) (string, error) {
	prefix, ok := codePrefixes[category]
	if !ok {
		prefix = "ITM"
	}

	buf := make([]byte, 2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating code suffix: %w", err)
	}

	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), hex.EncodeToString(buf)), nil
}

// LowStock reports whether the item is at or below its minimum threshold.
// Boundary-inclusive: an item exactly at the threshold already alerts.
func (i *Item) LowStock() bool {
	return i.StockQuantity <= i.MinStockThreshold
}

// Matches reports whether the item matches a case-insensitive free-text term
// against name, code, category, color, supplier, or location.
func (i *Item) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{i.Name, i.Code, i.Category, i.Color, i.Supplier, i.Location} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
