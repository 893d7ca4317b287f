package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of units sold from one item. The item fields
// (code, name, category, size, color) are snapshots taken at sale time, so
// sale history survives later edits or deletion of the item. ItemID is a
// plain reference, not ownership: it may dangle after the item is deleted.
type Sale struct {
	ID              int64           `json:"id"`
	ItemID          int64           `json:"item_id"`
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name"`
	ItemCategory    string          `json:"item_category"`
	ItemSize        string          `json:"item_size,omitempty"`
	ItemColor       string          `json:"item_color,omitempty"`
	QuantitySold    int             `json:"quantity_sold"`
	UnitSalePrice   decimal.Decimal `json:"unit_sale_price"`
	TotalSaleAmount decimal.Decimal `json:"total_sale_amount"`
	PaymentMethod   string          `json:"payment_method"`
	Customer        string          `json:"customer,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	SoldAt          time.Time       `json:"sold_at"`
	SoldBy          *int64          `json:"sold_by,omitempty"`
}

// Payment methods.
const (
	PaymentCash   = "cash"
	PaymentDebit  = "debit"
	PaymentCredit = "credit"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentDebit, PaymentCredit:
		return true
	}
	return false
}
