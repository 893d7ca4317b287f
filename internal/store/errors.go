package store

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across the store. Callers match with errors.Is.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on unique-key violations (duplicate item code).
	ErrConflict = errors.New("already exists")
)

// ValidationError reports bad input shape or range (e.g. a non-positive
// sale quantity).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// InsufficientStockError is returned when a sale requests more units than the
// item currently has in stock. The sale is rejected and nothing is mutated.
type InsufficientStockError struct {
	ItemID int64
	Have   int
	Need   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: have %d, need %d", e.ItemID, e.Have, e.Need)
}

// UnrecordedSaleError reports that the stock decrement succeeded inside the
// sale transaction but the sale record could not be written. The whole
// transaction is rolled back, so stock is left unchanged; this is surfaced
// distinctly from other persistence failures because a stock movement without
// a matching sale record would require manual reconciliation.
type UnrecordedSaleError struct {
	ItemID int64
	Err    error
}

func (e *UnrecordedSaleError) Error() string {
	return fmt.Sprintf("sale against item %d not recorded, stock decrement rolled back: %v", e.ItemID, e.Err)
}

func (e *UnrecordedSaleError) Unwrap() error { return e.Err }

// isUniqueViolation reports whether err is a SQLite unique-constraint
// violation. The driver exposes no typed error for this, so match the text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
