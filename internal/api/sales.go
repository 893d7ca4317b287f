package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matejv/posteljnina/internal/model"
	"github.com/matejv/posteljnina/internal/report"
	"github.com/matejv/posteljnina/internal/store"
)

// SalesHandler handles the sell operation and sale history endpoints.
type SalesHandler struct {
	DB *sql.DB

	// RestoreStockOnDelete controls whether deleting a sale credits the sold
	// quantity back to the item. Off by default: a deletion is then a pure
	// history edit.
	RestoreStockOnDelete bool
}

type createSaleRequest struct {
	ItemID        int64            `json:"item_id"`
	Quantity      int              `json:"quantity"`
	UnitSalePrice *decimal.Decimal `json:"unit_sale_price,omitempty"` // overrides the item's price
	PaymentMethod string           `json:"payment_method"`
	Customer      string           `json:"customer"`
	Notes         string           `json:"notes"`
}

// Create handles POST /api/sales: the sale transaction.
func (h *SalesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID <= 0 {
		jsonError(w, http.StatusBadRequest, "item_id required")
		return
	}

	claims := GetClaims(r.Context())
	var soldBy *int64
	if claims != nil {
		soldBy = &claims.UserID
	}

	sale, err := store.Sell(r.Context(), h.DB, req.ItemID, req.Quantity,
		req.UnitSalePrice, req.PaymentMethod, req.Customer, req.Notes, soldBy)
	if err != nil {
		storeError(w, err, "failed to record sale")
		return
	}

	slog.Info("sale recorded", "user", claims.Username, "item", sale.ItemName,
		"code", sale.ItemCode, "quantity", sale.QuantitySold, "total", sale.TotalSaleAmount)
	jsonResponse(w, http.StatusCreated, sale)
}

// List handles GET /api/sales. Supports month/year/category filters applied
// in memory, or an explicit from/to date range (YYYY-MM-DD) pushed down to
// the store.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var sales []model.Sale
	var err error
	if q.Get("from") != "" || q.Get("to") != "" {
		start, end, perr := parseDateRange(q.Get("from"), q.Get("to"))
		if perr != nil {
			jsonError(w, http.StatusBadRequest, perr.Error())
			return
		}
		sales, err = store.ListSalesByDateRange(r.Context(), h.DB, start, end)
	} else {
		sales, err = store.ListSales(r.Context(), h.DB)
	}
	if err != nil {
		storeError(w, err, "failed to list sales")
		return
	}

	sales = report.ApplySales(sales, report.Filter{
		Category: q.Get("category"),
		Month:    q.Get("month"),
		Year:     q.Get("year"),
	})
	if sales == nil {
		sales = []model.Sale{}
	}
	jsonResponse(w, http.StatusOK, sales)
}

// Delete handles DELETE /api/sales/{id}.
func (h *SalesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	if err := store.DeleteSale(r.Context(), h.DB, id, h.RestoreStockOnDelete); err != nil {
		storeError(w, err, "failed to delete sale")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("sale deleted", "user", claims.Username, "sale", id,
		"stock_restored", h.RestoreStockOnDelete)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "sale deleted"})
}

// parseDateRange parses from/to dates into a half-open [start, end) range.
// A missing bound defaults to the epoch or to far future respectively.
func parseDateRange(from, to string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Now().AddDate(100, 0, 0)

	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return start, end, fmt.Errorf("invalid from date (expected YYYY-MM-DD)")
		}
		start = parsed
	}
	if to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return start, end, fmt.Errorf("invalid to date (expected YYYY-MM-DD)")
		}
		// Inclusive end date: extend to the following midnight.
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, nil
}
