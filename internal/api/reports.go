package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/matejv/posteljnina/internal/report"
	"github.com/matejv/posteljnina/internal/store"
)

// ReportsHandler handles derived-statistics and export endpoints.
type ReportsHandler struct {
	DB *sql.DB
}

// Summary handles GET /api/reports/summary: item/unit counts, inventory
// valuation, low-stock alerts, and the sales total for the filtered view.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list items")
		return
	}
	sales, err := store.ListSales(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list sales")
		return
	}

	summary := report.Summarize(report.Apply(items, filter), report.ApplySales(sales, filter))
	jsonResponse(w, http.StatusOK, summary)
}

// Export handles GET /api/reports/export: the filtered inventory and sales
// views as an XLSX workbook.
func (h *ReportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list items")
		return
	}
	sales, err := store.ListSales(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list sales")
		return
	}

	workbook, err := report.Workbook(report.Apply(items, filter), report.ApplySales(sales, filter))
	if err != nil {
		storeError(w, err, "failed to build report")
		return
	}

	name := "report-" + time.Now().Format("20060102")
	if filter.Month != "" && filter.Month != report.FilterAll {
		name = fmt.Sprintf("report-%s-%s", filter.Year, filter.Month)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", name))
	if err := workbook.Write(w); err != nil {
		storeError(w, err, "failed to write report")
	}
}
