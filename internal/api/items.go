package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matejv/posteljnina/internal/imaging"
	"github.com/matejv/posteljnina/internal/model"
	"github.com/matejv/posteljnina/internal/report"
	"github.com/matejv/posteljnina/internal/store"
)

// ItemsHandler handles item CRUD and filtering endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type itemRequest struct {
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Size              string          `json:"size"`
	Color             string          `json:"color"`
	Material          string          `json:"material"`
	Supplier          string          `json:"supplier"`
	Location          string          `json:"location"`
	Description       string          `json:"description"`
	StockQuantity     int             `json:"stock_quantity"`
	MinStockThreshold int             `json:"min_stock_threshold"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	IntakeDate        string          `json:"intake_date"` // YYYY-MM-DD, today when empty
	Status            string          `json:"status"`
}

// toItem validates the request and converts it to a model item.
func (req *itemRequest) toItem() (*model.Item, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name required")
	}
	if !model.ValidCategory(req.Category) {
		return nil, fmt.Errorf("invalid category %q", req.Category)
	}
	if req.Size != "" && !model.ValidSize(req.Size) {
		return nil, fmt.Errorf("invalid size %q", req.Size)
	}
	if req.Status == "" {
		req.Status = model.StatusAvailable
	}
	if !model.ValidStatus(req.Status) {
		return nil, fmt.Errorf("invalid status %q", req.Status)
	}
	if req.StockQuantity < 0 {
		return nil, fmt.Errorf("stock quantity cannot be negative")
	}
	if req.MinStockThreshold < 0 {
		return nil, fmt.Errorf("minimum stock threshold cannot be negative")
	}
	if req.PurchasePrice.IsNegative() || req.SalePrice.IsNegative() {
		return nil, fmt.Errorf("prices cannot be negative")
	}

	intake := time.Now()
	if req.IntakeDate != "" {
		parsed, err := time.Parse("2006-01-02", req.IntakeDate)
		if err != nil {
			return nil, fmt.Errorf("invalid intake date (expected YYYY-MM-DD)")
		}
		intake = parsed
	}

	return &model.Item{
		Code:              req.Code,
		Name:              req.Name,
		Category:          req.Category,
		Size:              req.Size,
		Color:             req.Color,
		Material:          req.Material,
		Supplier:          req.Supplier,
		Location:          req.Location,
		Description:       req.Description,
		StockQuantity:     req.StockQuantity,
		MinStockThreshold: req.MinStockThreshold,
		PurchasePrice:     req.PurchasePrice,
		SalePrice:         req.SalePrice,
		IntakeDate:        intake,
		Status:            req.Status,
	}, nil
}

// filterFromQuery builds a report filter from the request's query parameters.
func filterFromQuery(r *http.Request) report.Filter {
	q := r.URL.Query()
	return report.Filter{
		SearchTerm: q.Get("search"),
		Category:   q.Get("category"),
		Size:       q.Get("size"),
		Location:   q.Get("location"),
		Month:      q.Get("month"),
		Year:       q.Get("year"),
	}
}

// List handles GET /api/items. Filtering happens in memory over the full
// collection: search, category, size, location, intake month/year, and an
// optional low_stock=true cut.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list items")
		return
	}

	items = report.Apply(items, filterFromQuery(r))
	if r.URL.Query().Get("low_stock") == "true" {
		items = report.LowStock(items)
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := req.toItem()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := store.CreateItem(r.Context(), h.DB, *item)
	if err != nil {
		storeError(w, err, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. The item code is immutable; a code in
// the body is ignored.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := req.toItem()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, id, *item); err != nil {
		storeError(w, err, "failed to update item")
		return
	}

	updated, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}. The deletion is permanent; the
// item's sale history stays behind with its snapshot fields.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// ListSales handles GET /api/items/{id}/sales.
func (h *ItemsHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	sales, err := store.ListItemSales(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to list item sales")
		return
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	jsonResponse(w, http.StatusOK, sales)
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		storeError(w, err, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
