package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/matejv/posteljnina/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// storeError maps a store-layer error onto a status code and a cause the
// caller can act on. Every class in the taxonomy gets its own message: an
// insufficient-stock rejection must never read like a duplicate-code conflict.
func storeError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *store.ValidationError
	var stockErr *store.InsufficientStockError
	var unrecordedErr *store.UnrecordedSaleError

	switch {
	case errors.As(err, &validationErr):
		jsonError(w, http.StatusBadRequest, validationErr.Reason)
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.As(err, &stockErr):
		jsonError(w, http.StatusConflict, stockErr.Error())
	case errors.As(err, &unrecordedErr):
		slog.Error("sale not recorded", "item", unrecordedErr.ItemID, "error", unrecordedErr.Err)
		jsonError(w, http.StatusInternalServerError, unrecordedErr.Error())
	default:
		slog.Error(fallback, "error", err)
		jsonError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
