package api

import (
	"database/sql"
	"net/http"

	"github.com/matejv/posteljnina/internal/model"
)

// Config carries router-level options.
type Config struct {
	JWTSecret string

	// RestoreStockOnSaleDelete makes sale deletion credit the sold quantity
	// back to the item instead of being a pure history edit.
	RestoreStockOnSaleDelete bool
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, cfg Config) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: cfg.JWTSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	salesHandler := &SalesHandler{DB: db, RestoreStockOnDelete: cfg.RestoreStockOnSaleDelete}
	reportsHandler := &ReportsHandler{DB: db}

	authMW := AuthMiddleware(cfg.JWTSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items: read (all roles), write (manager+).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireManager(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("GET /api/items/{id}/sales", authMW(http.HandlerFunc(itemsHandler.ListSales)))
	mux.Handle("PUT /api/items/{id}/image", authMW(requireManager(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Sales: any authenticated role can sell, deleting history needs manager+.
	mux.Handle("POST /api/sales", authMW(http.HandlerFunc(salesHandler.Create)))
	mux.Handle("GET /api/sales", authMW(http.HandlerFunc(salesHandler.List)))
	mux.Handle("DELETE /api/sales/{id}", authMW(requireManager(http.HandlerFunc(salesHandler.Delete))))

	// Reports.
	mux.Handle("GET /api/reports/summary", authMW(http.HandlerFunc(reportsHandler.Summary)))
	mux.Handle("GET /api/reports/export", authMW(http.HandlerFunc(reportsHandler.Export)))

	return mux
}
