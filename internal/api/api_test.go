package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/matejv/posteljnina/internal/auth"
	"github.com/matejv/posteljnina/internal/db"
	"github.com/matejv/posteljnina/internal/model"
	"github.com/matejv/posteljnina/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, Config{JWTSecret: testJWTSecret})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin)

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func createTestItem(t *testing.T, server *httptest.Server, token string, stock int, price string) model.Item {
	t.Helper()
	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"name":           "Percale sheet set",
		"category":       model.CategorySheets,
		"size":           model.SizeQueen,
		"color":          "white",
		"stock_quantity": stock,
		"sale_price":     price,
	})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating item, got %d", resp.StatusCode)
	}

	var item model.Item
	json.NewDecoder(resp.Body).Decode(&item)
	if item.ID == 0 {
		t.Fatal("created item has no id")
	}
	return item
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	item := createTestItem(t, server, token, 8, "29.90")
	if !strings.HasPrefix(item.Code, "SHT-") {
		t.Errorf("expected generated sheet code, got %q", item.Code)
	}

	// List items.
	req, _ := authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}

	// A facet filter that matches nothing.
	req, _ = authRequest("GET", server.URL+"/api/items?category=pillows", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 0 {
		t.Errorf("expected empty filtered list, got %d items", len(items))
	}

	// Invalid category is rejected up front.
	req, _ = authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"name":     "Mystery",
		"category": "furniture",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid category, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSalesAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)
	item := createTestItem(t, server, token, 3, "29.90")

	// Sell two units.
	req, _ := authRequest("POST", server.URL+"/api/sales", token, map[string]any{
		"item_id":        item.ID,
		"quantity":       2,
		"payment_method": model.PaymentCash,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 recording sale, got %d", resp.StatusCode)
	}
	var sale model.Sale
	json.NewDecoder(resp.Body).Decode(&sale)
	resp.Body.Close()
	if sale.QuantitySold != 2 {
		t.Errorf("expected quantity 2, got %d", sale.QuantitySold)
	}
	if got := sale.TotalSaleAmount.StringFixed(2); got != "59.80" {
		t.Errorf("expected total 59.80, got %s", got)
	}

	// Stock went down.
	req, _ = authRequest("GET", server.URL+"/api/items/"+strconv.FormatInt(item.ID, 10), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var updated model.Item
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.StockQuantity != 1 {
		t.Errorf("expected stock 1 after sale, got %d", updated.StockQuantity)
	}

	// Overselling is rejected with a distinct message and no mutation.
	req, _ = authRequest("POST", server.URL+"/api/sales", token, map[string]any{
		"item_id":        item.ID,
		"quantity":       5,
		"payment_method": model.PaymentCash,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for oversell, got %d", resp.StatusCode)
	}
	var errResp map[string]string
	json.NewDecoder(resp.Body).Decode(&errResp)
	resp.Body.Close()
	if !strings.Contains(errResp["error"], "insufficient stock") {
		t.Errorf("expected insufficient stock message, got %q", errResp["error"])
	}

	req, _ = authRequest("GET", server.URL+"/api/items/"+strconv.FormatInt(item.ID, 10), token, nil)
	resp, _ = http.DefaultClient.Do(req)
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.StockQuantity != 1 {
		t.Errorf("expected stock unchanged after rejected sale, got %d", updated.StockQuantity)
	}

	// Sale history for the item.
	req, _ = authRequest("GET", server.URL+"/api/items/"+strconv.FormatInt(item.ID, 10)+"/sales", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var sales []model.Sale
	json.NewDecoder(resp.Body).Decode(&sales)
	resp.Body.Close()
	if len(sales) != 1 {
		t.Errorf("expected 1 sale in history, got %d", len(sales))
	}
}

func TestSellMissingItem(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/sales", token, map[string]any{
		"item_id":        999,
		"quantity":       1,
		"payment_method": model.PaymentCash,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing item, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestReportsSummary(t *testing.T) {
	server, token := setupTestServer(t)
	item := createTestItem(t, server, token, 10, "5.00")

	req, _ := authRequest("POST", server.URL+"/api/sales", token, map[string]any{
		"item_id":        item.ID,
		"quantity":       2,
		"payment_method": model.PaymentDebit,
	})
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/reports/summary", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var summary struct {
		ItemCount      int    `json:"item_count"`
		UnitsInStock   int    `json:"units_in_stock"`
		InventoryValue string `json:"inventory_value"`
		SaleCount      int    `json:"sale_count"`
		SalesTotal     string `json:"sales_total"`
	}
	json.NewDecoder(resp.Body).Decode(&summary)
	resp.Body.Close()

	if summary.ItemCount != 1 || summary.UnitsInStock != 8 {
		t.Errorf("expected 1 item with 8 units, got %d/%d", summary.ItemCount, summary.UnitsInStock)
	}
	if summary.InventoryValue != "40" {
		t.Errorf("expected inventory value 40, got %s", summary.InventoryValue)
	}
	if summary.SaleCount != 1 || summary.SalesTotal != "10" {
		t.Errorf("expected 1 sale totalling 10, got %d/%s", summary.SaleCount, summary.SalesTotal)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 with revoked token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	router := NewRouter(database, Config{JWTSecret: testJWTSecret})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	router := NewRouter(database, Config{JWTSecret: testJWTSecret})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create a cashier.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "blagajna", string(hash), model.RoleCashier)

	cashierToken, _ := auth.GenerateToken(testJWTSecret, 1, "blagajna", model.RoleCashier)

	// Cashiers cannot create items (manager+ required).
	req, _ := authRequest("POST", server.URL+"/api/items", cashierToken, map[string]any{
		"name":     "Test",
		"category": model.CategorySheets,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for cashier creating item, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Cashiers cannot access /api/users.
	req, _ = authRequest("GET", server.URL+"/api/users", cashierToken, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for cashier accessing users, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
