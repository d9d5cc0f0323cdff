package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erazemk/garancija/internal/auth"
	"github.com/erazemk/garancija/internal/db"
	"github.com/erazemk/garancija/internal/inventory"
	"github.com/erazemk/garancija/internal/sheet"
	"github.com/erazemk/garancija/internal/webhook"
)

const (
	testJWTSecret = "test-secret"
	testPassword  = "družinsko-geslo"
)

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	manager := inventory.NewManager(sheet.NewSQLiteSheet(db.NewTestDB(t)))
	if err := manager.Load(context.Background()); err != nil {
		t.Fatalf("loading manager: %v", err)
	}

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	router := NewRouter(manager, testJWTSecret, hash, webhook.NewSender(""))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Get token.
	body, _ := json.Marshal(map[string]string{"password": testPassword})
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

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Test invalid password.
	body, _ := json.Marshal(map[string]string{"password": "napačno"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Create item.
	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"name":           "Sesalnik",
		"buy_date":       "2024-01-10",
		"warranty_years": 2,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created map[string]any
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created["expiry_date"] != "2026-01-10T00:00:00Z" {
		t.Errorf("expected derived expiry date, got %v", created["expiry_date"])
	}

	// List items.
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var items []inventory.ItemStatus
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 || items[0].Name != "Sesalnik" {
		t.Fatalf("expected 1 item 'Sesalnik', got %v", items)
	}

	// Update it.
	req, _ = authRequest("PUT", server.URL+"/api/items/0", token, map[string]any{
		"name":           "Sesalnik Dyson",
		"buy_date":       "2024-01-10",
		"warranty_years": 5,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Delete it.
	req, _ = authRequest("DELETE", server.URL+"/api/items/0", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Collection is empty again.
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 0 {
		t.Errorf("expected empty collection, got %v", items)
	}
}

func TestItemsAPIValidation(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]any{
		"name":           "",
		"buy_date":       "2024-01-10",
		"warranty_years": 2,
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty name, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("DELETE", server.URL+"/api/items/42", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown index, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRemindersEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	// Nothing tracked yet, digest is empty.
	req, _ := authRequest("GET", server.URL+"/api/reminders/digest", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var digest map[string]string
	json.NewDecoder(resp.Body).Decode(&digest)
	resp.Body.Close()
	if digest["digest"] != "" {
		t.Errorf("expected empty digest, got %q", digest["digest"])
	}

	// Sending without a configured webhook is rejected.
	req, _ = authRequest("POST", server.URL+"/api/reminders", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 without webhook, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
