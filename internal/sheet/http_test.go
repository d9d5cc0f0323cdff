package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
)

// fakeSheetService is a minimal remote sheet: GET returns the rows, PUT
// replaces them.
type fakeSheetService struct {
	mu   sync.Mutex
	rows [][]string
}

func (f *fakeSheetService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(sheetPayload{Rows: f.rows})
	case http.MethodPut:
		var payload sheetPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad payload", http.StatusBadRequest)
			return
		}
		f.rows = payload.Rows
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func TestHTTPSheetRoundTrip(t *testing.T) {
	service := &fakeSheetService{}
	server := httptest.NewServer(service)
	t.Cleanup(server.Close)

	s := NewHTTPSheet(server.URL, "family-token")
	ctx := context.Background()

	want := [][]string{
		{"name", "buy_date", "expiry_date", "product_img", "warranty_img"},
		{"Sesalnik", "2024-01-10", "2026-01-10", "", ""},
	}
	if err := s.ReplaceAll(ctx, want); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-trip mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestHTTPSheetSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(sheetPayload{})
	}))
	t.Cleanup(server.Close)

	s := NewHTTPSheet(server.URL, "secret-token")
	if _, err := s.ReadAll(context.Background()); err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer token header, got %q", gotAuth)
	}
}

func TestHTTPSheetReadErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	s := NewHTTPSheet(server.URL, "")
	if _, err := s.ReadAll(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
	if err := s.ReplaceAll(context.Background(), nil); err == nil {
		t.Error("expected error for 500 response on write")
	}
}
