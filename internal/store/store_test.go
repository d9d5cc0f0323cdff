package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/erazemk/garancija/internal/db"
	"github.com/erazemk/garancija/internal/model"
	"github.com/erazemk/garancija/internal/sheet"
)

// memSheet is an in-memory Sheet for adapter tests.
type memSheet struct {
	rows    [][]string
	readErr error
}

func (m *memSheet) ReadAll(ctx context.Context) ([][]string, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.rows, nil
}

func (m *memSheet) ReplaceAll(ctx context.Context, rows [][]string) error {
	m.rows = rows
	return nil
}

func TestLoadEmptySheet(t *testing.T) {
	items, err := Load(context.Background(), &memSheet{})
	if err != nil {
		t.Fatalf("Load on empty sheet: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty collection, got %d items", len(items))
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	s := &memSheet{rows: [][]string{Header}}
	items, err := Load(context.Background(), s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty collection, got %d items", len(items))
	}
}

func TestLoadBackfillsMissingImageColumns(t *testing.T) {
	// Sheets from before photo support only carry three columns.
	s := &memSheet{rows: [][]string{
		{"name", "buy_date", "expiry_date"},
		{"Sesalnik", "2024-01-10", "2026-01-10"},
	}}

	items, err := Load(context.Background(), s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ProductImageURL != "" || items[0].WarrantyImageURL != "" {
		t.Errorf("expected empty image URLs, got %q and %q",
			items[0].ProductImageURL, items[0].WarrantyImageURL)
	}
	if !items[0].BuyDate.Equal(model.Date(2024, time.January, 10)) {
		t.Errorf("unexpected buy date %s", items[0].BuyDate)
	}
}

func TestLoadBadDateFailsWholeLoad(t *testing.T) {
	s := &memSheet{rows: [][]string{
		Header,
		{"Dobra", "2024-01-10", "2026-01-10", "", ""},
		{"Slaba", "not-a-date", "2026-01-10", "", ""},
	}}

	_, err := Load(context.Background(), s)
	if err == nil {
		t.Fatal("expected error for unparseable date")
	}
	if !errors.Is(err, ErrBadCell) {
		t.Errorf("expected ErrBadCell, got %v", err)
	}
}

func TestLoadPropagatesReadError(t *testing.T) {
	s := &memSheet{readErr: errors.New("network down")}
	if _, err := Load(context.Background(), s); err == nil {
		t.Error("expected error when transport fails")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := &memSheet{}
	ctx := context.Background()

	want := []model.Item{
		{
			Name:             "Sesalnik",
			BuyDate:          model.Date(2024, time.January, 10),
			ExpiryDate:       model.Date(2026, time.January, 10),
			ProductImageURL:  "http://img.example/p.jpg",
			WarrantyImageURL: "",
		},
		{
			Name:       "Telefon",
			BuyDate:    model.Date(2023, time.January, 1),
			ExpiryDate: model.Date(2024, time.January, 1),
		},
	}

	if err := Save(ctx, s, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(ctx, s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSaveWritesHeaderFirst(t *testing.T) {
	s := &memSheet{}
	items := []model.Item{{
		Name:       "Mikser",
		BuyDate:    model.Date(2025, time.May, 5),
		ExpiryDate: model.Date(2027, time.May, 5),
	}}

	if err := Save(context.Background(), s, items); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(s.rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(s.rows))
	}
	if !reflect.DeepEqual(s.rows[0], Header) {
		t.Errorf("expected header row %v, got %v", Header, s.rows[0])
	}
	if s.rows[1][1] != "2025-05-05" {
		t.Errorf("expected buy_date cell '2025-05-05', got %q", s.rows[1][1])
	}
}

func TestSaveEmptyCollectionClearsSheet(t *testing.T) {
	s := &memSheet{rows: [][]string{Header, {"Star", "2020-01-01", "2021-01-01", "", ""}}}

	if err := Save(context.Background(), s, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(s.rows) != 0 {
		t.Errorf("expected fully cleared sheet, got %v", s.rows)
	}
}

func TestSaveIdempotent(t *testing.T) {
	s := &memSheet{}
	ctx := context.Background()
	items := []model.Item{{
		Name:       "Likalnik",
		BuyDate:    model.Date(2024, time.March, 3),
		ExpiryDate: model.Date(2025, time.March, 3),
	}}

	Save(ctx, s, items)
	first := s.rows
	Save(ctx, s, items)

	if !reflect.DeepEqual(first, s.rows) {
		t.Error("expected identical sheet content after repeated save")
	}
}

func TestRoundTripThroughSQLiteSheet(t *testing.T) {
	s := sheet.NewSQLiteSheet(db.NewTestDB(t))
	ctx := context.Background()

	want := []model.Item{{
		Name:             "Pralni stroj",
		BuyDate:          model.Date(2022, time.November, 20),
		ExpiryDate:       model.Date(2027, time.November, 20),
		ProductImageURL:  "http://img.example/stroj.jpg",
		WarrantyImageURL: "http://img.example/racun.jpg",
	}}

	if err := Save(ctx, s, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(ctx, s)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}
