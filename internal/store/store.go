// Package store translates between the in-memory warranty collection and
// the sheet's text-only cell model. All date parsing and field backfilling
// happens here, so the rest of the code only ever sees parsed dates.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/garancija/internal/model"
	"github.com/erazemk/garancija/internal/sheet"
)

// Header is the persisted column layout. Existing sheets depend on these
// exact names, in this order.
var Header = []string{"name", "buy_date", "expiry_date", "product_img", "warranty_img"}

// DateFormat is the cell encoding for dates.
const DateFormat = "2006-01-02"

// ErrBadCell marks a row whose date cells could not be parsed. A single bad
// row fails the whole load; skipping it would silently drop data on the
// next save.
var ErrBadCell = errors.New("unparseable sheet cell")

// Load reads the whole sheet and decodes it into items. An empty table, or
// one holding only the header row, yields an empty collection. Missing
// image columns are backfilled with empty strings. Row order is preserved.
func Load(ctx context.Context, s sheet.Sheet) ([]model.Item, error) {
	rows, err := s.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	if len(rows) == 0 {
		return []model.Item{}, nil
	}

	// The first row names the columns; older sheets may lack the image
	// columns entirely.
	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[name] = i
	}
	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	items := make([]model.Item, 0, len(rows)-1)
	for n, row := range rows[1:] {
		buyDate, err := parseDate(cell(row, "buy_date"))
		if err != nil {
			return nil, fmt.Errorf("row %d, buy_date: %w", n+1, err)
		}
		expiryDate, err := parseDate(cell(row, "expiry_date"))
		if err != nil {
			return nil, fmt.Errorf("row %d, expiry_date: %w", n+1, err)
		}

		items = append(items, model.Item{
			Name:             cell(row, "name"),
			BuyDate:          buyDate,
			ExpiryDate:       expiryDate,
			ProductImageURL:  cell(row, "product_img"),
			WarrantyImageURL: cell(row, "warranty_img"),
		})
	}
	return items, nil
}

// Save serializes the collection and rewrites the whole sheet: header row
// first, then one row per item in collection order. An empty collection
// clears the sheet entirely, header included.
func Save(ctx context.Context, s sheet.Sheet, items []model.Item) error {
	if len(items) == 0 {
		if err := s.ReplaceAll(ctx, nil); err != nil {
			return fmt.Errorf("saving items: %w", err)
		}
		return nil
	}

	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, Header)
	for _, item := range items {
		rows = append(rows, []string{
			item.Name,
			formatDate(item.BuyDate),
			formatDate(item.ExpiryDate),
			item.ProductImageURL,
			item.WarrantyImageURL,
		})
	}

	if err := s.ReplaceAll(ctx, rows); err != nil {
		return fmt.Errorf("saving items: %w", err)
	}
	return nil
}

func parseDate(cell string) (time.Time, error) {
	t, err := time.Parse(DateFormat, cell)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadCell, cell)
	}
	return t, nil
}

// formatDate writes YYYY-MM-DD. A zero date becomes an empty cell.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}
