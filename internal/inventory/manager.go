// Package inventory owns the session's warranty collection. The manager
// holds the only in-memory copy, loaded once at startup, and rewrites the
// whole sheet after every mutation. One active session per sheet is
// assumed; two sessions saving concurrently race and the last write wins.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/erazemk/garancija/internal/model"
	"github.com/erazemk/garancija/internal/sheet"
	"github.com/erazemk/garancija/internal/store"
)

// Filter selects items by warranty status.
type Filter string

const (
	FilterAll          Filter = "all"
	FilterActive       Filter = model.StatusActive
	FilterExpiringSoon Filter = model.StatusExpiringSoon
	FilterExpired      Filter = model.StatusExpired
)

// ItemStatus is an item together with its derived status. Index addresses
// the item in the underlying collection, so filtered views can still edit
// and delete.
type ItemStatus struct {
	model.Item
	Index    int    `json:"index"`
	DaysLeft int    `json:"days_left"`
	Status   string `json:"status"`
}

// Manager owns the in-memory collection and persists it through the sheet.
type Manager struct {
	mu    sync.Mutex
	sheet sheet.Sheet
	items []model.Item
	now   func() time.Time
}

// NewManager creates a manager backed by the given sheet. Call Load before
// serving requests.
func NewManager(s sheet.Sheet) *Manager {
	return &Manager{sheet: s, now: time.Now}
}

// Load replaces the in-memory collection with the sheet's content. On
// failure the collection is left empty; the session can still add items,
// which will overwrite the sheet on the next successful save.
func (m *Manager) Load(ctx context.Context) error {
	items, err := store.Load(ctx, m.sheet)
	if err != nil {
		m.mu.Lock()
		m.items = nil
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
	return nil
}

// Add validates the input, appends a new item, and saves the collection.
// The expiry date is derived from the buy date and warranty length. When
// only the save fails, the item stays in memory and is returned together
// with the error; callers should keep serving the in-memory state and
// surface the persistence failure separately.
func (m *Manager) Add(ctx context.Context, name string, buyDate time.Time, warrantyYears int, productImageURL, warrantyImageURL string) (*model.Item, error) {
	if err := validate(name, warrantyYears); err != nil {
		return nil, err
	}

	item := model.Item{
		Name:             name,
		BuyDate:          model.DateOf(buyDate),
		ExpiryDate:       model.Expiry(buyDate, warrantyYears),
		ProductImageURL:  productImageURL,
		WarrantyImageURL: warrantyImageURL,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = append(m.items, item)
	return &item, m.save(ctx)
}

// Edit replaces the item at index in place. The expiry date is always
// recomputed from the new buy date and warranty length. Empty image URLs
// keep the previously stored ones; non-empty values replace them.
func (m *Manager) Edit(ctx context.Context, index int, name string, buyDate time.Time, warrantyYears int, productImageURL, warrantyImageURL string) (*model.Item, error) {
	if err := validate(name, warrantyYears); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.items) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	prior := m.items[index]
	if productImageURL == "" {
		productImageURL = prior.ProductImageURL
	}
	if warrantyImageURL == "" {
		warrantyImageURL = prior.WarrantyImageURL
	}

	item := model.Item{
		Name:             name,
		BuyDate:          model.DateOf(buyDate),
		ExpiryDate:       model.Expiry(buyDate, warrantyYears),
		ProductImageURL:  productImageURL,
		WarrantyImageURL: warrantyImageURL,
	}
	m.items[index] = item
	return &item, m.save(ctx)
}

// Delete removes the item at index, shifting later items down, and saves.
func (m *Manager) Delete(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	m.items = append(m.items[:index], m.items[index+1:]...)
	return m.save(ctx)
}

// Len returns the collection size.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// List returns the items matching the filter and search term, in collection
// order, each with its derived status. The search is a case-insensitive
// substring match on the name. "Today" is evaluated once per call so the
// status boundary is consistent across the whole result.
func (m *Manager) List(filter Filter, searchTerm string) []ItemStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := model.DateOf(m.now())
	needle := strings.ToLower(searchTerm)

	result := make([]ItemStatus, 0, len(m.items))
	for i, item := range m.items {
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		status := model.Classify(item.ExpiryDate, today)
		if filter != "" && filter != FilterAll && string(filter) != status {
			continue
		}
		result = append(result, ItemStatus{
			Item:     item,
			Index:    i,
			DaysLeft: model.DaysLeft(item.ExpiryDate, today),
			Status:   status,
		})
	}
	return result
}

// Status derives the days left and classification for one item.
func (m *Manager) Status(item model.Item) (int, string) {
	today := model.DateOf(m.now())
	return model.DaysLeft(item.ExpiryDate, today), model.Classify(item.ExpiryDate, today)
}

// ReminderDigest builds the reminder text for items that are expiring soon
// or already expired. Returns an empty string when nothing needs attention.
func (m *Manager) ReminderDigest() string {
	var b strings.Builder
	for _, it := range m.List(FilterAll, "") {
		switch it.Status {
		case model.StatusExpiringSoon:
			fmt.Fprintf(&b, "- %s: garancija poteče %s (še %d dni)\n",
				it.Name, it.ExpiryDate.Format(store.DateFormat), it.DaysLeft)
		case model.StatusExpired:
			fmt.Fprintf(&b, "- %s: garancija je potekla %s (pred %d dnevi)\n",
				it.Name, it.ExpiryDate.Format(store.DateFormat), -it.DaysLeft)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "Garancije, ki potrebujejo pozornost:\n" + b.String()
}

func (m *Manager) save(ctx context.Context) error {
	if err := store.Save(ctx, m.sheet, m.items); err != nil {
		return fmt.Errorf("persisting collection: %w", err)
	}
	return nil
}

func validate(name string, warrantyYears int) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if warrantyYears < model.MinWarrantyYears || warrantyYears > model.MaxWarrantyYears {
		return fmt.Errorf("%w: %d", ErrWarrantyRange, warrantyYears)
	}
	return nil
}
