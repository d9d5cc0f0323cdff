package model

import "time"

// Item represents one tracked possession with its warranty window.
// The persisted sheet layout depends on the five fields below; dates are
// held date-only (midnight UTC).
type Item struct {
	Name             string    `json:"name"`
	BuyDate          time.Time `json:"buy_date"`
	ExpiryDate       time.Time `json:"expiry_date"`
	ProductImageURL  string    `json:"product_img"`
	WarrantyImageURL string    `json:"warranty_img"`
}

// WarrantyYears recovers the warranty length from the stored dates.
func (i Item) WarrantyYears() int {
	return i.ExpiryDate.Year() - i.BuyDate.Year()
}

// Warranty statuses, derived from the expiry date and never stored.
const (
	StatusActive       = "active"
	StatusExpiringSoon = "expiring_soon"
	StatusExpired      = "expired"
)

// ExpiringSoonDays is the window below which an unexpired warranty counts
// as expiring soon.
const ExpiringSoonDays = 30

// Warranty length bounds, enforced at the input boundary.
const (
	MinWarrantyYears = 0
	MaxWarrantyYears = 10
)

// Date builds a date-only value at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Expiry computes the warranty expiry: buyDate plus warrantyYears calendar
// years, month and day preserved. A Feb 29 purchase expiring in a non-leap
// year normalizes to Mar 1 (time.AddDate semantics).
func Expiry(buyDate time.Time, warrantyYears int) time.Time {
	return DateOf(buyDate).AddDate(warrantyYears, 0, 0)
}

// DaysLeft returns the whole calendar days from today until expiry.
// Negative once the warranty has expired.
func DaysLeft(expiry, today time.Time) int {
	return int(DateOf(expiry).Sub(DateOf(today)).Hours() / 24)
}

// Classify returns the warranty status of an expiry date relative to today.
func Classify(expiry, today time.Time) string {
	switch days := DaysLeft(expiry, today); {
	case days < 0:
		return StatusExpired
	case days < ExpiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}
