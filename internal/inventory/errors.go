package inventory

import "errors"

// Input validation and addressing errors, checked before any mutation.
var (
	ErrEmptyName       = errors.New("item name is required")
	ErrWarrantyRange   = errors.New("warranty years must be between 0 and 10")
	ErrIndexOutOfRange = errors.New("no item at that position")
)
