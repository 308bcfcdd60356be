package services

import "errors"

var (
	// ErrRecordNotFound is returned when a referenced entity identifier does
	// not resolve. Handlers map it to a 404 response.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInsufficientInventory is returned when an inventory decrement finds
	// no lot with enough remaining quantity. The administration flow logs it
	// and carries on: clinical documentation is never lost over inventory
	// bookkeeping.
	ErrInsufficientInventory = errors.New("insufficient inventory")
)
