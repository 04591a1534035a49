package domain

import "errors"

var (
	// ErrDuplicateKey is returned when adding an employee whose id is taken.
	ErrDuplicateKey = errors.New("duplicate employee id")
	// ErrNotFound is returned when removing an id the registry does not hold.
	ErrNotFound = errors.New("employee not found")
	// ErrInvalidCursorState is returned by Iterator.Remove without a pending element.
	ErrInvalidCursorState = errors.New("invalid cursor state")
	// ErrDeserialization covers malformed or unrecognised persisted records.
	ErrDeserialization = errors.New("deserialization failed")
	// ErrIOFailure wraps storage errors during save and restore.
	ErrIOFailure = errors.New("storage i/o failure")
	// ErrInvalidEmployee is returned for records that fail validation.
	ErrInvalidEmployee = errors.New("invalid employee")
)
