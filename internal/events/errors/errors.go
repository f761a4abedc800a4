package errors

import "errors"

var (
	ErrNotFound = errors.New("event not found")

	ErrInvalidID = errors.New("invalid event ID format")

	// ErrSlugConflict is returned when the unique slug index rejects a write.
	ErrSlugConflict = errors.New("event slug already exists")

	ErrHasBookings = errors.New("event has bookings")

	ErrEmptySlug = errors.New("title does not produce a usable slug")
)
