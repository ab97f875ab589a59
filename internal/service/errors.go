package service

import "errors"

var (
	// ErrMenuNotFound marks the ordinary no-match outcome of a lookup; the
	// transport layer turns it into a 404, never a 500.
	ErrMenuNotFound = errors.New("menu not found")

	// ErrDuplicateEvent is returned when a write would produce a second
	// event with the same (date, cuisine slug) identity.
	ErrDuplicateEvent = errors.New("an event with this date and cuisine already exists")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
