package domain

import "errors"

// Sentinel errors shared across services. Services return these (possibly
// wrapped) and the delivery layer maps them to transport responses.
var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when a status transition is not legal from
	// the entity's current status.
	ErrInvalidState = errors.New("invalid state for this operation")

	// ErrSlotUnavailable is returned when booking a consultation slot whose
	// status is not AVAILABLE.
	ErrSlotUnavailable = errors.New("consultation slot is not available")

	// ErrEventClosed is returned when booking against an event that is not in
	// a bookable phase.
	ErrEventClosed = errors.New("event is not open for booking")

	// ErrForbidden is returned when the actor lacks rights over the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when a conditional status update lost the race
	// against a concurrent writer. Semantically an invalid state, but callers
	// can distinguish a race from a stale read.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrInvalidInput is returned when the request is structurally invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyRegistered is returned when a user registers twice for the
	// same seminar.
	ErrAlreadyRegistered = errors.New("already registered")
)
