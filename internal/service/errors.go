package service

import (
	"errors"
	"fmt"
)

// Reservation error taxonomy. All of these are caller errors, none are fatal.
var (
	// ErrNoCapacity is returned when the station had no free slot at admission.
	ErrNoCapacity = errors.New("booking: station has no free slots")
	// ErrStationNotFound indicates an unknown station id.
	ErrStationNotFound = errors.New("booking: station not found")
	// ErrBookingNotFound indicates an unknown booking id (or one owned by
	// another user).
	ErrBookingNotFound = errors.New("booking: not found")
	// ErrInvalidTransition indicates a status change not present in the
	// lifecycle table.
	ErrInvalidTransition = errors.New("booking: invalid status transition")
	// ErrTooLate indicates a cancellation inside the cutoff window.
	ErrTooLate = errors.New("booking: too late to cancel")
)

// ValidationError reports why a reservation request was rejected before any
// admission was attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking: invalid request: %s", e.Reason)
}
