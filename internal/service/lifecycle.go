package service

import (
	"context"
	"errors"
	"time"

	"chargeslot/internal/models"
	"chargeslot/internal/repository"
)

// cancelCutoff is how long before start a confirmed booking can still be
// cancelled.
const cancelCutoff = 2 * time.Hour

// transitionSources lists, per target status, the statuses a booking may come
// from. Any pair not listed here is rejected; terminal statuses appear in no
// source list.
var transitionSources = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusConfirmed: {models.BookingStatusPending},
	models.BookingStatusActive:    {models.BookingStatusConfirmed},
	models.BookingStatusCompleted: {models.BookingStatusActive},
	models.BookingStatusCancelled: {models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusActive},
}

// LifecycleManager owns booking status changes. Every transition is applied
// as a conditional update against the sources above, so a concurrent change
// can never skip the table.
type LifecycleManager struct {
	bookings BookingStore
}

// NewLifecycleManager builds manager.
func NewLifecycleManager(bookings BookingStore) *LifecycleManager {
	return &LifecycleManager{bookings: bookings}
}

// Transition moves a booking to the target status per the table.
func (m *LifecycleManager) Transition(ctx context.Context, bookingID int64, to models.BookingStatus) (*models.Booking, error) {
	sources, ok := transitionSources[to]
	if !ok {
		return nil, ErrInvalidTransition
	}
	return m.applyTransition(ctx, bookingID, to, sources)
}

// Cancel applies a user-requested cancellation. Pending bookings may be
// cancelled at any time; confirmed and active ones only until cancelCutoff
// before start. The window is enforced by restricting the source states of
// the conditional update, so a booking that gets confirmed concurrently
// cannot slip past the cutoff.
func (m *LifecycleManager) Cancel(ctx context.Context, booking *models.Booking, now time.Time) (*models.Booking, error) {
	sources := transitionSources[models.BookingStatusCancelled]
	insideCutoff := booking.StartTime.Sub(now) < cancelCutoff
	if insideCutoff {
		sources = []models.BookingStatus{models.BookingStatusPending}
	}

	updated, err := m.applyTransition(ctx, booking.ID, models.BookingStatusCancelled, sources)
	if errors.Is(err, ErrInvalidTransition) && insideCutoff {
		// Distinguish a terminal booking from one caught by the cutoff.
		current, getErr := m.bookings.GetByID(ctx, booking.ID)
		if getErr != nil {
			return nil, getErr
		}
		if !current.Status.IsTerminal() {
			return nil, ErrTooLate
		}
		return nil, ErrInvalidTransition
	}
	return updated, err
}

// CancelByPolicy cancels a booking on behalf of the system (stale pending
// sweep, no-show cleanup); it skips the cutoff window but still honors the
// transition table.
func (m *LifecycleManager) CancelByPolicy(ctx context.Context, bookingID int64) (*models.Booking, error) {
	return m.applyTransition(ctx, bookingID, models.BookingStatusCancelled, transitionSources[models.BookingStatusCancelled])
}

func (m *LifecycleManager) applyTransition(ctx context.Context, bookingID int64, to models.BookingStatus, sources []models.BookingStatus) (*models.Booking, error) {
	updated, err := m.bookings.UpdateStatus(ctx, bookingID, to, sources)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return updated, nil
}
