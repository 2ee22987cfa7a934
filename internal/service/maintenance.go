package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"chargeslot/internal/models"
)

// sweepBatchSize bounds how many bookings one maintenance pass touches.
const sweepBatchSize = 200

// CompleteExpired finalizes active bookings whose end time passed without a
// stop callback, releasing their capacity. Returns how many were completed.
func (s *ReservationService) CompleteExpired(ctx context.Context) (int, error) {
	expired, err := s.bookings.ListActivePastEnd(ctx, s.now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	var completed int
	for _, booking := range expired {
		if _, err := s.Complete(ctx, booking.ID); err != nil {
			// Lost the race with a concurrent callback; nothing to repair.
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			s.logger.Error("auto-complete failed",
				zap.Int64("booking_id", booking.ID),
				zap.Error(err),
			)
			continue
		}
		completed++
	}
	return completed, nil
}

// CancelStale policy-cancels pending bookings past their start time and
// confirmed bookings whose whole window elapsed without a session (no-show),
// releasing their capacity. Returns how many were cancelled.
func (s *ReservationService) CancelStale(ctx context.Context) (int, error) {
	now := s.now()

	stale, err := s.bookings.ListPendingPastStart(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, err
	}
	noShows, err := s.bookings.ListConfirmedPastEnd(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	var cancelled int
	for _, booking := range append(stale, noShows...) {
		dropped, err := s.lifecycle.CancelByPolicy(ctx, booking.ID)
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			s.logger.Error("policy cancel failed",
				zap.Int64("booking_id", booking.ID),
				zap.Error(err),
			)
			continue
		}

		remaining := s.releaseSlot(ctx, dropped.StationID)
		s.publish(Event{
			Type:           EventBookingCancelled,
			BookingID:      dropped.ID,
			StationID:      dropped.StationID,
			Status:         models.BookingStatusCancelled,
			AvailableSlots: remaining,
		})
		cancelled++
	}
	return cancelled, nil
}

// ReconcileAvailability recomputes available_slots from the non-terminal
// booking count on every drifted station. This is the out-of-band repair for
// the one acknowledged gap: a failed compensating release.
func (s *ReservationService) ReconcileAvailability(ctx context.Context) (int64, error) {
	repaired, err := s.ledger.Recompute(ctx)
	if err != nil {
		return 0, err
	}
	if repaired > 0 {
		s.logger.Warn("availability counters repaired", zap.Int64("stations", repaired))
	}
	return repaired, nil
}
