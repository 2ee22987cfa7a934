package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargeslot/internal/models"
	redisstore "chargeslot/internal/redis"
	"chargeslot/internal/repository"
)

// StationReader supplies station snapshots from the catalog.
type StationReader interface {
	GetByID(ctx context.Context, stationID string) (*models.Station, error)
	List(ctx context.Context, limit int) ([]models.Station, error)
}

// CapacityLedger owns the available-slot counter per station.
type CapacityLedger interface {
	Admit(ctx context.Context, stationID string) (int, error)
	Release(ctx context.Context, stationID string) (int, error)
	Recompute(ctx context.Context) (int64, error)
}

// BookingStore defines booking persistence used by the service.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, bookingID int64) (*models.Booking, error)
	ListByUser(ctx context.Context, userID int64, status models.BookingStatus, limit int) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID int64, to models.BookingStatus, allowedFrom []models.BookingStatus) (*models.Booking, error)
	ListActivePastEnd(ctx context.Context, now time.Time, limit int) ([]models.Booking, error)
	ListPendingPastStart(ctx context.Context, now time.Time, limit int) ([]models.Booking, error)
	ListConfirmedPastEnd(ctx context.Context, now time.Time, limit int) ([]models.Booking, error)
}

// EventSink receives reservation events for fan-out to connected clients.
type EventSink interface {
	Publish(event Event)
}

// Event describes a booking or capacity change pushed to subscribers.
type Event struct {
	Type           string               `json:"type"`
	BookingID      int64                `json:"booking_id,omitempty"`
	StationID      string               `json:"station_id"`
	Status         models.BookingStatus `json:"status,omitempty"`
	AvailableSlots int                  `json:"available_slots"`
}

// Event types.
const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventChargingStarted  = "charging_started"
	EventBookingCompleted = "booking_completed"
	EventBookingCancelled = "booking_cancelled"
)

// ReservationService orchestrates validation, admission and booking
// persistence. It is stateless between calls; the only shared state is the
// persisted ledger counter.
type ReservationService struct {
	stations  StationReader
	ledger    CapacityLedger
	bookings  BookingStore
	lifecycle *LifecycleManager
	cache     *redisstore.StationCache
	events    EventSink
	logger    *zap.Logger
	now       func() time.Time
}

// NewReservationService builds service. cache and events may be nil.
func NewReservationService(
	stations StationReader,
	ledger CapacityLedger,
	bookings BookingStore,
	cache *redisstore.StationCache,
	events EventSink,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		stations:  stations,
		ledger:    ledger,
		bookings:  bookings,
		lifecycle: NewLifecycleManager(bookings),
		cache:     cache,
		events:    events,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Reserve admits one capacity unit and records the booking. Admission and
// persistence appear atomic to the caller: a persistence failure after a
// successful admit triggers a compensating release before the error surfaces.
func (s *ReservationService) Reserve(ctx context.Context, req ReserveRequest) (*models.Booking, error) {
	station, err := s.stations.GetByID(ctx, req.StationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, fmt.Errorf("load station: %w", err)
	}

	if err := ValidateReservation(req, station, s.now()); err != nil {
		return nil, err
	}

	remaining, err := s.ledger.Admit(ctx, req.StationID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoCapacity):
			return nil, ErrNoCapacity
		case errors.Is(err, repository.ErrStationNotFound):
			return nil, ErrStationNotFound
		}
		return nil, fmt.Errorf("admit: %w", err)
	}

	booking := &models.Booking{
		UserID:     req.UserID,
		StationID:  req.StationID,
		StartTime:  req.StartTime.UTC(),
		EndTime:    req.StartTime.UTC().Add(time.Duration(req.TotalHours) * time.Hour),
		TotalHours: req.TotalHours,
		// Frozen from the snapshot taken above; later price changes do not
		// affect this booking.
		TotalCost:           float64(req.TotalHours) * station.PricePerHour,
		Status:              models.BookingStatusPending,
		VehicleModel:        req.VehicleModel,
		VehicleRegistration: req.VehicleRegistration,
	}

	booking, err = s.bookings.Create(ctx, booking)
	if err != nil {
		if _, releaseErr := s.ledger.Release(ctx, req.StationID); releaseErr != nil {
			// Counter is now stale until the reconciliation job repairs it.
			s.logger.Error("compensating release failed",
				zap.String("station_id", req.StationID),
				zap.Error(releaseErr),
			)
		}
		return nil, fmt.Errorf("persist booking: %w", err)
	}

	s.invalidateSnapshot(ctx, req.StationID)
	s.publish(Event{
		Type:           EventBookingCreated,
		BookingID:      booking.ID,
		StationID:      booking.StationID,
		Status:         booking.Status,
		AvailableSlots: remaining,
	})

	s.logger.Info("booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", booking.UserID),
		zap.String("station_id", booking.StationID),
		zap.Int("remaining_slots", remaining),
	)
	return booking, nil
}

// Cancel applies a user cancellation and gives the capacity unit back.
// Release happens only after the lifecycle transition succeeded.
func (s *ReservationService) Cancel(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.getOwned(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.lifecycle.Cancel(ctx, booking, s.now())
	if err != nil {
		return nil, err
	}

	remaining := s.releaseSlot(ctx, cancelled.StationID)
	s.publish(Event{
		Type:           EventBookingCancelled,
		BookingID:      cancelled.ID,
		StationID:      cancelled.StationID,
		Status:         cancelled.Status,
		AvailableSlots: remaining,
	})

	s.logger.Info("booking cancelled",
		zap.Int64("booking_id", cancelled.ID),
		zap.Int64("user_id", userID),
		zap.String("station_id", cancelled.StationID),
	)
	return cancelled, nil
}

// Confirm moves a pending booking to confirmed (operator/charge-point callback).
func (s *ReservationService) Confirm(ctx context.Context, bookingID int64) (*models.Booking, error) {
	return s.transition(ctx, bookingID, models.BookingStatusConfirmed, EventBookingConfirmed)
}

// StartCharging moves a confirmed booking to active when the session begins.
func (s *ReservationService) StartCharging(ctx context.Context, bookingID int64) (*models.Booking, error) {
	return s.transition(ctx, bookingID, models.BookingStatusActive, EventChargingStarted)
}

// Complete finalizes an active booking and releases its capacity unit.
func (s *ReservationService) Complete(ctx context.Context, bookingID int64) (*models.Booking, error) {
	booking, err := s.lifecycle.Transition(ctx, bookingID, models.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}

	remaining := s.releaseSlot(ctx, booking.StationID)
	s.publish(Event{
		Type:           EventBookingCompleted,
		BookingID:      booking.ID,
		StationID:      booking.StationID,
		Status:         booking.Status,
		AvailableSlots: remaining,
	})
	return booking, nil
}

// ListBookings returns the user's booking history, optionally filtered by status.
func (s *ReservationService) ListBookings(ctx context.Context, userID int64, statusFilter string) ([]models.Booking, error) {
	status := models.BookingStatus(statusFilter)
	if statusFilter != "" && !status.IsValid() {
		return nil, &ValidationError{Reason: "unknown status filter"}
	}
	return s.bookings.ListByUser(ctx, userID, status, 50)
}

// GetBooking returns one of the user's bookings.
func (s *ReservationService) GetBooking(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	return s.getOwned(ctx, bookingID, userID)
}

// GetStation returns a station snapshot, served from the redis cache when fresh.
func (s *ReservationService) GetStation(ctx context.Context, stationID string) (*models.Station, error) {
	if s.cache != nil {
		if station, err := s.cache.Get(ctx, stationID); err == nil {
			return station, nil
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("station cache read failed", zap.Error(err))
		}
	}

	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, station); err != nil {
			s.logger.Warn("station cache write failed", zap.Error(err))
		}
	}
	return station, nil
}

// ListStations returns the station catalog.
func (s *ReservationService) ListStations(ctx context.Context, limit int) ([]models.Station, error) {
	return s.stations.List(ctx, limit)
}

func (s *ReservationService) transition(ctx context.Context, bookingID int64, to models.BookingStatus, eventType string) (*models.Booking, error) {
	booking, err := s.lifecycle.Transition(ctx, bookingID, to)
	if err != nil {
		return nil, err
	}
	s.publish(Event{
		Type:      eventType,
		BookingID: booking.ID,
		StationID: booking.StationID,
		Status:    booking.Status,
	})
	return booking, nil
}

func (s *ReservationService) getOwned(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		// Do not reveal other users' bookings.
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// releaseSlot gives one unit back and reports the resulting count; failures
// are logged and left to the reconciliation job.
func (s *ReservationService) releaseSlot(ctx context.Context, stationID string) int {
	remaining, err := s.ledger.Release(ctx, stationID)
	if err != nil {
		s.logger.Error("slot release failed",
			zap.String("station_id", stationID),
			zap.Error(err),
		)
		return 0
	}
	s.invalidateSnapshot(ctx, stationID)
	return remaining
}

func (s *ReservationService) invalidateSnapshot(ctx context.Context, stationID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, stationID); err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("station cache invalidation failed", zap.String("station_id", stationID), zap.Error(err))
	}
}

func (s *ReservationService) publish(event Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(event)
}
