package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"chargeslot/internal/models"
	"chargeslot/internal/repository"
)

// fakeStations is an in-memory StationReader.
type fakeStations struct {
	mu       sync.Mutex
	stations map[string]*models.Station
	getErr   error
}

func newFakeStations(stations ...*models.Station) *fakeStations {
	f := &fakeStations{stations: make(map[string]*models.Station)}
	for _, s := range stations {
		f.stations[s.ID] = s
	}
	return f
}

func (f *fakeStations) GetByID(_ context.Context, stationID string) (*models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	station, ok := f.stations[stationID]
	if !ok {
		return nil, repository.ErrStationNotFound
	}
	copied := *station
	return &copied, nil
}

func (f *fakeStations) List(_ context.Context, _ int) ([]models.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Station
	for _, s := range f.stations {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStations) setPrice(stationID string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stations[stationID].PricePerHour = price
}

// fakeLedger mirrors the SQL conditional-update contract: admit and release
// are atomic under one mutex, exactly like the single-statement updates they
// stand in for.
type fakeLedger struct {
	mu        sync.Mutex
	total     map[string]int
	available map[string]int
	repaired  int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		total:     make(map[string]int),
		available: make(map[string]int),
	}
}

func (f *fakeLedger) addStation(stationID string, total, available int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total[stationID] = total
	f.available[stationID] = available
}

func (f *fakeLedger) Admit(_ context.Context, stationID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	available, ok := f.available[stationID]
	if !ok {
		return 0, repository.ErrStationNotFound
	}
	if available <= 0 {
		return 0, repository.ErrNoCapacity
	}
	f.available[stationID] = available - 1
	return available - 1, nil
}

func (f *fakeLedger) Release(_ context.Context, stationID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	available, ok := f.available[stationID]
	if !ok {
		return 0, repository.ErrStationNotFound
	}
	if available < f.total[stationID] {
		available++
		f.available[stationID] = available
	}
	return available, nil
}

func (f *fakeLedger) Recompute(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.repaired, nil
}

func (f *fakeLedger) availableSlots(stationID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available[stationID]
}

// fakeBookings is an in-memory BookingStore honoring the conditional
// UpdateStatus contract.
type fakeBookings struct {
	mu        sync.Mutex
	nextID    int64
	bookings  map[int64]*models.Booking
	createErr error
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{
		nextID:   1,
		bookings: make(map[int64]*models.Booking),
	}
}

func (f *fakeBookings) Create(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	booking.ID = f.nextID
	f.nextID++
	booking.CreatedAt = time.Now().UTC()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	f.bookings[booking.ID] = &copied
	return booking, nil
}

func (f *fakeBookings) GetByID(_ context.Context, bookingID int64) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID int64, status models.BookingStatus, _ int) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, bookingID int64, to models.BookingStatus, allowedFrom []models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	for _, from := range allowedFrom {
		if booking.Status == from {
			booking.Status = to
			booking.UpdatedAt = time.Now().UTC()
			copied := *booking
			return &copied, nil
		}
	}
	return nil, repository.ErrStatusConflict
}

func (f *fakeBookings) ListActivePastEnd(_ context.Context, now time.Time, _ int) ([]models.Booking, error) {
	return f.listPast(models.BookingStatusActive, func(b *models.Booking) time.Time { return b.EndTime }, now), nil
}

func (f *fakeBookings) ListPendingPastStart(_ context.Context, now time.Time, _ int) ([]models.Booking, error) {
	return f.listPast(models.BookingStatusPending, func(b *models.Booking) time.Time { return b.StartTime }, now), nil
}

func (f *fakeBookings) ListConfirmedPastEnd(_ context.Context, now time.Time, _ int) ([]models.Booking, error) {
	return f.listPast(models.BookingStatusConfirmed, func(b *models.Booking) time.Time { return b.EndTime }, now), nil
}

func (f *fakeBookings) listPast(status models.BookingStatus, at func(*models.Booking) time.Time, now time.Time) []models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == status && !at(b).After(now) {
			out = append(out, *b)
		}
	}
	return out
}

func (f *fakeBookings) statusOf(bookingID int64) models.BookingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[bookingID].Status
}

func (f *fakeBookings) put(booking *models.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if booking.ID == 0 {
		booking.ID = f.nextID
	}
	if booking.ID >= f.nextID {
		f.nextID = booking.ID + 1
	}
	copied := *booking
	f.bookings[booking.ID] = &copied
}

// fakeSink records published events.
type fakeSink struct {
	mu     sync.Mutex
	events []Event
}

func (f *fakeSink) Publish(event Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeSink) byType(eventType string) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Event
	for _, e := range f.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	svc      *ReservationService
	stations *fakeStations
	ledger   *fakeLedger
	bookings *fakeBookings
	sink     *fakeSink
}

func newTestEnv(stations ...*models.Station) *testEnv {
	env := &testEnv{
		stations: newFakeStations(stations...),
		ledger:   newFakeLedger(),
		bookings: newFakeBookings(),
		sink:     &fakeSink{},
	}
	for _, s := range stations {
		env.ledger.addStation(s.ID, s.TotalSlots, s.AvailableSlots)
	}
	env.svc = NewReservationService(env.stations, env.ledger, env.bookings, nil, env.sink, zap.NewNop())
	return env
}
