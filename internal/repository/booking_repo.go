package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargeslot/internal/models"
)

// Repository errors surfaced to the service layer.
var (
	// ErrBookingNotFound indicates an unknown booking id.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrStatusConflict indicates the booking exists but was not in any of the
	// expected states when the conditional update ran.
	ErrStatusConflict = errors.New("booking status conflict")
)

const bookingColumns = `id, user_id, station_id, start_time, end_time, total_hours, total_cost, status, vehicle_model, vehicle_registration, created_at, updated_at`

// BookingRepository handles persistence of bookings. Bookings are never
// deleted; terminal rows stay as history.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking and populates generated fields.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	const query = `
		INSERT INTO bookings (user_id, station_id, start_time, end_time, total_hours, total_cost, status, vehicle_model, vehicle_registration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		booking.UserID,
		booking.StationID,
		booking.StartTime,
		booking.EndTime,
		booking.TotalHours,
		booking.TotalCost,
		booking.Status,
		booking.VehicleModel,
		booking.VehicleRegistration,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// GetByID returns a booking.
func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	const query = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`
	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// ListByUser returns the user's bookings, newest first, optionally filtered
// by status (empty status means no filter).
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, status models.BookingStatus, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// UpdateStatus moves a booking into the target status if and only if its
// current status is one of allowedFrom, in a single conditional update.
// Returns the updated booking, ErrBookingNotFound for unknown ids and
// ErrStatusConflict when the booking was in none of the expected states.
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID int64, to models.BookingStatus, allowedFrom []models.BookingStatus) (*models.Booking, error) {
	const query = `
		UPDATE bookings
		SET status = $2,
		    updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
		RETURNING ` + bookingColumns + `
	`
	from := make([]string, 0, len(allowedFrom))
	for _, s := range allowedFrom {
		from = append(from, string(s))
	}
	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID, to, from))
	if errors.Is(err, sql.ErrNoRows) {
		const exists = `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`
		var found bool
		if err := r.db.QueryRowContext(ctx, exists, bookingID).Scan(&found); err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrBookingNotFound
		}
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// ListActivePastEnd returns active bookings whose end time already passed.
func (r *BookingRepository) ListActivePastEnd(ctx context.Context, now time.Time, limit int) ([]models.Booking, error) {
	return r.listByStatusPast(ctx, models.BookingStatusActive, "end_time", now, limit)
}

// ListPendingPastStart returns pending bookings whose start time already passed.
func (r *BookingRepository) ListPendingPastStart(ctx context.Context, now time.Time, limit int) ([]models.Booking, error) {
	return r.listByStatusPast(ctx, models.BookingStatusPending, "start_time", now, limit)
}

// ListConfirmedPastEnd returns confirmed bookings that were never started and
// whose end time already passed.
func (r *BookingRepository) ListConfirmedPastEnd(ctx context.Context, now time.Time, limit int) ([]models.Booking, error) {
	return r.listByStatusPast(ctx, models.BookingStatusConfirmed, "end_time", now, limit)
}

func (r *BookingRepository) listByStatusPast(ctx context.Context, status models.BookingStatus, timeColumn string, now time.Time, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND ` + timeColumn + ` <= $2
		ORDER BY ` + timeColumn + `
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, status, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.StationID,
		&b.StartTime,
		&b.EndTime,
		&b.TotalHours,
		&b.TotalCost,
		&b.Status,
		&b.VehicleModel,
		&b.VehicleRegistration,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
