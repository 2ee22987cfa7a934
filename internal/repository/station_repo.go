package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargeslot/internal/models"
)

// ErrStationNotFound indicates an unknown station id.
var ErrStationNotFound = errors.New("station not found")

// StationRepository reads station capacity records. Writes to available_slots
// go through LedgerRepository only.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// GetByID returns a station snapshot.
func (r *StationRepository) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	const query = `
		SELECT id, name, location, total_slots, available_slots, price_per_hour, status, created_at, updated_at
		FROM stations
		WHERE id = $1
	`
	var s models.Station
	err := r.db.QueryRowContext(ctx, query, stationID).Scan(
		&s.ID,
		&s.Name,
		&s.Location,
		&s.TotalSlots,
		&s.AvailableSlots,
		&s.PricePerHour,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns stations ordered by name.
func (r *StationRepository) List(ctx context.Context, limit int) ([]models.Station, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT id, name, location, total_slots, available_slots, price_per_hour, status, created_at, updated_at
		FROM stations
		ORDER BY name
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Location,
			&s.TotalSlots,
			&s.AvailableSlots,
			&s.PricePerHour,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}
