package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNoCapacity indicates the station has no free slots left.
var ErrNoCapacity = errors.New("no free slots")

// LedgerRepository is the single owner of available_slots. Admit and Release
// are single-statement conditional updates, so two concurrent calls for the
// same station can never both observe the last free slot; rows for different
// stations do not contend.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository returns repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Admit atomically takes one slot. Returns the remaining free slots,
// ErrNoCapacity when the station is full, ErrStationNotFound for unknown ids.
func (r *LedgerRepository) Admit(ctx context.Context, stationID string) (int, error) {
	const query = `
		UPDATE stations
		SET available_slots = available_slots - 1,
		    updated_at = NOW()
		WHERE id = $1 AND available_slots > 0
		RETURNING available_slots
	`
	var remaining int
	err := r.db.QueryRowContext(ctx, query, stationID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		if exists, existsErr := r.stationExists(ctx, stationID); existsErr != nil {
			return 0, existsErr
		} else if !exists {
			return 0, ErrStationNotFound
		}
		return 0, ErrNoCapacity
	}
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// Release atomically gives one slot back, clamped at total_slots so retried
// releases cannot overshoot. Returns the resulting free slot count.
func (r *LedgerRepository) Release(ctx context.Context, stationID string) (int, error) {
	const query = `
		UPDATE stations
		SET available_slots = available_slots + 1,
		    updated_at = NOW()
		WHERE id = $1 AND available_slots < total_slots
		RETURNING available_slots
	`
	var remaining int
	err := r.db.QueryRowContext(ctx, query, stationID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		// Already at capacity: clamp silently and report the current count.
		const current = `SELECT available_slots FROM stations WHERE id = $1`
		if err := r.db.QueryRowContext(ctx, current, stationID).Scan(&remaining); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, ErrStationNotFound
			}
			return 0, err
		}
		return remaining, nil
	}
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// Recompute realigns available_slots with the count of non-terminal bookings
// on every drifted station. Used by the reconciliation job to repair the
// counter after a failed compensation. Returns the number of repaired rows.
func (r *LedgerRepository) Recompute(ctx context.Context) (int64, error) {
	const query = `
		UPDATE stations s
		SET available_slots = x.free,
		    updated_at = NOW()
		FROM (
			SELECT st.id, GREATEST(st.total_slots - COUNT(b.id), 0) AS free
			FROM stations st
			LEFT JOIN bookings b
				ON b.station_id = st.id
				AND b.status IN ('pending', 'confirmed', 'active')
			GROUP BY st.id, st.total_slots
		) x
		WHERE s.id = x.id AND s.available_slots <> x.free
	`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *LedgerRepository) stationExists(ctx context.Context, stationID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM stations WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, stationID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
