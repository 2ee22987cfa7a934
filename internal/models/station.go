package models

import "time"

// StationStatus describes whether a station accepts reservations.
type StationStatus string

// Station statuses.
const (
	StationStatusActive      StationStatus = "active"
	StationStatusMaintenance StationStatus = "maintenance"
	StationStatusInactive    StationStatus = "inactive"
)

// Station is a charging station capacity record. AvailableSlots is owned by the
// ledger repository and changes only through admit/release.
type Station struct {
	ID             string        `db:"id" json:"id"`
	Name           string        `db:"name" json:"name"`
	Location       string        `db:"location" json:"location"`
	TotalSlots     int           `db:"total_slots" json:"total_slots"`
	AvailableSlots int           `db:"available_slots" json:"available_slots"`
	PricePerHour   float64       `db:"price_per_hour" json:"price_per_hour"`
	Status         StationStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}
