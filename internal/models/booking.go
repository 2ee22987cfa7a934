package models

import "time"

// BookingStatus is the closed set of booking states.
type BookingStatus string

// Booking statuses. Completed and cancelled are terminal.
const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transition may leave the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// IsValid reports whether the status belongs to the closed set.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a reserved charging slot. UserID, StationID, StartTime and
// TotalCost are immutable after creation; only Status changes afterwards.
type Booking struct {
	ID                  int64         `db:"id" json:"id"`
	UserID              int64         `db:"user_id" json:"user_id"`
	StationID           string        `db:"station_id" json:"station_id"`
	StartTime           time.Time     `db:"start_time" json:"start_time"`
	EndTime             time.Time     `db:"end_time" json:"end_time"`
	TotalHours          int           `db:"total_hours" json:"total_hours"`
	TotalCost           float64       `db:"total_cost" json:"total_cost"`
	Status              BookingStatus `db:"status" json:"status"`
	VehicleModel        string        `db:"vehicle_model" json:"vehicle_model"`
	VehicleRegistration string        `db:"vehicle_registration" json:"vehicle_registration"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updated_at"`
}
