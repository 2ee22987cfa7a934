package service

import (
	"strings"
	"time"

	"chargeslot/internal/models"
)

// ReserveRequest carries everything needed to reserve a charging slot. UserID
// comes from the authenticated caller, never from the request body.
type ReserveRequest struct {
	UserID              int64
	StationID           string
	StartTime           time.Time
	TotalHours          int
	VehicleModel        string
	VehicleRegistration string
}

// permittedHours are the bookable durations.
var permittedHours = map[int]struct{}{
	1: {}, 2: {}, 3: {}, 4: {}, 5: {}, 6: {}, 8: {}, 12: {},
}

// ValidateReservation checks a reservation request against the business rules
// without touching the ledger. Checks run in a fixed order and the first
// failure wins; the function is deterministic given its inputs.
func ValidateReservation(req ReserveRequest, station *models.Station, now time.Time) error {
	if !req.StartTime.After(now) {
		return &ValidationError{Reason: "start time must be in the future"}
	}
	if _, ok := permittedHours[req.TotalHours]; !ok {
		return &ValidationError{Reason: "duration must be 1-6, 8 or 12 hours"}
	}
	if strings.TrimSpace(req.VehicleModel) == "" {
		return &ValidationError{Reason: "vehicle model is required"}
	}
	if strings.TrimSpace(req.VehicleRegistration) == "" {
		return &ValidationError{Reason: "vehicle registration is required"}
	}
	if station.Status != models.StationStatusActive {
		return &ValidationError{Reason: "station is not accepting reservations"}
	}
	return nil
}
