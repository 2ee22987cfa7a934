package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargeslot/internal/models"
)

func activeStation() *models.Station {
	return &models.Station{
		ID:             "st-1",
		Name:           "Main Street",
		TotalSlots:     4,
		AvailableSlots: 4,
		PricePerHour:   10,
		Status:         models.StationStatusActive,
	}
}

func validRequest(now time.Time) ReserveRequest {
	return ReserveRequest{
		UserID:              42,
		StationID:           "st-1",
		StartTime:           now.Add(3 * time.Hour),
		TotalHours:          2,
		VehicleModel:        "Model 3",
		VehicleRegistration: "AB-123-CD",
	}
}

func TestValidateReservation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid request passes", func(t *testing.T) {
		require.NoError(t, ValidateReservation(validRequest(now), activeStation(), now))
	})

	t.Run("start time in the past", func(t *testing.T) {
		req := validRequest(now)
		req.StartTime = now.Add(-time.Minute)
		err := ValidateReservation(req, activeStation(), now)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Reason, "future")
	})

	t.Run("start time equal to now", func(t *testing.T) {
		req := validRequest(now)
		req.StartTime = now
		require.Error(t, ValidateReservation(req, activeStation(), now))
	})

	t.Run("duration outside permitted set", func(t *testing.T) {
		for _, hours := range []int{0, -1, 7, 9, 10, 11, 13, 24} {
			req := validRequest(now)
			req.TotalHours = hours
			err := ValidateReservation(req, activeStation(), now)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation, "hours=%d", hours)
		}
	})

	t.Run("permitted durations accepted", func(t *testing.T) {
		for _, hours := range []int{1, 2, 3, 4, 5, 6, 8, 12} {
			req := validRequest(now)
			req.TotalHours = hours
			require.NoError(t, ValidateReservation(req, activeStation(), now), "hours=%d", hours)
		}
	})

	t.Run("blank vehicle model", func(t *testing.T) {
		req := validRequest(now)
		req.VehicleModel = "   "
		err := ValidateReservation(req, activeStation(), now)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Reason, "model")
	})

	t.Run("blank registration", func(t *testing.T) {
		req := validRequest(now)
		req.VehicleRegistration = ""
		require.Error(t, ValidateReservation(req, activeStation(), now))
	})

	t.Run("station under maintenance", func(t *testing.T) {
		station := activeStation()
		station.Status = models.StationStatusMaintenance
		err := ValidateReservation(validRequest(now), station, now)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Reason, "not accepting")
	})

	t.Run("first failure wins", func(t *testing.T) {
		// Past start and bad duration together must report the time check.
		req := validRequest(now)
		req.StartTime = now.Add(-time.Hour)
		req.TotalHours = 7
		err := ValidateReservation(req, activeStation(), now)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Reason, "future")
	})
}
