package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"chargeslot/internal/http/middleware"
	"chargeslot/internal/service"
)

type reserveRequest struct {
	StationID           string    `json:"station_id"`
	StartTime           time.Time `json:"start_time"`
	TotalHours          int       `json:"total_hours"`
	VehicleModel        string    `json:"vehicle_model"`
	VehicleRegistration string    `json:"vehicle_registration"`
}

// NewReserveHandler returns POST /api/v1/bookings handler.
func NewReserveHandler(svc *service.ReservationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}

		var req reserveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.StationID == "" {
			writeError(w, http.StatusBadRequest, "station_id is required")
			return
		}

		booking, err := svc.Reserve(r.Context(), service.ReserveRequest{
			UserID:              userID,
			StationID:           req.StationID,
			StartTime:           req.StartTime,
			TotalHours:          req.TotalHours,
			VehicleModel:        req.VehicleModel,
			VehicleRegistration: req.VehicleRegistration,
		})
		if err != nil {
			logger.Warn("reserve rejected",
				zap.Int64("user_id", userID),
				zap.String("station_id", req.StationID),
				zap.Error(err),
			)
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, booking)
	}
}
