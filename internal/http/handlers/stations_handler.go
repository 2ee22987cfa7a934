package handlers

import (
	"net/http"

	"chargeslot/internal/service"
)

// NewListStationsHandler returns GET /api/v1/stations handler.
func NewListStationsHandler(svc *service.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stations, err := svc.ListStations(r.Context(), 100)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to fetch stations")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"stations": stations,
		})
	}
}

// NewGetStationHandler returns GET /api/v1/stations/{id} handler.
func NewGetStationHandler(svc *service.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stationID := r.PathValue("id")
		if stationID == "" {
			writeError(w, http.StatusBadRequest, "station id is required")
			return
		}

		station, err := svc.GetStation(r.Context(), stationID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, station)
	}
}
