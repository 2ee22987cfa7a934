package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chargeslot/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the reservation error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Reason)
	case errors.Is(err, service.ErrNoCapacity):
		writeError(w, http.StatusConflict, "station has no free slots")
	case errors.Is(err, service.ErrStationNotFound):
		writeError(w, http.StatusNotFound, "station not found")
	case errors.Is(err, service.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid booking state for this action")
	case errors.Is(err, service.ErrTooLate):
		writeError(w, http.StatusConflict, "too late to cancel this booking")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
