package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"chargeslot/internal/http/middleware"
	"chargeslot/internal/service"
)

// NewListBookingsHandler returns GET /api/v1/bookings handler. The optional
// status query parameter filters the projection.
func NewListBookingsHandler(svc *service.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}

		bookings, err := svc.ListBookings(r.Context(), userID, r.URL.Query().Get("status"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"bookings": bookings,
		})
	}
}

// NewGetBookingHandler returns GET /api/v1/bookings/{id} handler.
func NewGetBookingHandler(svc *service.ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid booking id")
			return
		}

		booking, err := svc.GetBooking(r.Context(), bookingID, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	}
}

// NewCancelBookingHandler returns POST /api/v1/bookings/{id}/cancel handler.
func NewCancelBookingHandler(svc *service.ReservationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid booking id")
			return
		}

		booking, err := svc.Cancel(r.Context(), bookingID, userID)
		if err != nil {
			logger.Warn("cancel rejected",
				zap.Int64("booking_id", bookingID),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	}
}

func bookingIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
