package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"chargeslot/internal/models"
	"chargeslot/internal/service"
)

// LifecycleHandler holds the internal endpoints the charge-point side calls
// to drive a booking through confirmed, active and completed.
type LifecycleHandler struct {
	svc    *service.ReservationService
	logger *zap.Logger
}

// NewLifecycleHandler builds handler set.
func NewLifecycleHandler(svc *service.ReservationService, logger *zap.Logger) *LifecycleHandler {
	return &LifecycleHandler{
		svc:    svc,
		logger: logger,
	}
}

// HandleConfirm handles POST /internal/bookings/{id}/confirm.
func (h *LifecycleHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.svc.Confirm)
}

// HandleStart handles POST /internal/bookings/{id}/start.
func (h *LifecycleHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.svc.StartCharging)
}

// HandleComplete handles POST /internal/bookings/{id}/complete.
func (h *LifecycleHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.svc.Complete)
}

func (h *LifecycleHandler) apply(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (*models.Booking, error)) {
	bookingID, err := bookingIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := fn(r.Context(), bookingID)
	if err != nil {
		h.logger.Warn("lifecycle transition rejected",
			zap.Int64("booking_id", bookingID),
			zap.Error(err),
		)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
