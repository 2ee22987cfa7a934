package httpserver

import "net/http"

// Routes groups handlers. Auth wraps the user-facing booking endpoints.
type Routes struct {
	Auth func(http.Handler) http.Handler

	Reserve       http.HandlerFunc
	ListBookings  http.HandlerFunc
	GetBooking    http.HandlerFunc
	CancelBooking http.HandlerFunc

	ListStations http.HandlerFunc
	GetStation   http.HandlerFunc

	ConfirmBooking  http.HandlerFunc
	StartBooking    http.HandlerFunc
	CompleteBooking http.HandlerFunc

	Events http.HandlerFunc
	Health http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.Handler {
		if routes.Auth == nil {
			return h
		}
		return routes.Auth(h)
	}

	if routes.Reserve != nil {
		mux.Handle("POST /api/v1/bookings", protect(routes.Reserve))
	}
	if routes.ListBookings != nil {
		mux.Handle("GET /api/v1/bookings", protect(routes.ListBookings))
	}
	if routes.GetBooking != nil {
		mux.Handle("GET /api/v1/bookings/{id}", protect(routes.GetBooking))
	}
	if routes.CancelBooking != nil {
		mux.Handle("POST /api/v1/bookings/{id}/cancel", protect(routes.CancelBooking))
	}

	if routes.ListStations != nil {
		mux.Handle("GET /api/v1/stations", routes.ListStations)
	}
	if routes.GetStation != nil {
		mux.Handle("GET /api/v1/stations/{id}", routes.GetStation)
	}

	if routes.ConfirmBooking != nil {
		mux.Handle("POST /internal/bookings/{id}/confirm", routes.ConfirmBooking)
	}
	if routes.StartBooking != nil {
		mux.Handle("POST /internal/bookings/{id}/start", routes.StartBooking)
	}
	if routes.CompleteBooking != nil {
		mux.Handle("POST /internal/bookings/{id}/complete", routes.CompleteBooking)
	}

	if routes.Events != nil {
		mux.Handle("GET /ws/events", routes.Events)
	}
	if routes.Health != nil {
		mux.Handle("GET /health", routes.Health)
	}
	return mux
}
