package wire

import (
	"experience-booking/internal/adaptor"
	"experience-booking/internal/data/repository"
	"experience-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/bookings", func(r chi.Router) {
		// guests book without a token, signed-in accounts get the booking attached
		r.With(middleware.OptionalSession(repo.Session, log)).Post("/", bookingHandler.CreateBooking)

		// GET /bookings/user/{userId} - an account's bookings, newest first
		r.Get("/user/{userId}", bookingHandler.GetUserBookings)

		// GET /bookings/{id} - internal id or display id
		r.Get("/{id}", bookingHandler.GetBookingByID)
	})
}
