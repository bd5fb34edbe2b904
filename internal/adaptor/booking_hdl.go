package adaptor

import (
	"net/http"

	"experience-booking/internal/dto/request"
	"experience-booking/internal/usecase"
	"experience-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /bookings. A signed-in account is attached when
// the session middleware found one; otherwise it is a guest checkout.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("Invalid create booking body", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	var userID *uuid.UUID
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", booking)
}

// GetBookingByID handles GET /bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "fetch booking")
		return
	}

	utils.ResponseSuccess(w, "", booking)
}

// GetUserBookings handles GET /bookings/user/{userId}
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetUserBookings(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "fetch bookings")
		return
	}

	utils.ResponseList(w, len(bookings), bookings)
}
