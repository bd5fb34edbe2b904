package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"experience-booking/internal/usecase"
	"experience-booking/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Experience *ExperienceHandler
	Booking    *BookingHandler
	Promo      *PromoHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Experience: NewExperienceHandler(service.Experience, log),
		Booking:    NewBookingHandler(service.Booking, log),
		Promo:      NewPromoHandler(service.Promo, log),
	}
}

// decodeJSON reads a single JSON document from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		return err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// handleServiceError maps the usecase error kinds to status codes. Anything
// unrecognised is logged and answered with a generic message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var duplicate *usecase.DuplicateBookingError
	var usecaseErr *usecase.Error

	switch {
	case errors.As(err, &duplicate):
		log.Warn(operation+" failed - duplicate booking",
			zap.String("existing_booking_id", duplicate.ExistingBookingID),
			zap.String("operation", operation))
		utils.ResponseConflict(w, usecase.MsgDuplicateBooking, duplicate.ExistingBookingID)

	case errors.As(err, &usecaseErr) && errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, usecaseErr.Message())

	case errors.As(err, &usecaseErr) && errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		var fields any
		if f := usecaseErr.Fields(); len(f) > 0 {
			fields = f
		}
		utils.ResponseBadRequest(w, usecaseErr.Message(), fields)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Failed to "+operation)
	}
}
