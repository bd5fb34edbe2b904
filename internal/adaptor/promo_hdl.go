package adaptor

import (
	"net/http"

	"experience-booking/internal/dto/request"
	"experience-booking/internal/usecase"
	"experience-booking/pkg/utils"

	"go.uber.org/zap"
)

type PromoHandler struct {
	service usecase.PromoService
	log     *zap.Logger
}

func NewPromoHandler(service usecase.PromoService, log *zap.Logger) *PromoHandler {
	return &PromoHandler{
		service: service,
		log:     log.With(zap.String("handler", "promo")),
	}
}

// ValidatePromoCode handles POST /promo/validate
func (h *PromoHandler) ValidatePromoCode(w http.ResponseWriter, r *http.Request) {
	var req request.ValidatePromoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.ValidatePromoCode(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "validate promo code")
		return
	}

	utils.ResponseSuccess(w, "Promo code is valid", result)
}
