package wire

import (
	"experience-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePromo(r chi.Router, promoHandler *adaptor.PromoHandler) {
	// POST /promo/validate - discount preview, never uses the code
	r.Post("/promo/validate", promoHandler.ValidatePromoCode)
}
