package wire

import (
	"experience-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireExperience(r chi.Router, experienceHandler *adaptor.ExperienceHandler) {
	r.Route("/experiences", func(r chi.Router) {
		// GET /experiences?category=&city=&minPrice=&maxPrice=&search=
		r.Get("/", experienceHandler.GetExperiences)

		// GET /experiences/{id} - internal id or display id
		r.Get("/{id}", experienceHandler.GetExperienceByID)
	})
}
