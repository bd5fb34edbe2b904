package adaptor

import (
	"net/http"

	"experience-booking/internal/dto/request"
	"experience-booking/internal/usecase"
	"experience-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ExperienceHandler struct {
	service usecase.ExperienceService
	log     *zap.Logger
}

func NewExperienceHandler(service usecase.ExperienceService, log *zap.Logger) *ExperienceHandler {
	return &ExperienceHandler{
		service: service,
		log:     log.With(zap.String("handler", "experience")),
	}
}

// GetExperiences handles GET /experiences
func (h *ExperienceHandler) GetExperiences(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ExperienceQuery{
		Category: query.Get("category"),
		City:     query.Get("city"),
		MinPrice: query.Get("minPrice"),
		MaxPrice: query.Get("maxPrice"),
		Search:   query.Get("search"),
	}

	experiences, err := h.service.ListExperiences(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "fetch experiences")
		return
	}

	utils.ResponseList(w, len(experiences), experiences)
}

// GetExperienceByID handles GET /experiences/{id}
func (h *ExperienceHandler) GetExperienceByID(w http.ResponseWriter, r *http.Request) {
	experience, err := h.service.GetExperience(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "fetch experience")
		return
	}

	utils.ResponseSuccess(w, "", experience)
}
