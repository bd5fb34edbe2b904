package wire

import (
	"net/http"

	"experience-booking/internal/adaptor"
	"experience-booking/internal/data/cache"
	"experience-booking/internal/data/repository"
	"experience-booking/internal/usecase"
	"experience-booking/pkg/middleware"
	"experience-booking/pkg/mq"
	"experience-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface.
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	experienceCache cache.ExperienceCache,
	publisher mq.Publisher,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, experienceCache, publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, repo, config, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))
	if config.App.RequestTimeout > 0 {
		r.Use(chimw.Timeout(config.App.RequestTimeout))
	}

	wireExperience(r, handler.Experience)
	wireBooking(r, handler.Booking, repo, logger)
	wirePromo(r, handler.Promo)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
