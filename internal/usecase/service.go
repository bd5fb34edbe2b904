package usecase

import (
	"experience-booking/internal/data/cache"
	"experience-booking/internal/data/repository"
	"experience-booking/pkg/mq"

	"go.uber.org/zap"
)

type Service struct {
	Experience ExperienceService
	Promo      PromoService
	Booking    BookingService
}

func NewService(repo *repository.Repository, experienceCache cache.ExperienceCache, publisher mq.Publisher, log *zap.Logger) *Service {
	return &Service{
		Experience: NewExperienceService(repo.Experience, experienceCache, log),
		Promo:      NewPromoService(repo.PromoCode, log),
		Booking:    NewBookingService(repo, publisher, log),
	}
}
