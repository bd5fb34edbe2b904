package usecase

import (
	"context"
	"fmt"
	"strings"

	"experience-booking/internal/data/cache"
	"experience-booking/internal/data/entity"
	"experience-booking/internal/data/repository"
	"experience-booking/internal/dto/request"
	"experience-booking/internal/dto/response"
	"experience-booking/pkg/utils"

	"go.uber.org/zap"
)

type ExperienceService interface {
	ListExperiences(ctx context.Context, query *request.ExperienceQuery) ([]response.ExperienceResponse, error)
	GetExperience(ctx context.Context, id string) (*response.ExperienceResponse, error)
}

type experienceService struct {
	experiences repository.ExperienceRepository
	cache       cache.ExperienceCache
	log         *zap.Logger
}

func NewExperienceService(experiences repository.ExperienceRepository, experienceCache cache.ExperienceCache, log *zap.Logger) ExperienceService {
	if experienceCache == nil {
		experienceCache = cache.NopExperienceCache{}
	}
	return &experienceService{
		experiences: experiences,
		cache:       experienceCache,
		log:         log.With(zap.String("service", "experience")),
	}
}

func (s *experienceService) ListExperiences(ctx context.Context, query *request.ExperienceQuery) ([]response.ExperienceResponse, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return nil, err
	}

	experiences, err := s.experiences.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}

	return response.ExperiencesToResponse(experiences), nil
}

func (s *experienceService) buildFilter(query *request.ExperienceQuery) (entity.ExperienceFilter, error) {
	var filter entity.ExperienceFilter

	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		s.log.Warn("Experience query validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return filter, NewFieldsError(errs)
	}

	if category := strings.TrimSpace(query.Category); category != "" {
		c := entity.ExperienceCategory(category)
		filter.Category = &c
	}
	filter.City = strings.TrimSpace(query.City)
	filter.Search = strings.TrimSpace(query.Search)

	minPrice, err := utils.ParseOptionalDecimal(query.MinPrice)
	if err != nil {
		return filter, NewValidationError("minPrice must be a number")
	}
	maxPrice, err := utils.ParseOptionalDecimal(query.MaxPrice)
	if err != nil {
		return filter, NewValidationError("maxPrice must be a number")
	}
	filter.MinPrice = minPrice
	filter.MaxPrice = maxPrice

	return filter, nil
}

func (s *experienceService) GetExperience(ctx context.Context, id string) (*response.ExperienceResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewNotFoundError(MsgExperienceNotFound)
	}

	// entries live until TTL; deactivation is not propagated here, booking reads the store
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		// cache trouble never fails a read
		s.log.Warn("Experience cache read failed", zap.Error(err), zap.String("experience_id", id))
	}
	if cached != nil {
		resp := response.ExperienceToResponse(cached)
		return &resp, nil
	}

	experience, err := s.experiences.FindBookable(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get experience %s: %w", id, err)
	}
	if experience == nil {
		return nil, NewNotFoundError(MsgExperienceNotFound)
	}

	if err := s.cache.Set(ctx, id, experience); err != nil {
		s.log.Warn("Experience cache write failed", zap.Error(err), zap.String("experience_id", id))
	}

	resp := response.ExperienceToResponse(experience)
	return &resp, nil
}
