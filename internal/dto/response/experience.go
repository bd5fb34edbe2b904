package response

import (
	"time"

	"experience-booking/internal/data/entity"
	"experience-booking/internal/pricing"

	"github.com/shopspring/decimal"
)

type LocationResponse struct {
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type ExperienceResponse struct {
	ID               string           `json:"id"`
	ExperienceID     string           `json:"experienceId"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"shortDescription"`
	Category         string           `json:"category"`
	Location         LocationResponse `json:"location"`
	Images           []string         `json:"images"`
	Price            float64          `json:"price"`
	Currency         string           `json:"currency"`
	IsActive         bool             `json:"isActive"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ExperienceSummary is the denormalized experience embedded in bookings.
type ExperienceSummary struct {
	ExperienceID     string           `json:"experienceId"`
	Title            string           `json:"title"`
	ShortDescription string           `json:"shortDescription"`
	Location         LocationResponse `json:"location"`
	Images           []string         `json:"images"`
	Price            float64          `json:"price"`
}

// money renders an amount as a JSON number with two decimals at most.
func money(d decimal.Decimal) float64 {
	return pricing.Round2(d).InexactFloat64()
}

func images(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func LocationToResponse(loc entity.Location) LocationResponse {
	return LocationResponse{
		City:      loc.City,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}
}

func ExperienceToResponse(e *entity.Experience) ExperienceResponse {
	return ExperienceResponse{
		ID:               e.ID.String(),
		ExperienceID:     e.ExperienceID,
		Title:            e.Title,
		Description:      e.Description,
		ShortDescription: e.ShortDescription,
		Category:         string(e.Category),
		Location:         LocationToResponse(e.Location),
		Images:           images(e.Images),
		Price:            money(e.Price),
		Currency:         pricing.Currency,
		IsActive:         e.IsActive,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func ExperiencesToResponse(list []*entity.Experience) []ExperienceResponse {
	out := make([]ExperienceResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ExperienceToResponse(e))
	}
	return out
}

func ExperienceToSummary(e *entity.Experience) *ExperienceSummary {
	if e == nil {
		return nil
	}
	return &ExperienceSummary{
		ExperienceID:     e.ExperienceID,
		Title:            e.Title,
		ShortDescription: e.ShortDescription,
		Location:         LocationToResponse(e.Location),
		Images:           images(e.Images),
		Price:            money(e.Price),
	}
}
