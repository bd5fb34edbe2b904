package entity

import (
	"github.com/shopspring/decimal"
)

type ExperienceCategory string

const (
	CategoryAdventure     ExperienceCategory = "adventure"
	CategoryCultural      ExperienceCategory = "cultural"
	CategoryNature        ExperienceCategory = "nature"
	CategoryFood          ExperienceCategory = "food"
	CategoryWellness      ExperienceCategory = "wellness"
	CategoryEntertainment ExperienceCategory = "entertainment"
	CategorySports        ExperienceCategory = "sports"
	CategorySightseeing   ExperienceCategory = "sightseeing"
	CategoryOther         ExperienceCategory = "other"
)

type Location struct {
	City      string   `db:"city"`
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`
}

// Experience is a bookable product. Only active experiences are listed or bookable;
// deactivation is the only removal.
type Experience struct {
	Base
	ExperienceID     string             `db:"experience_id"`
	Title            string             `db:"title"`
	Description      string             `db:"description"`
	ShortDescription string             `db:"short_description"`
	Category         ExperienceCategory `db:"category"`
	Location         Location
	Images           []string        `db:"images"`
	Price            decimal.Decimal `db:"price"`
	IsActive         bool            `db:"is_active"`
}

// ExperienceFilter narrows a catalog listing. Nil/blank fields are ignored.
type ExperienceFilter struct {
	Category *ExperienceCategory
	City     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string
}
