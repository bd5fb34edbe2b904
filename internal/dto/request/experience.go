package request

// ExperienceQuery is the raw query string of the catalog listing.
type ExperienceQuery struct {
	Category string `validate:"omitempty,oneof=adventure cultural nature food wellness entertainment sports sightseeing other"`
	City     string `validate:"max=100"`
	MinPrice string
	MaxPrice string
	Search   string `validate:"max=200"`
}
