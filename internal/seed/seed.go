package seed

import (
	"context"
	"fmt"
	"time"

	"experience-booking/internal/data/entity"
	"experience-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seeder fills empty catalog and promo tables with sample data.
type Seeder struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewSeeder(repo *repository.Repository, log *zap.Logger) *Seeder {
	return &Seeder{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("component", "seed")),
	}
}

// Run seeds each table only when it is empty, so restarts are no-ops.
func (s *Seeder) Run(ctx context.Context) error {
	now := s.now()

	return s.repo.Tx.WithinTransaction(ctx, func(repos *repository.Repository) error {
		experienceCount, err := repos.Experience.Count(ctx)
		if err != nil {
			return err
		}
		if experienceCount == 0 {
			experiences := SampleExperiences(now)
			for _, e := range experiences {
				if err := repos.Experience.Create(ctx, e); err != nil {
					return fmt.Errorf("seed experiences: %w", err)
				}
			}
			s.log.Info("Seeded experiences", zap.Int("count", len(experiences)))
		} else {
			s.log.Info("Experiences present, skipping seed", zap.Int64("count", experienceCount))
		}

		promoCount, err := repos.PromoCode.Count(ctx)
		if err != nil {
			return err
		}
		if promoCount == 0 {
			promos := SamplePromoCodes(now)
			for _, p := range promos {
				if err := repos.PromoCode.Create(ctx, p); err != nil {
					return fmt.Errorf("seed promo codes: %w", err)
				}
			}
			s.log.Info("Seeded promo codes", zap.Int("count", len(promos)))
		} else {
			s.log.Info("Promo codes present, skipping seed", zap.Int64("count", promoCount))
		}

		return nil
	})
}

func coords(lat, lng float64) entity.Location {
	return entity.Location{Latitude: &lat, Longitude: &lng}
}

func unsplash(ids ...string) []string {
	urls := make([]string, len(ids))
	for i, id := range ids {
		urls[i] = "https://images.unsplash.com/" + id
	}
	return urls
}

// SampleExperiences is the starter catalog. Creation times are staggered so
// the listing order is stable.
func SampleExperiences(now time.Time) []*entity.Experience {
	type sample struct {
		id, title, short, description string
		category                      entity.ExperienceCategory
		city                          string
		location                      entity.Location
		images                        []string
		price                         int64
	}

	samples := []sample{
		{
			id:          "EXP2510A1B2C3",
			title:       "Paragliding Adventure in Bir Billing",
			short:       "Tandem paragliding flight with breathtaking Himalayan views",
			description: "Tandem flight with a certified pilot over the Dhauladhar range from one of the best take-off sites in Asia. Includes safety briefing, equipment and transfer to the launch site.",
			category:    entity.CategoryAdventure,
			city:        "Bir Billing, Himachal Pradesh",
			location:    coords(32.0524, 76.7248),
			images:      unsplash("photo-1582555172866-f73bb12a2ab3", "photo-1506905925346-21bda4d32df4"),
			price:       2500,
		},
		{
			id:          "EXP2510D4E5F6",
			title:       "Heritage Walk & Street Food Tour in Old Delhi",
			short:       "Guided heritage walk with authentic street food tasting",
			description: "Walk the lanes of Old Delhi with a local guide, from Jama Masjid to Chandni Chowk, tasting traditional dishes from long-running food stalls along the way.",
			category:    entity.CategoryCultural,
			city:        "New Delhi, Delhi",
			location:    coords(28.6507, 77.2334),
			images:      unsplash("photo-1524492412937-b28074a5d7da", "photo-1555939594-58d7cb561ad1"),
			price:       1200,
		},
		{
			id:          "EXP2510G7H8I9",
			title:       "Sunrise Taj Mahal Tour from Delhi",
			short:       "Early morning Taj Mahal visit with luxury transport",
			description: "See the Taj Mahal at sunrise before the crowds arrive. Includes private transport from Delhi, skip-the-line entry, a guide and a visit to Agra Fort.",
			category:    entity.CategorySightseeing,
			city:        "Agra, Uttar Pradesh",
			location:    coords(27.1751, 78.0421),
			images:      unsplash("photo-1564507592333-c60657eea523", "photo-1548013146-72479768bada"),
			price:       4500,
		},
		{
			id:          "EXP2510J1K2L3",
			title:       "Backwater Houseboat Stay in Alleppey",
			short:       "Overnight luxury houseboat cruise through Kerala backwaters",
			description: "An overnight cruise on a traditional kettuvallam past paddy fields and village life, with Kerala meals cooked on board.",
			category:    entity.CategoryNature,
			city:        "Alleppey, Kerala",
			location:    coords(9.4981, 76.3388),
			images:      unsplash("photo-1602216056096-3b40cc0c9944", "photo-1609137144813-7d9921338f24"),
			price:       8500,
		},
		{
			id:          "EXP2510M4N5O6",
			title:       "Scuba Diving Experience in Andaman Islands",
			short:       "Guided scuba diving in crystal-clear waters",
			description: "A guided dive over the coral reefs off Havelock Island with PADI-certified instructors. Suitable for first-time divers; all equipment and training included.",
			category:    entity.CategoryAdventure,
			city:        "Havelock Island, Andaman",
			location:    coords(11.9937, 93.0114),
			images:      unsplash("photo-1544551763-46a013bb70d5", "photo-1559827260-dc66d52bef19"),
			price:       5500,
		},
		{
			id:          "EXP2510P7Q8R9",
			title:       "Yoga & Meditation Retreat in Rishikesh",
			short:       "3-day wellness retreat with yoga, meditation & Ganga Aarti",
			description: "Three days of yoga and meditation on the banks of the Ganges with experienced teachers, vegetarian meals, accommodation and the evening Ganga Aarti.",
			category:    entity.CategoryWellness,
			city:        "Rishikesh, Uttarakhand",
			location:    coords(30.0869, 78.2676),
			images:      unsplash("photo-1544367567-0f2fcb009e0b", "photo-1506126613408-eca07ce68773"),
			price:       12000,
		},
	}

	experiences := make([]*entity.Experience, len(samples))
	for i, sm := range samples {
		createdAt := now.Add(-time.Duration(len(samples)-i) * time.Minute)
		location := sm.location
		location.City = sm.city

		experiences[i] = &entity.Experience{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: createdAt,
				UpdatedAt: createdAt,
			},
			ExperienceID:     sm.id,
			Title:            sm.title,
			Description:      sm.description,
			ShortDescription: sm.short,
			Category:         sm.category,
			Location:         location,
			Images:           sm.images,
			Price:            decimal.NewFromInt(sm.price),
			IsActive:         true,
		}
	}

	return experiences
}

// SamplePromoCodes returns SAVE10, FLAT100 and WELCOME20, valid from now.
func SamplePromoCodes(now time.Time) []*entity.PromoCode {
	save10Limit := 1000
	flat100Limit := 500

	newPromo := func(code, description string, kind entity.DiscountType, value int64, maxDiscount decimal.NullDecimal, minOrder int64, validFor time.Duration, limit *int) *entity.PromoCode {
		return &entity.PromoCode{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Code:          code,
			Description:   description,
			DiscountType:  kind,
			DiscountValue: decimal.NewFromInt(value),
			MaxDiscount:   maxDiscount,
			MinOrderValue: decimal.NewFromInt(minOrder),
			ValidFrom:     now,
			ValidUntil:    now.Add(validFor),
			UsageLimit:    limit,
			IsActive:      true,
		}
	}

	const day = 24 * time.Hour

	return []*entity.PromoCode{
		newPromo("SAVE10", "Get 10% off on all bookings",
			entity.DiscountPercentage, 10, decimal.NewNullDecimal(decimal.NewFromInt(500)), 1000, 90*day, &save10Limit),
		newPromo("FLAT100", "Flat ₹100 off on bookings above ₹2000",
			entity.DiscountFlat, 100, decimal.NullDecimal{}, 2000, 60*day, &flat100Limit),
		newPromo("WELCOME20", "Welcome offer - Get 20% off on your first booking",
			entity.DiscountPercentage, 20, decimal.NewNullDecimal(decimal.NewFromInt(1000)), 500, 180*day, nil),
	}
}
