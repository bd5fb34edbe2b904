package response

import (
	"time"

	"experience-booking/internal/data/entity"
)

type GuestInfoResponse struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

type SlotResponse struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type PricingResponse struct {
	BasePrice     float64 `json:"basePrice"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	PromoCode     string  `json:"promoCode,omitempty"`
	PromoDiscount float64 `json:"promoDiscount"`
	Tax           float64 `json:"tax"`
	TotalAmount   float64 `json:"totalAmount"`
	Currency      string  `json:"currency"`
}

type BookingResponse struct {
	ID              string             `json:"id"`
	BookingID       string             `json:"bookingId"`
	UserID          *string            `json:"userId,omitempty"`
	GuestInfo       GuestInfoResponse  `json:"guestInfo"`
	ExperienceID    string             `json:"experienceId"`
	Experience      *ExperienceSummary `json:"experience,omitempty"`
	Slots           []SlotResponse     `json:"slots"`
	NumberOfGuests  int                `json:"numberOfGuests"`
	Pricing         PricingResponse    `json:"pricing"`
	BookingStatus   string             `json:"bookingStatus"`
	PaymentStatus   string             `json:"paymentStatus"`
	PaymentMethod   *string            `json:"paymentMethod,omitempty"`
	SpecialRequests string             `json:"specialRequests"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	var userID *string
	if b.UserID != nil {
		id := b.UserID.String()
		userID = &id
	}

	var method *string
	if b.PaymentMethod != nil {
		m := string(*b.PaymentMethod)
		method = &m
	}

	slots := make([]SlotResponse, 0, len(b.Slots))
	for _, slot := range b.Slots {
		slots = append(slots, SlotResponse{
			Date: entity.DayOf(slot.Date).Format(time.DateOnly),
			Time: slot.Time,
		})
	}

	return BookingResponse{
		ID:        b.ID.String(),
		BookingID: b.BookingID,
		UserID:    userID,
		GuestInfo: GuestInfoResponse{
			Name:  b.GuestInfo.Name,
			Email: b.GuestInfo.Email,
			Phone: b.GuestInfo.Phone,
		},
		ExperienceID:   b.ExperienceID.String(),
		Experience:     ExperienceToSummary(b.Experience),
		Slots:          slots,
		NumberOfGuests: b.NumberOfGuests,
		Pricing: PricingResponse{
			BasePrice:     money(b.Pricing.BasePrice),
			Subtotal:      money(b.Pricing.Subtotal),
			Discount:      money(b.Pricing.Discount),
			PromoCode:     b.Pricing.PromoCode,
			PromoDiscount: money(b.Pricing.PromoDiscount),
			Tax:           money(b.Pricing.Tax),
			TotalAmount:   money(b.Pricing.TotalAmount),
			Currency:      b.Pricing.Currency,
		},
		BookingStatus:   string(b.BookingStatus),
		PaymentStatus:   string(b.PaymentStatus),
		PaymentMethod:   method,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func BookingsToResponse(list []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, BookingToResponse(b))
	}
	return out
}
