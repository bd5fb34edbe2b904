package request

type GuestInfoRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type SlotRequest struct {
	// Date is YYYY-MM-DD or an RFC 3339 timestamp.
	Date string `json:"date"`
	Time string `json:"time" validate:"max=50"`
}

type CreateBookingRequest struct {
	GuestInfo       GuestInfoRequest `json:"guestInfo"`
	ExperienceID    string           `json:"experienceId"`
	Slot            SlotRequest      `json:"slot"`
	NumberOfGuests  int              `json:"numberOfGuests"`
	PromoCode       string           `json:"promoCode,omitempty" validate:"max=50"`
	PaymentMethod   string           `json:"paymentMethod,omitempty" validate:"omitempty,oneof=card upi netbanking wallet cash"`
	SpecialRequests string           `json:"specialRequests,omitempty" validate:"max=1000"`
}
