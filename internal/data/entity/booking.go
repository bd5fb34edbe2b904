package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusFailed    BookingStatus = "failed"
)

// Active statuses hold a slot for the guest.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodCash       PaymentMethod = "cash"
)

type GuestInfo struct {
	Name  string  `db:"guest_name"`
	Email string  `db:"guest_email"` // lowercased, trimmed
	Phone *string `db:"guest_phone"`
}

// Slot is a calendar day (midnight, server local time) plus a time label.
type Slot struct {
	Date time.Time `json:"date"`
	Time string    `json:"time"`
}

type Pricing struct {
	BasePrice     decimal.Decimal `db:"base_price"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Discount      decimal.Decimal `db:"discount"`
	PromoCode     string          `db:"promo_code"`
	PromoDiscount decimal.Decimal `db:"promo_discount"`
	Tax           decimal.Decimal `db:"tax"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Currency      string          `db:"currency"`
}

// PaymentDetails is reserved for a payment integration and never set here.
type PaymentDetails struct {
	TransactionID  *string    `db:"transaction_id"`
	PaymentGateway *string    `db:"payment_gateway"`
	PaidAt         *time.Time `db:"paid_at"`
}

type Booking struct {
	Base
	BookingID       string     `db:"booking_id"`
	UserID          *uuid.UUID `db:"user_id"`
	GuestInfo       GuestInfo
	ExperienceID    uuid.UUID `db:"experience_id"`
	Slots           []Slot    `db:"slots"`
	NumberOfGuests  int       `db:"number_of_guests"`
	Pricing         Pricing
	BookingStatus   BookingStatus  `db:"booking_status"`
	PaymentStatus   PaymentStatus  `db:"payment_status"`
	PaymentMethod   *PaymentMethod `db:"payment_method"`
	PaymentDetails  PaymentDetails
	SpecialRequests string `db:"special_requests"`

	// Experience is filled when the booking is read with its experience.
	Experience *Experience `db:"-"`
}

// PrimarySlot is the slot the duplicate-booking guard keys on.
func (b *Booking) PrimarySlot() Slot {
	if len(b.Slots) == 0 {
		return Slot{}
	}
	return b.Slots[0]
}

// DayOf truncates t to midnight in the server's local time zone.
func DayOf(t time.Time) time.Time {
	local := t.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}
