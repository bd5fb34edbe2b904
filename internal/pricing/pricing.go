// Package pricing holds the booking money rules: discount variants, 18% GST
// and half-up rounding to two decimals. All amounts are INR.
package pricing

import (
	"github.com/shopspring/decimal"
)

const Currency = "INR"

var (
	// TaxRate is the GST applied to (subtotal - promo discount).
	TaxRate = decimal.RequireFromString("0.18")

	hundred = decimal.NewFromInt(100)
	half    = decimal.RequireFromString("0.5")
)

// Breakdown is the pricing snapshot stored on a booking.
type Breakdown struct {
	BasePrice     decimal.Decimal
	Subtotal      decimal.Decimal
	PromoDiscount decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// Round2 rounds half-up on x*100, then divides by 100.
func Round2(x decimal.Decimal) decimal.Decimal {
	return x.Mul(hundred).Add(half).Floor().Div(hundred)
}

// Subtotal is basePrice × quantity, unrounded.
func Subtotal(basePrice decimal.Decimal, quantity int) decimal.Decimal {
	return basePrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Calculate derives subtotal, tax and total. promoDiscount is the raw,
// unrounded discount and is clamped to the subtotal.
func Calculate(basePrice decimal.Decimal, quantity int, promoDiscount decimal.Decimal) Breakdown {
	subtotal := Subtotal(basePrice, quantity)
	discount := decimal.Min(promoDiscount, subtotal)

	taxable := subtotal.Sub(discount)
	tax := Round2(taxable.Mul(TaxRate))

	return Breakdown{
		BasePrice:     basePrice,
		Subtotal:      subtotal,
		PromoDiscount: discount,
		Tax:           tax,
		Total:         Round2(taxable.Add(tax)),
	}
}
