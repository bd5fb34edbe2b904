package pricing

import (
	"github.com/shopspring/decimal"
)

// Discount is a promo rule that can be applied to an order value.
type Discount interface {
	apply(orderValue decimal.Decimal) decimal.Decimal
}

// Percentage takes Value percent of the order, capped when Cap is positive.
type Percentage struct {
	Value decimal.Decimal
	Cap   decimal.NullDecimal
}

func (p Percentage) apply(orderValue decimal.Decimal) decimal.Decimal {
	amount := orderValue.Mul(p.Value).Div(hundred)
	if p.Cap.Valid && p.Cap.Decimal.IsPositive() && amount.GreaterThan(p.Cap.Decimal) {
		amount = p.Cap.Decimal
	}
	return amount
}

// Flat takes a fixed amount off the order.
type Flat struct {
	Value decimal.Decimal
}

func (f Flat) apply(decimal.Decimal) decimal.Decimal {
	return f.Value
}

// Apply returns the discount for orderValue, never more than orderValue.
// The result is not rounded.
func Apply(d Discount, orderValue decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return decimal.Min(d.apply(orderValue), orderValue)
}
