package entity

import (
	"time"

	"experience-booking/internal/pricing"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

const (
	PromoReasonInactive     = "Promo code is inactive"
	PromoReasonNotYetActive = "Promo code is not yet active"
	PromoReasonExpired      = "Promo code has expired"
	PromoReasonUsageLimit   = "Promo code usage limit reached"
)

type PromoCode struct {
	Base
	Code          string              `db:"code"`
	Description   string              `db:"description"`
	DiscountType  DiscountType        `db:"discount_type"`
	DiscountValue decimal.Decimal     `db:"discount_value"`
	MaxDiscount   decimal.NullDecimal `db:"max_discount"` // percentage only
	MinOrderValue decimal.Decimal     `db:"min_order_value"`
	ValidFrom     time.Time           `db:"valid_from"`
	ValidUntil    time.Time           `db:"valid_until"`
	UsageLimit    *int                `db:"usage_limit"` // nil = unlimited
	UsedCount     int                 `db:"used_count"`
	IsActive      bool                `db:"is_active"`
}

// PromoCheck is the outcome of the time window / usage checks.
type PromoCheck struct {
	Valid  bool
	Reason string
}

// Check runs, in order: active flag, window start, window end, usage cap.
// The first failing rule is reported.
func (p *PromoCode) Check(now time.Time) PromoCheck {
	switch {
	case !p.IsActive:
		return PromoCheck{Reason: PromoReasonInactive}
	case now.Before(p.ValidFrom):
		return PromoCheck{Reason: PromoReasonNotYetActive}
	case now.After(p.ValidUntil):
		return PromoCheck{Reason: PromoReasonExpired}
	case p.HasUsageLimit() && p.UsedCount >= *p.UsageLimit:
		return PromoCheck{Reason: PromoReasonUsageLimit}
	}
	return PromoCheck{Valid: true}
}

func (p *PromoCode) HasUsageLimit() bool {
	return p.UsageLimit != nil && *p.UsageLimit > 0
}

// MeetsMinimum reports whether orderValue reaches the minimum order value.
func (p *PromoCode) MeetsMinimum(orderValue decimal.Decimal) bool {
	return orderValue.GreaterThanOrEqual(p.MinOrderValue)
}

// Discount returns the pricing rule this code stands for.
func (p *PromoCode) Discount() pricing.Discount {
	if p.DiscountType == DiscountFlat {
		return pricing.Flat{Value: p.DiscountValue}
	}
	return pricing.Percentage{Value: p.DiscountValue, Cap: p.MaxDiscount}
}

// ComputeDiscount is the raw, unrounded discount for orderValue, clamped to it.
func (p *PromoCode) ComputeDiscount(orderValue decimal.Decimal) decimal.Decimal {
	return pricing.Apply(p.Discount(), orderValue)
}
