package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseOptionalDecimal parses a query value; blank means "not set".
func ParseOptionalDecimal(value string) (*decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
