package split

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal helpers for currency amounts
// =============================================================================

// ParseMoney parses a currency amount such as "104.50".
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// MustMoney parses a currency amount, panicking on failure.
// For constants and tests only.
func MustMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundCurrency rounds to 2 decimal places, half up. Shares are never
// negative so half-away-from-zero and half-up coincide.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
