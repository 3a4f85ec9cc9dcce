// Package core holds the transaction domain model, money handling, and the
// derived aggregates (category breakdown, risk score) computed over it.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmountToCents converts a decimal currency string to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Anything past
// the second decimal place is rounded half-up. Negative amounts are rejected;
// zero is allowed.
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}

	cents := d.Shift(2).Round(0)
	bi := cents.BigInt()
	if !bi.IsInt64() {
		return 0, ErrInvalidAmount
	}
	return bi.Int64(), nil
}

// Dollars returns the dollar value as a float64 for display purposes only.
// Calculations stay in cents.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount as a dollar string (e.g. "$12.34").
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}
