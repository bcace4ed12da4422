package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// All monetary values are stored as integers in minor currency units (cents).
// Floating-point amounts are only accepted at the API boundary and are rounded
// to the nearest cent before anything is persisted.

// ErrInvalidFrequency is returned when a frequency string is not one of the
// supported values.
var ErrInvalidFrequency = errors.New("invalid frequency")

// Frequency describes how often a liability installment recurs.
type Frequency string

const (
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
	OneTime   Frequency = "one_time"
)

// ParseFrequency normalizes a frequency string. "one-time" is accepted as an
// alias for "one_time".
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "quarterly":
		return Quarterly, nil
	case "yearly":
		return Yearly, nil
	case "one_time", "one-time", "once":
		return OneTime, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Weekly, Monthly, Quarterly, Yearly, OneTime:
		return true
	}
	return false
}

// ToCents converts a decimal amount of major units to cents, rounding to the
// nearest cent.
func ToCents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromFloat converts a floating-point amount of major units to cents.
func FromFloat(amount float64) int64 {
	return ToCents(decimal.NewFromFloat(amount))
}

// ParseAmount parses a major-unit amount string (e.g. "1234.50") into cents.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return ToCents(d), nil
}

// Format renders cents as a major-unit string with two decimal places.
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
