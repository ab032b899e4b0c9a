package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits every Amount carries.
const AmountScale = 4

// maxIntegerDigits is the number of integer digits in MaxAmount.
const maxIntegerDigits = 29

// maxLiteralInError caps how much of a rejected literal is echoed in errors.
const maxLiteralInError = 40

// MaxAmount is the largest value an Amount may hold (a 96-bit mantissa).
var MaxAmount = Amount{d: decimal.RequireFromString("79228162514264337593543950335")}

// Amount is a non-negative fixed-point quantity of currency.
// The zero value is a valid zero amount.
type Amount struct {
	d decimal.Decimal
}

// ZeroAmount is the zero amount.
var ZeroAmount = Amount{}

// ParseAmount parses a decimal literal, rounding half-to-even to AmountScale
// fractional digits. Negative literals are rejected with ErrInvalidAmount and
// literals above MaxAmount with ErrAmountOverflow.
//
// Exponent notation is accepted, but the magnitude is checked from the
// coefficient and exponent before the value is ever expanded, so a short
// literal such as 1e1000000000 fails immediately.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, clip(s))
	}
	if d.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, clip(s))
	}
	if d.Sign() == 0 {
		return ZeroAmount, nil
	}

	// d lies in [10^(magnitude-1), 10^magnitude)
	magnitude := int64(len(d.Coefficient().String())) + int64(d.Exponent())
	if magnitude > maxIntegerDigits {
		return Amount{}, fmt.Errorf("%w: %q exceeds %s", ErrAmountOverflow, clip(s), MaxAmount.d)
	}
	if magnitude < -AmountScale {
		// below 0.00001, rounds to zero
		return ZeroAmount, nil
	}

	a, err := newAmount(d.RoundBank(AmountScale))
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q exceeds %s", ErrAmountOverflow, clip(s), MaxAmount.d)
	}
	return a, nil
}

func clip(s string) string {
	if len(s) <= maxLiteralInError {
		return s
	}
	return s[:maxLiteralInError] + "..."
}

// MustParseAmount is like ParseAmount but panics on error. Intended for tests
// and constants.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func newAmount(d decimal.Decimal) (Amount, error) {
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}
	if d.GreaterThan(MaxAmount.d) {
		return Amount{}, fmt.Errorf("%w: %s exceeds %s", ErrAmountOverflow, d, MaxAmount.d)
	}
	return Amount{d: d}, nil
}

// Add returns a+b, failing with ErrAmountOverflow beyond MaxAmount.
func (a Amount) Add(b Amount) (Amount, error) {
	return newAmount(a.d.Add(b.d))
}

// Sub returns a-b. The caller guarantees b <= a; a larger b yields zero.
func (a Amount) Sub(b Amount) Amount {
	if b.d.GreaterThanOrEqual(a.d) {
		return ZeroAmount
	}
	return Amount{d: a.d.Sub(b.d)}
}

// Min returns the smaller of a and b.
func (a Amount) Min(b Amount) Amount {
	if a.d.LessThanOrEqual(b.d) {
		return a
	}
	return b
}

// Cmp compares a and b, returning -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// Equal reports whether a and b represent the same quantity.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

// Decimal exposes the underlying value for serializers and SQL drivers.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// String renders the amount with exactly AmountScale fractional digits.
func (a Amount) String() string {
	return a.d.StringFixed(AmountScale)
}
