package kernel

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"orderengine/internal/pkg/errs"
)

// CurrencyPrecision is the number of decimal places of a major currency unit.
const CurrencyPrecision = 2

// Money is an amount in integer minor units (cents). All order arithmetic is
// done on Money; decimals appear only at the I/O boundary.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// NewMoney wraps an amount already expressed in minor units.
func NewMoney(minor int64) Money {
	return Money(minor)
}

// MoneyFromDecimal converts a major-unit decimal (e.g. 33.97) into minor units.
// Values with more than two decimal places are rejected rather than rounded,
// so the boundary never silently changes an amount.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(CurrencyPrecision)) {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s has more than %d decimal places", d.String(), CurrencyPrecision),
		)
	}
	return Money(d.Shift(CurrencyPrecision).IntPart()), nil
}

// MoneyFromString parses a major-unit amount such as "12.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return MoneyFromDecimal(d)
}

// MustMoney parses s and panics on failure. Intended for fixtures and static configuration.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 {
	return int64(m)
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -CurrencyPrecision)
}

// String formats the amount with exactly two decimals, e.g. "47.18".
func (m Money) String() string {
	return m.Decimal().StringFixed(CurrencyPrecision)
}

func (m Money) Add(other Money) Money {
	return m + other
}

func (m Money) Sub(other Money) Money {
	return m - other
}

// Mul multiplies by an integer quantity.
func (m Money) Mul(quantity int) Money {
	return m * Money(quantity)
}

// MulRate multiplies by a rate and rounds half-up (away from zero) to a whole minor unit.
func (m Money) MulRate(r Rate) Money {
	return Money(decimal.NewFromInt(int64(m)).Mul(r.Decimal()).Round(0).IntPart())
}

func (m Money) Min(other Money) Money {
	if other < m {
		return other
	}
	return m
}

func (m Money) Max(other Money) Money {
	if other > m {
		return other
	}
	return m
}

func (m Money) IsNegative() bool {
	return m < 0
}

func (m Money) IsZero() bool {
	return m == 0
}

// MarshalJSON encodes the amount as a decimal string so it survives any JSON number handling.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a decimal string or a JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	parsed, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Rate is a fraction in [0, 1] such as a tax or commission rate.
type Rate struct {
	value decimal.Decimal
}

// NewRate validates that d is within [0, 1]. The value is stored in its
// canonical form so equal rates compare equal.
func NewRate(d decimal.Decimal) (Rate, error) {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return Rate{}, errs.NewValueIsOutOfRangeError("rate", d.String(), 0, 1)
	}
	if d.IsZero() {
		return Rate{}, nil
	}
	return Rate{value: decimal.RequireFromString(d.String())}, nil
}

// RateFromString parses a rate such as "0.08".
func RateFromString(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, errs.NewValueIsInvalidErrorWithCause("rate", err)
	}
	return NewRate(d)
}

// MustRate parses s and panics on failure.
func MustRate(s string) Rate {
	r, err := RateFromString(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rate) Decimal() decimal.Decimal {
	return r.value
}

func (r Rate) String() string {
	return r.value.String()
}

func (r Rate) IsZero() bool {
	return r.value.IsZero()
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value.String())
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("rate", err)
	}
	parsed, err := NewRate(d)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
