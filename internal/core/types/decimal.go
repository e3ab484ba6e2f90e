package types

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DecimalScale is the number of fractional digits kept by ledger decimals.
const DecimalScale int32 = 18

// ErrInvalidDecimal is returned when a decimal string cannot be parsed.
var ErrInvalidDecimal = errors.New("invalid decimal")

// ParseDecimal parses s and truncates it to DecimalScale fractional digits.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidDecimal, "%q", s)
	}
	return d.Truncate(DecimalScale), nil
}

// Div divides a by b at DecimalScale fractional digits, truncating toward zero.
// b must be non-zero.
func Div(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, DecimalScale)
	return q
}

// Reciprocal returns 1/d at DecimalScale fractional digits. d must be non-zero.
func Reciprocal(d decimal.Decimal) decimal.Decimal {
	return Div(decimal.NewFromInt(1), d)
}
