// Package money parses and renders the fixed two-decimal amounts used by
// submissions and their bot entries.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every stored amount carries.
const Places = 2

// maxInputLen bounds the text handed to the decimal parser.
const maxInputLen = 32

// Limit is the first value a decimal(12,2) column cannot hold.
var Limit = decimal.New(1, 12-Places)

var (
	ErrInvalid   = errors.New("must be a number")
	ErrNegative  = errors.New("must be 0 or greater")
	ErrPrecision = errors.New("must have at most 2 decimal places")
	ErrTooLarge  = errors.New("is too large")
)

// Parse trims s and returns the amount it holds. Blank input reports ok=false
// with a nil error so callers can treat it as "absent".
func Parse(s string) (d decimal.Decimal, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, nil
	}
	// plain notation only: exponents would let "1e7000000" through
	if len(s) > maxInputLen || strings.ContainsAny(s, "eE") {
		return decimal.Zero, true, ErrInvalid
	}
	d, err = decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, true, ErrInvalid
	}
	if d.IsNegative() {
		return decimal.Zero, true, ErrNegative
	}
	if d.GreaterThanOrEqual(Limit) {
		return decimal.Zero, true, ErrTooLarge
	}
	if d.Exponent() < -Places && !d.Equal(d.Round(Places)) {
		return decimal.Zero, true, ErrPrecision
	}
	return d.Round(Places), true, nil
}

// Valid reports whether s is blank or a well-formed amount.
func Valid(s string) bool {
	_, _, err := Parse(s)
	return err == nil
}

// Format renders d with exactly two fractional digits.
func Format(d decimal.Decimal) string { return d.StringFixed(Places) }

// FormatNull renders a nullable amount; NULL becomes the empty string.
func FormatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return Format(d.Decimal)
}

// Null wraps d as a present nullable amount.
func Null(d decimal.Decimal) decimal.NullDecimal { return decimal.NewNullDecimal(d) }
