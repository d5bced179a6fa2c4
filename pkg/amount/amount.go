// Package amount converts between token base units and display strings.
// Display conversions always truncate toward zero so a shown balance is never
// more than what the account holds.
package amount

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numericInput = regexp.MustCompile(`^\d*\.?\d*$`)

func toDecimal(units *big.Int, decimals int32) decimal.Decimal {
	if units == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(units, -decimals)
}

// Format renders units at decimals with at most places fractional digits.
// Trailing zeros are dropped: 1230000000000000000 at 18 decimals is "1.23".
func Format(units *big.Int, decimals int32, places int32) string {
	return toDecimal(units, decimals).Truncate(places).String()
}

// FormatSignificant renders units with at most sig significant digits.
func FormatSignificant(units *big.Int, decimals int32, sig int32) string {
	d := toDecimal(units, decimals)
	if d.IsZero() || sig <= 0 {
		return "0"
	}

	// digits left of the point; negative for values below 0.1
	magnitude := int32(d.NumDigits()) + d.Exponent()
	places := sig - magnitude
	if places >= 0 {
		return d.Truncate(places).String()
	}
	return d.Shift(places).Truncate(0).Shift(-places).String()
}

// ParseUnits converts a decimal string such as "1.5" into base units. More
// fractional digits than decimals is an error.
func ParseUnits(value string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("negative amount %q", value)
	}
	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("amount %q has more than %d decimals", value, decimals)
	}
	return shifted.BigInt(), nil
}

// EnforceNumericInput normalizes user typed input. Commas become periods, or
// with noDecimals periods are removed. ok is false when the result is not a
// plain non-negative decimal and the input should be ignored.
func EnforceNumericInput(input string, noDecimals bool) (string, bool) {
	var fixed string
	if noDecimals {
		fixed = strings.ReplaceAll(input, ".", "")
	} else {
		fixed = strings.ReplaceAll(input, ",", ".")
	}
	if fixed == "" || numericInput.MatchString(fixed) {
		return fixed, true
	}
	return "", false
}

// ClampToMax returns max when input parses to a larger number, input otherwise.
func ClampToMax(input, max string) string {
	if max == "" {
		return input
	}
	value, err := decimal.NewFromString(input)
	if err != nil {
		return input
	}
	limit, err := decimal.NewFromString(max)
	if err != nil {
		return input
	}
	if value.GreaterThan(limit) {
		return max
	}
	return input
}
