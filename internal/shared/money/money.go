// Package money holds the 2-decimal currency arithmetic used by every benefit computation.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const Places = 2

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Zero is 0.00.
var Zero = decimal.Zero

// ToMoney coerces a number or a numeric string into a value rounded half-up to 2 places.
// Strings may use a comma as decimal separator, with dots as thousands grouping ("1.234,56").
func ToMoney(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return Round2(x), nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, ErrInvalidAmount
		}
		return Round2(*x), nil
	case Amount:
		return ToMoney(string(x))
	case string:
		return parseString(x)
	case json.Number:
		return parseString(x.String())
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, ErrInvalidAmount
	}
	return Round2(decimal.NewFromFloat(f)), nil
}

func parseString(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		if strings.Count(s, ",") > 1 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return Round2(d), nil
}

// Round2 rounds half away from zero, which is half-up for the non-negative amounts stored here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// MulRound multiplies by factor and rounds the product to cents.
func MulRound(d decimal.Decimal, factor decimal.Decimal) decimal.Decimal {
	return Round2(d.Mul(factor))
}

// DivRound divides by n and rounds to cents; a zero divisor yields zero.
func DivRound(d decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return Round2(d.Div(decimal.NewFromInt(int64(n))))
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return Round2(total)
}

func NonNegative(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return d, ErrNegativeAmount
	}
	return d, nil
}

// Format renders with exactly two decimals, e.g. "541.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}
