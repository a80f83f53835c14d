package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// Hundred is the divisor for percentage rates
var Hundred = decimal.NewFromInt(100)

// FromInt creates decimal from int (quantities, whole pesos)
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromFloat creates decimal from float without rounding.
// Form inputs such as 10.5 arrive as JSON numbers.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Percent computes amount * (rate/100) with no rounding
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return Zero
	}
	return amount.Mul(rate).Div(Hundred)
}

// LineTotal computes unitPrice * quantity - discount with no rounding
func LineTotal(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(FromInt(int64(quantity))).Sub(discount)
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// RoundARS rounds to centavos. Only for display.
func RoundARS(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatARS formats an amount the es-AR way: "$ 1.234,56"
func FormatARS(d decimal.Decimal) string {
	s := RoundARS(d).StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	out := "$ " + b.String() + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
