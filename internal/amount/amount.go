// Package amount converts integer base-unit balances into decimal
// display values. Balances can exceed the 64-bit range, so all digit
// manipulation happens on arbitrary-precision values; only the final
// decimal is lowered to a float for USD multiplication.
package amount

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Format shifts the decimal point of a raw base-unit balance left by
// the token's decimal precision.
func Format(raw *big.Int, decimals int) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Set(raw), -int32(decimals))
}

// Float returns the display value of a balance as a float64, for USD
// multiplication. Precision loss is confined to this final step.
func Float(raw *big.Int, decimals int) float64 {
	f, _ := Format(raw, decimals).Float64()
	return f
}

// USD formats a dollar value with two fixed decimal digits.
func USD(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
