package domain

import "github.com/shopspring/decimal"

// minorUnits is the number of decimal places amounts are rounded to,
// matching standard minor-currency-unit precision.
const minorUnits = 2

// Epsilon is the tolerance used when comparing balances to zero. Half a
// minor unit absorbs rounding residue without masking real imbalance.
var Epsilon = decimal.New(5, -3) // 0.005

// RoundMinor rounds an amount to minor-unit precision using round-half-even
// to avoid systematic bias across many conversions.
func RoundMinor(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(minorUnits)
}

// NearZero reports whether an amount is within Epsilon of zero.
func NearZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(Epsilon)
}

// Sum returns the total of all balances; for a valid single-currency graph
// this is near zero.
func (b Balance) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}
