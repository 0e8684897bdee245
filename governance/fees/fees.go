// Package fees computes the custody service fee charged on executed
// transfers.
package fees

import "github.com/shopspring/decimal"

var bpsDivisor = decimal.NewFromInt(10000)

// Compute returns the fee for a transfer amount at a basis-point rate.
// Rates at or below zero charge nothing.
func Compute(amount decimal.Decimal, feeBps int64) decimal.Decimal {
	if feeBps <= 0 {
		return decimal.Zero
	}

	return amount.Mul(decimal.NewFromInt(feeBps)).Div(bpsDivisor)
}

// Total is the full debit against the vault: transfer amount plus fee.
func Total(amount decimal.Decimal, feeBps int64) decimal.Decimal {
	return amount.Add(Compute(amount, feeBps))
}
