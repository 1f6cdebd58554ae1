package fees

import (
	"github.com/shopspring/decimal"
)

// ToExclusive converts a tax-inclusive amount to its tax-exclusive value:
// amount / (1 + rate). Pure; rounding happens at the output boundary.
func ToExclusive(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Div(one.Add(rate))
}

// TaxOn computes the tax due on a tax-exclusive amount.
func TaxOn(amountExclusive, rate decimal.Decimal) decimal.Decimal {
	return amountExclusive.Mul(rate)
}
