package fees

import (
	"github.com/shopspring/decimal"
)

// computeProfit fills in the tax treatment of the fee total and both net
// profit figures. The sale total is normalized to tax-exclusive when the
// input marks supplied amounts as tax-inclusive; fee percentages always
// apply to the sale total as charged to the buyer.
func computeProfit(in SaleInput, b *Breakdown) {
	saleTotal := in.SaleTotal()

	exclusive := saleTotal
	if in.PricesIncludeTax && in.TaxRate.IsPositive() {
		exclusive = ToExclusive(saleTotal, in.TaxRate)
	}
	b.SaleTotalExclusive = round2(exclusive)

	if in.ApplyTaxOnFees && in.TaxRate.IsPositive() {
		b.TaxOnFees = round2(TaxOn(b.TotalFeesPreTax, in.TaxRate))
	} else {
		b.TaxOnFees = decimal.Zero
	}
	b.TotalFeesWithTax = b.TotalFeesPreTax.Add(b.TaxOnFees)

	costs := in.ItemCost.Add(in.ShippingCost).Add(in.OtherCosts)
	revenue := b.SaleTotalExclusive.Sub(costs)

	b.NetProfit = round2(revenue.Sub(b.TotalFeesWithTax))
	b.NetProfitTaxReclaimed = round2(revenue.Sub(b.TotalFeesPreTax))
}
