package vat

import "github.com/shopspring/decimal"

var (
	// Rate is the statutory VAT rate included in every unit rate
	Rate = decimal.RequireFromString("0.13")

	// GrossUpDivisor backs the tax out of a tax-inclusive price (1 + Rate)
	GrossUpDivisor = decimal.RequireFromString("1.13")
)

// Compute derives the VAT breakdown for the selected rate. It returns nil
// when the parsed quantity is not positive.
//
// Tax is computed from the rate and quantity directly rather than as
// TotalValue * Rate; the two can differ in the last digit of precision.
func Compute(quantityText string, sel Selection, rates RateTable) *Result {
	qty := ParseQuantity(quantityText)
	if !qty.IsPositive() {
		return nil
	}

	rate := rates.For(sel)

	perUnit := rate.Div(GrossUpDivisor)
	totalValue := perUnit.Mul(qty)
	tax := rate.Mul(qty).Div(GrossUpDivisor).Mul(Rate)

	return &Result{
		PerUnit:      perUnit,
		TotalValue:   totalValue,
		Tax:          tax,
		TotalPayable: totalValue.Add(tax),
	}
}

// ComputeInput is Compute over an Input
func ComputeInput(in Input, rates RateTable) *Result {
	return Compute(in.QuantityText, in.Selection, rates)
}
