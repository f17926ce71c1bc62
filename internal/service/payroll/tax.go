package payroll

import (
	"github.com/hrcore/hr-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Bracket is one progressive PAYE band: the marginal rate applies to the
// slice of gross pay above Threshold up to the next bracket's threshold.
type Bracket struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

// TaxCalculator implements payroll.TaxCalculator. Pure and stateless; this is
// the only place tax policy changes, which keeps bracket boundaries pinnable
// in tests.
type TaxCalculator struct {
	brackets   []Bracket
	uifCeiling decimal.Decimal
	uifRate    decimal.Decimal
}

// NewTaxCalculator returns the calculator with the statutory monthly tables.
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{
		brackets: []Bracket{
			{Threshold: decimal.Zero, Rate: decimal.Zero},
			{Threshold: decimal.NewFromInt(10000), Rate: decimal.NewFromFloat(0.15)},
			{Threshold: decimal.NewFromInt(30000), Rate: decimal.NewFromFloat(0.30)},
			{Threshold: decimal.NewFromInt(60000), Rate: decimal.NewFromFloat(0.40)},
		},
		uifCeiling: decimal.NewFromInt(17712),
		uifRate:    decimal.NewFromFloat(0.01),
	}
}

// PAYE walks the brackets and sums each band's marginal amount. Monotonically
// non-decreasing in gross pay, never negative, never exceeds gross pay.
func (c *TaxCalculator) PAYE(grossMonthlyPay decimal.Decimal) decimal.Decimal {
	if !grossMonthlyPay.IsPositive() {
		return decimal.Zero
	}

	tax := decimal.Zero
	for i, bracket := range c.brackets {
		if grossMonthlyPay.LessThanOrEqual(bracket.Threshold) {
			break
		}

		upper := grossMonthlyPay
		if i+1 < len(c.brackets) && c.brackets[i+1].Threshold.LessThan(grossMonthlyPay) {
			upper = c.brackets[i+1].Threshold
		}

		band := upper.Sub(bracket.Threshold)
		tax = tax.Add(band.Mul(bracket.Rate))
	}

	return tax.Round(2)
}

// UIF is min(gross, ceiling) * rate.
func (c *TaxCalculator) UIF(grossMonthlyPay decimal.Decimal) decimal.Decimal {
	if !grossMonthlyPay.IsPositive() {
		return decimal.Zero
	}

	base := grossMonthlyPay
	if base.GreaterThan(c.uifCeiling) {
		base = c.uifCeiling
	}
	return base.Mul(c.uifRate).Round(2)
}

var _ payroll.TaxCalculator = (*TaxCalculator)(nil)
