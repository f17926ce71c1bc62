package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxCalculator_PAYE(t *testing.T) {
	calc := NewTaxCalculator()

	tests := []struct {
		name     string
		gross    string
		expected string
	}{
		{name: "zero gross", gross: "0", expected: "0"},
		{name: "negative gross", gross: "-100", expected: "0"},
		{name: "inside tax-free band", gross: "8000", expected: "0"},
		{name: "exactly at first threshold", gross: "10000", expected: "0"},
		{name: "just above first threshold", gross: "10100", expected: "15"},
		{name: "mid second band", gross: "20000", expected: "1500"},
		{name: "exactly at second threshold", gross: "30000", expected: "3000"},
		{name: "mid third band", gross: "35000", expected: "4500"},
		{name: "exactly at third threshold", gross: "60000", expected: "12000"},
		{name: "top band", gross: "100000", expected: "28000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross := decimal.RequireFromString(tt.gross)
			expected := decimal.RequireFromString(tt.expected)
			got := calc.PAYE(gross)
			assert.True(t, expected.Equal(got), "PAYE(%s) = %s, want %s", tt.gross, got, expected)
		})
	}
}

func TestTaxCalculator_PAYE_Monotonic(t *testing.T) {
	calc := NewTaxCalculator()

	prev := decimal.Zero
	for gross := int64(0); gross <= 120000; gross += 500 {
		paye := calc.PAYE(decimal.NewFromInt(gross))
		assert.True(t, paye.GreaterThanOrEqual(prev),
			"PAYE decreased at gross %d: %s < %s", gross, paye, prev)
		prev = paye
	}
}

func TestTaxCalculator_UIF(t *testing.T) {
	calc := NewTaxCalculator()

	tests := []struct {
		name     string
		gross    string
		expected string
	}{
		{name: "zero gross", gross: "0", expected: "0"},
		{name: "below ceiling", gross: "10000", expected: "100"},
		{name: "exactly at ceiling", gross: "17712", expected: "177.12"},
		{name: "above ceiling is capped", gross: "35000", expected: "177.12"},
		{name: "far above ceiling stays capped", gross: "500000", expected: "177.12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross := decimal.RequireFromString(tt.gross)
			expected := decimal.RequireFromString(tt.expected)
			got := calc.UIF(gross)
			assert.True(t, expected.Equal(got), "UIF(%s) = %s, want %s", tt.gross, got, expected)
		})
	}
}

func TestTaxCalculator_WorkedExample(t *testing.T) {
	calc := NewTaxCalculator()

	gross := decimal.NewFromInt(35000)
	paye := calc.PAYE(gross)
	uif := calc.UIF(gross)

	assert.True(t, decimal.NewFromInt(4500).Equal(paye), "PAYE = %s", paye)
	assert.True(t, decimal.RequireFromString("177.12").Equal(uif), "UIF = %s", uif)

	net := gross.Sub(paye).Sub(uif)
	assert.True(t, decimal.RequireFromString("30322.88").Equal(net), "net = %s", net)
}
