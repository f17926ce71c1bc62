package leave

import "github.com/shopspring/decimal"

// Policy holds the entitlement day counts used when a year is initialized,
// plus the sick-cycle constants. Injected so the surrounding suite can swap
// company-specific numbers without touching the engine.
type Policy struct {
	// EntitlementDays per leave type for one year. The sick entry carries the
	// full cycle allowance; the cycle tracker is the binding cap across years.
	EntitlementDays map[Type]decimal.Decimal

	// SickCycleYears is the length of the rolling entitlement window.
	SickCycleYears int
	// SickCycleAllowance is the cycle-wide cap, not additive per year.
	SickCycleAllowance decimal.Decimal
}

// DefaultPolicy mirrors the statutory defaults the suite ships with.
func DefaultPolicy() Policy {
	return Policy{
		EntitlementDays: map[Type]decimal.Decimal{
			TypeAnnual:    decimal.NewFromInt(21),
			TypeSick:      decimal.NewFromInt(30),
			TypeUnpaid:    decimal.Zero,
			TypeMaternity: decimal.NewFromInt(90),
			TypePaternity: decimal.NewFromInt(10),
			TypeStudy:     decimal.NewFromInt(5),
		},
		SickCycleYears:     3,
		SickCycleAllowance: decimal.NewFromInt(30),
	}
}
