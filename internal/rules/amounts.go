package rules

import (
	"github.com/shopspring/decimal"

	"invoice-reconciliation/internal/domain"
)

// DefaultTolerance is the absolute amount tolerance: one cent.
var DefaultTolerance = decimal.New(1, -2)

// AmountValidator compares monetary values under an absolute tolerance and
// the expense/credit sign-flip convention.
type AmountValidator struct {
	tolerance decimal.Decimal
}

// NewAmountValidator creates a validator with the given absolute tolerance.
func NewAmountValidator(tolerance decimal.Decimal) *AmountValidator {
	return &AmountValidator{tolerance: tolerance}
}

// Consistency compares two optional amounts. The result is Unknown when
// either side is absent. Amounts agree when their difference is within
// tolerance, or when their sum is: a negative credit on one side and a
// positive debit of the same magnitude on the other are consistent.
func (v *AmountValidator) Consistency(a, b decimal.NullDecimal) domain.AmountConsistency {
	if !a.Valid || !b.Valid {
		return domain.AmountUnknown
	}
	if v.withinTolerance(a.Decimal.Sub(b.Decimal)) || v.withinTolerance(a.Decimal.Add(b.Decimal)) {
		return domain.AmountConsistent
	}
	return domain.AmountInconsistent
}

// Difference returns the always-defined difference between two optional
// amounts: incomparable when either is absent, exactly zero when the
// amounts are consistent under either convention, |a-b| otherwise.
func (v *AmountValidator) Difference(a, b decimal.NullDecimal) domain.AmountDifference {
	if !a.Valid || !b.Valid {
		return domain.AmountDifference{Incomparable: true}
	}
	if v.Consistency(a, b) == domain.AmountConsistent {
		return domain.AmountDifference{Value: decimal.Zero}
	}
	return domain.AmountDifference{Value: a.Decimal.Sub(b.Decimal).Abs()}
}

func (v *AmountValidator) withinTolerance(d decimal.Decimal) bool {
	return d.Abs().Cmp(v.tolerance) <= 0
}
