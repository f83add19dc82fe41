// Package assets implements the asset and liability variants of the
// patrimoine and their per-context valuations: generic patrimonial value,
// IFI value, legal-succession value and life-insurance-succession value,
// each owned-fraction aware (including usufruct / bare splitting).
package assets

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// EvaluationMethod selects the valuation context.
type EvaluationMethod int

const (
	// Patrimonial is the plain market valuation.
	Patrimonial EvaluationMethod = iota
	// IFI applies the real-estate wealth-tax discounts and scopes out
	// non-real-estate assets.
	IFI
	// LegalSuccession values the civil estate: life insurance passes
	// outside of it and contributes zero.
	LegalSuccession
	// LifeInsuranceSuccession values only life-insurance death benefits.
	LifeInsuranceSuccession
)

func (m EvaluationMethod) String() string {
	switch m {
	case IFI:
		return "ifi"
	case LegalSuccession:
		return "legalSuccession"
	case LifeInsuranceSuccession:
		return "lifeInsuranceSuccession"
	default:
		return "patrimonial"
	}
}

// EvaluationContext bundles the cross-cutting providers valuations need.
type EvaluationContext struct {
	Ages         ownership.AgeProvider
	Demembrement ownership.DemembrementTable
}

// Valuable is an asset or liability of the patrimoine. Liabilities return
// negative values.
type Valuable interface {
	GetName() string
	GetOwnership() *ownership.Ownership
	// Value is the generic patrimonial value at the end of the year.
	Value(atEndOf int) decimal.Decimal
	// ValueWithMethod is the method-specific base valuation.
	ValueWithMethod(atEndOf int, method EvaluationMethod) decimal.Decimal
}

// OwnedValue computes the fraction of a valuable owned by a person in a
// given valuation context.
func OwnedValue(v Valuable, name string, atEndOf int, method EvaluationMethod, ctx EvaluationContext) (decimal.Decimal, error) {
	total := v.ValueWithMethod(atEndOf, method)
	if total.IsZero() {
		return decimal.Zero, nil
	}
	owned, err := v.GetOwnership().OwnedValue(name, total, atEndOf, ctx.Ages, ctx.Demembrement)
	if err != nil {
		return decimal.Zero, fmt.Errorf("owned value of %q: %w", v.GetName(), err)
	}
	return owned, nil
}

// IllegalOperationError reports incorrect call sequencing by the caller,
// such as capitalizing an investment for a year that is not the state year
// plus one. It is a programmer error, never swallowed.
type IllegalOperationError struct {
	Op     string
	Reason string
}

func (e *IllegalOperationError) Error() string {
	return fmt.Sprintf("illegal operation %s: %s", e.Op, e.Reason)
}
