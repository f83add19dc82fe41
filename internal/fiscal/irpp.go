package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IRPPModel computes the personal income tax with the family-quotient rule.
// Rebate rates are percents.
type IRPPModel struct {
	Grid RateGrid `json:"grid"`
	// ChildRebate caps the tax benefit of each child's quotient half-part.
	ChildRebate decimal.Decimal `json:"child_rebate"`
	// Salary rebate (10 %) with statutory floor and cap.
	SalaryRebateRate decimal.Decimal `json:"salary_rebate_rate"`
	SalaryRebateMin  decimal.Decimal `json:"salary_rebate_min"`
	SalaryRebateMax  decimal.Decimal `json:"salary_rebate_max"`
	// TurnOverRebateRate is the flat charges rebate on unincorporated
	// revenue (micro-BNC).
	TurnOverRebateRate decimal.Decimal `json:"turnover_rebate_rate"`
}

// Initialize prepares the bracket grid.
func (m *IRPPModel) Initialize() error {
	return m.Grid.Initialize()
}

// FamilyQuotient returns the number of fiscal parts: one per adult, half
// per child.
func (m *IRPPModel) FamilyQuotient(nbAdults, nbChildren int) decimal.Decimal {
	return decimal.NewFromInt(int64(nbAdults)).
		Add(decimal.NewFromInt(int64(nbChildren)).Div(decimal.NewFromInt(2)))
}

// TaxableSalary applies the salary rebate, clamped between the statutory
// floor and cap. Negative input contributes zero (documented policy).
func (m *IRPPModel) TaxableSalary(brutSalary decimal.Decimal) decimal.Decimal {
	if brutSalary.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	rebate := brutSalary.Mul(m.SalaryRebateRate).Div(hundred)
	if rebate.LessThan(m.SalaryRebateMin) {
		rebate = m.SalaryRebateMin
	}
	if rebate.GreaterThan(m.SalaryRebateMax) {
		rebate = m.SalaryRebateMax
	}
	taxable := brutSalary.Sub(rebate)
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable
}

// TaxableTurnOver applies the flat charges rebate to unincorporated
// revenue.
func (m *IRPPModel) TaxableTurnOver(turnOver decimal.Decimal) decimal.Decimal {
	if turnOver.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return turnOver.Mul(hundred.Sub(m.TurnOverRebateRate)).Div(hundred)
}

// taxForParts computes the grid tax for the income split over the given
// number of quotient parts.
func (m *IRPPModel) taxForParts(taxableIncome, parts decimal.Decimal) (decimal.Decimal, error) {
	quotient := taxableIncome.Div(parts)
	tax, err := m.Grid.Tax(quotient)
	if err != nil {
		return decimal.Zero, err
	}
	return tax.Mul(parts), nil
}

// IRPP computes the household income tax. The benefit of the children's
// quotient parts is capped at nbChildren x ChildRebate: the returned tax is
// the larger of the with-children tax and the without-children tax minus
// the capped gain.
func (m *IRPPModel) IRPP(taxableIncome decimal.Decimal, nbAdults, nbChildren int) (decimal.Decimal, error) {
	if nbAdults <= 0 {
		return decimal.Zero, fmt.Errorf("irpp: household has no adult")
	}
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	withChildren, err := m.taxForParts(taxableIncome, m.FamilyQuotient(nbAdults, nbChildren))
	if err != nil {
		return decimal.Zero, fmt.Errorf("irpp with children: %w", err)
	}
	if nbChildren == 0 {
		return withChildren, nil
	}

	withoutChildren, err := m.taxForParts(taxableIncome, m.FamilyQuotient(nbAdults, 0))
	if err != nil {
		return decimal.Zero, fmt.Errorf("irpp without children: %w", err)
	}

	gain := withoutChildren.Sub(withChildren)
	maxGain := m.ChildRebate.Mul(decimal.NewFromInt(int64(nbChildren)))
	if gain.GreaterThan(maxGain) {
		return withoutChildren.Sub(maxGain), nil
	}
	return withChildren, nil
}

// PensionTaxationModel applies the pension rebate before income tax.
// RebateRate is a percent; min and max are per household and per year.
type PensionTaxationModel struct {
	RebateRate decimal.Decimal `json:"rebate_rate"`
	RebateMin  decimal.Decimal `json:"rebate_min"`
	RebateMax  decimal.Decimal `json:"rebate_max"`
}

// TaxablePension applies the rebate, clamped between the statutory floor
// and cap. Negative input contributes zero.
func (m *PensionTaxationModel) TaxablePension(pensionBrut decimal.Decimal) decimal.Decimal {
	if pensionBrut.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	rebate := pensionBrut.Mul(m.RebateRate).Div(hundred)
	if rebate.LessThan(m.RebateMin) {
		rebate = m.RebateMin
	}
	if rebate.GreaterThan(m.RebateMax) {
		rebate = m.RebateMax
	}
	taxable := pensionBrut.Sub(rebate)
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable
}

var hundred = decimal.NewFromInt(100)
