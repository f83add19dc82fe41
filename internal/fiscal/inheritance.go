package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InheritanceDonationModel taxes successions and donations in direct line
// and donations to the spouse. Spouses are fully exempt from succession tax
// on a direct bequest; that exemption is applied by the succession engine,
// not here.
type InheritanceDonationModel struct {
	ChildAbatement          decimal.Decimal `json:"child_abatement"`
	SpouseDonationAbatement decimal.Decimal `json:"spouse_donation_abatement"`
	GridDirectLine          RateGrid        `json:"grid_direct_line"`
}

// Initialize prepares the bracket grid.
func (m *InheritanceDonationModel) Initialize() error {
	return m.GridDirectLine.Initialize()
}

// taxAfterAbatement applies an abatement then the direct-line grid.
func (m *InheritanceDonationModel) taxAfterAbatement(brut, abatement decimal.Decimal) (net, tax decimal.Decimal, err error) {
	if brut.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, nil
	}
	taxable := brut.Sub(abatement)
	if taxable.LessThanOrEqual(decimal.Zero) {
		return brut, decimal.Zero, nil
	}
	tax, err = m.GridDirectLine.Tax(taxable)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("inheritance grid: %w", err)
	}
	return brut.Sub(tax), tax, nil
}

// HeritageOfChild taxes one child's succession share after the child
// abatement.
func (m *InheritanceDonationModel) HeritageOfChild(partSuccession decimal.Decimal) (net, tax decimal.Decimal, err error) {
	return m.taxAfterAbatement(partSuccession, m.ChildAbatement)
}

// DonationToChild taxes a donation in direct line; same abatement and grid
// as a succession share.
func (m *InheritanceDonationModel) DonationToChild(donation decimal.Decimal) (net, tax decimal.Decimal, err error) {
	return m.taxAfterAbatement(donation, m.ChildAbatement)
}

// DonationToSpouse taxes a donation between spouses, with the spouse
// abatement and the same grid.
func (m *InheritanceDonationModel) DonationToSpouse(donation decimal.Decimal) (net, tax decimal.Decimal, err error) {
	return m.taxAfterAbatement(donation, m.SpouseDonationAbatement)
}

// LifeInsuranceInheritanceModel taxes the death-benefit of life-insurance
// policies, outside the civil estate: per-beneficiary abatement then a
// flat-by-bracket grid. Spouse or partner beneficiaries are fully exempt.
type LifeInsuranceInheritanceModel struct {
	Abatement decimal.Decimal `json:"abatement"`
	Grid      RateGrid        `json:"grid"`
}

// Initialize prepares the bracket grid.
func (m *LifeInsuranceInheritanceModel) Initialize() error {
	return m.Grid.Initialize()
}

// TaxOfBeneficiary taxes one beneficiary's share of the death benefit.
func (m *LifeInsuranceInheritanceModel) TaxOfBeneficiary(part decimal.Decimal, isSpouse bool) (net, tax decimal.Decimal, err error) {
	if part.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, nil
	}
	if isSpouse {
		return part, decimal.Zero, nil
	}
	taxable := part.Sub(m.Abatement)
	if taxable.LessThanOrEqual(decimal.Zero) {
		return part, decimal.Zero, nil
	}
	tax, err = m.Grid.Tax(taxable)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("life insurance inheritance grid: %w", err)
	}
	return part.Sub(tax), tax, nil
}
