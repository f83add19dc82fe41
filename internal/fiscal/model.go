// Package fiscal implements the tax and levy calculators of the simulator:
// income tax with family quotient, social levies, real-estate capital gains
// with holding-duration exoneration, company profit tax, inheritance and
// donation tax, life-insurance inheritance tax, layoff-compensation
// taxation and the real-estate wealth tax.
//
// Every calculator is a pure function set over a loaded parameter table.
// Parameter documents are decoded into the Model and must go through
// Initialize before use: bracket tables reference cumulative values from
// prior brackets, which Initialize pre-computes.
package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Model is the complete fiscal parameter set, loaded once per process and
// injected explicitly into the simulation.
type Model struct {
	Version string `json:"version"`

	// PASS is the yearly social security ceiling, a reference unit in
	// several formulas.
	PASS decimal.Decimal `json:"pass"`

	// LifeInsuranceRebatePerPerson is the yearly income-tax rebate on
	// life-insurance withdrawal interests, per household member.
	LifeInsuranceRebatePerPerson decimal.Decimal `json:"life_insurance_rebate_per_person"`

	IRPP                     IRPPModel                     `json:"irpp"`
	Pension                  PensionTaxationModel          `json:"pension"`
	SocialTaxes              SocialTaxesModel              `json:"social_taxes"`
	RealEstateCapitalGains   RealEstateCapitalGainsModel   `json:"real_estate_capital_gains"`
	CompanyProfitTax         CompanyProfitTaxModel         `json:"company_profit_tax"`
	InheritanceDonation      InheritanceDonationModel      `json:"inheritance_donation"`
	LifeInsuranceInheritance LifeInsuranceInheritanceModel `json:"life_insurance_inheritance"`
	LayoffCompensation       LayoffCompensationModel       `json:"layoff_compensation"`
	Isf                      IsfModel                      `json:"isf"`
}

// Initialize validates and pre-computes every grid of the model. Must be
// called once after decoding; a failure is fatal, the engine cannot run on
// a partially initialized model.
func (m *Model) Initialize() error {
	steps := []struct {
		name string
		init func() error
	}{
		{"irpp", m.IRPP.Initialize},
		{"real estate capital gains", m.RealEstateCapitalGains.Initialize},
		{"company profit tax", m.CompanyProfitTax.Initialize},
		{"inheritance donation", m.InheritanceDonation.Initialize},
		{"life insurance inheritance", m.LifeInsuranceInheritance.Initialize},
		{"layoff compensation", m.LayoffCompensation.Initialize},
		{"isf", m.Isf.Initialize},
	}
	for _, s := range steps {
		if err := s.init(); err != nil {
			return fmt.Errorf("fiscal model %s: %w", s.name, err)
		}
	}
	return nil
}

// DefaultModel returns the built-in parameter set (2021 French tax data).
func DefaultModel() *Model {
	d := decimal.NewFromInt
	f := decimal.NewFromFloat
	return &Model{
		Version:                      "2021",
		PASS:                         d(41136),
		LifeInsuranceRebatePerPerson: d(4800),
		IRPP: IRPPModel{
			Grid: RateGrid{
				{Floor: d(0), Rate: f(0)},
				{Floor: d(10084), Rate: f(0.11)},
				{Floor: d(25710), Rate: f(0.30)},
				{Floor: d(73516), Rate: f(0.41)},
				{Floor: d(158122), Rate: f(0.45)},
			},
			ChildRebate:        d(1570),
			SalaryRebateRate:   f(10),
			SalaryRebateMin:    f(442),
			SalaryRebateMax:    f(12652),
			TurnOverRebateRate: f(34),
		},
		Pension: PensionTaxationModel{
			RebateRate: f(10),
			RebateMin:  f(394),
			RebateMax:  f(3912),
		},
		SocialTaxes: SocialTaxesModel{
			PensionCSGRate:           f(8.3),
			PensionCRDSRate:          f(0.5),
			PensionCasaRate:          f(0.3),
			PensionCSGDeductibleRate: f(5.9),
			FinancialRevenuRate:      f(17.2),
			IRPPFlatRate:             f(12.8),
		},
		RealEstateCapitalGains: RealEstateCapitalGainsModel{
			IrppRate: f(19),
			IrppDiscountGrid: DiscountGrid{
				{Floor: 0, Rate: f(0)},
				{Floor: 5, Rate: f(0.06)},
				{Floor: 21, Rate: f(0.04)},
			},
			SocialRate: f(17.2),
			SocialDiscountGrid: DiscountGrid{
				{Floor: 0, Rate: f(0)},
				{Floor: 5, Rate: f(0.0165)},
				{Floor: 21, Rate: f(0.016)},
				{Floor: 22, Rate: f(0.09)},
			},
		},
		CompanyProfitTax: CompanyProfitTaxModel{
			Grid: RateGrid{
				{Floor: d(0), Rate: f(0.15)},
				{Floor: d(38120), Rate: f(0.25)},
			},
		},
		InheritanceDonation: InheritanceDonationModel{
			ChildAbatement:          d(100000),
			SpouseDonationAbatement: d(80724),
			GridDirectLine: RateGrid{
				{Floor: d(0), Rate: f(0.05)},
				{Floor: d(8072), Rate: f(0.10)},
				{Floor: d(12109), Rate: f(0.15)},
				{Floor: d(15932), Rate: f(0.20)},
				{Floor: d(552324), Rate: f(0.30)},
				{Floor: d(902838), Rate: f(0.40)},
				{Floor: d(1805677), Rate: f(0.45)},
			},
		},
		LifeInsuranceInheritance: LifeInsuranceInheritanceModel{
			Abatement: d(152500),
			Grid: RateGrid{
				{Floor: d(0), Rate: f(0.20)},
				{Floor: d(700000), Rate: f(0.3125)},
			},
		},
		LayoffCompensation: LayoffCompensationModel{
			LegalGrid: []SenioritySlice{
				{Floor: 0, MonthsPerYear: f(0.25)},
				{Floor: 10, MonthsPerYear: f(1.0 / 3.0)},
			},
			ConventionGrid: []SenioritySlice{
				{Floor: 0, MonthsPerYear: f(0.4)},
				{Floor: 7, MonthsPerYear: f(0.6)},
			},
			ConventionMaxMonths: d(18),
			AgeMajorationGrid: []AgeMajorationSlice{
				{FloorAge: 0, MajorationPercent: f(0)},
				{FloorAge: 50, MajorationPercent: f(20)},
				{FloorAge: 55, MajorationPercent: f(30)},
			},
			IrppExonerationPASSCap:   d(6),
			SocialExonerationPASSCap: d(2),
			CsgCrdsRate:              f(9.7),
			CsgDeductibleRate:        f(6.8),
		},
		Isf: IsfModel{
			Threshold:     d(1300000),
			DecoteCeiling: d(1400000),
			DecoteBase:    f(17500),
			DecoteRate:    f(1.25),
			Grid: RateGrid{
				{Floor: d(0), Rate: f(0)},
				{Floor: d(800000), Rate: f(0.005)},
				{Floor: d(1300000), Rate: f(0.007)},
				{Floor: d(2570000), Rate: f(0.01)},
				{Floor: d(5000000), Rate: f(0.0125)},
				{Floor: d(10000000), Rate: f(0.015)},
			},
		},
	}
}
