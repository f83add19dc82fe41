package fiscal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNegativeInput is returned by the layoff calculators for negative
// seniority or age; these functions raise rather than clamp (documented
// policy).
var ErrNegativeInput = errors.New("seniority and age cannot be negative")

// SenioritySlice gives a number of months of salary earned per year of
// seniority at or above the floor.
type SenioritySlice struct {
	Floor         int             `json:"floor"`
	MonthsPerYear decimal.Decimal `json:"months_per_year"`
}

// AgeMajorationSlice gives the percent majoration of the convention
// compensation for ages at or above the floor.
type AgeMajorationSlice struct {
	FloorAge          int             `json:"floor_age"`
	MajorationPercent decimal.Decimal `json:"majoration_percent"`
}

// LayoffCompensationModel computes layoff compensation (legal and
// collective-bargaining tables) and its taxation: IRPP exoneration as the
// max of the statutory caps, then residual social taxes and CSG/CRDS with
// a deductible split.
type LayoffCompensationModel struct {
	LegalGrid           []SenioritySlice     `json:"legal_grid"`
	ConventionGrid      []SenioritySlice     `json:"convention_grid"`
	ConventionMaxMonths decimal.Decimal      `json:"convention_max_months"`
	AgeMajorationGrid   []AgeMajorationSlice `json:"age_majoration_grid"`

	// Statutory caps in multiples of the PASS.
	IrppExonerationPASSCap   decimal.Decimal `json:"irpp_exoneration_pass_cap"`
	SocialExonerationPASSCap decimal.Decimal `json:"social_exoneration_pass_cap"`

	CsgCrdsRate       decimal.Decimal `json:"csg_crds_rate"`
	CsgDeductibleRate decimal.Decimal `json:"csg_deductible_rate"`
}

// Initialize validates floor monotonicity of the three tables.
func (m *LayoffCompensationModel) Initialize() error {
	check := func(name string, floors []int) error {
		for i := 1; i < len(floors); i++ {
			if floors[i] <= floors[i-1] {
				return fmt.Errorf("layoff %s grid slice %d: %w", name, i, ErrNonMonotonicGrid)
			}
		}
		return nil
	}
	legal := make([]int, len(m.LegalGrid))
	for i, s := range m.LegalGrid {
		legal[i] = s.Floor
	}
	if err := check("legal", legal); err != nil {
		return err
	}
	convention := make([]int, len(m.ConventionGrid))
	for i, s := range m.ConventionGrid {
		convention[i] = s.Floor
	}
	if err := check("convention", convention); err != nil {
		return err
	}
	ages := make([]int, len(m.AgeMajorationGrid))
	for i, s := range m.AgeMajorationGrid {
		ages[i] = s.FloorAge
	}
	return check("age majoration", ages)
}

// monthsFromGrid accumulates months of salary over the seniority slices.
func monthsFromGrid(grid []SenioritySlice, seniorityYears int) decimal.Decimal {
	months := decimal.Zero
	for i, s := range grid {
		if seniorityYears <= s.Floor {
			break
		}
		upper := seniorityYears
		if i+1 < len(grid) && grid[i+1].Floor < upper {
			upper = grid[i+1].Floor
		}
		span := decimal.NewFromInt(int64(upper - s.Floor))
		months = months.Add(s.MonthsPerYear.Mul(span))
	}
	return months
}

// LegalCompensationInMonths returns the legal compensation in months of
// salary for the given seniority.
func (m *LayoffCompensationModel) LegalCompensationInMonths(seniorityYears int) (decimal.Decimal, error) {
	if seniorityYears < 0 {
		return decimal.Zero, fmt.Errorf("seniority %d: %w", seniorityYears, ErrNegativeInput)
	}
	return monthsFromGrid(m.LegalGrid, seniorityYears), nil
}

// ConventionCompensationInMonths returns the collective-bargaining
// compensation in months of salary, with the age majoration, capped at the
// convention ceiling.
func (m *LayoffCompensationModel) ConventionCompensationInMonths(seniorityYears, age int) (decimal.Decimal, error) {
	if seniorityYears < 0 || age < 0 {
		return decimal.Zero, fmt.Errorf("seniority %d, age %d: %w", seniorityYears, age, ErrNegativeInput)
	}
	months := monthsFromGrid(m.ConventionGrid, seniorityYears)
	majoration := decimal.Zero
	for _, s := range m.AgeMajorationGrid {
		if s.FloorAge <= age {
			majoration = s.MajorationPercent
		} else {
			break
		}
	}
	months = months.Mul(hundred.Add(majoration)).Div(hundred)
	if months.GreaterThan(m.ConventionMaxMonths) {
		months = m.ConventionMaxMonths
	}
	return months, nil
}

// Compensation returns the compensation actually received: the larger of
// the legal and convention amounts for the given monthly reference salary.
func (m *LayoffCompensationModel) Compensation(monthlySalary decimal.Decimal, seniorityYears, age int) (received, legal decimal.Decimal, err error) {
	legalMonths, err := m.LegalCompensationInMonths(seniorityYears)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	conventionMonths, err := m.ConventionCompensationInMonths(seniorityYears, age)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	legal = monthlySalary.Mul(legalMonths)
	convention := monthlySalary.Mul(conventionMonths)
	received = legal
	if convention.GreaterThan(received) {
		received = convention
	}
	return received, legal, nil
}

// LayoffTaxation is the taxation breakdown of a received compensation.
type LayoffTaxation struct {
	Received       decimal.Decimal
	IrppExonerated decimal.Decimal
	IrppTaxable    decimal.Decimal
	SocialTaxes    decimal.Decimal
	CsgDeductible  decimal.Decimal
	Net            decimal.Decimal
}

// Taxation computes the taxation of a layoff compensation. The IRPP
// exoneration is the largest of three statutory caps: the legal
// compensation, twice the annual brut salary and half the amount received,
// the last two each limited to the PASS multiple. The deductible CSG
// reduces the taxable residue.
func (m *LayoffCompensationModel) Taxation(received, legalCompensation, annualBrutSalary, pass decimal.Decimal) LayoffTaxation {
	if received.LessThanOrEqual(decimal.Zero) {
		return LayoffTaxation{}
	}

	halfReceived := received.Div(decimal.NewFromInt(2))
	twiceBrut := annualBrutSalary.Mul(decimal.NewFromInt(2))
	irppCap := pass.Mul(m.IrppExonerationPASSCap)
	exonerated := decimal.Max(legalCompensation,
		decimal.Min(twiceBrut, irppCap),
		decimal.Min(halfReceived, irppCap))
	if exonerated.GreaterThan(received) {
		exonerated = received
	}

	socialCap := pass.Mul(m.SocialExonerationPASSCap)
	socialExonerated := decimal.Min(received, decimal.Min(exonerated, socialCap))
	csgBase := received.Sub(socialExonerated)
	socialTaxes := csgBase.Mul(m.CsgCrdsRate).Div(hundred)
	csgDeductible := csgBase.Mul(m.CsgDeductibleRate).Div(hundred)

	taxable := received.Sub(exonerated).Sub(csgDeductible)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	return LayoffTaxation{
		Received:       received,
		IrppExonerated: exonerated,
		IrppTaxable:    taxable,
		SocialTaxes:    socialTaxes,
		CsgDeductible:  csgDeductible,
		Net:            received.Sub(socialTaxes),
	}
}
