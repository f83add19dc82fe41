package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RealEstateCapitalGainsModel taxes real-estate sale gains: an income-tax
// component and a social component, each with its own holding-duration
// exoneration grid. Rates are percents.
type RealEstateCapitalGainsModel struct {
	IrppRate         decimal.Decimal `json:"irpp_rate"`
	IrppDiscountGrid DiscountGrid    `json:"irpp_discount_grid"`

	SocialRate         decimal.Decimal `json:"social_rate"`
	SocialDiscountGrid DiscountGrid    `json:"social_discount_grid"`
}

// Initialize prepares both exoneration grids.
func (m *RealEstateCapitalGainsModel) Initialize() error {
	if err := m.IrppDiscountGrid.Initialize(); err != nil {
		return fmt.Errorf("irpp discount grid: %w", err)
	}
	if err := m.SocialDiscountGrid.Initialize(); err != nil {
		return fmt.Errorf("social discount grid: %w", err)
	}
	return nil
}

// Taxes returns the income-tax and social-tax components on a capital gain
// after the given holding duration in years. A non-positive gain is taxed
// zero; a negative duration is an error.
func (m *RealEstateCapitalGainsModel) Taxes(gain decimal.Decimal, holdingYears int) (irpp, social decimal.Decimal, err error) {
	if gain.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, nil
	}
	irppDiscount, err := m.IrppDiscountGrid.Discount(holdingYears)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("capital gains irpp exoneration: %w", err)
	}
	socialDiscount, err := m.SocialDiscountGrid.Discount(holdingYears)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("capital gains social exoneration: %w", err)
	}
	one := decimal.NewFromInt(1)
	irpp = gain.Mul(one.Sub(irppDiscount)).Mul(m.IrppRate).Div(hundred)
	social = gain.Mul(one.Sub(socialDiscount)).Mul(m.SocialRate).Div(hundred)
	return irpp, social, nil
}

// CompanyProfitTaxModel taxes company profits (IS) on a progressive grid
// (reduced rate on the first bracket, standard rate above).
type CompanyProfitTaxModel struct {
	Grid RateGrid `json:"grid"`
}

// Initialize prepares the bracket grid.
func (m *CompanyProfitTaxModel) Initialize() error {
	return m.Grid.Initialize()
}

// IS returns the profit tax. Non-positive profit is taxed zero.
func (m *CompanyProfitTaxModel) IS(profit decimal.Decimal) (decimal.Decimal, error) {
	if profit.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}
	return m.Grid.Tax(profit)
}
