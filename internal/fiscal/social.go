package fiscal

import "github.com/shopspring/decimal"

// SocialTaxesModel groups the social levies on pensions and financial
// revenue. All rates are percents.
type SocialTaxesModel struct {
	PensionCSGRate           decimal.Decimal `json:"pension_csg_rate"`
	PensionCRDSRate          decimal.Decimal `json:"pension_crds_rate"`
	PensionCasaRate          decimal.Decimal `json:"pension_casa_rate"`
	PensionCSGDeductibleRate decimal.Decimal `json:"pension_csg_deductible_rate"`

	// FinancialRevenuRate is the total social levy on financial revenue
	// and capital gains.
	FinancialRevenuRate decimal.Decimal `json:"financial_revenu_rate"`
	// IRPPFlatRate is the flat income-tax component of the PFU on
	// financial revenue.
	IRPPFlatRate decimal.Decimal `json:"irpp_flat_rate"`
}

// PensionLevies returns the social levies withheld on a brut pension and
// the CSG fraction deductible from next year's taxable income.
func (m *SocialTaxesModel) PensionLevies(pensionBrut decimal.Decimal) (levies, csgDeductible decimal.Decimal) {
	if pensionBrut.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero
	}
	total := m.PensionCSGRate.Add(m.PensionCRDSRate).Add(m.PensionCasaRate)
	levies = pensionBrut.Mul(total).Div(hundred)
	csgDeductible = pensionBrut.Mul(m.PensionCSGDeductibleRate).Div(hundred)
	return levies, csgDeductible
}

// NetPension returns the pension after social levies.
func (m *SocialTaxesModel) NetPension(pensionBrut decimal.Decimal) decimal.Decimal {
	levies, _ := m.PensionLevies(pensionBrut)
	return pensionBrut.Sub(levies)
}

// SocialTaxesOnFinancialRevenu returns the social levy on interests or
// financial gains.
func (m *SocialTaxesModel) SocialTaxesOnFinancialRevenu(revenue decimal.Decimal) decimal.Decimal {
	if revenue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return revenue.Mul(m.FinancialRevenuRate).Div(hundred)
}

// FlatIRPPOnFinancialRevenu returns the flat income-tax component on
// financial revenue.
func (m *SocialTaxesModel) FlatIRPPOnFinancialRevenu(revenue decimal.Decimal) decimal.Decimal {
	if revenue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return revenue.Mul(m.IRPPFlatRate).Div(hundred)
}
