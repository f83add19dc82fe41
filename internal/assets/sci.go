package assets

import (
	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/fiscal"
	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// SCI is a civil real-estate company wrapping SCPI shares. Its profits are
// taxed at company rates (IS), not at personal income tax.
type SCI struct {
	Name      string              `yaml:"name" json:"name"`
	Ownership ownership.Ownership `yaml:"ownership" json:"ownership"`
	SCPIs     []*SCPI             `yaml:"scpis" json:"scpis"`
}

func (s *SCI) GetName() string                    { return s.Name }
func (s *SCI) GetOwnership() *ownership.Ownership { return &s.Ownership }

// Value sums the wrapped share values.
func (s *SCI) Value(atEndOf int) decimal.Decimal {
	total := decimal.Zero
	for _, scpi := range s.SCPIs {
		total = total.Add(scpi.Value(atEndOf))
	}
	return total
}

// ValueWithMethod: the company's shares follow the real-estate rules of the
// wrapped SCPIs.
func (s *SCI) ValueWithMethod(atEndOf int, method EvaluationMethod) decimal.Decimal {
	if method == LifeInsuranceSuccession {
		return decimal.Zero
	}
	return s.Value(atEndOf)
}

// YearlyRevenue returns the company's distributable revenue for the year,
// net of company profit tax.
func (s *SCI) YearlyRevenue(during int, is *fiscal.CompanyProfitTaxModel) (net, tax decimal.Decimal, err error) {
	brut := decimal.Zero
	for _, scpi := range s.SCPIs {
		brut = brut.Add(scpi.YearlyRevenue(during))
	}
	tax, err = is.IS(brut)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return brut.Sub(tax), tax, nil
}

// LiquidatedValue sums the net sale proceeds of the wrapped shares for the
// year.
func (s *SCI) LiquidatedValue(year int, cg *fiscal.RealEstateCapitalGainsModel) (SaleProceeds, error) {
	var total SaleProceeds
	for _, scpi := range s.SCPIs {
		p, err := scpi.LiquidatedValue(year, cg)
		if err != nil {
			return SaleProceeds{}, err
		}
		total.Revenue = total.Revenue.Add(p.Revenue)
		total.CapitalGain = total.CapitalGain.Add(p.CapitalGain)
		total.IrppTax = total.IrppTax.Add(p.IrppTax)
		total.SocialTax = total.SocialTax.Add(p.SocialTax)
		total.Net = total.Net.Add(p.Net)
	}
	return total, nil
}
