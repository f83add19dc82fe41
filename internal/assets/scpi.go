package assets

import (
	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/fiscal"
	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// SCPI is a real-estate fund share. Rates are percents; RevaluRate is
// negative for a yearly devaluation of the share price.
type SCPI struct {
	Name      string              `yaml:"name" json:"name"`
	Ownership ownership.Ownership `yaml:"ownership" json:"ownership"`

	BuyYear      int             `yaml:"buy_year" json:"buy_year"`
	BuyPrice     decimal.Decimal `yaml:"buy_price" json:"buy_price"`
	InterestRate decimal.Decimal `yaml:"interest_rate" json:"interest_rate"`
	RevaluRate   decimal.Decimal `yaml:"revalu_rate" json:"revalu_rate"`
	SellYear     int             `yaml:"sell_year,omitempty" json:"sell_year,omitempty"`
}

func (s *SCPI) GetName() string                    { return s.Name }
func (s *SCPI) GetOwnership() *ownership.Ownership { return &s.Ownership }

// IsOwned reports whether the share is held at the end of the year.
func (s *SCPI) IsOwned(atEndOf int) bool {
	if atEndOf < s.BuyYear {
		return false
	}
	if s.SellYear != 0 && atEndOf >= s.SellYear {
		return false
	}
	return true
}

func (s *SCPI) revaluedPrice(atEndOf int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(s.RevaluRate.Div(hundred))
	years := decimal.NewFromInt(int64(atEndOf - s.BuyYear))
	return s.BuyPrice.Mul(factor.Pow(years))
}

// Value is the revalued share price while owned, zero before purchase and
// from the sale year on.
func (s *SCPI) Value(atEndOf int) decimal.Decimal {
	if !s.IsOwned(atEndOf) {
		return decimal.Zero
	}
	return s.revaluedPrice(atEndOf)
}

// ValueWithMethod: SCPI shares are real estate for IFI and belong to the
// civil estate for successions, with no occupancy discount.
func (s *SCPI) ValueWithMethod(atEndOf int, method EvaluationMethod) decimal.Decimal {
	if method == LifeInsuranceSuccession {
		return decimal.Zero
	}
	return s.Value(atEndOf)
}

// YearlyRevenue is the distribution received during the year, computed on
// the subscription price net of the share devaluation. It can be negative
// when the devaluation exceeds the served rate.
func (s *SCPI) YearlyRevenue(during int) decimal.Decimal {
	if !s.IsOwned(during) {
		return decimal.Zero
	}
	return s.BuyPrice.Mul(s.InterestRate.Add(s.RevaluRate)).Div(hundred)
}

// LiquidatedValue returns the net-of-tax sale proceeds in the configured
// sale year, zero in any other year. SCPI gains follow the real-estate
// capital-gains regime.
func (s *SCPI) LiquidatedValue(year int, cg *fiscal.RealEstateCapitalGainsModel) (SaleProceeds, error) {
	if s.SellYear == 0 || year != s.SellYear {
		return SaleProceeds{}, nil
	}
	price := s.revaluedPrice(year)
	gain := price.Sub(s.BuyPrice)
	irpp, social, err := cg.Taxes(gain, year-s.BuyYear)
	if err != nil {
		return SaleProceeds{}, err
	}
	return SaleProceeds{
		Revenue:     price,
		CapitalGain: gain,
		IrppTax:     irpp,
		SocialTax:   social,
		Net:         price.Sub(irpp).Sub(social),
	}, nil
}
