package assets

import (
	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/fiscal"
	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// Statutory occupancy discounts, percents of the market value.
var (
	ifiOccupiedDiscount        = decimal.NewFromInt(30)
	ifiRentedDiscount          = decimal.NewFromInt(20)
	successionOccupiedDiscount = decimal.NewFromInt(20)
)

// YearSpan is an inclusive range of years; a zero From and To means never.
type YearSpan struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
}

// Contains reports whether the year falls in the span.
func (s YearSpan) Contains(year int) bool {
	return s.From != 0 && year >= s.From && year <= s.To
}

// RealEstateAsset is a directly held property. It may be inhabited by its
// owners or rented over configured spans, which drives the IFI and
// succession discounts and the rental revenue.
type RealEstateAsset struct {
	Name      string              `yaml:"name" json:"name"`
	Ownership ownership.Ownership `yaml:"ownership" json:"ownership"`

	BuyYear  int             `yaml:"buy_year" json:"buy_year"`
	BuyPrice decimal.Decimal `yaml:"buy_price" json:"buy_price"`
	// MarketValue is the current estimation; BuyPrice when zero.
	MarketValue decimal.Decimal `yaml:"market_value,omitempty" json:"market_value,omitempty"`
	// SellYear zero means the asset is never sold.
	SellYear  int             `yaml:"sell_year,omitempty" json:"sell_year,omitempty"`
	SellPrice decimal.Decimal `yaml:"sell_price,omitempty" json:"sell_price,omitempty"`

	Inhabited  YearSpan        `yaml:"inhabited,omitempty" json:"inhabited,omitempty"`
	Rented     YearSpan        `yaml:"rented,omitempty" json:"rented,omitempty"`
	YearlyRent decimal.Decimal `yaml:"yearly_rent,omitempty" json:"yearly_rent,omitempty"`
}

func (a *RealEstateAsset) GetName() string                    { return a.Name }
func (a *RealEstateAsset) GetOwnership() *ownership.Ownership { return &a.Ownership }

func (a *RealEstateAsset) marketValue() decimal.Decimal {
	if a.MarketValue.IsZero() {
		return a.BuyPrice
	}
	return a.MarketValue
}

// IsOwned reports whether the asset is held at the end of the year: from
// the purchase year until the year before the sale year.
func (a *RealEstateAsset) IsOwned(atEndOf int) bool {
	if atEndOf < a.BuyYear {
		return false
	}
	if a.SellYear != 0 && atEndOf >= a.SellYear {
		return false
	}
	return true
}

// Value is the market value while owned, zero before purchase and after
// sale.
func (a *RealEstateAsset) Value(atEndOf int) decimal.Decimal {
	if !a.IsOwned(atEndOf) {
		return decimal.Zero
	}
	return a.marketValue()
}

// ValueWithMethod applies the occupancy discounts: IFI discounts the value
// by 30 % when owner-occupied and 20 % when rented; the legal-succession
// valuation discounts 20 % when owner-occupied only.
func (a *RealEstateAsset) ValueWithMethod(atEndOf int, method EvaluationMethod) decimal.Decimal {
	base := a.Value(atEndOf)
	if base.IsZero() {
		return decimal.Zero
	}
	switch method {
	case IFI:
		switch {
		case a.Inhabited.Contains(atEndOf):
			return base.Mul(hundred.Sub(ifiOccupiedDiscount)).Div(hundred)
		case a.Rented.Contains(atEndOf):
			return base.Mul(hundred.Sub(ifiRentedDiscount)).Div(hundred)
		default:
			return base
		}
	case LegalSuccession:
		if a.Inhabited.Contains(atEndOf) {
			return base.Mul(hundred.Sub(successionOccupiedDiscount)).Div(hundred)
		}
		return base
	case LifeInsuranceSuccession:
		return decimal.Zero
	default:
		return base
	}
}

// YearlyRevenue is the rent received during the year, zero outside the
// rented span.
func (a *RealEstateAsset) YearlyRevenue(during int) decimal.Decimal {
	if !a.Rented.Contains(during) || !a.IsOwned(during) {
		return decimal.Zero
	}
	return a.YearlyRent
}

// SaleProceeds describes a liquidation: sale price, capital gain and the
// taxes on the gain.
type SaleProceeds struct {
	Revenue     decimal.Decimal
	CapitalGain decimal.Decimal
	IrppTax     decimal.Decimal
	SocialTax   decimal.Decimal
	Net         decimal.Decimal
}

// LiquidatedValue returns the net-of-tax sale proceeds in the configured
// sale year, zero in any other year.
func (a *RealEstateAsset) LiquidatedValue(year int, cg *fiscal.RealEstateCapitalGainsModel) (SaleProceeds, error) {
	if a.SellYear == 0 || year != a.SellYear {
		return SaleProceeds{}, nil
	}
	price := a.SellPrice
	if price.IsZero() {
		price = a.marketValue()
	}
	gain := price.Sub(a.BuyPrice)
	irpp, social, err := cg.Taxes(gain, year-a.BuyYear)
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

var hundred = decimal.NewFromInt(100)
