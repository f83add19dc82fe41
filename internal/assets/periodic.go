package assets

import (
	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// PeriodicInvestment is a savings plan with a fixed yearly payment from
// FirstYear to LastYear, capitalized at a contractual rate in percent. It
// keeps capitalizing after the last payment until liquidation.
type PeriodicInvestment struct {
	Name      string              `yaml:"name" json:"name"`
	Ownership ownership.Ownership `yaml:"ownership" json:"ownership"`
	Kind      InvestmentKind      `yaml:"kind" json:"kind"`

	YearlyPayment decimal.Decimal `yaml:"yearly_payment" json:"yearly_payment"`
	Rate          decimal.Decimal `yaml:"rate" json:"rate"`
	FirstYear     int             `yaml:"first_year" json:"first_year"`
	LastYear      int             `yaml:"last_year" json:"last_year"`
}

func (p *PeriodicInvestment) GetName() string                    { return p.Name }
func (p *PeriodicInvestment) GetOwnership() *ownership.Ownership { return &p.Ownership }

// Value is the future value of the payment stream at the end of the year:
// an annuity during the payment window, then pure capitalization.
func (p *PeriodicInvestment) Value(atEndOf int) decimal.Decimal {
	if atEndOf < p.FirstYear {
		return decimal.Zero
	}
	r := p.Rate.Div(hundred)
	one := decimal.NewFromInt(1)
	paymentYears := atEndOf
	if paymentYears > p.LastYear {
		paymentYears = p.LastYear
	}
	n := decimal.NewFromInt(int64(paymentYears - p.FirstYear + 1))
	var annuity decimal.Decimal
	if r.IsZero() {
		annuity = p.YearlyPayment.Mul(n)
	} else {
		growth := one.Add(r).Pow(n).Sub(one).Div(r)
		annuity = p.YearlyPayment.Mul(growth)
	}
	if atEndOf > p.LastYear {
		extra := decimal.NewFromInt(int64(atEndOf - p.LastYear))
		annuity = annuity.Mul(one.Add(r).Pow(extra))
	}
	return annuity
}

// YearlyPaymentDuring returns the payment due during the year, zero outside
// the payment window.
func (p *PeriodicInvestment) YearlyPaymentDuring(year int) decimal.Decimal {
	if year < p.FirstYear || year > p.LastYear {
		return decimal.Zero
	}
	return p.YearlyPayment
}

// ValueWithMethod follows the free-investment succession rules for the
// vehicle kind.
func (p *PeriodicInvestment) ValueWithMethod(atEndOf int, method EvaluationMethod) decimal.Decimal {
	switch method {
	case IFI:
		return decimal.Zero
	case LegalSuccession:
		if p.Kind == LifeInsurance {
			return decimal.Zero
		}
		return p.Value(atEndOf)
	case LifeInsuranceSuccession:
		if p.Kind == LifeInsurance {
			return p.Value(atEndOf)
		}
		return decimal.Zero
	default:
		return p.Value(atEndOf)
	}
}
