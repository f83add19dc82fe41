package assets

import (
	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// Debt is a static liability. Its value is the negated amount for as long
// as it exists.
type Debt struct {
	Name      string              `yaml:"name" json:"name"`
	Ownership ownership.Ownership `yaml:"ownership" json:"ownership"`
	Amount    decimal.Decimal     `yaml:"amount" json:"amount"`
}

func (d *Debt) GetName() string                    { return d.Name }
func (d *Debt) GetOwnership() *ownership.Ownership { return &d.Ownership }

func (d *Debt) Value(atEndOf int) decimal.Decimal {
	return d.Amount.Neg()
}

func (d *Debt) ValueWithMethod(atEndOf int, method EvaluationMethod) decimal.Decimal {
	if method == IFI || method == LifeInsuranceSuccession {
		return decimal.Zero
	}
	return d.Value(atEndOf)
}

// Loan is an amortizing liability with fixed rate and term. Rates are
// percents. nbPeriod = LastYear - FirstYear + 1 yearly payments.
type Loan struct {
	Name      string              `yaml:"name" json:"name"`
	Ownership ownership.Ownership `yaml:"ownership" json:"ownership"`

	LoanedValue  decimal.Decimal `yaml:"loaned_value" json:"loaned_value"`
	InterestRate decimal.Decimal `yaml:"interest_rate" json:"interest_rate"`
	FirstYear    int             `yaml:"first_year" json:"first_year"`
	LastYear     int             `yaml:"last_year" json:"last_year"`
}

func (l *Loan) GetName() string                    { return l.Name }
func (l *Loan) GetOwnership() *ownership.Ownership { return &l.Ownership }

// NbPeriod is the number of yearly payments.
func (l *Loan) NbPeriod() int {
	return l.LastYear - l.FirstYear + 1
}

// YearlyPayment is the constant annuity from the amortization formula.
func (l *Loan) YearlyPayment() decimal.Decimal {
	n := decimal.NewFromInt(int64(l.NbPeriod()))
	r := l.InterestRate.Div(hundred)
	if r.IsZero() {
		return l.LoanedValue.Div(n)
	}
	one := decimal.NewFromInt(1)
	denominator := one.Sub(one.Add(r).Pow(n.Neg()))
	return l.LoanedValue.Mul(r).Div(denominator)
}

// TotalPayment is the sum of all annuities over the term.
func (l *Loan) TotalPayment() decimal.Decimal {
	return l.YearlyPayment().Mul(decimal.NewFromInt(int64(l.NbPeriod())))
}

// CostOfCredit is the interest paid over the full term.
func (l *Loan) CostOfCredit() decimal.Decimal {
	return l.TotalPayment().Sub(l.LoanedValue)
}

// Value is the negated sum of the annuities still owed at the end of the
// year: zero before the first year, zero from the last year's end on.
func (l *Loan) Value(atEndOf int) decimal.Decimal {
	if atEndOf < l.FirstYear || atEndOf >= l.LastYear {
		return decimal.Zero
	}
	remaining := decimal.NewFromInt(int64(l.LastYear - atEndOf))
	return l.YearlyPayment().Mul(remaining).Neg()
}

func (l *Loan) ValueWithMethod(atEndOf int, method EvaluationMethod) decimal.Decimal {
	if method == IFI || method == LifeInsuranceSuccession {
		return decimal.Zero
	}
	return l.Value(atEndOf)
}

// YearlyPaymentDuring is the debt service due during the year.
func (l *Loan) YearlyPaymentDuring(year int) decimal.Decimal {
	if year < l.FirstYear || year > l.LastYear {
		return decimal.Zero
	}
	return l.YearlyPayment()
}
