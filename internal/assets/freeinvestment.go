package assets

import (
	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// InvestmentKind discriminates the free-investment variants.
type InvestmentKind string

const (
	LifeInsurance InvestmentKind = "lifeInsurance"
	PEA           InvestmentKind = "pea"
	OtherInvest   InvestmentKind = "other"
)

// RateKind discriminates how the yearly return of a free investment is
// determined.
type RateKind string

const (
	// Contractual uses a fixed yearly rate.
	Contractual RateKind = "contractual"
	// MarketSplit mixes the sampled stock and secured rates according to
	// the stock allocation fraction.
	MarketSplit RateKind = "marketSplit"
)

// LifeInsuranceClause is the beneficiary clause of a life-insurance policy.
// It determines the new owners on the subscriber's death, independently of
// the policy's own ownership structure. The clause itself may be
// dismembered.
type LifeInsuranceClause struct {
	IsDismembered     bool     `yaml:"is_dismembered" json:"is_dismembered"`
	FullRecipients    []string `yaml:"full_recipients,omitempty" json:"full_recipients,omitempty"`
	UsufructRecipient string   `yaml:"usufruct_recipient,omitempty" json:"usufruct_recipient,omitempty"`
	BareRecipients    []string `yaml:"bare_recipients,omitempty" json:"bare_recipients,omitempty"`
}

// FreeInvestmentState is the mutable per-run state of a free investment:
// the last capitalized year and the split between invested capital and
// accrued interests.
type FreeInvestmentState struct {
	Year       int
	Investment decimal.Decimal
	Interests  decimal.Decimal
}

// Value is the total balance.
func (s FreeInvestmentState) Value() decimal.Decimal {
	return s.Investment.Add(s.Interests)
}

// FreeInvestment is a liquid savings vehicle: life insurance, PEA or other.
// currentState is the only mutable per-run state of the whole patrimoine;
// it must be reset before every run.
type FreeInvestment struct {
	Name      string              `yaml:"name" json:"name"`
	Ownership ownership.Ownership `yaml:"ownership" json:"ownership"`
	Kind      InvestmentKind      `yaml:"kind" json:"kind"`

	// PeriodicSocialTaxes marks life-insurance contracts whose interests
	// bear social taxes every year instead of at withdrawal; the engine
	// then capitalizes at a net rate.
	PeriodicSocialTaxes bool                 `yaml:"periodic_social_taxes,omitempty" json:"periodic_social_taxes,omitempty"`
	Clause              *LifeInsuranceClause `yaml:"clause,omitempty" json:"clause,omitempty"`

	RateKind        RateKind        `yaml:"rate_kind" json:"rate_kind"`
	ContractualRate decimal.Decimal `yaml:"contractual_rate,omitempty" json:"contractual_rate,omitempty"`
	// StockFraction is the percent of the balance exposed to the stock
	// rate under MarketSplit; the rest earns the secured rate.
	StockFraction decimal.Decimal `yaml:"stock_fraction,omitempty" json:"stock_fraction,omitempty"`

	FirstYear         int             `yaml:"first_year" json:"first_year"`
	InitialInvestment decimal.Decimal `yaml:"initial_investment" json:"initial_investment"`
	InitialInterests  decimal.Decimal `yaml:"initial_interests,omitempty" json:"initial_interests,omitempty"`

	currentState FreeInvestmentState
}

func (f *FreeInvestment) GetName() string                    { return f.Name }
func (f *FreeInvestment) GetOwnership() *ownership.Ownership { return &f.Ownership }

// ResetCurrentState restores the initial state. The initial balance is
// the balance at the eve of FirstYear, so the first capitalization lands
// on FirstYear itself. Must be called before every run, including the
// first, to guarantee run independence.
func (f *FreeInvestment) ResetCurrentState() {
	f.currentState = FreeInvestmentState{
		Year:       f.FirstYear - 1,
		Investment: f.InitialInvestment,
		Interests:  f.InitialInterests,
	}
}

// ResetCurrentStateAt restores the initial state aligned to the eve of the
// run's first year for investments opened before it. Investments opening
// during the run keep their own first year.
func (f *FreeInvestment) ResetCurrentStateAt(firstYear int) {
	f.ResetCurrentState()
	if f.currentState.Year < firstYear-1 {
		f.currentState.Year = firstYear - 1
	}
}

// CurrentState returns the mutable state.
func (f *FreeInvestment) CurrentState() FreeInvestmentState { return f.currentState }

// InterestRate returns the yearly rate in percent given the sampled market
// rates in percent.
func (f *FreeInvestment) InterestRate(securedRate, stockRate decimal.Decimal) decimal.Decimal {
	if f.RateKind == Contractual {
		return f.ContractualRate
	}
	stockPart := stockRate.Mul(f.StockFraction).Div(hundred)
	securedPart := securedRate.Mul(hundred.Sub(f.StockFraction)).Div(hundred)
	return stockPart.Add(securedPart)
}

// CapitalizeAtEndOf credits one year of interests at the given rate in
// percent. The year must be the state year plus one; anything else is a
// sequencing error by the caller.
func (f *FreeInvestment) CapitalizeAtEndOf(year int, ratePercent decimal.Decimal) error {
	if year != f.currentState.Year+1 {
		return &IllegalOperationError{
			Op:     "capitalize " + f.Name,
			Reason: "capitalization must be sequential, year by year",
		}
	}
	interests := f.currentState.Value().Mul(ratePercent).Div(hundred)
	f.currentState.Interests = f.currentState.Interests.Add(interests)
	f.currentState.Year = year
	return nil
}

// Deposit adds to the invested capital.
func (f *FreeInvestment) Deposit(amount decimal.Decimal) {
	f.currentState.Investment = f.currentState.Investment.Add(amount)
}

// InterestFraction is the share of the balance made of accrued interests,
// in [0, 1].
func (f *FreeInvestment) InterestFraction() decimal.Decimal {
	value := f.currentState.Value()
	if !value.IsPositive() {
		return decimal.Zero
	}
	return f.currentState.Interests.Div(value)
}

// Withdraw removes a brut amount, split proportionally between capital and
// interests, and returns the interests part (the taxable base). The amount
// is clamped to the available balance; the clamped amount actually taken is
// returned.
func (f *FreeInvestment) Withdraw(brut decimal.Decimal) (taken, interests decimal.Decimal) {
	available := f.currentState.Value()
	if !available.IsPositive() || !brut.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	taken = decimal.Min(brut, available)
	interests = taken.Mul(f.InterestFraction())
	f.currentState.Interests = f.currentState.Interests.Sub(interests)
	f.currentState.Investment = f.currentState.Investment.Sub(taken.Sub(interests))
	return taken, interests
}

// Value is the balance of the state when it covers the year. Before the
// first year the investment does not exist; for later years the state must
// have been capitalized up to the requested year.
func (f *FreeInvestment) Value(atEndOf int) decimal.Decimal {
	if atEndOf < f.FirstYear {
		return decimal.Zero
	}
	return f.currentState.Value()
}

// ValueWithMethod: life insurance passes outside the civil estate, so it
// contributes zero to the legal-succession value and fully to the
// life-insurance-succession value; other kinds are the reverse. No free
// investment is real estate, so the IFI value is zero.
func (f *FreeInvestment) ValueWithMethod(atEndOf int, method EvaluationMethod) decimal.Decimal {
	switch method {
	case IFI:
		return decimal.Zero
	case LegalSuccession:
		if f.Kind == LifeInsurance {
			return decimal.Zero
		}
		return f.Value(atEndOf)
	case LifeInsuranceSuccession:
		if f.Kind == LifeInsurance {
			return f.Value(atEndOf)
		}
		return decimal.Zero
	default:
		return f.Value(atEndOf)
	}
}
