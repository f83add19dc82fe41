// Package succession implements the legal-succession computation, the
// life-insurance succession and the transfer of ownership on death:
// usufruct extinction, dismemberment per the spouse's fiscal option and
// beneficiary-clause resolution for life insurance.
package succession

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// Kind discriminates the succession variants.
type Kind string

const (
	Legal         Kind = "legal"
	LifeInsurance Kind = "lifeInsurance"
)

// Inheritance is one heir's share of a succession: fraction of the estate,
// brut amount, tax, and net received. Immutable once created.
type Inheritance struct {
	PersonName string
	Percent    decimal.Decimal
	Brut       decimal.Decimal
	Net        decimal.Decimal
	Tax        decimal.Decimal
}

// Succession is the outcome of one death event, created once in the
// simulation loop and consumed by the reporting layer.
type Succession struct {
	Kind         Kind
	YearOfDeath  int
	DecedentName string
	TaxableValue decimal.Decimal
	Inheritances []Inheritance
}

// TotalTax sums the heirs' taxes.
func (s Succession) TotalTax() decimal.Decimal {
	total := decimal.Zero
	for _, i := range s.Inheritances {
		total = total.Add(i.Tax)
	}
	return total
}

// TotalNet sums the heirs' net inheritances.
func (s Succession) TotalNet() decimal.Decimal {
	total := decimal.Zero
	for _, i := range s.Inheritances {
		total = total.Add(i.Net)
	}
	return total
}

// SpouseFiscalOption is the surviving spouse's election on the estate.
type SpouseFiscalOption string

const (
	// FullUsufruct gives the spouse the usufruct of the whole estate,
	// children receive the bare ownership.
	FullUsufruct SpouseFiscalOption = "fullUsufruct"
	// QuotiteDisponible gives the spouse the disposable quota in full
	// ownership: 1/(nbChildren+1).
	QuotiteDisponible SpouseFiscalOption = "quotiteDisponible"
	// QuarterFullPlusThreeQuarterUsufruct gives a quarter in full
	// ownership plus the usufruct of the remaining three quarters.
	QuarterFullPlusThreeQuarterUsufruct SpouseFiscalOption = "quarterFullPlusThreeQuarterUsufruct"
)

var one = decimal.NewFromInt(1)

// SharedValues returns the estate fractions inherited by the spouse and by
// each child, as fractions of one. The usufruct options use the
// demembrement table at the spouse's age. With no child the spouse takes
// everything.
func (o SpouseFiscalOption) SharedValues(nbChildren, spouseAge int, table ownership.DemembrementTable) (forChild, forSpouse decimal.Decimal, err error) {
	if nbChildren == 0 {
		return decimal.Zero, one, nil
	}
	children := decimal.NewFromInt(int64(nbChildren))
	switch o {
	case FullUsufruct:
		usufruct, _, err := table.Shares(spouseAge)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		forSpouse = usufruct.Div(hundred)
	case QuotiteDisponible:
		forSpouse = one.Div(children.Add(one))
	case QuarterFullPlusThreeQuarterUsufruct:
		usufruct, _, err := table.Shares(spouseAge)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		quarter := decimal.NewFromFloat(0.25)
		forSpouse = quarter.Add(quarter.Mul(decimal.NewFromInt(3)).Mul(usufruct).Div(hundred))
	default:
		return decimal.Zero, decimal.Zero, fmt.Errorf("unknown spouse fiscal option %q", string(o))
	}
	forChild = one.Sub(forSpouse).Div(children)
	return forChild, forSpouse, nil
}

var hundred = decimal.NewFromInt(100)
