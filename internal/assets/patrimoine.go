package assets

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// Patrimoin aggregates every asset and liability of the family. It is
// loaded once and read by the simulation every run; the only state mutated
// across years is the free-investment current state, reset before each run.
type Patrimoin struct {
	RealEstates         []*RealEstateAsset    `yaml:"real_estates,omitempty" json:"real_estates,omitempty"`
	SCPIs               []*SCPI               `yaml:"scpis,omitempty" json:"scpis,omitempty"`
	FreeInvestments     []*FreeInvestment     `yaml:"free_investments,omitempty" json:"free_investments,omitempty"`
	PeriodicInvestments []*PeriodicInvestment `yaml:"periodic_investments,omitempty" json:"periodic_investments,omitempty"`
	SCIs                []*SCI                `yaml:"scis,omitempty" json:"scis,omitempty"`
	Debts               []*Debt               `yaml:"debts,omitempty" json:"debts,omitempty"`
	Loans               []*Loan               `yaml:"loans,omitempty" json:"loans,omitempty"`
}

// All returns every asset and liability as valuables, assets first.
func (p *Patrimoin) All() []Valuable {
	var all []Valuable
	for _, a := range p.RealEstates {
		all = append(all, a)
	}
	for _, a := range p.SCPIs {
		all = append(all, a)
	}
	for _, a := range p.FreeInvestments {
		all = append(all, a)
	}
	for _, a := range p.PeriodicInvestments {
		all = append(all, a)
	}
	for _, a := range p.SCIs {
		all = append(all, a)
	}
	for _, l := range p.Debts {
		all = append(all, l)
	}
	for _, l := range p.Loans {
		all = append(all, l)
	}
	return all
}

// Validate checks every ownership invariant.
func (p *Patrimoin) Validate() error {
	for _, v := range p.All() {
		if err := v.GetOwnership().Validate(); err != nil {
			return &IllegalOperationError{Op: "validate " + v.GetName(), Reason: err.Error()}
		}
	}
	return nil
}

// ResetFreeInvestmentStates restores the per-run mutable state of every
// free investment, aligned to the run's first year.
func (p *Patrimoin) ResetFreeInvestmentStates(firstYear int) {
	for _, f := range p.FreeInvestments {
		f.ResetCurrentStateAt(firstYear)
	}
}

// OwnershipSnapshot captures the ownership of every asset and liability,
// in All order. Successions rewrite ownerships in place during a run;
// restoring the snapshot makes runs independent again.
func (p *Patrimoin) OwnershipSnapshot() []ownership.Ownership {
	all := p.All()
	snap := make([]ownership.Ownership, len(all))
	for i, v := range all {
		snap[i] = v.GetOwnership().Clone()
	}
	return snap
}

// RestoreOwnership puts a snapshot taken on the same patrimoine back.
func (p *Patrimoin) RestoreOwnership(snap []ownership.Ownership) error {
	all := p.All()
	if len(snap) != len(all) {
		return &IllegalOperationError{
			Op:     "restore ownership",
			Reason: fmt.Sprintf("snapshot has %d entries for %d valuables", len(snap), len(all)),
		}
	}
	for i, v := range all {
		*v.GetOwnership() = snap[i].Clone()
	}
	return nil
}

// NetWorth is the patrimonial value of everything at the end of the year;
// liabilities contribute negatively.
func (p *Patrimoin) NetWorth(atEndOf int) decimal.Decimal {
	total := decimal.Zero
	for _, v := range p.All() {
		total = total.Add(v.Value(atEndOf))
	}
	return total
}

// OwnedValue sums one person's owned value over the whole patrimoine for a
// valuation method.
func (p *Patrimoin) OwnedValue(name string, atEndOf int, method EvaluationMethod, ctx EvaluationContext) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, v := range p.All() {
		owned, err := OwnedValue(v, name, atEndOf, method, ctx)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(owned)
	}
	return total, nil
}
