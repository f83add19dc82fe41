package succession

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/assets"
	"github.com/lionelmichaud/patrimoine/internal/family"
	"github.com/lionelmichaud/patrimoine/internal/fiscal"
)

// Engine computes successions over the loaded fiscal model. It never
// mutates ownership; transferring is the caller's next step.
type Engine struct {
	Fiscal *fiscal.Model
	Ctx    assets.EvaluationContext
}

// NewEngine builds a succession engine.
func NewEngine(fiscalModel *fiscal.Model, ctx assets.EvaluationContext) *Engine {
	return &Engine{Fiscal: fiscalModel, Ctx: ctx}
}

// LegalSuccession computes the civil succession of a decedent dying during
// the given year. Valuations use the end of the prior year, the last fully
// known state. The surviving spouse's share is untaxed; each child's share
// goes through the direct-line abatement and grid. With no spouse and no
// children the inheritance list is empty but the taxable value is still
// reported.
func (e *Engine) LegalSuccession(fam *family.Family, pat *assets.Patrimoin, decedent *family.Adult, year int, option SpouseFiscalOption) (Succession, error) {
	taxable, err := pat.OwnedValue(decedent.Name, year-1, assets.LegalSuccession, e.Ctx)
	if err != nil {
		return Succession{}, fmt.Errorf("legal succession of %q: %w", decedent.Name, err)
	}

	succession := Succession{
		Kind:         Legal,
		YearOfDeath:  year,
		DecedentName: decedent.Name,
		TaxableValue: taxable,
	}

	spouse := fam.SpouseOf(decedent)
	spouseAlive := spouse != nil && spouse.IsAlive(year)
	children := fam.ChildrenAlive(year)

	if !spouseAlive && len(children) == 0 {
		return succession, nil
	}

	forChild, forSpouse := one, decimal.Zero
	if spouseAlive {
		spouseAge := spouse.AgeAtEndOf(year)
		forChild, forSpouse, err = option.SharedValues(len(children), spouseAge, e.Ctx.Demembrement)
		if err != nil {
			return Succession{}, fmt.Errorf("legal succession of %q: %w", decedent.Name, err)
		}
	} else if len(children) > 0 {
		forChild = one.Div(decimal.NewFromInt(int64(len(children))))
	}

	if spouseAlive {
		brut := taxable.Mul(forSpouse)
		succession.Inheritances = append(succession.Inheritances, Inheritance{
			PersonName: spouse.Name,
			Percent:    forSpouse,
			Brut:       brut,
			Net:        brut,
			Tax:        decimal.Zero,
		})
	}

	for _, child := range children {
		brut := taxable.Mul(forChild)
		net, tax, err := e.Fiscal.InheritanceDonation.HeritageOfChild(brut)
		if err != nil {
			return Succession{}, fmt.Errorf("legal succession of %q, child %q: %w", decedent.Name, child.Name, err)
		}
		succession.Inheritances = append(succession.Inheritances, Inheritance{
			PersonName: child.Name,
			Percent:    forChild,
			Brut:       brut,
			Net:        net,
			Tax:        tax,
		})
	}

	return succession, nil
}

// LifeInsuranceSuccession computes the succession of the decedent's
// life-insurance capitals, valued at the end of the prior year. Shares
// follow each policy's beneficiary clause; the per-beneficiary abatement
// applies once across all policies, and spouse beneficiaries are exempt.
func (e *Engine) LifeInsuranceSuccession(fam *family.Family, pat *assets.Patrimoin, decedent *family.Adult, year int) (Succession, error) {
	succession := Succession{
		Kind:         LifeInsurance,
		YearOfDeath:  year,
		DecedentName: decedent.Name,
	}

	spouse := fam.SpouseOf(decedent)
	spouseName := ""
	if spouse != nil && spouse.IsAlive(year) {
		spouseName = spouse.Name
	}

	// Aggregate each beneficiary's brut capital across policies.
	bruts := map[string]decimal.Decimal{}
	var order []string
	credit := func(name string, amount decimal.Decimal) {
		if !amount.IsPositive() {
			return
		}
		if _, seen := bruts[name]; !seen {
			order = append(order, name)
		}
		bruts[name] = bruts[name].Add(amount)
	}

	for _, policy := range pat.FreeInvestments {
		if policy.Kind != assets.LifeInsurance {
			continue
		}
		capital, err := assets.OwnedValue(policy, decedent.Name, year-1, assets.LifeInsuranceSuccession, e.Ctx)
		if err != nil {
			return Succession{}, fmt.Errorf("life insurance succession of %q: %w", decedent.Name, err)
		}
		if !capital.IsPositive() {
			continue
		}
		succession.TaxableValue = succession.TaxableValue.Add(capital)

		clause := policy.Clause
		if clause == nil {
			return Succession{}, fmt.Errorf("life insurance %q has no beneficiary clause", policy.Name)
		}
		if clause.IsDismembered {
			// The usufruct recipient is valued with the demembrement
			// split at their age; bare recipients share the rest.
			usufructPct, _, err := e.Ctx.Demembrement.Shares(ageOf(fam, clause.UsufructRecipient, year))
			if err != nil {
				return Succession{}, fmt.Errorf("life insurance %q clause: %w", policy.Name, err)
			}
			usufructPart := capital.Mul(usufructPct).Div(hundred)
			credit(clause.UsufructRecipient, usufructPart)
			if n := len(clause.BareRecipients); n > 0 {
				each := capital.Sub(usufructPart).Div(decimal.NewFromInt(int64(n)))
				for _, name := range clause.BareRecipients {
					credit(name, each)
				}
			}
			continue
		}
		if n := len(clause.FullRecipients); n > 0 {
			each := capital.Div(decimal.NewFromInt(int64(n)))
			for _, name := range clause.FullRecipients {
				credit(name, each)
			}
		}
	}

	for _, name := range order {
		brut := bruts[name]
		net, tax, err := e.Fiscal.LifeInsuranceInheritance.TaxOfBeneficiary(brut, name == spouseName)
		if err != nil {
			return Succession{}, fmt.Errorf("life insurance succession of %q, beneficiary %q: %w", decedent.Name, name, err)
		}
		percent := decimal.Zero
		if succession.TaxableValue.IsPositive() {
			percent = brut.Div(succession.TaxableValue)
		}
		succession.Inheritances = append(succession.Inheritances, Inheritance{
			PersonName: name,
			Percent:    percent,
			Brut:       brut,
			Net:        net,
			Tax:        tax,
		})
	}

	return succession, nil
}

func ageOf(fam *family.Family, name string, year int) int {
	if age, ok := fam.AgeOf(name, year); ok {
		return age
	}
	return 0
}

// TransferAll rewrites the ownership of every asset and liability after a
// death: life-insurance policies follow their beneficiary clause, all
// other instruments follow the generic devolution rules.
func TransferAll(fam *family.Family, pat *assets.Patrimoin, decedent *family.Adult, year int, option SpouseFiscalOption) error {
	spouse := fam.SpouseOf(decedent)
	spouseName := ""
	if spouse != nil && spouse.IsAlive(year) {
		spouseName = spouse.Name
	}
	childrenNames := fam.ChildrenNames(year)

	for _, policy := range pat.FreeInvestments {
		if policy.Kind == assets.LifeInsurance {
			if err := TransferLifeInsurance(policy, decedent.Name); err != nil {
				return fmt.Errorf("transfer on death of %q: %w", decedent.Name, err)
			}
		}
	}
	for _, v := range pat.All() {
		if f, ok := v.(*assets.FreeInvestment); ok && f.Kind == assets.LifeInsurance {
			continue
		}
		if err := TransferOwnership(v.GetOwnership(), decedent.Name, spouseName, childrenNames, option); err != nil {
			return fmt.Errorf("transfer on death of %q, asset %q: %w", decedent.Name, v.GetName(), err)
		}
	}
	return nil
}
