// Package family models the household consumed by the simulation: adults
// with work income, retirement and pension-liquidation dates and an optional
// dependency window, and children counted in the fiscal household. Dates of
// death can be randomized from a life-expectancy distribution.
package family

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/random"
)

// Person is a member of the family. The year of death is resolved per run:
// deterministic mode uses the distribution's expectation, random mode draws
// from it. A person with no sampler dies at the configured expected age.
type Person struct {
	Name               string    `yaml:"name" json:"name"`
	BirthDate          time.Time `yaml:"birth_date" json:"birth_date"`
	ExpectedAgeOfDeath int       `yaml:"expected_age_of_death" json:"expected_age_of_death"`

	deathSampler *random.DiscreteSampler
	ageOfDeath   int
}

// SetDeathAgeSampler attaches a life-expectancy distribution.
func (p *Person) SetDeathAgeSampler(s *random.DiscreteSampler) { p.deathSampler = s }

// DeathAgeSampler returns the attached distribution, nil when none.
func (p *Person) DeathAgeSampler() *random.DiscreteSampler { return p.deathSampler }

// SampleDeath resolves the age of death for the coming run.
func (p *Person) SampleDeath(mode random.Mode) {
	if p.deathSampler == nil {
		p.ageOfDeath = p.ExpectedAgeOfDeath
		return
	}
	if mode == random.Random {
		p.ageOfDeath = int(p.deathSampler.Next())
		return
	}
	p.ageOfDeath = int(p.deathSampler.Value(random.Deterministic))
}

// SetDeathAge forces the age of death, for replaying a recorded run.
func (p *Person) SetDeathAge(age int) {
	p.ageOfDeath = age
	if p.deathSampler != nil {
		p.deathSampler.SetRandomValue(float64(age))
	}
}

// AgeOfDeath returns the age of death resolved for the current run.
func (p *Person) AgeOfDeath() int {
	if p.ageOfDeath == 0 {
		return p.ExpectedAgeOfDeath
	}
	return p.ageOfDeath
}

// YearOfDeath is the calendar year during which the person dies.
func (p *Person) YearOfDeath() int {
	return p.BirthDate.Year() + p.AgeOfDeath()
}

// AgeAtEndOf returns the age reached at the end of the year.
func (p *Person) AgeAtEndOf(year int) int {
	return year - p.BirthDate.Year()
}

// IsAlive reports whether the person is still alive at the end of the year.
// Death occurs at an unspecified point during YearOfDeath, so the person is
// no longer alive at that year's end.
func (p *Person) IsAlive(atEndOf int) bool {
	return atEndOf < p.YearOfDeath()
}

// WorkIncomeKind discriminates the work-income variants.
type WorkIncomeKind string

const (
	// Salary is net yearly salary before income tax.
	Salary WorkIncomeKind = "salary"
	// TurnOver is yearly revenue of an unincorporated activity (BNC).
	TurnOver WorkIncomeKind = "turnover"
)

// WorkIncome is a tagged union over the income variants, discriminated by
// an explicit kind field.
type WorkIncome struct {
	Kind   WorkIncomeKind  `yaml:"kind" json:"kind"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
}

// Adult is a person with an economic life cycle: work until retirement,
// optional unemployment spell, pension from liquidation, and an optional
// dependency window before death.
type Adult struct {
	Person `yaml:",inline"`

	RetirementYear         int             `yaml:"retirement_year" json:"retirement_year"`
	PensionLiquidationYear int             `yaml:"pension_liquidation_year" json:"pension_liquidation_year"`
	PensionBrut            decimal.Decimal `yaml:"pension_brut" json:"pension_brut"`
	Income                 WorkIncome      `yaml:"income" json:"income"`

	// LayoffYear, when non-zero, ends salary that year; unemployment
	// compensation bridges until retirement within the allowed duration.
	LayoffYear int `yaml:"layoff_year,omitempty" json:"layoff_year,omitempty"`
	// SeniorityYears at layoff, for the compensation tables.
	SeniorityYears int `yaml:"seniority_years,omitempty" json:"seniority_years,omitempty"`

	// AgeOfDependency marks the start of the dependency window; zero means
	// no dependency before death.
	AgeOfDependency int `yaml:"age_of_dependency,omitempty" json:"age_of_dependency,omitempty"`
}

// IsRetired reports whether the adult is retired during the year.
func (a *Adult) IsRetired(during int) bool {
	return during >= a.RetirementYear
}

// ReceivesPension reports whether the pension is being served during the
// year.
func (a *Adult) ReceivesPension(during int) bool {
	return during >= a.PensionLiquidationYear && a.IsAlive(during-1)
}

// IsLaidOff reports whether the adult is between layoff and retirement.
func (a *Adult) IsLaidOff(during int) bool {
	return a.LayoffYear != 0 && during >= a.LayoffYear && during < a.RetirementYear
}

// IsDependent reports whether the adult is in the dependency window.
func (a *Adult) IsDependent(during int) bool {
	return a.AgeOfDependency > 0 &&
		a.AgeAtEndOf(during) >= a.AgeOfDependency &&
		a.IsAlive(during-1)
}

// WorksDuring reports whether work income is received during the year.
func (a *Adult) WorksDuring(year int) bool {
	if !a.IsAlive(year - 1) {
		return false
	}
	if a.LayoffYear != 0 && year >= a.LayoffYear {
		return false
	}
	return year < a.RetirementYear
}

// Child is a person counted in the fiscal household while a minor.
type Child struct {
	Person `yaml:",inline"`
}

// IsFiscallyDependent reports whether the child counts toward the family
// quotient during the year (under 18 at year end, per the model's
// simplification, and alive).
func (c *Child) IsFiscallyDependent(during int) bool {
	return c.IsAlive(during-1) && c.AgeAtEndOf(during) < 18
}
