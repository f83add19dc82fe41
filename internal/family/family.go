package family

import (
	"fmt"

	"github.com/lionelmichaud/patrimoine/internal/random"
)

// Family aggregates the household members and answers the queries the
// simulation and the succession engine need. It implements the
// ownership.AgeProvider interface.
type Family struct {
	Adults   []*Adult `yaml:"adults" json:"adults"`
	Children []*Child `yaml:"children" json:"children"`
}

// Validate checks the household shape: one or two adults.
func (f *Family) Validate() error {
	if len(f.Adults) == 0 || len(f.Adults) > 2 {
		return fmt.Errorf("family must have one or two adults, has %d", len(f.Adults))
	}
	seen := map[string]bool{}
	for _, m := range f.members() {
		if m.Name == "" {
			return fmt.Errorf("family member without a name")
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate family member name %q", m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

func (f *Family) members() []*Person {
	members := make([]*Person, 0, len(f.Adults)+len(f.Children))
	for _, a := range f.Adults {
		members = append(members, &a.Person)
	}
	for _, c := range f.Children {
		members = append(members, &c.Person)
	}
	return members
}

// Member returns the person with the given name.
func (f *Family) Member(name string) *Person {
	for _, m := range f.members() {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Adult returns the adult with the given name.
func (f *Family) Adult(name string) *Adult {
	for _, a := range f.Adults {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// SpouseOf returns the other adult of the couple, nil for a single adult.
func (f *Family) SpouseOf(adult *Adult) *Adult {
	for _, a := range f.Adults {
		if a != adult {
			return a
		}
	}
	return nil
}

// NbOfAdultsAlive counts the adults alive at the end of the year.
func (f *Family) NbOfAdultsAlive(atEndOf int) int {
	n := 0
	for _, a := range f.Adults {
		if a.IsAlive(atEndOf) {
			n++
		}
	}
	return n
}

// NbOfAdultsAliveDuring counts the adults alive at any point of the year.
// An adult dying during the year still belongs to the fiscal household for
// that year's income tax.
func (f *Family) NbOfAdultsAliveDuring(year int) int {
	return f.NbOfAdultsAlive(year - 1)
}

// NbOfFiscalChildren counts the children attached to the fiscal household
// during the year.
func (f *Family) NbOfFiscalChildren(during int) int {
	n := 0
	for _, c := range f.Children {
		if c.IsFiscallyDependent(during) {
			n++
		}
	}
	return n
}

// ChildrenAlive returns the children alive at the end of the year.
func (f *Family) ChildrenAlive(atEndOf int) []*Child {
	var alive []*Child
	for _, c := range f.Children {
		if c.IsAlive(atEndOf) {
			alive = append(alive, c)
		}
	}
	return alive
}

// ChildrenNames returns the names of children alive at the end of the year.
func (f *Family) ChildrenNames(atEndOf int) []string {
	var names []string
	for _, c := range f.ChildrenAlive(atEndOf) {
		names = append(names, c.Name)
	}
	return names
}

// AgeOf implements ownership.AgeProvider.
func (f *Family) AgeOf(name string, atEndOf int) (int, bool) {
	m := f.Member(name)
	if m == nil {
		return 0, false
	}
	return m.AgeAtEndOf(atEndOf), true
}

// NextRun resolves every member's year of death for a fresh run and returns
// the sampled death ages keyed by member name.
func (f *Family) NextRun(mode random.Mode) map[string]float64 {
	drawn := make(map[string]float64, len(f.Adults)+len(f.Children))
	for _, m := range f.members() {
		m.SampleDeath(mode)
		drawn[m.Name] = float64(m.AgeOfDeath())
	}
	return drawn
}

// SetRandomValues forces every member's death age from a recorded run.
func (f *Family) SetRandomValues(deathAges map[string]float64) {
	for _, m := range f.members() {
		if age, ok := deathAges[m.Name]; ok {
			m.SetDeathAge(int(age))
		}
	}
}

// DeathsDuring returns the adults dying during the given year, in member
// order.
func (f *Family) DeathsDuring(year int) []*Adult {
	var dead []*Adult
	for _, a := range f.Adults {
		if a.YearOfDeath() == year {
			dead = append(dead, a)
		}
	}
	return dead
}
