// Package ownership models full and dismembered (usufruct / bare) property
// ownership and the age-based valuation split between usufructuary and bare
// owner. Owner fractions are percents; each owner set of a valid Ownership
// sums to 100.
package ownership

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Ownership validation and valuation errors.
var (
	ErrNegativeAge      = errors.New("age cannot be negative")
	ErrInvalidFractions = errors.New("owner fractions must sum to 100")
	ErrUnknownAge       = errors.New("age of owner is unknown")
)

var hundred = decimal.NewFromInt(100)

// Owner is one owner's name and percent share.
type Owner struct {
	Name     string          `yaml:"name" json:"name"`
	Fraction decimal.Decimal `yaml:"fraction" json:"fraction"`
}

// AgeProvider supplies the age of a person at the end of a year. The family
// model implements it; tests use fixed stubs.
type AgeProvider interface {
	AgeOf(name string, atEndOf int) (int, bool)
}

// Ownership describes who owns an asset or liability. When IsDismembered is
// true the usufruct and bare owner sets apply and FullOwners is empty;
// otherwise only FullOwners applies. Fraction sets are independent of each
// other but each internally sums to 100.
type Ownership struct {
	IsDismembered  bool    `yaml:"is_dismembered" json:"is_dismembered"`
	FullOwners     []Owner `yaml:"full_owners,omitempty" json:"full_owners,omitempty"`
	UsufructOwners []Owner `yaml:"usufruct_owners,omitempty" json:"usufruct_owners,omitempty"`
	BareOwners     []Owner `yaml:"bare_owners,omitempty" json:"bare_owners,omitempty"`
}

// NewFullOwnership builds a non-dismembered ownership shared equally among
// the given owners.
func NewFullOwnership(names ...string) Ownership {
	if len(names) == 0 {
		return Ownership{}
	}
	share := hundred.Div(decimal.NewFromInt(int64(len(names))))
	owners := make([]Owner, len(names))
	for i, n := range names {
		owners[i] = Owner{Name: n, Fraction: share}
	}
	return Ownership{FullOwners: owners}
}

// Clone deep-copies the owner sets, so a transfer on the copy leaves the
// original untouched.
func (o Ownership) Clone() Ownership {
	clone := o
	clone.FullOwners = append([]Owner(nil), o.FullOwners...)
	clone.UsufructOwners = append([]Owner(nil), o.UsufructOwners...)
	clone.BareOwners = append([]Owner(nil), o.BareOwners...)
	return clone
}

func sumFractions(owners []Owner) decimal.Decimal {
	s := decimal.Zero
	for _, o := range owners {
		s = s.Add(o.Fraction)
	}
	return s
}

func fractionsSumTo100(owners []Owner) bool {
	epsilon := decimal.NewFromFloat(0.0001)
	return sumFractions(owners).Sub(hundred).Abs().LessThan(epsilon)
}

// Validate checks the 100 % invariant on every applicable owner set.
func (o Ownership) Validate() error {
	if o.IsDismembered {
		if !fractionsSumTo100(o.UsufructOwners) {
			return fmt.Errorf("usufruct owners sum to %s: %w", sumFractions(o.UsufructOwners), ErrInvalidFractions)
		}
		if !fractionsSumTo100(o.BareOwners) {
			return fmt.Errorf("bare owners sum to %s: %w", sumFractions(o.BareOwners), ErrInvalidFractions)
		}
		return nil
	}
	if !fractionsSumTo100(o.FullOwners) {
		return fmt.Errorf("full owners sum to %s: %w", sumFractions(o.FullOwners), ErrInvalidFractions)
	}
	return nil
}

func fractionOf(name string, owners []Owner) decimal.Decimal {
	f := decimal.Zero
	for _, o := range owners {
		if o.Name == name {
			f = f.Add(o.Fraction)
		}
	}
	return f
}

// IsAFullOwner reports whether name holds a full-ownership share.
func (o Ownership) IsAFullOwner(name string) bool {
	return !o.IsDismembered && fractionOf(name, o.FullOwners).IsPositive()
}

// IsAnUsufructOwner reports whether name holds a usufruct share.
func (o Ownership) IsAnUsufructOwner(name string) bool {
	return o.IsDismembered && fractionOf(name, o.UsufructOwners).IsPositive()
}

// IsABareOwner reports whether name holds a bare-ownership share.
func (o Ownership) IsABareOwner(name string) bool {
	return o.IsDismembered && fractionOf(name, o.BareOwners).IsPositive()
}

// HasAnOwner reports whether name appears in any owner set.
func (o Ownership) HasAnOwner(name string) bool {
	return o.IsAFullOwner(name) || o.IsAnUsufructOwner(name) || o.IsABareOwner(name)
}

// DemembrementValues splits a total value between the usufruct and bare
// sides, each usufructuary's slice valued with the age table at the end of
// the given year.
func (o Ownership) DemembrementValues(total decimal.Decimal, atEndOf int, ages AgeProvider, table DemembrementTable) (usufructValue, bareValue decimal.Decimal, err error) {
	usufructValue = decimal.Zero
	for _, u := range o.UsufructOwners {
		age, ok := ages.AgeOf(u.Name, atEndOf)
		if !ok {
			return decimal.Zero, decimal.Zero, fmt.Errorf("usufructuary %q: %w", u.Name, ErrUnknownAge)
		}
		usufructPct, _, err := table.Shares(age)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		usufructValue = usufructValue.Add(total.Mul(u.Fraction).Div(hundred).Mul(usufructPct).Div(hundred))
	}
	return usufructValue, total.Sub(usufructValue), nil
}

// OwnedValue computes the fraction of total owned by name at the end of a
// year, applying the demembrement age split when the ownership is
// dismembered.
func (o Ownership) OwnedValue(name string, total decimal.Decimal, atEndOf int, ages AgeProvider, table DemembrementTable) (decimal.Decimal, error) {
	if !o.IsDismembered {
		return total.Mul(fractionOf(name, o.FullOwners)).Div(hundred), nil
	}
	usufructTotal, bareTotal, err := o.DemembrementValues(total, atEndOf, ages, table)
	if err != nil {
		return decimal.Zero, err
	}
	owned := decimal.Zero
	if f := fractionOf(name, o.UsufructOwners); f.IsPositive() {
		owned = owned.Add(usufructTotal.Mul(f).Div(hundred))
	}
	if f := fractionOf(name, o.BareOwners); f.IsPositive() {
		owned = owned.Add(bareTotal.Mul(f).Div(hundred))
	}
	return owned, nil
}
