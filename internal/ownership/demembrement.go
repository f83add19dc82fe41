package ownership

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DemembrementSlice maps usufructuary ages at or above FloorAge to the
// percent of the full-ownership value attributed to the usufruct. The bare
// ownership gets the complement to 100.
type DemembrementSlice struct {
	FloorAge        int             `json:"floor_age"`
	UsufructPercent decimal.Decimal `json:"usufruct_percent"`
}

// DemembrementTable is the age-based usufruct valuation grid (CGI art. 669
// in the default model data). Slices are ordered by increasing floor age
// and matched on floorAge <= age.
type DemembrementTable []DemembrementSlice

// DefaultDemembrementTable returns the statutory table.
func DefaultDemembrementTable() DemembrementTable {
	pct := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	return DemembrementTable{
		{FloorAge: 0, UsufructPercent: pct(90)},
		{FloorAge: 21, UsufructPercent: pct(80)},
		{FloorAge: 31, UsufructPercent: pct(70)},
		{FloorAge: 41, UsufructPercent: pct(60)},
		{FloorAge: 51, UsufructPercent: pct(50)},
		{FloorAge: 61, UsufructPercent: pct(40)},
		{FloorAge: 71, UsufructPercent: pct(30)},
		{FloorAge: 81, UsufructPercent: pct(20)},
		{FloorAge: 91, UsufructPercent: pct(10)},
	}
}

// Shares returns the usufruct and bare percents for the age of the
// usufructuary. The two always sum to 100. Negative ages are an error.
func (t DemembrementTable) Shares(age int) (usufruct, bare decimal.Decimal, err error) {
	if age < 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("age %d: %w", age, ErrNegativeAge)
	}
	found := -1
	for i := range t {
		if t[i].FloorAge <= age {
			found = i
		} else {
			break
		}
	}
	if found < 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("age %d below first slice: %w", age, ErrNegativeAge)
	}
	u := t[found].UsufructPercent
	return u, hundred.Sub(u), nil
}
