package fiscal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Grid evaluation errors.
var (
	// ErrNotInRightSlice is returned when a value falls outside every slice
	// of a grid that is expected to be total over its domain. It lets callers
	// distinguish "tax is legitimately zero" from "grid misconfigured for
	// this input".
	ErrNotInRightSlice = errors.New("value not in any slice of the grid")

	// ErrNonMonotonicGrid is returned at initialization when slice floors are
	// not strictly increasing. Fatal at load time.
	ErrNonMonotonicGrid = errors.New("grid floors must be strictly increasing")

	// ErrNegativeDuration is returned by discount grids for a negative
	// holding duration.
	ErrNegativeDuration = errors.New("holding duration cannot be negative")
)

// Slice is one bracket of a progressive rate grid.
//
// Discount is the constant subtracted from floor*rate so that the fast
// formula tax = x*rate - discount is continuous across brackets. Parameter
// documents may either provide the discounts explicitly or leave them all at
// zero, in which case Initialize derives them from the rates.
type Slice struct {
	Floor    decimal.Decimal `json:"floor"`
	Rate     decimal.Decimal `json:"rate"`
	Discount decimal.Decimal `json:"discount"`
}

// RateGrid is an ordered list of slices with strictly increasing floors,
// evaluated with the fast progressive formula x*rate - discount.
type RateGrid []Slice

// Initialize validates floor monotonicity and, when no slice carries an
// explicit discount, pre-computes the cumulative discounts from the rates.
// Must be called once after decoding, before any evaluation.
func (g RateGrid) Initialize() error {
	if len(g) == 0 {
		return fmt.Errorf("rate grid: %w", ErrNonMonotonicGrid)
	}
	for i := 1; i < len(g); i++ {
		if !g[i].Floor.GreaterThan(g[i-1].Floor) {
			return fmt.Errorf("rate grid slice %d (floor %s): %w", i, g[i].Floor, ErrNonMonotonicGrid)
		}
	}
	allZero := true
	for i := range g {
		if !g[i].Discount.IsZero() {
			allZero = false
			break
		}
	}
	if allZero {
		for i := 1; i < len(g); i++ {
			delta := g[i].Rate.Sub(g[i-1].Rate)
			g[i].Discount = g[i-1].Discount.Add(g[i].Floor.Mul(delta))
		}
	}
	return nil
}

// SliceContaining returns the last slice whose floor is strictly below x.
func (g RateGrid) SliceContaining(x decimal.Decimal) (Slice, error) {
	found := -1
	for i := range g {
		if g[i].Floor.LessThan(x) {
			found = i
		} else {
			break
		}
	}
	if found < 0 {
		return Slice{}, fmt.Errorf("value %s: %w", x, ErrNotInRightSlice)
	}
	return g[found], nil
}

// Tax evaluates the progressive formula x*rate - discount for the slice
// containing x. Returns ErrNotInRightSlice when x is at or below the lowest
// floor; callers for which zero is a legitimate answer must guard before
// calling.
func (g RateGrid) Tax(x decimal.Decimal) (decimal.Decimal, error) {
	slice, err := g.SliceContaining(x)
	if err != nil {
		return decimal.Zero, err
	}
	return x.Mul(slice.Rate).Sub(slice.Discount), nil
}

// MarginalRate returns the rate of the slice containing x.
func (g RateGrid) MarginalRate(x decimal.Decimal) (decimal.Decimal, error) {
	slice, err := g.SliceContaining(x)
	if err != nil {
		return decimal.Zero, err
	}
	return slice.Rate, nil
}

// DiscountSlice is one bracket of an exoneration-by-duration grid. Floor is
// a holding duration in years; Rate is the discount fraction earned per year
// above the floor. PrevDiscount is the discount accumulated over all prior
// slices, derived by Initialize.
type DiscountSlice struct {
	Floor        int             `json:"floor"`
	Rate         decimal.Decimal `json:"rate"`
	PrevDiscount decimal.Decimal `json:"-"`
}

// DiscountGrid accumulates a discount fraction slice by slice. It is a
// distinct evaluation mode from RateGrid: the result is a fraction of the
// taxable base to exonerate, not a tax amount.
type DiscountGrid []DiscountSlice

// Initialize validates floor monotonicity and accumulates PrevDiscount
// across slices.
func (g DiscountGrid) Initialize() error {
	if len(g) == 0 {
		return fmt.Errorf("discount grid: %w", ErrNonMonotonicGrid)
	}
	for i := 1; i < len(g); i++ {
		if g[i].Floor <= g[i-1].Floor {
			return fmt.Errorf("discount grid slice %d (floor %d): %w", i, g[i].Floor, ErrNonMonotonicGrid)
		}
	}
	for i := 1; i < len(g); i++ {
		span := decimal.NewFromInt(int64(g[i].Floor - g[i-1].Floor))
		g[i].PrevDiscount = g[i-1].PrevDiscount.Add(g[i-1].Rate.Mul(span))
	}
	return nil
}

// Discount returns the exoneration fraction in [0, 1] earned after the given
// holding duration in years. Slices match on floor <= duration.
func (g DiscountGrid) Discount(duration int) (decimal.Decimal, error) {
	if duration < 0 {
		return decimal.Zero, fmt.Errorf("duration %d: %w", duration, ErrNegativeDuration)
	}
	found := -1
	for i := range g {
		if g[i].Floor <= duration {
			found = i
		} else {
			break
		}
	}
	if found < 0 {
		return decimal.Zero, fmt.Errorf("duration %d: %w", duration, ErrNotInRightSlice)
	}
	s := g[found]
	span := decimal.NewFromInt(int64(duration - s.Floor))
	d := s.PrevDiscount.Add(s.Rate.Mul(span))
	one := decimal.NewFromInt(1)
	if d.GreaterThan(one) {
		d = one
	}
	return d, nil
}
