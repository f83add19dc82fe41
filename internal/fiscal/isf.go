package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IsfModel computes the real-estate wealth tax (IFI, formerly ISF): a
// progressive grid applied above a liability threshold, with a decote
// smoothing the entry between the threshold and the decote ceiling.
type IsfModel struct {
	Threshold     decimal.Decimal `json:"threshold"`
	DecoteCeiling decimal.Decimal `json:"decote_ceiling"`
	DecoteBase    decimal.Decimal `json:"decote_base"`
	// DecoteRate is a percent of the taxable base subtracted from the
	// decote base.
	DecoteRate decimal.Decimal `json:"decote_rate"`
	Grid       RateGrid        `json:"grid"`
}

// Initialize prepares the bracket grid.
func (m *IsfModel) Initialize() error {
	return m.Grid.Initialize()
}

// ISF returns the wealth tax for a taxable real-estate base. Below the
// threshold the tax is zero.
func (m *IsfModel) ISF(taxable decimal.Decimal) (decimal.Decimal, error) {
	if taxable.LessThan(m.Threshold) {
		return decimal.Zero, nil
	}
	tax, err := m.Grid.Tax(taxable)
	if err != nil {
		return decimal.Zero, fmt.Errorf("isf grid: %w", err)
	}
	if taxable.LessThan(m.DecoteCeiling) {
		decote := m.DecoteBase.Sub(taxable.Mul(m.DecoteRate).Div(hundred))
		if decote.IsPositive() {
			tax = tax.Sub(decote)
		}
	}
	if tax.IsNegative() {
		tax = decimal.Zero
	}
	return tax, nil
}
