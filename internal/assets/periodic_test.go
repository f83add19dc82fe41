package assets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPeriodicInvestmentValue(t *testing.T) {
	plan := &PeriodicInvestment{
		Name:          "per",
		Kind:          OtherInvest,
		YearlyPayment: decimal.NewFromInt(1000),
		Rate:          decimal.NewFromInt(2),
		FirstYear:     2020,
		LastYear:      2024,
	}

	t.Run("zero before the first payment", func(t *testing.T) {
		assert.True(t, plan.Value(2019).IsZero())
	})

	t.Run("one payment at the end of the first year", func(t *testing.T) {
		got := plan.Value(2020)
		assert.True(t, got.Equal(decimal.NewFromInt(1000)), "got %s", got)
	})

	t.Run("annuity formula during the window", func(t *testing.T) {
		// 1000 * ((1.02^3 - 1) / 0.02) = 3060.40
		got := plan.Value(2022)
		expected := decimal.NewFromFloat(3060.40)
		assert.True(t, got.Sub(expected).Abs().LessThan(decimal.NewFromFloat(0.01)),
			"expected %s, got %s", expected, got)
	})

	t.Run("keeps capitalizing after the last payment", func(t *testing.T) {
		atLast := plan.Value(2024)
		twoYearsLater := plan.Value(2026)
		expected := atLast.Mul(decimal.NewFromFloat(1.02)).Mul(decimal.NewFromFloat(1.02))
		assert.True(t, twoYearsLater.Sub(expected).Abs().LessThan(decimal.NewFromFloat(0.01)),
			"expected %s, got %s", expected, twoYearsLater)
	})

	t.Run("zero rate sums the payments", func(t *testing.T) {
		flat := &PeriodicInvestment{
			YearlyPayment: decimal.NewFromInt(1000),
			FirstYear:     2020,
			LastYear:      2024,
		}
		assert.True(t, flat.Value(2024).Equal(decimal.NewFromInt(5000)))
	})
}

func TestPeriodicInvestmentYearlyPaymentDuring(t *testing.T) {
	plan := &PeriodicInvestment{
		YearlyPayment: decimal.NewFromInt(1000),
		FirstYear:     2020,
		LastYear:      2024,
	}
	assert.True(t, plan.YearlyPaymentDuring(2019).IsZero())
	assert.True(t, plan.YearlyPaymentDuring(2020).Equal(decimal.NewFromInt(1000)))
	assert.True(t, plan.YearlyPaymentDuring(2024).Equal(decimal.NewFromInt(1000)))
	assert.True(t, plan.YearlyPaymentDuring(2025).IsZero())
}
