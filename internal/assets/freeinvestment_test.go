package assets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

func testLifeInsurance() *FreeInvestment {
	f := &FreeInvestment{
		Name:              "av-lionel",
		Ownership:         ownership.NewFullOwnership("lionel"),
		Kind:              LifeInsurance,
		RateKind:          Contractual,
		ContractualRate:   decimal.NewFromFloat(2),
		FirstYear:         2020,
		InitialInvestment: decimal.NewFromInt(80000),
		InitialInterests:  decimal.NewFromInt(20000),
	}
	f.ResetCurrentState()
	return f
}

func TestFreeInvestmentInterestRate(t *testing.T) {
	t.Run("contractual rate ignores the market", func(t *testing.T) {
		f := testLifeInsurance()
		rate := f.InterestRate(decimal.NewFromFloat(1), decimal.NewFromFloat(8))
		assert.True(t, rate.Equal(decimal.NewFromFloat(2)))
	})

	t.Run("market split weighs the two rates", func(t *testing.T) {
		f := &FreeInvestment{
			RateKind:      MarketSplit,
			StockFraction: decimal.NewFromInt(40),
		}
		rate := f.InterestRate(decimal.NewFromFloat(1), decimal.NewFromFloat(6))
		// 0.6*1 + 0.4*6
		assert.True(t, rate.Equal(decimal.NewFromFloat(3)), "got %s", rate)
	})
}

func TestCapitalizeAtEndOf(t *testing.T) {
	f := testLifeInsurance()

	require.NoError(t, f.CapitalizeAtEndOf(2020, decimal.NewFromFloat(2)))
	state := f.CurrentState()
	assert.Equal(t, 2020, state.Year)
	// 100000 * 2% = 2000 of new interests
	assert.True(t, state.Interests.Equal(decimal.NewFromInt(22000)), "got %s", state.Interests)
	assert.True(t, state.Value().Equal(decimal.NewFromInt(102000)))

	t.Run("skipping a year is rejected", func(t *testing.T) {
		err := f.CapitalizeAtEndOf(2022, decimal.NewFromFloat(2))
		var illegal *IllegalOperationError
		assert.ErrorAs(t, err, &illegal)
	})
}

func TestDepositAndWithdraw(t *testing.T) {
	f := testLifeInsurance()

	f.Deposit(decimal.NewFromInt(10000))
	assert.True(t, f.CurrentState().Value().Equal(decimal.NewFromInt(110000)))

	t.Run("withdrawal splits capital and interests proportionally", func(t *testing.T) {
		f := testLifeInsurance()
		// interests are 20% of the balance
		taken, interests := f.Withdraw(decimal.NewFromInt(10000))
		assert.True(t, taken.Equal(decimal.NewFromInt(10000)))
		assert.True(t, interests.Equal(decimal.NewFromInt(2000)), "got %s", interests)

		state := f.CurrentState()
		assert.True(t, state.Investment.Equal(decimal.NewFromInt(72000)))
		assert.True(t, state.Interests.Equal(decimal.NewFromInt(18000)))
	})

	t.Run("withdrawal clamps to the balance", func(t *testing.T) {
		f := testLifeInsurance()
		taken, _ := f.Withdraw(decimal.NewFromInt(500000))
		assert.True(t, taken.Equal(decimal.NewFromInt(100000)))
		assert.True(t, f.CurrentState().Value().IsZero())
	})
}

func TestResetCurrentStateRestoresTheInitialState(t *testing.T) {
	f := testLifeInsurance()
	f.Deposit(decimal.NewFromInt(50000))
	require.NoError(t, f.CapitalizeAtEndOf(2020, decimal.NewFromFloat(2)))

	f.ResetCurrentState()
	state := f.CurrentState()
	// ready to capitalize the opening year again
	assert.Equal(t, 2019, state.Year)
	assert.True(t, state.Value().Equal(decimal.NewFromInt(100000)))
}

func TestResetCurrentStateAtAlignsToTheRun(t *testing.T) {
	f := testLifeInsurance()
	f.ResetCurrentStateAt(2024)
	assert.Equal(t, 2023, f.CurrentState().Year)

	later := &FreeInvestment{Name: "pea", Kind: PEA, FirstYear: 2030,
		InitialInvestment: decimal.NewFromInt(1000)}
	later.ResetCurrentStateAt(2024)
	assert.Equal(t, 2029, later.CurrentState().Year)
}

func TestFreeInvestmentValueWithMethod(t *testing.T) {
	lifeInsurance := testLifeInsurance()
	pea := &FreeInvestment{
		Name:              "pea-lionel",
		Kind:              PEA,
		FirstYear:         2020,
		InitialInvestment: decimal.NewFromInt(30000),
	}
	pea.ResetCurrentState()

	tests := []struct {
		name     string
		asset    *FreeInvestment
		method   EvaluationMethod
		expected decimal.Decimal
	}{
		{
			name:     "life insurance outside the civil estate",
			asset:    lifeInsurance,
			method:   LegalSuccession,
			expected: decimal.Zero,
		},
		{
			name:     "life insurance counted by the insurance succession",
			asset:    lifeInsurance,
			method:   LifeInsuranceSuccession,
			expected: decimal.NewFromInt(100000),
		},
		{
			name:     "pea inside the civil estate",
			asset:    pea,
			method:   LegalSuccession,
			expected: decimal.NewFromInt(30000),
		},
		{
			name:     "pea outside the insurance succession",
			asset:    pea,
			method:   LifeInsuranceSuccession,
			expected: decimal.Zero,
		},
		{
			name:     "financial assets are not ifi taxable",
			asset:    lifeInsurance,
			method:   IFI,
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.asset.ValueWithMethod(2022, tt.method)
			assert.True(t, got.Equal(tt.expected), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestPatrimoinNetWorth(t *testing.T) {
	pat := &Patrimoin{
		RealEstates: []*RealEstateAsset{{
			Name:     "home",
			BuyYear:  2010,
			BuyPrice: decimal.NewFromInt(300000),
		}},
		FreeInvestments: []*FreeInvestment{testLifeInsurance()},
		Loans: []*Loan{{
			Name:        "mortgage",
			LoanedValue: decimal.NewFromInt(100000),
			FirstYear:   2020,
			LastYear:    2029,
		}},
	}

	// 300000 + 100000 - 5 remaining annuities of 10000
	expected := decimal.NewFromInt(350000)
	got := pat.NetWorth(2024)
	assert.True(t, got.Equal(expected), "expected %s, got %s", expected, got)
}

func TestPatrimoinOwnedValue(t *testing.T) {
	pat := &Patrimoin{
		RealEstates: []*RealEstateAsset{{
			Name:      "home",
			Ownership: ownership.NewFullOwnership("lionel", "vanessa"),
			BuyYear:   2010,
			BuyPrice:  decimal.NewFromInt(200000),
		}},
	}
	ctx := EvaluationContext{
		Ages:         fixedAges{"lionel": 60, "vanessa": 56},
		Demembrement: ownership.DefaultDemembrementTable(),
	}

	value, err := pat.OwnedValue("lionel", 2024, Patrimonial, ctx)
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(100000)), "got %s", value)
}

// fixedAges stubs the family for valuation tests.
type fixedAges map[string]int

func (f fixedAges) AgeOf(name string, atEndOf int) (int, bool) {
	age, ok := f[name]
	return age, ok
}
