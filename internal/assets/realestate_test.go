package assets

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionelmichaud/patrimoine/internal/fiscal"
	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

func capitalGainsModel(t *testing.T) *fiscal.RealEstateCapitalGainsModel {
	t.Helper()
	m := fiscal.DefaultModel()
	require.NoError(t, m.Initialize())
	return &m.RealEstateCapitalGains
}

func TestYearSpanContains(t *testing.T) {
	span := YearSpan{From: 2020, To: 2025}
	assert.True(t, span.Contains(2020))
	assert.True(t, span.Contains(2025))
	assert.False(t, span.Contains(2026))
	assert.False(t, (YearSpan{}).Contains(2020), "zero span never contains")
}

func TestRealEstateValue(t *testing.T) {
	home := RealEstateAsset{
		Name:        "apartment",
		Ownership:   ownership.NewFullOwnership("lionel"),
		BuyYear:     2010,
		BuyPrice:    decimal.NewFromInt(80000),
		MarketValue: decimal.NewFromInt(100000),
		SellYear:    2035,
	}

	assert.True(t, home.Value(2009).IsZero(), "not owned before purchase")
	assert.True(t, home.Value(2020).Equal(decimal.NewFromInt(100000)))
	assert.True(t, home.Value(2035).IsZero(), "sold during the sale year")
}

func TestRealEstateValueWithMethod(t *testing.T) {
	asset := RealEstateAsset{
		Name:       "apartment",
		Ownership:  ownership.NewFullOwnership("lionel"),
		BuyYear:    2010,
		BuyPrice:   decimal.NewFromInt(100000),
		Inhabited:  YearSpan{From: 2010, To: 2024},
		Rented:     YearSpan{From: 2025, To: 2040},
		YearlyRent: decimal.NewFromInt(6000),
	}

	tests := []struct {
		name     string
		year     int
		method   EvaluationMethod
		expected decimal.Decimal
	}{
		{
			name:     "ifi discounts an occupied home by 30 percent",
			year:     2020,
			method:   IFI,
			expected: decimal.NewFromInt(70000),
		},
		{
			name:     "ifi discounts a rented home by 20 percent",
			year:     2030,
			method:   IFI,
			expected: decimal.NewFromInt(80000),
		},
		{
			name:     "legal succession discounts an occupied home by 20 percent",
			year:     2020,
			method:   LegalSuccession,
			expected: decimal.NewFromInt(80000),
		},
		{
			name:     "legal succession does not discount a rented home",
			year:     2030,
			method:   LegalSuccession,
			expected: decimal.NewFromInt(100000),
		},
		{
			name:     "real estate is outside life-insurance successions",
			year:     2020,
			method:   LifeInsuranceSuccession,
			expected: decimal.Zero,
		},
		{
			name:     "patrimonial value is undiscounted",
			year:     2020,
			method:   Patrimonial,
			expected: decimal.NewFromInt(100000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := asset.ValueWithMethod(tt.year, tt.method)
			assert.True(t, got.Equal(tt.expected), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestRealEstateYearlyRevenue(t *testing.T) {
	asset := RealEstateAsset{
		Name:       "studio",
		BuyYear:    2015,
		BuyPrice:   decimal.NewFromInt(120000),
		Rented:     YearSpan{From: 2018, To: 2030},
		YearlyRent: decimal.NewFromInt(7200),
	}

	assert.True(t, asset.YearlyRevenue(2020).Equal(decimal.NewFromInt(7200)))
	assert.True(t, asset.YearlyRevenue(2016).IsZero(), "not rented yet")
	assert.True(t, asset.YearlyRevenue(2031).IsZero())
}

func TestRealEstateLiquidatedValue(t *testing.T) {
	cg := capitalGainsModel(t)
	asset := RealEstateAsset{
		Name:      "studio",
		BuyYear:   2020,
		BuyPrice:  decimal.NewFromInt(100000),
		SellYear:  2023,
		SellPrice: decimal.NewFromInt(150000),
	}

	t.Run("outside the sale year", func(t *testing.T) {
		proceeds, err := asset.LiquidatedValue(2022, cg)
		require.NoError(t, err)
		assert.True(t, proceeds.Revenue.IsZero())
	})

	t.Run("sale year, short holding fully taxed", func(t *testing.T) {
		proceeds, err := asset.LiquidatedValue(2023, cg)
		require.NoError(t, err)
		assert.True(t, proceeds.Revenue.Equal(decimal.NewFromInt(150000)))
		assert.True(t, proceeds.CapitalGain.Equal(decimal.NewFromInt(50000)))
		assert.True(t, proceeds.IrppTax.Equal(decimal.NewFromInt(9500)), "19 percent, got %s", proceeds.IrppTax)
		assert.True(t, proceeds.SocialTax.Equal(decimal.NewFromInt(8600)), "17.2 percent, got %s", proceeds.SocialTax)
		assert.True(t, proceeds.Net.Equal(decimal.NewFromInt(131900)), "got %s", proceeds.Net)
	})
}

func TestSCPI(t *testing.T) {
	scpi := SCPI{
		Name:         "corum",
		Ownership:    ownership.NewFullOwnership("lionel"),
		BuyYear:      2019,
		BuyPrice:     decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromFloat(3.56),
		RevaluRate:   decimal.NewFromInt(-10),
	}

	t.Run("share value devalues each year", func(t *testing.T) {
		// 1000 * 0.9 after one year
		assert.True(t, scpi.Value(2020).Equal(decimal.NewFromInt(900)), "got %s", scpi.Value(2020))
		assert.True(t, scpi.Value(2019).Equal(decimal.NewFromInt(1000)))
		assert.True(t, scpi.Value(2018).IsZero())
	})

	t.Run("revenue nets the devaluation out of the served rate", func(t *testing.T) {
		expected := decimal.NewFromInt(1000).
			Mul(decimal.NewFromFloat(3.56).Add(decimal.NewFromInt(-10))).
			Div(decimal.NewFromInt(100))
		got := scpi.YearlyRevenue(2020)
		assert.True(t, got.Equal(expected), "expected %s, got %s", expected, got)
		assert.True(t, got.IsNegative(), "devaluation exceeds the served rate")
	})
}

func TestSCPILiquidatedValue(t *testing.T) {
	cg := capitalGainsModel(t)
	scpi := SCPI{
		Name:         "primovie",
		BuyYear:      2015,
		BuyPrice:     decimal.NewFromInt(50000),
		InterestRate: decimal.NewFromFloat(4.5),
		RevaluRate:   decimal.NewFromInt(1),
		SellYear:     2025,
	}

	proceeds, err := scpi.LiquidatedValue(2025, cg)
	require.NoError(t, err)
	assert.True(t, proceeds.Revenue.IsPositive())
	assert.True(t, proceeds.CapitalGain.IsPositive(), "1 percent yearly revaluation over ten years")
	assert.True(t, proceeds.Net.Equal(proceeds.Revenue.Sub(proceeds.IrppTax).Sub(proceeds.SocialTax)))

	empty, err := scpi.LiquidatedValue(2024, cg)
	require.NoError(t, err)
	assert.True(t, empty.Revenue.IsZero())
}

func TestSCIAggregatesItsShares(t *testing.T) {
	m := fiscal.DefaultModel()
	require.NoError(t, m.Initialize())

	sci := SCI{
		Name:      "sci-family",
		Ownership: ownership.NewFullOwnership("lionel", "vanessa"),
		SCPIs: []*SCPI{
			{Name: "a", BuyYear: 2020, BuyPrice: decimal.NewFromInt(100000), InterestRate: decimal.NewFromFloat(4), RevaluRate: decimal.Zero},
			{Name: "b", BuyYear: 2020, BuyPrice: decimal.NewFromInt(50000), InterestRate: decimal.NewFromFloat(5), RevaluRate: decimal.Zero},
		},
	}

	assert.True(t, sci.Value(2022).Equal(decimal.NewFromInt(150000)))

	net, tax, err := sci.YearlyRevenue(2022, &m.CompanyProfitTax)
	require.NoError(t, err)
	// brut 4000 + 2500 = 6500, reduced IS rate 15 percent
	assert.True(t, tax.Equal(decimal.NewFromFloat(975)), "got %s", tax)
	assert.True(t, net.Equal(decimal.NewFromFloat(5525)), "got %s", net)
}
