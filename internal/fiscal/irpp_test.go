package fiscal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initializedModel(t *testing.T) *Model {
	t.Helper()
	m := DefaultModel()
	require.NoError(t, m.Initialize())
	return m
}

func TestTaxableSalary(t *testing.T) {
	m := initializedModel(t)

	tests := []struct {
		name     string
		salary   decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "standard 10 percent rebate",
			salary:   decimal.NewFromInt(100000),
			expected: decimal.NewFromInt(90000),
		},
		{
			name:     "rebate clamped at the statutory floor",
			salary:   decimal.NewFromInt(2000),
			expected: decimal.NewFromInt(1558),
		},
		{
			name:     "rebate clamped at the statutory cap",
			salary:   decimal.NewFromInt(300000),
			expected: decimal.NewFromInt(287348),
		},
		{
			name:     "negative salary contributes nothing",
			salary:   decimal.NewFromInt(-5000),
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.IRPP.TaxableSalary(tt.salary)
			assert.True(t, got.Equal(tt.expected), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestTaxableTurnOver(t *testing.T) {
	m := initializedModel(t)

	got := m.IRPP.TaxableTurnOver(decimal.NewFromInt(50000))
	assert.True(t, got.Equal(decimal.NewFromInt(33000)), "34 percent rebate, got %s", got)
}

func TestFamilyQuotient(t *testing.T) {
	m := initializedModel(t)

	tests := []struct {
		name       string
		nbAdults   int
		nbChildren int
		expected   decimal.Decimal
	}{
		{name: "single", nbAdults: 1, nbChildren: 0, expected: decimal.NewFromInt(1)},
		{name: "couple", nbAdults: 2, nbChildren: 0, expected: decimal.NewFromInt(2)},
		{name: "couple with two children", nbAdults: 2, nbChildren: 2, expected: decimal.NewFromInt(3)},
		{name: "single with one child", nbAdults: 1, nbChildren: 1, expected: decimal.NewFromFloat(1.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.IRPP.FamilyQuotient(tt.nbAdults, tt.nbChildren)
			assert.True(t, got.Equal(tt.expected), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestIRPP(t *testing.T) {
	m := initializedModel(t)

	t.Run("single adult in the 30 percent bracket", func(t *testing.T) {
		tax, err := m.IRPP.IRPP(decimal.NewFromInt(30000), 1, 0)
		require.NoError(t, err)
		// 30000*0.30 - (10084*0.11 + 25710*0.19)
		expected := decimal.NewFromFloat(3005.86)
		assert.True(t, tax.Equal(expected), "expected %s, got %s", expected, tax)
	})

	t.Run("couple splits the income over two parts", func(t *testing.T) {
		tax, err := m.IRPP.IRPP(decimal.NewFromInt(30000), 2, 0)
		require.NoError(t, err)
		// quotient 15000 in the 11 percent bracket: (15000*0.11 - 1109.24)*2
		expected := decimal.NewFromFloat(1081.52)
		assert.True(t, tax.Equal(expected), "expected %s, got %s", expected, tax)
	})

	t.Run("children quotient gain capped by the child rebate", func(t *testing.T) {
		tax, err := m.IRPP.IRPP(decimal.NewFromInt(200000), 2, 2)
		require.NoError(t, err)
		// Without children: 2*(100000*0.41 - 14080.90) = 53838.20; the
		// quotient gain far exceeds 2*1570, so the cap applies.
		expected := decimal.NewFromFloat(50698.20)
		assert.True(t, tax.Equal(expected), "expected %s, got %s", expected, tax)
	})

	t.Run("modest income keeps the full children benefit", func(t *testing.T) {
		withChildren, err := m.IRPP.IRPP(decimal.NewFromInt(30000), 2, 1)
		require.NoError(t, err)
		withoutChildren, err := m.IRPP.IRPP(decimal.NewFromInt(30000), 2, 0)
		require.NoError(t, err)
		assert.True(t, withChildren.LessThan(withoutChildren))
		gain := withoutChildren.Sub(withChildren)
		assert.True(t, gain.LessThanOrEqual(m.IRPP.ChildRebate), "gain %s under the cap", gain)
	})

	t.Run("no taxable income", func(t *testing.T) {
		tax, err := m.IRPP.IRPP(decimal.Zero, 2, 1)
		require.NoError(t, err)
		assert.True(t, tax.IsZero())
	})

	t.Run("household without adult is rejected", func(t *testing.T) {
		_, err := m.IRPP.IRPP(decimal.NewFromInt(1000), 0, 1)
		assert.Error(t, err)
	})
}

func TestTaxablePension(t *testing.T) {
	m := initializedModel(t)

	tests := []struct {
		name     string
		pension  decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "standard 10 percent rebate",
			pension:  decimal.NewFromInt(10000),
			expected: decimal.NewFromInt(9000),
		},
		{
			name:     "rebate clamped at the cap",
			pension:  decimal.NewFromInt(50000),
			expected: decimal.NewFromInt(46088),
		},
		{
			name:     "rebate clamped at the floor",
			pension:  decimal.NewFromInt(2000),
			expected: decimal.NewFromInt(1606),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Pension.TaxablePension(tt.pension)
			assert.True(t, got.Equal(tt.expected), "expected %s, got %s", tt.expected, got)
		})
	}
}
