package simulation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExpenseTimeSpanContains(t *testing.T) {
	tests := []struct {
		name     string
		span     ExpenseTimeSpan
		year     int
		expected bool
	}{
		{"permanent always applies", ExpenseTimeSpan{Kind: Permanent}, 2050, true},
		{"spanning inside", ExpenseTimeSpan{Kind: Spanning, From: 2024, To: 2030}, 2027, true},
		{"spanning before", ExpenseTimeSpan{Kind: Spanning, From: 2024, To: 2030}, 2023, false},
		{"spanning after", ExpenseTimeSpan{Kind: Spanning, From: 2024, To: 2030}, 2031, false},
		{"starting from", ExpenseTimeSpan{Kind: Starting, From: 2030}, 2030, true},
		{"starting before", ExpenseTimeSpan{Kind: Starting, From: 2030}, 2029, false},
		{"ending until", ExpenseTimeSpan{Kind: Ending, To: 2030}, 2030, true},
		{"ending after", ExpenseTimeSpan{Kind: Ending, To: 2030}, 2031, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.span.Contains(tt.year))
		})
	}
}

func TestExpensesTotal(t *testing.T) {
	expenses := &Expenses{Items: []LifeExpense{
		{Name: "base", Amount: decimal.NewFromInt(12000), TimeSpan: ExpenseTimeSpan{Kind: Permanent}},
		{Name: "food", Amount: decimal.NewFromInt(3000), Proportional: true, TimeSpan: ExpenseTimeSpan{Kind: Permanent}},
		{Name: "studies", Amount: decimal.NewFromInt(8000), TimeSpan: ExpenseTimeSpan{Kind: Spanning, From: 2028, To: 2033}},
	}}

	t.Run("proportional expenses scale with the household", func(t *testing.T) {
		// 12000 + 3*3000
		got := expenses.Total(2024, 3, decimal.Zero)
		assert.True(t, got.Equal(decimal.NewFromInt(21000)), "got %s", got)
	})

	t.Run("spanning expense applies inside its window", func(t *testing.T) {
		got := expenses.Total(2030, 3, decimal.Zero)
		assert.True(t, got.Equal(decimal.NewFromInt(29000)), "got %s", got)
	})

	t.Run("under evaluation majors the total", func(t *testing.T) {
		// 21000 * 1.05
		got := expenses.Total(2024, 3, decimal.NewFromInt(5))
		assert.True(t, got.Equal(decimal.NewFromInt(22050)), "got %s", got)
	})
}

func TestKPIReached(t *testing.T) {
	tests := []struct {
		name     string
		kpi      KPI
		expected bool
	}{
		{"unrecorded never reaches", KPI{Objective: decimal.Zero}, false},
		{"recorded above objective", KPI{Objective: decimal.NewFromInt(1000), Value: decimal.NewFromInt(2000), Recorded: true}, true},
		{"recorded at objective", KPI{Objective: decimal.NewFromInt(1000), Value: decimal.NewFromInt(1000), Recorded: true}, true},
		{"recorded below objective", KPI{Objective: decimal.NewFromInt(1000), Value: decimal.NewFromInt(999), Recorded: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kpi.Reached())
		})
	}
}

func TestKPIResultsRecording(t *testing.T) {
	var results KPIResults

	results.recordNetWorth(decimal.NewFromInt(500000))
	results.recordNetWorth(decimal.NewFromInt(300000))
	results.recordNetWorth(decimal.NewFromInt(400000))
	assert.True(t, results.MinimumNetWorth.Value.Equal(decimal.NewFromInt(300000)))

	results.recordDeath(decimal.NewFromInt(400000), true, false)
	results.recordDeath(decimal.NewFromInt(250000), false, true)
	assert.True(t, results.NetWorthAtFirstDeath.Value.Equal(decimal.NewFromInt(400000)))
	assert.True(t, results.NetWorthAtLastDeath.Value.Equal(decimal.NewFromInt(250000)))
	assert.True(t, results.AllObjectivesReached())
}

func TestCashFlowErrorMessage(t *testing.T) {
	err := &CashFlowError{Year: 2043, MissingCash: decimal.NewFromFloat(1234.56)}
	assert.Equal(t, "not enough cash in 2043: missing 1234.56", err.Error())
}
