package simulation

import (
	"github.com/shopspring/decimal"
)

// ExpenseTimeSpanKind discriminates the expense time-span variants.
type ExpenseTimeSpanKind string

const (
	// Permanent expenses apply every simulated year.
	Permanent ExpenseTimeSpanKind = "permanent"
	// Spanning expenses apply between From and To inclusive.
	Spanning ExpenseTimeSpanKind = "spanning"
	// Starting expenses apply from From on.
	Starting ExpenseTimeSpanKind = "starting"
	// Ending expenses apply until To inclusive.
	Ending ExpenseTimeSpanKind = "ending"
)

// ExpenseTimeSpan is a tagged union over the time-span variants,
// discriminated by an explicit kind field.
type ExpenseTimeSpan struct {
	Kind ExpenseTimeSpanKind `yaml:"kind" json:"kind"`
	From int                 `yaml:"from,omitempty" json:"from,omitempty"`
	To   int                 `yaml:"to,omitempty" json:"to,omitempty"`
}

// Contains reports whether the expense applies during the year.
func (t ExpenseTimeSpan) Contains(year int) bool {
	switch t.Kind {
	case Spanning:
		return year >= t.From && year <= t.To
	case Starting:
		return year >= t.From
	case Ending:
		return year <= t.To
	default:
		return true
	}
}

// LifeExpense is one recurring household expense. Proportional expenses
// scale with the number of persons in the household.
type LifeExpense struct {
	Name         string          `yaml:"name" json:"name"`
	Amount       decimal.Decimal `yaml:"amount" json:"amount"`
	Proportional bool            `yaml:"proportional,omitempty" json:"proportional,omitempty"`
	TimeSpan     ExpenseTimeSpan `yaml:"time_span" json:"time_span"`
}

// Expenses is the household expense table.
type Expenses struct {
	Items []LifeExpense `yaml:"items" json:"items"`
}

// Total sums the expenses applying during the year for a household of the
// given size, majored by the expense under-evaluation rate in percent.
func (e *Expenses) Total(year, nbPersons int, underEvaluationPct decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.Items {
		if !item.TimeSpan.Contains(year) {
			continue
		}
		amount := item.Amount
		if item.Proportional {
			amount = amount.Mul(decimal.NewFromInt(int64(nbPersons)))
		}
		total = total.Add(amount)
	}
	return total.Mul(hundred.Add(underEvaluationPct)).Div(hundred)
}
