package simulation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/succession"
)

// RunState tracks the lifecycle of one simulation run.
type RunState int

const (
	NotStarted RunState = iota
	Running
	Completed
	Failed
)

func (s RunState) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// CashFlowError reports a year where liquidities could not cover the
// net cash-flow deficit. It fails the run, not the batch.
type CashFlowError struct {
	Year        int
	MissingCash decimal.Decimal
}

func (e *CashFlowError) Error() string {
	return fmt.Sprintf("not enough cash in %d: missing %s", e.Year, e.MissingCash.StringFixed(2))
}

// NamedValue is one labelled amount in a yearly table.
type NamedValue struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// CashFlowLine is the income statement of one simulated year.
type CashFlowLine struct {
	Year     int          `json:"year"`
	Revenues []NamedValue `json:"revenues"`
	Expenses []NamedValue `json:"expenses"`
	Taxes    []NamedValue `json:"taxes"`
	// NetCashFlow is revenues minus expenses and taxes, before any
	// investment or withdrawal.
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`
	// Invested is the surplus routed to free investments.
	Invested decimal.Decimal `json:"invested"`
	// Withdrawn is the gross amount taken from free investments to
	// cover a deficit.
	Withdrawn decimal.Decimal `json:"withdrawn"`
}

// TotalRevenue sums the revenue entries.
func (l CashFlowLine) TotalRevenue() decimal.Decimal {
	return sumNamed(l.Revenues)
}

// TotalExpenses sums the expense entries.
func (l CashFlowLine) TotalExpenses() decimal.Decimal {
	return sumNamed(l.Expenses)
}

// TotalTaxes sums the tax entries.
func (l CashFlowLine) TotalTaxes() decimal.Decimal {
	return sumNamed(l.Taxes)
}

func sumNamed(values []NamedValue) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.Value)
	}
	return total
}

// BalanceSheetLine is the household balance sheet at the end of one
// simulated year. Liability values are negative.
type BalanceSheetLine struct {
	Year     int             `json:"year"`
	Assets   []NamedValue    `json:"assets"`
	NetWorth decimal.Decimal `json:"net_worth"`
}

// RunResult is the full outcome of one simulation run.
type RunResult struct {
	FirstYear     int                     `json:"first_year"`
	LastYear      int                     `json:"last_year"`
	State         RunState                `json:"state"`
	CashFlows     []CashFlowLine          `json:"cash_flows"`
	BalanceSheets []BalanceSheetLine      `json:"balance_sheets"`
	Successions   []succession.Succession `json:"successions,omitempty"`
	KPIs          KPIResults              `json:"kpis"`
	// FailureYear is set when State is Failed.
	FailureYear int    `json:"failure_year,omitempty"`
	Failure     string `json:"failure,omitempty"`
}
