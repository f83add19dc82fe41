package simulation

import (
	"github.com/shopspring/decimal"
)

// KPIKind identifies one of the tracked key performance indicators.
type KPIKind string

const (
	// KPIMinimumNetWorth is the lowest household net worth over the run.
	KPIMinimumNetWorth KPIKind = "minimum_net_worth"
	// KPINetWorthAtFirstDeath is the net worth at the end of the year the
	// first adult dies.
	KPINetWorthAtFirstDeath KPIKind = "net_worth_at_first_death"
	// KPINetWorthAtLastDeath is the net worth at the end of the year the
	// last adult dies.
	KPINetWorthAtLastDeath KPIKind = "net_worth_at_last_death"
)

// KPI holds one indicator value compared against its objective.
type KPI struct {
	Kind      KPIKind         `json:"kind"`
	Objective decimal.Decimal `json:"objective"`
	Value     decimal.Decimal `json:"value"`
	Recorded  bool            `json:"recorded"`
}

// Reached reports whether the recorded value meets the objective.
// An unrecorded KPI never reaches its objective.
func (k KPI) Reached() bool {
	return k.Recorded && k.Value.GreaterThanOrEqual(k.Objective)
}

// KPIResults aggregates the indicators of one simulation run.
type KPIResults struct {
	MinimumNetWorth      KPI `json:"minimum_net_worth"`
	NetWorthAtFirstDeath KPI `json:"net_worth_at_first_death"`
	NetWorthAtLastDeath  KPI `json:"net_worth_at_last_death"`
}

// AllObjectivesReached reports whether every recorded KPI meets its
// objective.
func (r KPIResults) AllObjectivesReached() bool {
	return r.MinimumNetWorth.Reached() &&
		r.NetWorthAtFirstDeath.Reached() &&
		r.NetWorthAtLastDeath.Reached()
}

func (r *KPIResults) recordNetWorth(netWorth decimal.Decimal) {
	if !r.MinimumNetWorth.Recorded || netWorth.LessThan(r.MinimumNetWorth.Value) {
		r.MinimumNetWorth.Value = netWorth
		r.MinimumNetWorth.Recorded = true
	}
}

func (r *KPIResults) recordDeath(netWorth decimal.Decimal, isFirstDeath, isLastDeath bool) {
	if isFirstDeath {
		r.NetWorthAtFirstDeath.Value = netWorth
		r.NetWorthAtFirstDeath.Recorded = true
	}
	if isLastDeath {
		r.NetWorthAtLastDeath.Value = netWorth
		r.NetWorthAtLastDeath.Recorded = true
	}
}
