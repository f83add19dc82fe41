package simulation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/economy"
	"github.com/lionelmichaud/patrimoine/internal/random"
)

// deathVariablePrefix namespaces the per-adult death ages among the
// sampled variables of a run.
const deathVariablePrefix = "death."

// SimulationResultLine records everything needed to reproduce one
// Monte-Carlo run: its sampled variables and its outcome.
type SimulationResultLine struct {
	RunNumber        int                `json:"run_number"`
	SampledVariables map[string]float64 `json:"sampled_variables"`
	KPIs             KPIResults         `json:"kpis"`
	Completed        bool               `json:"completed"`
	Failure          string             `json:"failure,omitempty"`
	FailureYear      int                `json:"failure_year,omitempty"`
}

// ObjectivesReached reports whether the run completed with every KPI at
// its objective.
func (l SimulationResultLine) ObjectivesReached() bool {
	return l.Completed && l.KPIs.AllObjectivesReached()
}

// MonteCarloResult aggregates the result lines of a batch.
type MonteCarloResult struct {
	FirstYear int                    `json:"first_year"`
	LastYear  int                    `json:"last_year"`
	Lines     []SimulationResultLine `json:"lines"`
}

// SuccessRate returns the fraction of runs that completed with every
// objective reached, in percent.
func (r *MonteCarloResult) SuccessRate() decimal.Decimal {
	if len(r.Lines) == 0 {
		return decimal.Zero
	}
	successes := 0
	for _, line := range r.Lines {
		if line.ObjectivesReached() {
			successes++
		}
	}
	return decimal.NewFromInt(int64(successes)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(len(r.Lines))))
}

// MinimumNetWorthPercentile returns the requested percentile of the
// minimum-net-worth KPI across completed runs. Percentile is in [0, 100].
func (r *MonteCarloResult) MinimumNetWorthPercentile(percentile float64) (decimal.Decimal, error) {
	if percentile < 0 || percentile > 100 {
		return decimal.Zero, fmt.Errorf("percentile out of range: %g", percentile)
	}
	var values []decimal.Decimal
	for _, line := range r.Lines {
		if line.Completed && line.KPIs.MinimumNetWorth.Recorded {
			values = append(values, line.KPIs.MinimumNetWorth.Value)
		}
	}
	if len(values) == 0 {
		return decimal.Zero, errors.New("no completed run to take a percentile of")
	}
	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })
	idx := int(percentile / 100 * float64(len(values)-1))
	return values[idx], nil
}

// RunManager drives Monte-Carlo batches over a Simulator and replays
// individual runs from their stored sampled variables.
type RunManager struct {
	Sim *Simulator
}

// NewRunManager wraps a simulator.
func NewRunManager(sim *Simulator) *RunManager {
	return &RunManager{Sim: sim}
}

// Compute runs the batch. A single run keeps the requested mode; several
// runs force random sampling. A run failing on a cash-flow shortage is
// recorded and the batch continues; any other error aborts the batch.
func (m *RunManager) Compute(firstYear, nbOfYears, nbOfRuns int, mode random.Mode) (*MonteCarloResult, error) {
	if nbOfYears < 1 || nbOfRuns < 1 {
		return nil, fmt.Errorf("invalid batch: %d years, %d runs", nbOfYears, nbOfRuns)
	}
	if nbOfRuns > 1 {
		mode = random.Random
	}
	lastYear := firstYear + nbOfYears - 1
	result := &MonteCarloResult{FirstYear: firstYear, LastYear: lastYear}

	for run := 1; run <= nbOfRuns; run++ {
		sampled, err := m.nextRun(firstYear, lastYear, mode)
		if err != nil {
			return nil, err
		}
		line := SimulationResultLine{RunNumber: run, SampledVariables: sampled}

		runResult, err := m.Sim.RunOnce(firstYear, lastYear, mode)
		var cashErr *CashFlowError
		switch {
		case err == nil:
			line.Completed = true
			line.KPIs = runResult.KPIs
		case errors.As(err, &cashErr):
			line.KPIs = runResult.KPIs
			line.Failure = err.Error()
			line.FailureYear = runResult.FailureYear
		default:
			return nil, fmt.Errorf("run %d: %w", run, err)
		}
		result.Lines = append(result.Lines, line)
	}
	return result, nil
}

// RunSingle executes one run in the requested mode and returns its full
// yearly tables along with the result line, so a caller needing the
// cash-flow and balance-sheet tables does not have to replay. A cash-flow
// shortage is reported through the line, not as an error.
func (m *RunManager) RunSingle(firstYear, nbOfYears int, mode random.Mode) (*RunResult, SimulationResultLine, error) {
	if nbOfYears < 1 {
		return nil, SimulationResultLine{}, fmt.Errorf("invalid horizon: %d years", nbOfYears)
	}
	lastYear := firstYear + nbOfYears - 1
	sampled, err := m.nextRun(firstYear, lastYear, mode)
	if err != nil {
		return nil, SimulationResultLine{}, err
	}
	line := SimulationResultLine{RunNumber: 1, SampledVariables: sampled}

	runResult, err := m.Sim.RunOnce(firstYear, lastYear, mode)
	var cashErr *CashFlowError
	switch {
	case err == nil:
		line.Completed = true
		line.KPIs = runResult.KPIs
	case errors.As(err, &cashErr):
		line.KPIs = runResult.KPIs
		line.Failure = err.Error()
		line.FailureYear = runResult.FailureYear
	default:
		return nil, SimulationResultLine{}, err
	}
	return runResult, line, nil
}

// nextRun samples every random variable and returns them under their
// replay keys.
func (m *RunManager) nextRun(firstYear, lastYear int, mode random.Mode) (map[string]float64, error) {
	sampled := make(map[string]float64)

	ecoVars, err := m.Sim.Economy.NextRun(firstYear, lastYear)
	if err != nil {
		return nil, err
	}
	for name, value := range ecoVars {
		sampled[string(name)] = value
	}

	socioVars, err := m.Sim.Socio.NextRun(firstYear, lastYear)
	if err != nil {
		return nil, err
	}
	for name, value := range socioVars {
		sampled[string(name)] = value
	}

	for name, age := range m.Sim.Family.NextRun(mode) {
		sampled[deathVariablePrefix+name] = age
	}
	return sampled, nil
}

// Replay re-executes one stored run: every sampler is forced to the
// stored value, so the projection is bit-for-bit identical to the
// original run.
func (m *RunManager) Replay(line SimulationResultLine, firstYear, nbOfYears int) (*RunResult, error) {
	if nbOfYears < 1 {
		return nil, fmt.Errorf("invalid horizon: %d years", nbOfYears)
	}
	lastYear := firstYear + nbOfYears - 1

	ecoVars := make(map[economy.Variable]float64)
	socioVars := make(map[economy.Variable]float64)
	deathAges := make(map[string]float64)
	for name, value := range line.SampledVariables {
		switch {
		case len(name) > len(deathVariablePrefix) && name[:len(deathVariablePrefix)] == deathVariablePrefix:
			deathAges[name[len(deathVariablePrefix):]] = value
		case name == string(economy.PensionDevaluationRate),
			name == string(economy.NbTrimTauxPlein),
			name == string(economy.ExpensesUnderEvaluationRate):
			socioVars[economy.Variable(name)] = value
		default:
			ecoVars[economy.Variable(name)] = value
		}
	}

	if err := m.Sim.Economy.SetRandomValue(ecoVars, firstYear, lastYear); err != nil {
		return nil, err
	}
	if err := m.Sim.Socio.SetRandomValue(socioVars, firstYear, lastYear); err != nil {
		return nil, err
	}
	m.Sim.Family.SetRandomValues(deathAges)

	return m.Sim.RunOnce(firstYear, lastYear, random.Random)
}
