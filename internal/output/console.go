package output

import (
	"bytes"
	"fmt"

	"github.com/lionelmichaud/patrimoine/internal/simulation"
)

// ConsoleSummary renders a short human-readable report.
type ConsoleSummary struct{}

func (ConsoleSummary) Name() string { return "console" }

// FormatRun summarizes a single run.
func (ConsoleSummary) FormatRun(result *simulation.RunResult) []byte {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "Projection %d-%d: %s\n", result.FirstYear, result.LastYear, result.State)
	if result.State == simulation.Failed {
		fmt.Fprintf(buf, "  failed in %d: %s\n", result.FailureYear, result.Failure)
	}
	writeKPI(buf, "minimum net worth", result.KPIs.MinimumNetWorth)
	writeKPI(buf, "net worth at first death", result.KPIs.NetWorthAtFirstDeath)
	writeKPI(buf, "net worth at last death", result.KPIs.NetWorthAtLastDeath)
	for _, s := range result.Successions {
		fmt.Fprintf(buf, "  %s succession of %s in %d: taxable %s, taxes %s\n",
			s.Kind, s.DecedentName, s.YearOfDeath,
			s.TaxableValue.StringFixed(0), s.TotalTax().StringFixed(0))
	}
	return buf.Bytes()
}

// FormatBatch summarizes a Monte-Carlo batch.
func (ConsoleSummary) FormatBatch(result *simulation.MonteCarloResult) []byte {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "Monte-Carlo %d-%d: %d runs, success rate %s %%\n",
		result.FirstYear, result.LastYear, len(result.Lines), result.SuccessRate().StringFixed(1))
	for _, p := range []float64{5, 25, 50, 75, 95} {
		value, err := result.MinimumNetWorthPercentile(p)
		if err != nil {
			continue
		}
		fmt.Fprintf(buf, "  minimum net worth p%02.0f: %s\n", p, value.StringFixed(0))
	}
	return buf.Bytes()
}

func writeKPI(buf *bytes.Buffer, label string, k simulation.KPI) {
	if !k.Recorded {
		fmt.Fprintf(buf, "  %s: not recorded\n", label)
		return
	}
	status := "objective missed"
	if k.Reached() {
		status = "objective reached"
	}
	fmt.Fprintf(buf, "  %s: %s (objective %s, %s)\n",
		label, k.Value.StringFixed(0), k.Objective.StringFixed(0), status)
}
