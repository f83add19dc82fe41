// Package output renders simulation results as CSV tables and console
// summaries.
package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/simulation"
)

// CashFlowCSV renders the yearly cash-flow table, one row per year. The
// columns are the union of every named value seen over the run, so that
// rows stay aligned even when a flow appears or disappears mid-run.
type CashFlowCSV struct{}

func (CashFlowCSV) Name() string { return "cashflow-csv" }

func (CashFlowCSV) Format(result *simulation.RunResult) ([]byte, error) {
	revenueCols := collectNames(result.CashFlows, func(l simulation.CashFlowLine) []simulation.NamedValue { return l.Revenues })
	expenseCols := collectNames(result.CashFlows, func(l simulation.CashFlowLine) []simulation.NamedValue { return l.Expenses })
	taxCols := collectNames(result.CashFlows, func(l simulation.CashFlowLine) []simulation.NamedValue { return l.Taxes })

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year"}
	header = append(header, revenueCols...)
	header = append(header, expenseCols...)
	header = append(header, taxCols...)
	header = append(header, "NetCashFlow", "Invested", "Withdrawn")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, line := range result.CashFlows {
		row := []string{strconv.Itoa(line.Year)}
		row = append(row, valuesFor(revenueCols, line.Revenues)...)
		row = append(row, valuesFor(expenseCols, line.Expenses)...)
		row = append(row, valuesFor(taxCols, line.Taxes)...)
		row = append(row,
			line.NetCashFlow.StringFixed(2),
			line.Invested.StringFixed(2),
			line.Withdrawn.StringFixed(2),
		)
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// BalanceSheetCSV renders the yearly balance sheet, one row per year.
type BalanceSheetCSV struct{}

func (BalanceSheetCSV) Name() string { return "balancesheet-csv" }

func (BalanceSheetCSV) Format(result *simulation.RunResult) ([]byte, error) {
	assetCols := collectSheetNames(result.BalanceSheets)

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := append([]string{"Year"}, assetCols...)
	header = append(header, "NetWorth")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, line := range result.BalanceSheets {
		row := []string{strconv.Itoa(line.Year)}
		row = append(row, valuesFor(assetCols, line.Assets)...)
		row = append(row, line.NetWorth.StringFixed(2))
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// MonteCarloCSV renders the batch result, one row per run, with the
// sampled variables spelled out so that any run can be replayed later.
type MonteCarloCSV struct{}

func (MonteCarloCSV) Name() string { return "montecarlo-csv" }

func (MonteCarloCSV) Format(result *simulation.MonteCarloResult) ([]byte, error) {
	varCols := collectVariableNames(result.Lines)

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Run", "Completed", "ObjectivesReached",
		"MinimumNetWorth", "NetWorthAtFirstDeath", "NetWorthAtLastDeath", "Failure"}
	header = append(header, varCols...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, line := range result.Lines {
		row := []string{
			strconv.Itoa(line.RunNumber),
			strconv.FormatBool(line.Completed),
			strconv.FormatBool(line.ObjectivesReached()),
			kpiValue(line.KPIs.MinimumNetWorth),
			kpiValue(line.KPIs.NetWorthAtFirstDeath),
			kpiValue(line.KPIs.NetWorthAtLastDeath),
			line.Failure,
		}
		for _, name := range varCols {
			row = append(row, strconv.FormatFloat(line.SampledVariables[name], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func kpiValue(k simulation.KPI) string {
	if !k.Recorded {
		return ""
	}
	return k.Value.StringFixed(2)
}

func collectNames(lines []simulation.CashFlowLine, pick func(simulation.CashFlowLine) []simulation.NamedValue) []string {
	seen := make(map[string]bool)
	for _, line := range lines {
		for _, v := range pick(line) {
			seen[v.Name] = true
		}
	}
	return sortedKeys(seen)
}

func collectSheetNames(lines []simulation.BalanceSheetLine) []string {
	seen := make(map[string]bool)
	for _, line := range lines {
		for _, v := range line.Assets {
			seen[v.Name] = true
		}
	}
	return sortedKeys(seen)
}

func collectVariableNames(lines []simulation.SimulationResultLine) []string {
	seen := make(map[string]bool)
	for _, line := range lines {
		for name := range line.SampledVariables {
			seen[name] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func valuesFor(columns []string, values []simulation.NamedValue) []string {
	byName := make(map[string]decimal.Decimal, len(values))
	for _, v := range values {
		byName[v.Name] = v.Value
	}
	row := make([]string, len(columns))
	for i, name := range columns {
		if value, ok := byName[name]; ok {
			row[i] = value.StringFixed(2)
		} else {
			row[i] = "0.00"
		}
	}
	return row
}
