package simulation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lionelmichaud/patrimoine/internal/assets"
	"github.com/lionelmichaud/patrimoine/internal/economy"
	"github.com/lionelmichaud/patrimoine/internal/family"
	"github.com/lionelmichaud/patrimoine/internal/fiscal"
	"github.com/lionelmichaud/patrimoine/internal/ownership"
	"github.com/lionelmichaud/patrimoine/internal/random"
	"github.com/lionelmichaud/patrimoine/internal/succession"
)

// Objectives are the thresholds each KPI must reach for a run to be
// considered a success.
type Objectives struct {
	MinimumNetWorth      decimal.Decimal `yaml:"minimum_net_worth" json:"minimum_net_worth"`
	NetWorthAtFirstDeath decimal.Decimal `yaml:"net_worth_at_first_death" json:"net_worth_at_first_death"`
	NetWorthAtLastDeath  decimal.Decimal `yaml:"net_worth_at_last_death" json:"net_worth_at_last_death"`
}

// Params groups the scenario choices that are not part of the household
// data or the fiscal model.
type Params struct {
	SpouseFiscalOption succession.SpouseFiscalOption `yaml:"spouse_fiscal_option" json:"spouse_fiscal_option"`

	// UnemploymentReplacementRatePct is the fraction of the lost salary
	// served as unemployment allocation, in percent.
	UnemploymentReplacementRatePct decimal.Decimal `yaml:"unemployment_replacement_rate_pct" json:"unemployment_replacement_rate_pct"`
	// UnemploymentMaxYears caps the allocation duration.
	UnemploymentMaxYears int `yaml:"unemployment_max_years" json:"unemployment_max_years"`

	// DependencyYearlyCost is the extra yearly expense per dependent
	// adult.
	DependencyYearlyCost decimal.Decimal `yaml:"dependency_yearly_cost,omitempty" json:"dependency_yearly_cost,omitempty"`

	Objectives Objectives `yaml:"objectives" json:"objectives"`
}

// DefaultParams returns the standard scenario choices.
func DefaultParams() Params {
	return Params{
		SpouseFiscalOption:             succession.FullUsufruct,
		UnemploymentReplacementRatePct: decimal.NewFromInt(57),
		UnemploymentMaxYears:           3,
	}
}

// Simulator runs the household projection year by year. It is not safe
// for concurrent use: the free-investment states and the family death
// ages mutate during a run.
type Simulator struct {
	Fiscal     *fiscal.Model
	Economy    *economy.Model
	Socio      *economy.SocioEconomyModel
	Family     *family.Family
	Patrimoine *assets.Patrimoin
	Expenses   *Expenses
	Params     Params
	Log        *zap.SugaredLogger

	state       RunState
	firstYear   int
	currentYear int

	// carryOverTaxable and carryOverCsgDeductible defer part of one
	// year's flows into the next year's income tax.
	carryOverTaxable       decimal.Decimal
	carryOverCsgDeductible decimal.Decimal
	// pendingSuccessionTaxes holds inheritance taxes settled during the
	// year, paid alongside the year's other taxes.
	pendingSuccessionTaxes decimal.Decimal

	// initialOwnership restores the pre-succession ownerships between runs.
	initialOwnership []ownership.Ownership

	engine *succession.Engine
}

// NewSimulator wires the simulation engine. The fiscal model must be
// initialized before the first run.
func NewSimulator(fiscalModel *fiscal.Model, eco *economy.Model, socio *economy.SocioEconomyModel,
	fam *family.Family, pat *assets.Patrimoin, expenses *Expenses, params Params, log *zap.SugaredLogger) *Simulator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ctx := assets.EvaluationContext{
		Ages:         fam,
		Demembrement: ownership.DefaultDemembrementTable(),
	}
	return &Simulator{
		Fiscal:           fiscalModel,
		Economy:          eco,
		Socio:            socio,
		Family:           fam,
		Patrimoine:       pat,
		Expenses:         expenses,
		Params:           params,
		Log:              log,
		initialOwnership: pat.OwnershipSnapshot(),
		engine:           succession.NewEngine(fiscalModel, ctx),
	}
}

// State returns the lifecycle state of the last run.
func (s *Simulator) State() RunState { return s.state }

// CurrentYear returns the year being simulated while the run is in
// progress, and the last simulated year afterwards.
func (s *Simulator) CurrentYear() int { return s.currentYear }

// RunOnce projects the household over the horizon with the already
// sampled (or replayed) variables. The run stops early once the last
// adult has died, after recording that year's balance sheet.
func (s *Simulator) RunOnce(firstYear, lastYear int, mode random.Mode) (*RunResult, error) {
	if lastYear < firstYear {
		return nil, fmt.Errorf("invalid horizon: %d..%d", firstYear, lastYear)
	}
	s.state = Running
	s.firstYear = firstYear
	s.carryOverTaxable = decimal.Zero
	s.carryOverCsgDeductible = decimal.Zero
	s.pendingSuccessionTaxes = decimal.Zero
	s.Patrimoine.ResetFreeInvestmentStates(firstYear)
	if err := s.Patrimoine.RestoreOwnership(s.initialOwnership); err != nil {
		return nil, err
	}

	result := &RunResult{FirstYear: firstYear, LastYear: lastYear}
	result.KPIs.MinimumNetWorth.Objective = s.Params.Objectives.MinimumNetWorth
	result.KPIs.NetWorthAtFirstDeath.Objective = s.Params.Objectives.NetWorthAtFirstDeath
	result.KPIs.NetWorthAtLastDeath.Objective = s.Params.Objectives.NetWorthAtLastDeath

	firstDeathSeen := false
	for year := firstYear; year <= lastYear; year++ {
		s.currentYear = year

		deaths, err := s.processDeaths(result, year)
		if err != nil {
			return s.fail(result, year, err)
		}

		line, err := s.simulateYear(result, year, mode)
		if err != nil {
			return s.fail(result, year, err)
		}
		result.CashFlows = append(result.CashFlows, line)

		sheet := s.balanceSheet(year)
		result.BalanceSheets = append(result.BalanceSheets, sheet)
		result.KPIs.recordNetWorth(sheet.NetWorth)

		if deaths > 0 {
			lastDeath := s.Family.NbOfAdultsAlive(year) == 0
			result.KPIs.recordDeath(sheet.NetWorth, !firstDeathSeen, lastDeath)
			firstDeathSeen = true
			if lastDeath {
				s.Log.Debugw("last adult died, stopping projection", "year", year)
				result.LastYear = year
				break
			}
		}
	}
	s.state = Completed
	result.State = Completed
	return result, nil
}

func (s *Simulator) fail(result *RunResult, year int, err error) (*RunResult, error) {
	s.Log.Debugw("run failed", "year", year, "error", err)
	s.state = Failed
	result.State = Failed
	result.FailureYear = year
	result.Failure = err.Error()
	return result, err
}

// processDeaths settles the successions of the adults dying during the
// year: taxable estate at the end of the previous year, taxes recorded in
// the carry so they are paid with this year's flows, then ownership
// transfer.
func (s *Simulator) processDeaths(result *RunResult, year int) (int, error) {
	deaths := s.Family.DeathsDuring(year)
	for _, decedent := range deaths {
		s.Log.Debugw("settling succession", "decedent", decedent.Name, "year", year)
		legal, err := s.engine.LegalSuccession(s.Family, s.Patrimoine, decedent, year, s.Params.SpouseFiscalOption)
		if err != nil {
			return len(deaths), err
		}
		li, err := s.engine.LifeInsuranceSuccession(s.Family, s.Patrimoine, decedent, year)
		if err != nil {
			return len(deaths), err
		}
		if err := succession.TransferAll(s.Family, s.Patrimoine, decedent, year, s.Params.SpouseFiscalOption); err != nil {
			return len(deaths), err
		}
		result.Successions = append(result.Successions, legal, li)
		s.pendingSuccessionTaxes = s.pendingSuccessionTaxes.Add(legal.TotalTax()).Add(li.TotalTax())
	}
	return len(deaths), nil
}

// simulateYear computes one year of flows: revenues, expenses and taxes,
// then routes the net cash flow to or from the free investments and
// settles the year's interests.
func (s *Simulator) simulateYear(result *RunResult, year int, mode random.Mode) (CashFlowLine, error) {
	flows := &yearFlows{year: year}

	for _, adult := range s.Family.Adults {
		if err := s.adultRevenues(flows, adult, year, mode); err != nil {
			return CashFlowLine{}, err
		}
	}
	if err := s.assetRevenues(flows, year); err != nil {
		return CashFlowLine{}, err
	}
	s.householdExpenses(flows, year, mode)
	if err := s.incomeTaxes(flows, year); err != nil {
		return CashFlowLine{}, err
	}
	if s.pendingSuccessionTaxes.IsPositive() {
		flows.tax("successionTaxes", s.pendingSuccessionTaxes)
		s.pendingSuccessionTaxes = decimal.Zero
	}

	line := CashFlowLine{
		Year:     year,
		Revenues: flows.revenues,
		Expenses: flows.expenses,
		Taxes:    flows.taxes,
	}
	line.NetCashFlow = line.TotalRevenue().Sub(line.TotalExpenses()).Sub(line.TotalTaxes())

	secured, err := s.Economy.SecuredRate(year, mode)
	if err != nil {
		return CashFlowLine{}, err
	}
	stock, err := s.Economy.StockRate(year, mode)
	if err != nil {
		return CashFlowLine{}, err
	}
	securedRate := decimalFromRate(secured)
	stockRate := decimalFromRate(stock)

	switch {
	case line.NetCashFlow.IsPositive():
		if target := s.investSurplus(line.NetCashFlow, year, securedRate, stockRate); target != nil {
			line.Invested = line.NetCashFlow
			s.Log.Debugw("surplus invested", "year", year, "vehicle", target.Name, "amount", line.Invested)
		}
	case line.NetCashFlow.IsNegative():
		withdrawn, err := s.coverDeficit(flows, line.NetCashFlow.Neg(), year, securedRate, stockRate)
		line.Withdrawn = withdrawn
		// withdrawal taxes recorded during the walk
		line.Taxes = flows.taxes
		if err != nil {
			return line, err
		}
	}

	if err := s.capitalize(year, securedRate, stockRate); err != nil {
		return CashFlowLine{}, err
	}

	s.carryOverTaxable = s.deferredTaxable(flows, year)
	s.carryOverCsgDeductible = flows.csgDeductible
	return line, nil
}

// balanceSheet values every asset and liability at the end of the year.
func (s *Simulator) balanceSheet(year int) BalanceSheetLine {
	line := BalanceSheetLine{Year: year}
	for _, v := range s.Patrimoine.All() {
		value := v.Value(year)
		if value.IsZero() {
			continue
		}
		line.Assets = append(line.Assets, NamedValue{Name: v.GetName(), Value: value})
	}
	line.NetWorth = s.Patrimoine.NetWorth(year)
	return line
}
