package simulation

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/assets"
	"github.com/lionelmichaud/patrimoine/internal/family"
	"github.com/lionelmichaud/patrimoine/internal/random"
)

var hundred = decimal.NewFromInt(100)

// yearFlows accumulates the cash movements of one simulated year before
// they are folded into a CashFlowLine.
type yearFlows struct {
	year     int
	revenues []NamedValue
	expenses []NamedValue
	taxes    []NamedValue

	// taxableIncome feeds this year's income tax.
	taxableIncome decimal.Decimal
	// liWithdrawalInterests collects life-insurance withdrawal interests;
	// the fraction above the household rebate is taxed the following year.
	liWithdrawalInterests decimal.Decimal
	// csgDeductible is deducted from the following year's taxable income.
	csgDeductible decimal.Decimal
}

func (f *yearFlows) revenue(name string, value decimal.Decimal) {
	if value.IsZero() {
		return
	}
	f.revenues = append(f.revenues, NamedValue{Name: name, Value: value})
}

func (f *yearFlows) expense(name string, value decimal.Decimal) {
	if value.IsZero() {
		return
	}
	f.expenses = append(f.expenses, NamedValue{Name: name, Value: value})
}

func (f *yearFlows) tax(name string, value decimal.Decimal) {
	if value.IsZero() {
		return
	}
	f.taxes = append(f.taxes, NamedValue{Name: name, Value: value})
}

// adultRevenues appends the work, unemployment and pension flows of one
// adult for the year.
func (s *Simulator) adultRevenues(flows *yearFlows, adult *family.Adult, year int, mode random.Mode) error {
	if adult.WorksDuring(year) {
		switch adult.Income.Kind {
		case family.Salary:
			flows.revenue(adult.Name+".salary", adult.Income.Amount)
			flows.taxableIncome = flows.taxableIncome.Add(s.Fiscal.IRPP.TaxableSalary(adult.Income.Amount))
		case family.TurnOver:
			flows.revenue(adult.Name+".turnover", adult.Income.Amount)
			flows.taxableIncome = flows.taxableIncome.Add(s.Fiscal.IRPP.TaxableTurnOver(adult.Income.Amount))
		}
	}

	if adult.LayoffYear != 0 && year == adult.LayoffYear && adult.IsAlive(year-1) {
		monthly := adult.Income.Amount.Div(decimal.NewFromInt(12))
		received, legal, err := s.Fiscal.LayoffCompensation.Compensation(monthly, adult.SeniorityYears, adult.AgeAtEndOf(year))
		if err != nil {
			return err
		}
		taxation := s.Fiscal.LayoffCompensation.Taxation(received, legal, adult.Income.Amount, s.Fiscal.PASS)
		flows.revenue(adult.Name+".layoffCompensation", taxation.Received)
		flows.tax(adult.Name+".layoffSocialTaxes", taxation.SocialTaxes)
		flows.taxableIncome = flows.taxableIncome.Add(taxation.IrppTaxable)
		flows.csgDeductible = flows.csgDeductible.Add(taxation.CsgDeductible)
	}

	if s.receivesUnemployment(adult, year) {
		allocation := adult.Income.Amount.Mul(s.Params.UnemploymentReplacementRatePct).Div(hundred)
		flows.revenue(adult.Name+".unemployment", allocation)
		flows.taxableIncome = flows.taxableIncome.Add(s.Fiscal.IRPP.TaxableSalary(allocation))
	}

	if s.receivesPension(adult, year, mode) {
		brut := s.devaluedPension(adult, year, mode)
		levies, csgDeductible := s.Fiscal.SocialTaxes.PensionLevies(brut)
		flows.revenue(adult.Name+".pension", brut.Sub(levies))
		flows.tax(adult.Name+".pensionSocialTaxes", levies)
		flows.taxableIncome = flows.taxableIncome.Add(s.Fiscal.Pension.TaxablePension(brut))
		flows.csgDeductible = flows.csgDeductible.Add(csgDeductible)
	}
	return nil
}

// receivesUnemployment reports whether the adult draws the unemployment
// allocation during the year. The allocation bridges from layoff to
// retirement within the allowed number of years.
func (s *Simulator) receivesUnemployment(adult *family.Adult, year int) bool {
	if adult.LayoffYear == 0 || !adult.IsAlive(year-1) {
		return false
	}
	if year < adult.LayoffYear || year >= adult.RetirementYear {
		return false
	}
	return year < adult.LayoffYear+s.Params.UnemploymentMaxYears
}

// receivesPension applies the pension-reform delay on top of the planned
// liquidation year: each additional required quarter pushes liquidation by
// a quarter, rounded up to whole years.
func (s *Simulator) receivesPension(adult *family.Adult, year int, mode random.Mode) bool {
	if !adult.IsAlive(year - 1) {
		return false
	}
	delay := (s.Socio.NbTrimTauxPlein(mode) + 3) / 4
	return year >= adult.PensionLiquidationYear+delay
}

// devaluedPension applies the yearly pension devaluation rate from the
// liquidation year on.
func (s *Simulator) devaluedPension(adult *family.Adult, year int, mode random.Mode) decimal.Decimal {
	delay := (s.Socio.NbTrimTauxPlein(mode) + 3) / 4
	liquidation := adult.PensionLiquidationYear + delay
	served := year - liquidation
	if served <= 0 {
		return adult.PensionBrut
	}
	rate := decimal.NewFromFloat(s.Socio.PensionDevaluationRate(mode))
	factor := decimal.NewFromInt(1).Sub(rate.Div(hundred)).Pow(decimal.NewFromInt(int64(served)))
	return adult.PensionBrut.Mul(factor)
}

// assetRevenues appends rents, distributions and sale proceeds. Property
// revenues are taxable and bear social taxes; sale proceeds arrive net of
// capital-gains taxes which are recorded separately.
func (s *Simulator) assetRevenues(flows *yearFlows, year int) error {
	propertyRevenue := decimal.Zero

	for _, re := range s.Patrimoine.RealEstates {
		rent := re.YearlyRevenue(year)
		flows.revenue(re.Name+".rent", rent)
		propertyRevenue = propertyRevenue.Add(rent)

		proceeds, err := re.LiquidatedValue(year, &s.Fiscal.RealEstateCapitalGains)
		if err != nil {
			return err
		}
		flows.revenue(re.Name+".sale", proceeds.Revenue)
		flows.tax(re.Name+".capitalGains", proceeds.IrppTax.Add(proceeds.SocialTax))
	}

	for _, scpi := range s.Patrimoine.SCPIs {
		revenue := scpi.YearlyRevenue(year)
		flows.revenue(scpi.Name+".dividends", revenue)
		propertyRevenue = propertyRevenue.Add(revenue)

		proceeds, err := scpi.LiquidatedValue(year, &s.Fiscal.RealEstateCapitalGains)
		if err != nil {
			return err
		}
		flows.revenue(scpi.Name+".sale", proceeds.Revenue)
		flows.tax(scpi.Name+".capitalGains", proceeds.IrppTax.Add(proceeds.SocialTax))
	}

	for _, sci := range s.Patrimoine.SCIs {
		net, tax, err := sci.YearlyRevenue(year, &s.Fiscal.CompanyProfitTax)
		if err != nil {
			return err
		}
		flows.revenue(sci.Name+".dividends", net)
		flows.tax(sci.Name+".companyProfitTax", tax)
		propertyRevenue = propertyRevenue.Add(net)

		proceeds, err := sci.LiquidatedValue(year, &s.Fiscal.RealEstateCapitalGains)
		if err != nil {
			return err
		}
		flows.revenue(sci.Name+".sale", proceeds.Revenue)
		flows.tax(sci.Name+".capitalGains", proceeds.IrppTax.Add(proceeds.SocialTax))
	}

	flows.taxableIncome = flows.taxableIncome.Add(propertyRevenue)
	flows.tax("socialTaxesOnProperty", s.Fiscal.SocialTaxes.SocialTaxesOnFinancialRevenu(propertyRevenue))
	return nil
}

// householdExpenses appends life expenses, dependency costs, loan service
// and periodic investment payments. Consumption expenses are indexed on
// the run's inflation rate from the first simulated year; loan and
// investment payments are contractual and stay nominal.
func (s *Simulator) householdExpenses(flows *yearFlows, year int, mode random.Mode) {
	nbPersons := s.Family.NbOfAdultsAlive(year) + len(s.Family.ChildrenAlive(year))
	underEval := decimal.NewFromFloat(s.Socio.ExpensesUnderEvaluationRate(mode))
	indexation := s.inflationFactor(year, mode)
	flows.expense("lifeExpenses", s.Expenses.Total(year, nbPersons, underEval).Mul(indexation))

	if s.Params.DependencyYearlyCost.IsPositive() {
		for _, adult := range s.Family.Adults {
			if adult.IsDependent(year) {
				flows.expense(adult.Name+".dependency", s.Params.DependencyYearlyCost.Mul(indexation))
			}
		}
	}

	for _, loan := range s.Patrimoine.Loans {
		flows.expense(loan.Name+".payment", loan.YearlyPaymentDuring(year))
	}
	for _, pi := range s.Patrimoine.PeriodicInvestments {
		flows.expense(pi.Name+".payment", pi.YearlyPaymentDuring(year))
	}
}

// inflationFactor compounds the run's inflation rate from the first
// simulated year to the given year.
func (s *Simulator) inflationFactor(year int, mode random.Mode) decimal.Decimal {
	elapsed := year - s.firstYear
	if elapsed <= 0 {
		return decimal.NewFromInt(1)
	}
	rate := decimalFromRate(s.Economy.InflationRate(mode))
	return decimal.NewFromInt(1).Add(rate.Div(hundred)).Pow(decimal.NewFromInt(int64(elapsed)))
}

// incomeTaxes appends IRPP on the year's taxable income, including the
// carry-over from last year's taxed withdrawals, and the wealth tax on the
// taxable real-estate base.
func (s *Simulator) incomeTaxes(flows *yearFlows, year int) error {
	taxable := flows.taxableIncome.Add(s.carryOverTaxable).Sub(s.carryOverCsgDeductible)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	irpp, err := s.Fiscal.IRPP.IRPP(taxable, s.Family.NbOfAdultsAliveDuring(year), s.Family.NbOfFiscalChildren(year))
	if err != nil {
		return err
	}
	flows.tax("irpp", irpp)

	ifiBase := decimal.Zero
	for _, v := range s.Patrimoine.All() {
		ifiBase = ifiBase.Add(v.ValueWithMethod(year, assets.IFI))
	}
	isf, err := s.Fiscal.Isf.ISF(ifiBase)
	if err != nil {
		return err
	}
	flows.tax("isf", isf)
	return nil
}

// openFreeInvestments returns the free investments already opened at the
// year, i.e. those with a live per-run state.
func (s *Simulator) openFreeInvestments(year int) []*assets.FreeInvestment {
	var open []*assets.FreeInvestment
	for _, f := range s.Patrimoine.FreeInvestments {
		if f.FirstYear <= year {
			open = append(open, f)
		}
	}
	return open
}

// investSurplus routes the whole surplus to the first vehicle of the
// priority order: life insurance without periodic social taxes, then with,
// then PEA, then the rest, highest-rate vehicle of each group first.
func (s *Simulator) investSurplus(surplus decimal.Decimal, year int, secured, stock decimal.Decimal) *assets.FreeInvestment {
	open := s.openFreeInvestments(year)
	rate := func(f *assets.FreeInvestment) decimal.Decimal {
		return f.InterestRate(secured, stock)
	}
	group := func(f *assets.FreeInvestment) int {
		switch {
		case f.Kind == assets.LifeInsurance && !f.PeriodicSocialTaxes:
			return 0
		case f.Kind == assets.LifeInsurance:
			return 1
		case f.Kind == assets.PEA:
			return 2
		default:
			return 3
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		gi, gj := group(open[i]), group(open[j])
		if gi != gj {
			return gi < gj
		}
		return rate(open[i]).GreaterThan(rate(open[j]))
	})
	if len(open) == 0 {
		return nil
	}
	open[0].Deposit(surplus)
	return open[0]
}

// withdrawalTaxRate returns the flat tax fraction applied to the interest
// part of a withdrawal from the vehicle. Income tax on life-insurance
// interests is deferred through the rebate carry-over instead.
func (s *Simulator) withdrawalTaxRate(f *assets.FreeInvestment) decimal.Decimal {
	social := s.Fiscal.SocialTaxes.FinancialRevenuRate.Div(hundred)
	switch f.Kind {
	case assets.LifeInsurance:
		if f.PeriodicSocialTaxes {
			return decimal.Zero
		}
		return social
	case assets.PEA:
		return social
	default:
		return social.Add(s.Fiscal.SocialTaxes.IRPPFlatRate.Div(hundred))
	}
}

// coverDeficit withdraws from the free investments until the needed net
// amount is covered: lowest-rate PEA first, then lowest-rate life
// insurance, then the rest. Withdrawals are grossed up so the net after
// flat taxes on the interest part matches the need.
func (s *Simulator) coverDeficit(flows *yearFlows, need decimal.Decimal, year int, secured, stock decimal.Decimal) (withdrawn decimal.Decimal, err error) {
	open := s.openFreeInvestments(year)
	rate := func(f *assets.FreeInvestment) decimal.Decimal {
		return f.InterestRate(secured, stock)
	}
	group := func(f *assets.FreeInvestment) int {
		switch f.Kind {
		case assets.PEA:
			return 0
		case assets.LifeInsurance:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		gi, gj := group(open[i]), group(open[j])
		if gi != gj {
			return gi < gj
		}
		return rate(open[i]).LessThan(rate(open[j]))
	})

	epsilon := decimal.New(1, -2)
	for _, f := range open {
		if need.LessThan(epsilon) {
			break
		}
		available := f.CurrentState().Value()
		if !available.IsPositive() {
			continue
		}
		taxRate := s.withdrawalTaxRate(f)
		interestFraction := f.InterestFraction()
		// net = brut - brut*p*t, so brut = net / (1 - p*t)
		divider := decimal.NewFromInt(1).Sub(interestFraction.Mul(taxRate))
		brutNeeded := need
		if divider.IsPositive() {
			brutNeeded = need.Div(divider)
		}
		if brutNeeded.GreaterThan(available) {
			brutNeeded = available
		}
		taken, interests := f.Withdraw(brutNeeded)
		flatTax := interests.Mul(taxRate)
		flows.tax(f.Name+".withdrawalTaxes", flatTax)
		if f.Kind == assets.LifeInsurance {
			flows.liWithdrawalInterests = flows.liWithdrawalInterests.Add(interests)
		}
		withdrawn = withdrawn.Add(taken)
		need = need.Sub(taken.Sub(flatTax))
	}
	if need.GreaterThanOrEqual(epsilon) {
		return withdrawn, &CashFlowError{Year: year, MissingCash: need}
	}
	return withdrawn, nil
}

// capitalize settles this year's interests on every open free investment.
// Contracts taxed periodically capitalize at a net-of-social-taxes rate.
func (s *Simulator) capitalize(year int, secured, stock decimal.Decimal) error {
	netFactor := decimal.NewFromInt(1).Sub(s.Fiscal.SocialTaxes.FinancialRevenuRate.Div(hundred))
	for _, f := range s.openFreeInvestments(year) {
		rate := f.InterestRate(secured, stock)
		if f.PeriodicSocialTaxes {
			rate = rate.Mul(netFactor)
		}
		if err := f.CapitalizeAtEndOf(year, rate); err != nil {
			return err
		}
	}
	return nil
}

// deferredTaxable computes the taxable life-insurance interests of the
// year, after the per-person household rebate, to carry into next year's
// income tax.
func (s *Simulator) deferredTaxable(flows *yearFlows, year int) decimal.Decimal {
	rebate := s.Fiscal.LifeInsuranceRebatePerPerson.Mul(decimal.NewFromInt(int64(s.Family.NbOfAdultsAliveDuring(year))))
	taxable := flows.liWithdrawalInterests.Sub(rebate)
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable
}

func decimalFromRate(rate float64) decimal.Decimal {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(rate)
}
