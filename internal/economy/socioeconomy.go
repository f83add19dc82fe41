package economy

import (
	"fmt"

	"github.com/lionelmichaud/patrimoine/internal/random"
)

// Sociological random variables.
const (
	PensionDevaluationRate      Variable = "pensionDevaluationRate"
	NbTrimTauxPlein             Variable = "nbTrimTauxPlein"
	ExpensesUnderEvaluationRate Variable = "expensesUnderEvaluationRate"
)

// SocioEconomyProvider supplies the sociological assumptions of a run.
type SocioEconomyProvider interface {
	PensionDevaluationRate(mode random.Mode) float64
	NbTrimTauxPlein(mode random.Mode) int
	ExpensesUnderEvaluationRate(mode random.Mode) float64
}

// SocioEconomyModel bundles the sociological random variables: yearly
// devaluation of pensions (percent), extra quarters required for a
// full-rate pension, and the rate by which household expenses are
// under-evaluated (percent).
type SocioEconomyModel struct {
	pensionDevaluation *random.BetaSampler
	nbTrimTauxPlein    *random.DiscreteSampler
	expensesUnderEval  *random.BetaSampler
}

// NewSocioEconomyModel wires the three samplers.
func NewSocioEconomyModel(pensionDevaluation *random.BetaSampler, nbTrimTauxPlein *random.DiscreteSampler, expensesUnderEval *random.BetaSampler) *SocioEconomyModel {
	return &SocioEconomyModel{
		pensionDevaluation: pensionDevaluation,
		nbTrimTauxPlein:    nbTrimTauxPlein,
		expensesUnderEval:  expensesUnderEval,
	}
}

// NextRun draws a fresh value for every variable.
func (m *SocioEconomyModel) NextRun(firstYear, lastYear int) (map[Variable]float64, error) {
	if lastYear < firstYear {
		return nil, fmt.Errorf("socio-economy run [%d, %d]: %w", firstYear, lastYear, ErrOutOfBounds)
	}
	return map[Variable]float64{
		PensionDevaluationRate:      m.pensionDevaluation.Next(),
		NbTrimTauxPlein:             m.nbTrimTauxPlein.Next(),
		ExpensesUnderEvaluationRate: m.expensesUnderEval.Next(),
	}, nil
}

// SetRandomValue replays previously recorded values.
func (m *SocioEconomyModel) SetRandomValue(values map[Variable]float64, firstYear, lastYear int) error {
	if lastYear < firstYear {
		return fmt.Errorf("socio-economy replay [%d, %d]: %w", firstYear, lastYear, ErrOutOfBounds)
	}
	m.pensionDevaluation.SetRandomValue(values[PensionDevaluationRate])
	m.nbTrimTauxPlein.SetRandomValue(values[NbTrimTauxPlein])
	m.expensesUnderEval.SetRandomValue(values[ExpensesUnderEvaluationRate])
	return nil
}

func (m *SocioEconomyModel) PensionDevaluationRate(mode random.Mode) float64 {
	return m.pensionDevaluation.Value(mode)
}

func (m *SocioEconomyModel) NbTrimTauxPlein(mode random.Mode) int {
	return int(m.nbTrimTauxPlein.Value(mode))
}

func (m *SocioEconomyModel) ExpensesUnderEvaluationRate(mode random.Mode) float64 {
	return m.expensesUnderEval.Value(mode)
}

// ResetHistories clears the audit histories of every variable.
func (m *SocioEconomyModel) ResetHistories() {
	m.pensionDevaluation.ResetHistory()
	m.nbTrimTauxPlein.ResetHistory()
	m.expensesUnderEval.ResetHistory()
}
