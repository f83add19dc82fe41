// Package economy models the uncertain economic variables of a simulation:
// inflation, secured-investment return and stock return. All rates are
// expressed in percent (2.5 means 2.5 %/year).
//
// Each variable is a Beta-distributed random variable. Between two calls to
// NextRun the long-run value is stable; when volatility simulation is
// enabled, a Normal-distributed per-year series is drawn around the long-run
// value and cached, so that Rates(year) is stable within a run and
// bit-for-bit reproducible when the long-run value is replayed with
// SetRandomValue.
package economy

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lionelmichaud/patrimoine/internal/random"
)

// Variable identifies one economic random variable.
type Variable string

const (
	Inflation   Variable = "inflation"
	SecuredRate Variable = "securedRate"
	StockRate   Variable = "stockRate"
)

// ErrOutOfBounds is returned when lastYear < firstYear.
var ErrOutOfBounds = errors.New("lastYear must not precede firstYear")

// InflationProvider supplies the inflation rate in percent.
type InflationProvider interface {
	InflationRate(mode random.Mode) float64
}

// RatesProvider supplies per-year investment return rates in percent.
type RatesProvider interface {
	SecuredRate(year int, mode random.Mode) (float64, error)
	StockRate(year int, mode random.Mode) (float64, error)
}

// yearSeries is a cached per-year rate series covering [firstYear, lastYear].
type yearSeries struct {
	firstYear int
	rates     []float64
}

func (s *yearSeries) rate(year int) (float64, bool) {
	i := year - s.firstYear
	if i < 0 || i >= len(s.rates) {
		return 0, false
	}
	return s.rates[i], true
}

// resample regenerates the series from a Normal distribution centered on the
// long-run value. The source is seeded from the long-run value itself so
// replaying the same value regenerates the identical series.
func (s *yearSeries) resample(longRun, sigma float64, firstYear, lastYear int) {
	n := lastYear - firstYear + 1
	s.firstYear = firstYear
	s.rates = make([]float64, n)
	dist := distuv.Normal{Mu: longRun, Sigma: sigma, Src: rand.NewSource(math.Float64bits(longRun))}
	for i := range s.rates {
		s.rates[i] = dist.Rand()
	}
}

// Model bundles the three economic random variables of a run.
type Model struct {
	inflation *random.BetaSampler
	secured   *random.BetaSampler
	stock     *random.BetaSampler

	// SimulateVolatility enables per-year Normal sampling around the
	// long-run secured/stock rates in Random mode.
	SimulateVolatility bool
	SecuredStdDev      float64
	StockStdDev        float64

	securedSeries yearSeries
	stockSeries   yearSeries
}

// NewModel wires the three samplers. Std deviations are in percent points.
func NewModel(inflation, secured, stock *random.BetaSampler, simulateVolatility bool, securedStdDev, stockStdDev float64) *Model {
	return &Model{
		inflation:          inflation,
		secured:            secured,
		stock:              stock,
		SimulateVolatility: simulateVolatility,
		SecuredStdDev:      securedStdDev,
		StockStdDev:        stockStdDev,
	}
}

// NextRun draws a fresh long-run value for every variable and regenerates
// the per-year series over [firstYear, lastYear]. Returns the sampled
// long-run values for recording in the run's result line.
func (m *Model) NextRun(firstYear, lastYear int) (map[Variable]float64, error) {
	if lastYear < firstYear {
		return nil, fmt.Errorf("economy run [%d, %d]: %w", firstYear, lastYear, ErrOutOfBounds)
	}
	drawn := map[Variable]float64{
		Inflation:   m.inflation.Next(),
		SecuredRate: m.secured.Next(),
		StockRate:   m.stock.Next(),
	}
	m.securedSeries.resample(drawn[SecuredRate], m.SecuredStdDev, firstYear, lastYear)
	m.stockSeries.resample(drawn[StockRate], m.StockStdDev, firstYear, lastYear)
	return drawn, nil
}

// SetRandomValue replays previously recorded long-run values and regenerates
// the identical per-year series.
func (m *Model) SetRandomValue(values map[Variable]float64, firstYear, lastYear int) error {
	if lastYear < firstYear {
		return fmt.Errorf("economy replay [%d, %d]: %w", firstYear, lastYear, ErrOutOfBounds)
	}
	m.inflation.SetRandomValue(values[Inflation])
	m.secured.SetRandomValue(values[SecuredRate])
	m.stock.SetRandomValue(values[StockRate])
	m.securedSeries.resample(values[SecuredRate], m.SecuredStdDev, firstYear, lastYear)
	m.stockSeries.resample(values[StockRate], m.StockStdDev, firstYear, lastYear)
	return nil
}

// InflationRate returns the run's inflation rate in percent.
func (m *Model) InflationRate(mode random.Mode) float64 {
	return m.inflation.Value(mode)
}

// SecuredRate returns the secured-investment return for a year in percent.
func (m *Model) SecuredRate(year int, mode random.Mode) (float64, error) {
	return m.rate(m.secured, &m.securedSeries, year, mode)
}

// StockRate returns the stock return for a year in percent.
func (m *Model) StockRate(year int, mode random.Mode) (float64, error) {
	return m.rate(m.stock, &m.stockSeries, year, mode)
}

func (m *Model) rate(s *random.BetaSampler, series *yearSeries, year int, mode random.Mode) (float64, error) {
	if mode == random.Random && m.SimulateVolatility {
		r, ok := series.rate(year)
		if !ok {
			return 0, fmt.Errorf("year %d outside the sampled run: %w", year, ErrOutOfBounds)
		}
		return r, nil
	}
	return s.Value(mode), nil
}

// ResetHistories clears the audit histories of every variable.
func (m *Model) ResetHistories() {
	m.inflation.ResetHistory()
	m.secured.ResetHistory()
	m.stock.ResetHistory()
}
