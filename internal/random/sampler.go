// Package random provides the parametrized random-variable generators used
// by the economic and sociological models: a Beta-distributed continuous
// generator and a discrete-table generator. Both keep a history of drawn
// values for Monte-Carlo audit and support forcing the "last drawn" value to
// replay a previously observed run.
package random

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Mode selects how Value resolves a variable.
type Mode int

const (
	// Deterministic resolves to the analytic expectation, with no side
	// effect. Repeated calls return the same value.
	Deterministic Mode = iota
	// Random resolves to the last drawn (or forced) sample.
	Random
)

func (m Mode) String() string {
	if m == Deterministic {
		return "deterministic"
	}
	return "random"
}

// ErrBadDistribution is returned when distribution parameters are invalid.
var ErrBadDistribution = errors.New("invalid distribution parameters")

// Sampler is a random variable with history, replay and a deterministic
// fallback.
type Sampler interface {
	// Next draws a new sample, appends it to the history and returns it.
	Next() float64
	// Value returns the expectation in Deterministic mode and the last
	// drawn (or forced) sample in Random mode. In Random mode a sample is
	// drawn first when none exists yet.
	Value(mode Mode) float64
	// SetRandomValue forces the last drawn value without sampling, for
	// replaying a recorded run. The forced value is appended to the history.
	SetRandomValue(v float64)
	// ResetHistory clears the accumulated history.
	ResetHistory()
	// History returns all values drawn or forced since the last reset.
	History() []float64
	// Mean returns the analytic expectation.
	Mean() float64
}

// BetaSampler draws from a Beta(alpha, beta) distribution mapped onto
// [min, max].
type BetaSampler struct {
	alpha, beta float64
	min, max    float64
	dist        distuv.Beta
	last        float64
	drawn       bool
	history     []float64
}

// NewBetaSampler builds a Beta sampler seeded independently of every other
// sampler so that per-variable draw sequences do not interleave.
func NewBetaSampler(alpha, beta, min, max float64, seed uint64) (*BetaSampler, error) {
	if alpha <= 0 || beta <= 0 {
		return nil, fmt.Errorf("beta(%g, %g): %w", alpha, beta, ErrBadDistribution)
	}
	if max < min {
		return nil, fmt.Errorf("range [%g, %g]: %w", min, max, ErrBadDistribution)
	}
	return &BetaSampler{
		alpha: alpha,
		beta:  beta,
		min:   min,
		max:   max,
		dist:  distuv.Beta{Alpha: alpha, Beta: beta, Src: rand.NewSource(seed)},
	}, nil
}

func (b *BetaSampler) Next() float64 {
	v := b.min + b.dist.Rand()*(b.max-b.min)
	b.last = v
	b.drawn = true
	b.history = append(b.history, v)
	return v
}

func (b *BetaSampler) Value(mode Mode) float64 {
	if mode == Deterministic {
		return b.Mean()
	}
	if !b.drawn {
		return b.Next()
	}
	return b.last
}

func (b *BetaSampler) SetRandomValue(v float64) {
	b.last = v
	b.drawn = true
	b.history = append(b.history, v)
}

func (b *BetaSampler) ResetHistory() { b.history = nil }

func (b *BetaSampler) History() []float64 { return b.history }

func (b *BetaSampler) Mean() float64 {
	return b.min + (b.max-b.min)*b.alpha/(b.alpha+b.beta)
}

// Point is one (value, probability) pair of a discrete distribution table.
type Point struct {
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
}

// DiscreteSampler draws from an explicit table of (value, probability)
// pairs.
type DiscreteSampler struct {
	points  []Point
	src     *rand.Rand
	last    float64
	drawn   bool
	history []float64
}

// NewDiscreteSampler validates that probabilities are non-negative and sum
// to one within floating tolerance.
func NewDiscreteSampler(points []Point, seed uint64) (*DiscreteSampler, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("empty table: %w", ErrBadDistribution)
	}
	sum := 0.0
	for _, p := range points {
		if p.Probability < 0 {
			return nil, fmt.Errorf("negative probability %g: %w", p.Probability, ErrBadDistribution)
		}
		sum += p.Probability
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, fmt.Errorf("probabilities sum to %g, not 1: %w", sum, ErrBadDistribution)
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	return &DiscreteSampler{points: pts, src: rand.New(rand.NewSource(seed))}, nil
}

func (d *DiscreteSampler) Next() float64 {
	u := d.src.Float64()
	cum := 0.0
	v := d.points[len(d.points)-1].Value
	for _, p := range d.points {
		cum += p.Probability
		if u < cum {
			v = p.Value
			break
		}
	}
	d.last = v
	d.drawn = true
	d.history = append(d.history, v)
	return v
}

func (d *DiscreteSampler) Value(mode Mode) float64 {
	if mode == Deterministic {
		return d.Mean()
	}
	if !d.drawn {
		return d.Next()
	}
	return d.last
}

func (d *DiscreteSampler) SetRandomValue(v float64) {
	d.last = v
	d.drawn = true
	d.history = append(d.history, v)
}

func (d *DiscreteSampler) ResetHistory() { d.history = nil }

func (d *DiscreteSampler) History() []float64 { return d.history }

func (d *DiscreteSampler) Mean() float64 {
	m := 0.0
	for _, p := range d.points {
		m += p.Value * p.Probability
	}
	return m
}
