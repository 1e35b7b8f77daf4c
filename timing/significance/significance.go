// Package significance computes false-alarm probabilities (FAP) for GLS
// periodogram peaks under the null hypothesis of Gaussian white noise.
//
// The single-frequency probability p0 of exceeding a power level depends on
// the normalization convention and on the residual degrees of freedom. The
// FAP of the highest of M independent frequencies is
//
//	FAP(P0) = 1 - (1 - p0(P0))^M
//
// [Estimator.Threshold] inverts this relation by bounded bisection.
package significance

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/cwbudde/algo-timing/timing/norm"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	bisectIterations = 200
	bisectTolerance  = 1e-13
	bracketDoublings = 1100
)

// Level pairs a false-alarm probability with its power threshold.
type Level struct {
	FAP   float64
	Power float64
}

// Option configures an [Estimator].
type Option func(*config) error

type config struct {
	independent float64
	hasM        bool
}

// WithIndependent sets the effective number of independent frequencies M
// explicitly. M must be >= 1.
func WithIndependent(m float64) Option {
	return func(cfg *config) error {
		if !(m >= 1) || math.IsInf(m, 0) {
			return fmt.Errorf("significance: independent frequencies must be >= 1: %v: %w", m, timing.ErrConfig)
		}

		cfg.independent = m
		cfg.hasM = true

		return nil
	}
}

// WithFrequencyRange estimates M from the searched band and time baseline,
// see [IndependentFrequencies].
func WithFrequencyRange(fmin, fmax, baseline float64) Option {
	return func(cfg *config) error {
		if !(fmax >= fmin) || !(baseline >= 0) {
			return fmt.Errorf("significance: invalid band [%v, %v] or baseline %v: %w", fmin, fmax, baseline, timing.ErrConfig)
		}

		cfg.independent = IndependentFrequencies(fmin, fmax, baseline)
		cfg.hasM = true

		return nil
	}
}

// IndependentFrequencies estimates the number of independent frequencies in
// [fmin, fmax] for a series spanning baseline: M = (fmax - fmin) * T, at
// least 1.
func IndependentFrequencies(fmin, fmax, baseline float64) float64 {
	return math.Max(1, (fmax-fmin)*baseline)
}

// Estimator evaluates FAPs for one normalization convention and data set.
type Estimator struct {
	typ  norm.Type
	ctx  norm.Context
	m    float64
	beta distuv.Beta
}

// New returns an estimator for powers expressed in convention t.
// Without [WithIndependent] or [WithFrequencyRange], M defaults to 1
// (single-frequency probabilities).
func New(t norm.Type, c norm.Context, opts ...Option) (*Estimator, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("significance: invalid normalization %v: %w", t, timing.ErrConfig)
	}

	if c.Params < 1 || c.DOF() < 1 {
		return nil, fmt.Errorf("significance: need more samples than fit parameters: N=%d params=%d: %w",
			c.N, c.Params, timing.ErrConfig)
	}

	cfg := config{independent: 1}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Estimator{
		typ:  t,
		ctx:  c,
		m:    cfg.independent,
		beta: distuv.Beta{Alpha: 1, Beta: c.DOF() / 2},
	}, nil
}

// Independent returns M, the effective number of independent frequencies.
func (e *Estimator) Independent() float64 { return e.m }

// Normalization returns the convention the estimator expects powers in.
func (e *Estimator) Normalization() norm.Type { return e.typ }

// SingleProb returns p0, the probability that noise alone exceeds power v at
// one given frequency.
func (e *Estimator) SingleProb(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}

	switch e.typ {
	case norm.Scargle:
		return distuv.Exponential{Rate: 1}.Survival(v)
	case norm.Cumming:
		return distuv.F{D1: 2, D2: e.ctx.DOF()}.Survival(v)
	default:
		return e.rawProb(e.typ.Invert(v, e.ctx))
	}
}

// rawProb is the single-frequency probability for raw (ZK) power p, which
// follows Beta(1, nu/2) under the null hypothesis.
func (e *Estimator) rawProb(p float64) float64 {
	return e.beta.Survival(clamp01(p))
}

// FAP returns the false-alarm probability of a peak with power v.
func (e *Estimator) FAP(v float64) float64 {
	return e.combine(e.SingleProb(v))
}

func (e *Estimator) combine(prob float64) float64 {
	if math.IsNaN(prob) {
		return math.NaN()
	}

	prob = clamp01(prob)
	if prob == 1 {
		return 1
	}

	return clamp01(-math.Expm1(e.m * math.Log1p(-prob)))
}

// ProbInverse returns the power whose single-frequency probability is prob,
// in closed form. It is the M = 1 inverse of [Estimator.FAP].
func (e *Estimator) ProbInverse(prob float64) (float64, error) {
	if !(prob > 0 && prob < 1) {
		return 0, fmt.Errorf("significance: probability must be in (0,1): %v: %w", prob, timing.ErrRange)
	}

	nu := e.ctx.DOF()

	switch e.typ {
	case norm.Scargle:
		return distuv.Exponential{Rate: 1}.Quantile(1 - prob), nil
	case norm.Cumming:
		return nu / 2 * (math.Pow(prob, -2/nu) - 1), nil
	default:
		return e.typ.Apply(e.beta.Quantile(1-prob), e.ctx), nil
	}
}

// Threshold returns the power whose FAP equals fap.
//
// For Chi2 and WRMS, where smaller values mean stronger signals, the result
// is the value below which a peak is significant at that level.
func (e *Estimator) Threshold(fap float64) (float64, error) {
	if !(fap > 0 && fap < 1) {
		return 0, fmt.Errorf("significance: FAP level must be in (0,1): %v: %w", fap, timing.ErrRange)
	}

	switch e.typ {
	case norm.Scargle, norm.Cumming:
		hi := 1.0
		for i := 0; e.FAP(hi) > fap; i++ {
			if i >= bracketDoublings {
				return 0, fmt.Errorf("significance: no threshold for FAP %v: %w", fap, timing.ErrRange)
			}

			hi *= 2
		}

		return bisect(e.FAP, 0, hi, fap), nil
	default:
		p := bisect(func(p float64) float64 { return e.combine(e.rawProb(p)) }, 0, 1, fap)
		return e.typ.Apply(p, e.ctx), nil
	}
}

// Table returns the thresholds for each requested FAP level.
func (e *Estimator) Table(levels ...float64) ([]Level, error) {
	out := make([]Level, len(levels))
	for i, l := range levels {
		p, err := e.Threshold(l)
		if err != nil {
			return nil, err
		}

		out[i] = Level{FAP: l, Power: p}
	}

	return out, nil
}

// bisect finds x in [lo, hi] with f(x) = target for f non-increasing.
func bisect(f func(float64) float64, lo, hi, target float64) float64 {
	for range bisectIterations {
		if hi-lo <= bisectTolerance*math.Max(1, math.Abs(hi)) {
			break
		}

		mid := lo + (hi-lo)/2
		if f(mid) > target {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo + (hi-lo)/2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
