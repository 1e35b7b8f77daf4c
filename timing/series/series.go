// Package series provides the validated sample container consumed by the
// periodogram engine.
//
// A [Series] holds N >= 3 samples (t, x, err). Times need not be sorted and
// duplicate times are allowed. Measurement errors are optional: when absent
// for every sample, uniform unit weights are used. A series is immutable after
// construction; accessors return copies.
package series

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// MinSamples is the smallest series accepted: a floating-mean sinusoid has
// three free parameters.
const MinSamples = 3

// Series is an immutable set of (time, value, optional error) samples.
type Series struct {
	name   string
	t      []float64
	x      []float64
	err    []float64 // nil when errors are absent
	w      []float64 // normalized weights, sum(w) = 1
	wsum   float64   // sum(1/err^2), or N for unit weights
	mean   float64
	yy     float64
	tmin   float64
	tmax   float64
	tmeanW float64
}

// Option configures a [Series] at construction time.
type Option func(*config) error

type config struct {
	name string
	err  []float64
}

// WithErrors attaches per-sample measurement uncertainties.
//
// NaN entries mark an absent uncertainty. A slice that is entirely NaN is
// treated as "no errors" (unit weights); mixing NaN and finite entries is
// rejected by [New] as partial provision.
func WithErrors(err []float64) Option {
	return func(cfg *config) error {
		cfg.err = err
		return nil
	}
}

// WithName sets a descriptive label carried through reports.
func WithName(name string) Option {
	return func(cfg *config) error {
		cfg.name = name
		return nil
	}
}

// New validates and copies t and x into a [Series].
func New(t, x []float64, opts ...Option) (*Series, error) {
	var cfg config
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	n := len(t)
	if len(x) != n {
		return nil, fmt.Errorf("series: time/value length mismatch: %d != %d: %w", n, len(x), timing.ErrData)
	}

	if n < MinSamples {
		return nil, fmt.Errorf("series: need at least %d samples: %d: %w", MinSamples, n, timing.ErrData)
	}

	for i := range n {
		if !isFinite(t[i]) {
			return nil, fmt.Errorf("series: time must be finite at index %d: %v: %w", i, t[i], timing.ErrData)
		}

		if !isFinite(x[i]) {
			return nil, fmt.Errorf("series: value must be finite at index %d: %v: %w", i, x[i], timing.ErrData)
		}
	}

	errs, err := validateErrors(cfg.err, n)
	if err != nil {
		return nil, err
	}

	s := &Series{
		name: cfg.name,
		t:    append([]float64(nil), t...),
		x:    append([]float64(nil), x...),
		err:  errs,
	}
	s.computeWeights()
	s.computeMoments()

	return s, nil
}

func validateErrors(errs []float64, n int) ([]float64, error) {
	if errs == nil {
		return nil, nil
	}

	if len(errs) != n {
		return nil, fmt.Errorf("series: error/value length mismatch: %d != %d: %w", len(errs), n, timing.ErrData)
	}

	absent := 0
	for i, e := range errs {
		switch {
		case math.IsNaN(e):
			absent++
		case math.IsInf(e, 0):
			return nil, fmt.Errorf("series: error must be finite at index %d: %w", i, timing.ErrData)
		case e <= 0:
			return nil, fmt.Errorf("series: error must be > 0 at index %d: %v: %w", i, e, timing.ErrData)
		}
	}

	switch absent {
	case 0:
		return append([]float64(nil), errs...), nil
	case n:
		return nil, nil
	default:
		return nil, fmt.Errorf("series: errors given for %d of %d samples: %w", n-absent, n, timing.ErrData)
	}
}

func (s *Series) computeWeights() {
	n := len(s.x)
	s.w = make([]float64, n)

	if s.err == nil {
		for i := range s.w {
			s.w[i] = 1
		}
	} else {
		inv := make([]float64, n)
		for i, e := range s.err {
			inv[i] = 1 / e
		}

		vecmath.MulBlock(s.w, inv, inv)
	}

	s.wsum = floats.Sum(s.w)
	vecmath.ScaleBlock(s.w, s.w, 1/s.wsum)
}

func (s *Series) computeMoments() {
	s.mean = floats.Dot(s.w, s.x)
	s.tmeanW = floats.Dot(s.w, s.t)

	var yy float64
	for i, v := range s.x {
		d := v - s.mean
		yy += s.w[i] * d * d
	}

	s.yy = yy
	s.tmin = floats.Min(s.t)
	s.tmax = floats.Max(s.t)
}

// Name returns the series label (possibly empty).
func (s *Series) Name() string { return s.name }

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.x) }

// HasErrors reports whether measurement uncertainties were supplied.
func (s *Series) HasErrors() bool { return s.err != nil }

// Times returns a copy of the sample times.
func (s *Series) Times() []float64 { return append([]float64(nil), s.t...) }

// Values returns a copy of the sample values.
func (s *Series) Values() []float64 { return append([]float64(nil), s.x...) }

// Errors returns a copy of the uncertainties, or nil when absent.
func (s *Series) Errors() []float64 {
	if s.err == nil {
		return nil
	}

	return append([]float64(nil), s.err...)
}

// Weights returns a copy of the normalized weights w_i = (1/err_i^2) / W,
// so that sum(w) = 1.
func (s *Series) Weights() []float64 { return append([]float64(nil), s.w...) }

// WeightSum returns W = sum(1/err_i^2), or N for unit weights.
func (s *Series) WeightSum() float64 { return s.wsum }

// WeightedMean returns Y = sum(w_i x_i).
func (s *Series) WeightedMean() float64 { return s.mean }

// WeightedVariance returns YY = sum(w_i (x_i - Y)^2).
func (s *Series) WeightedVariance() float64 { return s.yy }

// WeightedMeanTime returns sum(w_i t_i).
func (s *Series) WeightedMeanTime() float64 { return s.tmeanW }

// Chi2Constant returns the chi-square of the best constant model, W * YY.
func (s *Series) Chi2Constant() float64 { return s.wsum * s.yy }

// Start returns the earliest sample time.
func (s *Series) Start() float64 { return s.tmin }

// End returns the latest sample time.
func (s *Series) End() float64 { return s.tmax }

// Baseline returns the time span T = max(t) - min(t).
func (s *Series) Baseline() float64 { return s.tmax - s.tmin }

// MinSpacing returns the smallest positive gap between sorted sample times.
// Returns 0 when all times coincide.
func (s *Series) MinSpacing() float64 {
	sorted := append([]float64(nil), s.t...)
	sort.Float64s(sorted)

	minGap := 0.0
	for i := 1; i < len(sorted); i++ {
		d := sorted[i] - sorted[i-1]
		if d > 0 && (minGap == 0 || d < minGap) {
			minGap = d
		}
	}

	return minGap
}

// MaxAbsValue returns max(|x_i|), the scale used by degeneracy checks.
func (s *Series) MaxAbsValue() float64 {
	return vecmath.MaxAbs(s.x)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
