// Package grid generates the ordered candidate frequencies evaluated by the
// periodogram.
//
// A [Grid] is a finite, strictly increasing sequence of positive frequencies.
// Generated grids are lazy: frequencies are computed on access from
// (start, step, count) and iteration can be restarted any number of times.
// Explicit lists are copied and validated.
package grid

import (
	"fmt"
	"iter"
	"math"

	"github.com/cwbudde/algo-timing/timing"
)

// reachTolerance is the fraction of a step within which fmax still counts as
// reachable, absorbing rounding in (fmax-fmin)/step.
const reachTolerance = 1e-9

// Grid is an immutable, strictly increasing sequence of frequencies.
type Grid struct {
	start float64
	step  float64
	n     int
	list  []float64 // non-nil for explicit non-uniform grids
}

// FromStep returns fmin, fmin+df, ... up to fmax.
//
// fmax is included when reachable by the step; otherwise the grid stops at the
// last value <= fmax.
func FromStep(fmin, fmax, df float64) (*Grid, error) {
	if err := validateRange(fmin, fmax); err != nil {
		return nil, err
	}

	if !(df > 0) || math.IsInf(df, 0) {
		return nil, fmt.Errorf("grid: step must be > 0 and finite: %v: %w", df, timing.ErrConfig)
	}

	steps := math.Floor((fmax-fmin)/df + reachTolerance)
	if steps > math.MaxInt32 {
		return nil, fmt.Errorf("grid: step %v yields too many frequencies: %w", df, timing.ErrConfig)
	}

	return &Grid{start: fmin, step: df, n: int(steps) + 1}, nil
}

// FromCount returns n evenly spaced frequencies from fmin to fmax inclusive.
func FromCount(fmin, fmax float64, n int) (*Grid, error) {
	if err := validateRange(fmin, fmax); err != nil {
		return nil, err
	}

	if n < 2 {
		return nil, fmt.Errorf("grid: count must be >= 2: %d: %w", n, timing.ErrConfig)
	}

	return &Grid{start: fmin, step: (fmax - fmin) / float64(n-1), n: n}, nil
}

// FromPeriods returns n frequencies evenly spaced in frequency that cover
// periods pmin..pmax.
func FromPeriods(pmin, pmax float64, n int) (*Grid, error) {
	if !(pmin > 0) || !(pmax > pmin) || math.IsInf(pmax, 0) {
		return nil, fmt.Errorf("grid: periods must satisfy 0 < pmin < pmax: %v, %v: %w", pmin, pmax, timing.ErrConfig)
	}

	return FromCount(1/pmax, 1/pmin, n)
}

// Oversampled returns the conventional grid for a series with time baseline
// T and smallest sampling gap dt:
//
//	df   = 1 / (ofac * T)
//	fmin = df
//	fmax = hifac / (2 * dt)
//
// ofac oversamples the natural resolution 1/T; hifac scales the
// pseudo-Nyquist frequency.
func Oversampled(baseline, minSpacing, ofac, hifac float64) (*Grid, error) {
	switch {
	case !(baseline > 0) || math.IsInf(baseline, 0):
		return nil, fmt.Errorf("grid: baseline must be > 0: %v: %w", baseline, timing.ErrConfig)
	case !(minSpacing > 0):
		return nil, fmt.Errorf("grid: minimum spacing must be > 0: %v: %w", minSpacing, timing.ErrConfig)
	case !(ofac > 0):
		return nil, fmt.Errorf("grid: ofac must be > 0: %v: %w", ofac, timing.ErrConfig)
	case !(hifac > 0):
		return nil, fmt.Errorf("grid: hifac must be > 0: %v: %w", hifac, timing.ErrConfig)
	}

	df := 1 / (ofac * baseline)
	fmax := hifac / (2 * minSpacing)

	return FromStep(df, fmax, df)
}

// FromList validates and copies an explicit frequency list.
//
// Lists whose spacing is constant to within rounding are stored as uniform
// grids so that [Grid.Uniform] reports true for them.
func FromList(freqs []float64) (*Grid, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("grid: frequency list must not be empty: %w", timing.ErrConfig)
	}

	for i, f := range freqs {
		if !(f > 0) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("grid: frequency must be > 0 and finite at index %d: %v: %w", i, f, timing.ErrConfig)
		}

		if i > 0 && !(f > freqs[i-1]) {
			return nil, fmt.Errorf("grid: frequencies must be strictly increasing at index %d: %w", i, timing.ErrConfig)
		}
	}

	if len(freqs) == 1 {
		return &Grid{start: freqs[0], n: 1}, nil
	}

	if step, ok := uniformStep(freqs); ok {
		return &Grid{start: freqs[0], step: step, n: len(freqs)}, nil
	}

	return &Grid{start: freqs[0], n: len(freqs), list: append([]float64(nil), freqs...)}, nil
}

func uniformStep(freqs []float64) (float64, bool) {
	n := len(freqs)
	step := (freqs[n-1] - freqs[0]) / float64(n-1)

	for i, f := range freqs {
		want := freqs[0] + float64(i)*step
		if math.Abs(f-want) > 1e-9*step {
			return 0, false
		}
	}

	return step, true
}

func validateRange(fmin, fmax float64) error {
	if !(fmin > 0) || math.IsInf(fmin, 0) {
		return fmt.Errorf("grid: fmin must be > 0 and finite: %v: %w", fmin, timing.ErrConfig)
	}

	if !(fmax > fmin) || math.IsInf(fmax, 0) {
		return fmt.Errorf("grid: fmax must be finite and > fmin: %v <= %v: %w", fmax, fmin, timing.ErrConfig)
	}

	return nil
}

// Len returns the number of frequencies.
func (g *Grid) Len() int { return g.n }

// At returns the i-th frequency. It panics if i is out of range.
func (g *Grid) At(i int) float64 {
	if i < 0 || i >= g.n {
		panic(fmt.Sprintf("grid: index %d out of range [0,%d)", i, g.n))
	}

	if g.list != nil {
		return g.list[i]
	}

	return g.start + float64(i)*g.step
}

// All returns a restartable iterator over (index, frequency) pairs.
func (g *Grid) All() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for i := range g.n {
			if !yield(i, g.At(i)) {
				return
			}
		}
	}
}

// Values materializes the grid into a new slice.
func (g *Grid) Values() []float64 {
	out := make([]float64, g.n)
	for i, f := range g.All() {
		out[i] = f
	}

	return out
}

// Periods returns 1/f for every frequency, in grid order (decreasing period).
func (g *Grid) Periods() []float64 {
	out := make([]float64, g.n)
	for i, f := range g.All() {
		out[i] = 1 / f
	}

	return out
}

// Min returns the first (smallest) frequency.
func (g *Grid) Min() float64 { return g.At(0) }

// Max returns the last (largest) frequency.
func (g *Grid) Max() float64 { return g.At(g.n - 1) }

// Uniform reports whether the frequencies are evenly spaced.
func (g *Grid) Uniform() bool { return g.list == nil }

// Step returns the frequency spacing of a uniform grid and 0 otherwise.
func (g *Grid) Step() float64 {
	if g.list != nil {
		return 0
	}

	return g.step
}

// Spacing returns the local spacing around index i: the uniform step, or the
// larger distance to a neighbor for explicit lists.
func (g *Grid) Spacing(i int) float64 {
	if g.list == nil {
		return g.step
	}

	d := 0.0
	if i > 0 {
		d = g.list[i] - g.list[i-1]
	}

	if i+1 < g.n {
		d = math.Max(d, g.list[i+1]-g.list[i])
	}

	return d
}

// Index returns the index of the first frequency >= f, or Len() if none.
func (g *Grid) Index(f float64) int {
	lo, hi := 0, g.n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if g.At(mid) < f {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}
