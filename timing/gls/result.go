package gls

import (
	"fmt"
	"io"
	"math"
	"sync"
	"text/tabwriter"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/cwbudde/algo-timing/timing/grid"
	"github.com/cwbudde/algo-timing/timing/norm"
	"github.com/cwbudde/algo-timing/timing/series"
	"github.com/cwbudde/algo-timing/timing/significance"
)

// DefaultFAPLevels are the levels reported by [Result.FAPTable] when none are
// given.
var DefaultFAPLevels = []float64{0.1, 0.01, 0.001}

// Result is an immutable periodogram snapshot: the spectrum, the best-fit
// sinusoid at its peak, and lazily computed FAP thresholds. It is safe for
// concurrent use.
type Result struct {
	series *series.Series
	grid   *grid.Grid
	prep   *prepared
	cfg    Config

	raw    []float64
	powers []float64
	nctx   norm.Context
	est    *significance.Estimator // nil without residual degrees of freedom

	best     BestFit
	singular int

	mu         sync.Mutex
	thresholds map[float64]float64
}

// Len returns the number of evaluated frequencies.
func (r *Result) Len() int { return len(r.powers) }

// Series returns the analyzed series.
func (r *Result) Series() *series.Series { return r.series }

// Grid returns the evaluated frequency grid.
func (r *Result) Grid() *grid.Grid { return r.grid }

// Frequencies returns a copy of the evaluated frequencies.
func (r *Result) Frequencies() []float64 { return r.grid.Values() }

// Periods returns 1/f for every evaluated frequency.
func (r *Result) Periods() []float64 { return r.grid.Periods() }

// Powers returns a copy of the spectrum in the configured normalization.
func (r *Result) Powers() []float64 { return append([]float64(nil), r.powers...) }

// RawPowers returns a copy of the spectrum in the normalized (ZK) form.
func (r *Result) RawPowers() []float64 { return append([]float64(nil), r.raw...) }

// Pairs returns the spectrum as ordered (frequency, power) points.
func (r *Result) Pairs() []timing.Point {
	out := make([]timing.Point, len(r.powers))
	for i, f := range r.grid.All() {
		out[i] = timing.Point{Frequency: f, Power: r.powers[i]}
	}

	return out
}

// Normalization returns the convention of [Result.Powers].
func (r *Result) Normalization() norm.Type { return r.cfg.Normalization }

// Mode returns the offset handling used.
func (r *Result) Mode() Mode { return r.cfg.Mode }

// Context returns the constants needed to convert powers between
// conventions with the norm package.
func (r *Result) Context() norm.Context { return r.nctx }

// Convert returns the spectrum re-expressed in convention t.
func (r *Result) Convert(t norm.Type) ([]float64, error) {
	return norm.ApplyAll(t, r.raw, r.nctx)
}

// Singular returns the number of frequencies whose normal matrix was
// singular and whose power was therefore reported as 0.
func (r *Result) Singular() int { return r.singular }

// Best returns the best-fit sinusoid at the highest peak.
func (r *Result) Best() BestFit { return r.best }

// BestPeriod returns the period of the highest peak and its 1-sigma error.
func (r *Result) BestPeriod() (period, err float64) {
	return r.best.Period, r.best.PeriodErr
}

// Independent returns the number of independent frequencies used for FAPs.
func (r *Result) Independent() float64 {
	if r.est == nil {
		return math.NaN()
	}

	return r.est.Independent()
}

func (r *Result) estimator() (*significance.Estimator, error) {
	if r.est == nil {
		return nil, fmt.Errorf("gls: FAP undefined for %d samples and %d parameters: %w",
			r.nctx.N, r.nctx.Params, timing.ErrRange)
	}

	return r.est, nil
}

// FAP returns the false-alarm probability of the highest peak.
func (r *Result) FAP() (float64, error) {
	return r.FAPOf(r.best.Power)
}

// FAPOf returns the false-alarm probability of power v, given in the
// result's normalization.
func (r *Result) FAPOf(v float64) (float64, error) {
	est, err := r.estimator()
	if err != nil {
		return 0, err
	}

	return est.FAP(v), nil
}

// Threshold returns the power whose FAP equals level. Thresholds are
// computed on first use and cached per level.
func (r *Result) Threshold(level float64) (float64, error) {
	est, err := r.estimator()
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.thresholds[level]; ok {
		return v, nil
	}

	v, err := est.Threshold(level)
	if err != nil {
		return 0, err
	}

	if r.thresholds == nil {
		r.thresholds = make(map[float64]float64)
	}

	r.thresholds[level] = v

	return v, nil
}

// FAPTable returns the power thresholds for the given levels, or for
// [DefaultFAPLevels] when none are given.
func (r *Result) FAPTable(levels ...float64) ([]significance.Level, error) {
	if len(levels) == 0 {
		levels = DefaultFAPLevels
	}

	out := make([]significance.Level, len(levels))
	for i, l := range levels {
		v, err := r.Threshold(l)
		if err != nil {
			return nil, err
		}

		out[i] = significance.Level{FAP: l, Power: v}
	}

	return out, nil
}

// PowerAt returns the spectrum at frequency f by linear interpolation between
// the neighboring grid frequencies. Frequencies outside the grid fail with
// [timing.ErrRange].
func (r *Result) PowerAt(f float64) (float64, error) {
	lo, hi := r.grid.Min(), r.grid.Max()
	if math.IsNaN(f) || f < lo || f > hi {
		return 0, fmt.Errorf("gls: frequency %v outside evaluated range [%v, %v]: %w", f, lo, hi, timing.ErrRange)
	}

	i := r.grid.Index(f)
	if i >= r.Len() {
		i = r.Len() - 1
	}

	fi := r.grid.At(i)
	if fi == f || i == 0 {
		return r.powers[i], nil
	}

	f0 := r.grid.At(i - 1)
	frac := (f - f0) / (fi - f0)

	return r.powers[i-1] + frac*(r.powers[i]-r.powers[i-1]), nil
}

// PowerAtPeriod returns [Result.PowerAt] for frequency 1/period.
func (r *Result) PowerAtPeriod(period float64) (float64, error) {
	if !(period > 0) {
		return 0, fmt.Errorf("gls: period must be > 0: %v: %w", period, timing.ErrRange)
	}

	return r.PowerAt(1 / period)
}

// Evaluate recomputes the power at an arbitrary frequency f > 0 exactly,
// in the result's normalization.
func (r *Result) Evaluate(f float64) (float64, error) {
	if !(f > 0) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("gls: frequency must be > 0 and finite: %v: %w", f, timing.ErrRange)
	}

	p, _ := strategyFor(r.cfg.Mode).power(r.prep.directSums(2*math.Pi*f), r.prep.yy)

	return r.cfg.Normalization.Apply(p, r.nctx), nil
}

// Model evaluates the best-fit sinusoid at each time in t.
func (r *Result) Model(t []float64) []float64 {
	out := make([]float64, len(t))
	for i, ti := range t {
		out[i] = r.best.Model(ti)
	}

	return out
}

// Residuals returns the data minus the best-fit model at the sample times.
func (r *Result) Residuals() []float64 {
	t := r.series.Times()
	x := r.series.Values()

	for i, ti := range t {
		x[i] -= r.best.Model(ti)
	}

	return x
}

// Info writes a human-readable summary of the periodogram and best fit.
func (r *Result) Info(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	b := r.best

	name := r.series.Name()
	if name == "" {
		name = "-"
	}

	fmt.Fprintf(tw, "Series:\t%s\n", name)
	fmt.Fprintf(tw, "Samples:\t%d\n", r.series.Len())
	fmt.Fprintf(tw, "Errors:\t%t\n", r.series.HasErrors())
	fmt.Fprintf(tw, "Baseline:\t%.6g\n", r.series.Baseline())
	fmt.Fprintf(tw, "Mode:\t%s\n", r.cfg.Mode)
	fmt.Fprintf(tw, "Normalization:\t%s\n", r.cfg.Normalization)
	fmt.Fprintf(tw, "Frequencies:\t%d (%.6g .. %.6g)\n", r.Len(), r.grid.Min(), r.grid.Max())
	fmt.Fprintf(tw, "Singular:\t%d\n", r.singular)
	fmt.Fprintf(tw, "Best frequency:\t%.8g +/- %.3g\n", b.Frequency, b.FrequencyErr)
	fmt.Fprintf(tw, "Best period:\t%.8g +/- %.3g\n", b.Period, b.PeriodErr)
	fmt.Fprintf(tw, "Power:\t%.6g (raw %.6g)\n", b.Power, b.RawPower)
	fmt.Fprintf(tw, "Amplitude:\t%.6g +/- %.3g\n", b.Amplitude, b.AmplitudeErr)
	fmt.Fprintf(tw, "Phase:\t%.6g +/- %.3g\n", b.Phase, b.PhaseErr)
	fmt.Fprintf(tw, "Offset:\t%.6g +/- %.3g\n", b.Offset, b.OffsetErr)
	fmt.Fprintf(tw, "T0:\t%.8g\n", b.T0)
	fmt.Fprintf(tw, "RMS:\t%.6g\n", b.RMS)

	if fap, err := r.FAP(); err == nil {
		fmt.Fprintf(tw, "FAP:\t%.4g (M = %.4g)\n", fap, r.Independent())
	}

	return tw.Flush()
}
