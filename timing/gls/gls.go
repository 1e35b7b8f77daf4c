package gls

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/cwbudde/algo-timing/timing/grid"
	"github.com/cwbudde/algo-timing/timing/norm"
	"github.com/cwbudde/algo-timing/timing/series"
	"github.com/cwbudde/algo-timing/timing/significance"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// degenerateTolerance is the weighted standard deviation, relative to the
// largest absolute value, below which a series counts as constant.
const degenerateTolerance = 1e-14

// Periodogram computes GLS periodograms with a fixed configuration.
// It is safe for concurrent use.
type Periodogram struct {
	cfg    Config
	strat  strategy
	logger *zap.Logger
}

// New returns a periodogram configured by opts applied over [DefaultConfig].
func New(opts ...Option) (*Periodogram, error) {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return NewFromConfig(cfg)
}

// NewFromConfig returns a periodogram for an explicit configuration.
func NewFromConfig(cfg Config) (*Periodogram, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Periodogram{
		cfg:    cfg,
		strat:  strategyFor(cfg.Mode),
		logger: logger.Named("gls"),
	}, nil
}

// Config returns the periodogram's configuration.
func (p *Periodogram) Config() Config { return p.cfg }

// Compute evaluates the periodogram of s at every frequency of g.
//
// It fails with [timing.ErrDegenerate] when s has (numerically) zero
// variance, with [timing.ErrConfig] when fast sums are requested on a
// non-uniform grid, and with ctx.Err() when ctx is cancelled between
// frequency batches.
func (p *Periodogram) Compute(ctx context.Context, s *series.Series, g *grid.Grid) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("gls: nil series: %w", timing.ErrData)
	}

	if g == nil || g.Len() == 0 {
		return nil, fmt.Errorf("gls: empty frequency grid: %w", timing.ErrConfig)
	}

	if err := checkDegenerate(s); err != nil {
		return nil, err
	}

	prep := prepare(s)

	p.logger.Debug("computing periodogram",
		zap.Int("samples", s.Len()),
		zap.Int("frequencies", g.Len()),
		zap.Float64("fmin", g.Min()),
		zap.Float64("fmax", g.Max()),
		zap.Stringer("mode", p.cfg.Mode),
		zap.Stringer("normalization", p.cfg.Normalization),
		zap.Bool("fast", p.cfg.FastSums),
	)

	raw := make([]float64, g.Len())

	var (
		singular int
		err      error
	)

	if p.cfg.FastSums && g.Len() > 1 {
		singular, err = p.evaluateFast(ctx, prep, g, raw)
	} else {
		singular, err = p.evaluateDirect(ctx, prep, g, raw)
	}

	if err != nil {
		return nil, err
	}

	if singular > 0 {
		p.logger.Debug("singular frequencies reported as zero power", zap.Int("count", singular))
	}

	return p.newResult(s, g, prep, raw, singular)
}

// evaluateDirect fills raw from directly evaluated sums.
func (p *Periodogram) evaluateDirect(ctx context.Context, prep *prepared, g *grid.Grid, raw []float64) (int, error) {
	var singular atomic.Int64

	err := p.forEachBatch(ctx, len(raw), func(lo, hi int) {
		var count int64

		for i := lo; i < hi; i++ {
			pw, sing := p.strat.power(prep.directSums(2*math.Pi*g.At(i)), prep.yy)
			raw[i] = pw

			if sing {
				count++
			}
		}

		singular.Add(count)
	})
	if err != nil {
		return 0, err
	}

	return int(singular.Load()), nil
}

// forEachBatch calls fn on consecutive index ranges [lo, hi) covering
// [0, n), checking ctx before each one. With more than one worker, ranges
// are processed concurrently; fn must only write to its own range.
func (p *Periodogram) forEachBatch(ctx context.Context, n int, fn func(lo, hi int)) error {
	size := p.cfg.BatchSize

	if p.cfg.Workers == 1 {
		for lo := 0; lo < n; lo += size {
			if err := ctx.Err(); err != nil {
				return err
			}

			fn(lo, min(lo+size, n))
		}

		return nil
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.cfg.Workers)

	for lo := 0; lo < n; lo += size {
		if egctx.Err() != nil {
			break
		}

		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}

			fn(lo, min(lo+size, n))

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// evaluateFast computes all sums with one set of FFTs.
func (p *Periodogram) evaluateFast(ctx context.Context, prep *prepared, g *grid.Grid, raw []float64) (int, error) {
	if !g.Uniform() {
		return 0, fmt.Errorf("gls: fast sums need a uniform frequency grid: %w", timing.ErrConfig)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	sums, err := prep.fastSums(g.Min(), g.Step(), g.Len())
	if err != nil {
		return 0, err
	}

	singular := 0

	for lo := 0; lo < len(raw); lo += p.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		for i := lo; i < min(lo+p.cfg.BatchSize, len(raw)); i++ {
			pw, sing := p.strat.power(sums[i], prep.yy)
			raw[i] = pw

			if sing {
				singular++
			}
		}
	}

	return singular, nil
}

func (p *Periodogram) newResult(s *series.Series, g *grid.Grid, prep *prepared, raw []float64, singular int) (*Result, error) {
	best := floats.MaxIdx(raw)

	nctx := norm.Context{
		N:       s.Len(),
		Params:  p.cfg.Mode.Params(),
		Chi2Ref: s.Chi2Constant(),
		YY:      prep.yy,
		PMax:    raw[best],
	}

	powers, err := norm.ApplyAll(p.cfg.Normalization, raw, nctx)
	if err != nil {
		return nil, err
	}

	m := p.cfg.Independent
	if m == 0 {
		m = significance.IndependentFrequencies(g.Min(), g.Max(), s.Baseline())
	}

	// With no residual degrees of freedom the null distribution is
	// undefined; FAP queries on such a result fail with ErrRange.
	var est *significance.Estimator
	if nctx.DOF() >= 1 {
		est, err = significance.New(p.cfg.Normalization, nctx, significance.WithIndependent(m))
		if err != nil {
			return nil, err
		}
	}

	bf := prep.bestFit(best, g.At(best), p.cfg.Mode, p.strat)
	bf.RawPower = raw[best]
	bf.Power = powers[best]

	p.logger.Debug("periodogram peak",
		zap.Float64("frequency", bf.Frequency),
		zap.Float64("period", bf.Period),
		zap.Float64("power", bf.Power),
		zap.Float64("independent", m),
	)

	return &Result{
		series:   s,
		grid:     g,
		prep:     prep,
		cfg:      p.cfg,
		raw:      raw,
		powers:   powers,
		nctx:     nctx,
		est:      est,
		best:     bf,
		singular: singular,
	}, nil
}

// checkDegenerate rejects series whose weighted variance is zero or lost in
// rounding relative to the data magnitude.
func checkDegenerate(s *series.Series) error {
	yy := s.WeightedVariance()
	scale := degenerateTolerance * s.MaxAbsValue()

	if !(yy > 0) || yy <= scale*scale {
		return fmt.Errorf("gls: series %q has zero variance: %w", s.Name(), timing.ErrDegenerate)
	}

	return nil
}

// Compute is shorthand for New(opts...) followed by [Periodogram.Compute].
func Compute(ctx context.Context, s *series.Series, g *grid.Grid, opts ...Option) (*Result, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return p.Compute(ctx, s, g)
}

// ComputeRange evaluates the periodogram on the uniform grid fmin..fmax with
// step df.
func ComputeRange(ctx context.Context, s *series.Series, fmin, fmax, df float64, opts ...Option) (*Result, error) {
	g, err := grid.FromStep(fmin, fmax, df)
	if err != nil {
		return nil, err
	}

	return Compute(ctx, s, g, opts...)
}

// ComputeAuto evaluates the periodogram on the oversampled grid derived from
// the series baseline and sampling, see [grid.Oversampled].
func ComputeAuto(ctx context.Context, s *series.Series, ofac, hifac float64, opts ...Option) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("gls: nil series: %w", timing.ErrData)
	}

	g, err := grid.Oversampled(s.Baseline(), s.MinSpacing(), ofac, hifac)
	if err != nil {
		return nil, err
	}

	return Compute(ctx, s, g, opts...)
}
