package gls

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/cwbudde/algo-timing/timing/grid"
	"github.com/cwbudde/algo-timing/timing/series"
	"github.com/cwbudde/algo-vecmath"
)

// SpectralWindow returns the window function of the sampling pattern,
//
//	W(f) = |sum_i w_i exp(i 2 pi f t_i)|^2
//
// with normalized weights, so W is in [0, 1] and reaches 1 only where the
// sampling is strictly periodic. Peaks of W show the aliases the sampling
// imprints on the periodogram. Values do not enter the result.
func (p *Periodogram) SpectralWindow(ctx context.Context, s *series.Series, g *grid.Grid) ([]float64, error) {
	if s == nil {
		return nil, fmt.Errorf("gls: nil series: %w", timing.ErrData)
	}

	if g == nil || g.Len() == 0 {
		return nil, fmt.Errorf("gls: empty frequency grid: %w", timing.ErrConfig)
	}

	t := s.Times()
	w := s.Weights()
	out := make([]float64, g.Len())

	err := p.forEachBatch(ctx, len(out), func(lo, hi int) {
		re := make([]float64, hi-lo)
		im := make([]float64, hi-lo)

		for k := lo; k < hi; k++ {
			omega := 2 * math.Pi * g.At(k)

			for i, ti := range t {
				sn, cs := math.Sincos(omega * ti)
				re[k-lo] += w[i] * cs
				im[k-lo] += w[i] * sn
			}
		}

		vecmath.Power(out[lo:hi], re, im)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// SpectralWindow is shorthand for New(opts...) followed by
// [Periodogram.SpectralWindow].
func SpectralWindow(ctx context.Context, s *series.Series, g *grid.Grid, opts ...Option) ([]float64, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return p.SpectralWindow(ctx, s, g)
}
