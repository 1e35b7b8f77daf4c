package gls

import (
	"math"

	"github.com/cwbudde/algo-timing/timing/series"
	"github.com/cwbudde/algo-vecmath"
)

// prepared is the read-only view of a series shared by all frequency
// evaluations. Times are shifted to the weighted mean time and values are
// centered on the weighted mean; neither changes the power.
type prepared struct {
	t    []float64 // t_i - tref
	xc   []float64 // x_i - Y
	w    []float64 // normalized weights
	wx   []float64 // w_i * xc_i
	wraw []float64 // unnormalized weights, 1/err^2 or 1
	tref float64
	mean float64 // Y
	yy   float64 // YY
	wsum float64
	errs bool
}

func prepare(s *series.Series) *prepared {
	t := s.Times()
	x := s.Values()
	w := s.Weights()
	n := len(t)

	p := &prepared{
		t:    t,
		xc:   x,
		w:    w,
		wx:   make([]float64, n),
		wraw: make([]float64, n),
		tref: s.WeightedMeanTime(),
		mean: s.WeightedMean(),
		yy:   s.WeightedVariance(),
		wsum: s.WeightSum(),
		errs: s.HasErrors(),
	}

	for i := range t {
		p.t[i] -= p.tref
		p.xc[i] -= p.mean
	}

	vecmath.MulBlock(p.wx, w, p.xc)
	vecmath.ScaleBlock(p.wraw, w, p.wsum)

	return p
}

// trigSums holds the weighted sums at one angular frequency. Values enter
// only through the centered data, so Y = sum(w xc) = 0 and YC, YS are already
// mean-corrected.
type trigSums struct {
	c, s   float64 // sum w cos, sum w sin
	yc, ys float64 // sum w xc cos, sum w xc sin
	cc, ss float64 // sum w cos^2, sum w sin^2
	cs     float64 // sum w cos sin
}

// directSums evaluates the sums at omega in O(N).
func (p *prepared) directSums(omega float64) trigSums {
	var r trigSums
	for i, ti := range p.t {
		sn, cs := math.Sincos(omega * ti)
		wi := p.w[i]
		wci := wi * cs
		wsi := wi * sn

		r.c += wci
		r.s += wsi
		r.yc += p.wx[i] * cs
		r.ys += p.wx[i] * sn
		r.cc += wci * cs
		r.ss += wsi * sn
		r.cs += wci * sn
	}

	return r
}
