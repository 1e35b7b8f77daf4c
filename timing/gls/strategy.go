package gls

import "math"

// singularTolerance bounds the normal-matrix determinant relative to its
// squared trace. Below it the cos/sin basis is degenerate at that frequency
// (e.g. f = 1/(2*dt) for evenly spaced samples) and power is reported as 0.
const singularTolerance = 1e-12

// strategy turns the weighted sums at one frequency into raw (ZK) power.
type strategy interface {
	// power returns p in [0, 1] and whether the 2x2 system was singular.
	power(s trigSums, yy float64) (float64, bool)
}

func strategyFor(m Mode) strategy {
	if m == Classical {
		return classical{}
	}

	return floatingMean{}
}

// floatingMean centers the trigonometric sums, which folds the offset into
// the fit and leaves a 2x2 solve for (a, b).
type floatingMean struct{}

func (floatingMean) power(s trigSums, yy float64) (float64, bool) {
	cc := s.cc - s.c*s.c
	ss := s.ss - s.s*s.s
	cs := s.cs - s.c*s.s

	d := cc*ss - cs*cs
	if singular(d, cc+ss) {
		return 0, true
	}

	p := (s.yc*s.yc*ss - 2*s.yc*s.ys*cs + s.ys*s.ys*cc) / (yy * d)

	return clampPower(p), false
}

// classical keeps the uncentered sums and rotates the time origin by tau,
// tan(2 w tau) = 2 CS / (CC - SS), so that the cross term vanishes and the
// power splits into independent cosine and sine projections.
type classical struct{}

func (classical) power(s trigSums, yy float64) (float64, bool) {
	d := s.cc*s.ss - s.cs*s.cs
	if singular(d, s.cc+s.ss) {
		return 0, true
	}

	theta := 0.5 * math.Atan2(2*s.cs, s.cc-s.ss)
	sn, cs := math.Sincos(theta)

	ycTau := s.yc*cs + s.ys*sn
	ysTau := s.ys*cs - s.yc*sn
	ccTau := s.cc*cs*cs + 2*s.cs*cs*sn + s.ss*sn*sn
	ssTau := s.ss*cs*cs - 2*s.cs*cs*sn + s.cc*sn*sn

	p := (ycTau*ycTau/ccTau + ysTau*ysTau/ssTau) / yy

	return clampPower(p), false
}

func singular(det, trace float64) bool {
	if math.IsNaN(det) || math.IsInf(det, 0) {
		return true
	}

	return det <= singularTolerance*trace*trace
}

// clampPower removes rounding excursions outside [0, 1].
func clampPower(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
