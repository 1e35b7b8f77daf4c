// Package gls computes the Generalized Lomb-Scargle periodogram of unevenly
// sampled, optionally weighted time series.
//
// At each trial frequency f the model
//
//	x(t) = a cos(2 pi f t) + b sin(2 pi f t) + c
//
// is fitted by weighted least squares, and the power is the fractional
// chi-square reduction relative to a constant model (Zechmeister & Kürster
// 2009). Each frequency costs O(N) through closed-form weighted sums, so a
// full spectrum costs O(N M); with [WithFastSums] the sums on a uniform grid
// come from FFTs in O(N + M log M).
//
// Two modes share one evaluation path: [FloatingMean] fits c freely,
// [Classical] fixes it at the weighted mean and uses the time-shift
// diagonalization of Lomb (1976) and Scargle (1982).
//
// Basic usage:
//
//	s, err := series.New(t, x, series.WithErrors(dx))
//	g, err := grid.FromStep(0.01, 2, 0.001)
//	res, err := gls.Compute(ctx, s, g, gls.WithNormalization(norm.Cumming))
//	best := res.Best()
//	fap, err := res.FAP()
//
// Powers are reported in one of the conventions of the norm package;
// false-alarm probabilities come from the significance package.
package gls
