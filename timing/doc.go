// Package timing is the root of the period-analysis packages.
//
// The subpackages compose into a Generalized Lomb-Scargle (GLS) pipeline for
// unevenly sampled time series:
//
//   - [github.com/cwbudde/algo-timing/timing/series] validates (t, x, err) samples
//   - [github.com/cwbudde/algo-timing/timing/grid] generates candidate frequencies
//   - [github.com/cwbudde/algo-timing/timing/gls] evaluates the periodogram and best fit
//   - [github.com/cwbudde/algo-timing/timing/norm] rescales power to published conventions
//   - [github.com/cwbudde/algo-timing/timing/significance] computes false-alarm probabilities
//   - [github.com/cwbudde/algo-timing/timing/export] writes spectra as text, CSV, PNG, or HTML
//
// This package carries the error taxonomy shared by all of them and the
// [Point] type through which spectra leave the engine.
package timing
