// Package norm maps raw GLS power to the published normalization conventions.
//
// Raw power is the Zechmeister & Kürster form p in [0, 1], the fractional
// reduction of chi-square achieved by the sinusoid. Every convention is a
// pure, invertible function of p and a small [Context] describing the data,
// so values can be converted between conventions without recomputing the
// periodogram.
package norm

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-timing/timing"
)

// Type selects a normalization convention.
type Type int

const (
	// Normalized is the default: p = (chi2_0 - chi2(f)) / chi2_0 in [0, 1],
	// where 1 means a perfect sinusoidal fit.
	Normalized Type = iota
	// Scargle is the unnormalized chi-square-reduction form p * chi2_0 / 2.
	Scargle
	// HorneBaliunas scales p by (N-1)/2.
	HorneBaliunas
	// Cumming scales p by residual variance: nu/2 * p / (1 - pmax).
	Cumming
	// Chi2 reports the chi-square of the sinusoid fit, chi2_0 * (1 - p).
	Chi2
	// WRMS reports the weighted rms of the fit residuals, sqrt(YY * (1 - p)).
	WRMS

	typeCount
)

var typeNames = [typeCount]string{
	Normalized:    "normalized",
	Scargle:       "Scargle",
	HorneBaliunas: "HorneBaliunas",
	Cumming:       "Cumming",
	Chi2:          "chi2",
	WRMS:          "wrms",
}

var aliases = map[string]Type{
	"normalized":     Normalized,
	"zk":             Normalized,
	"scargle":        Scargle,
	"hornebaliunas":  HorneBaliunas,
	"horne-baliunas": HorneBaliunas,
	"hb":             HorneBaliunas,
	"cumming":        Cumming,
	"chi2":           Chi2,
	"chisq":          Chi2,
	"wrms":           WRMS,
}

// cummingFloor keeps the Cumming scale finite for a perfect fit (pmax = 1).
const cummingFloor = 1e-15

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known convention.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// Ascending reports whether larger values mean a stronger periodic signal.
// Chi2 and WRMS decrease as the fit improves.
func (t Type) Ascending() bool {
	return t != Chi2 && t != WRMS
}

// Types lists all conventions in declaration order.
func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}

	return out
}

// Parse resolves a convention name (case-insensitive). Accepted names are the
// String forms plus the aliases "ZK", "HB", "horne-baliunas", and "chisq".
func Parse(name string) (Type, error) {
	t, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("norm: unknown normalization %q: %w", name, timing.ErrConfig)
	}

	return t, nil
}

// Context carries the data-dependent constants the conventions need.
type Context struct {
	N       int     // number of samples
	Params  int     // fitted parameters: 3 with floating mean, 2 without
	Chi2Ref float64 // chi-square of the constant model, W * YY
	YY      float64 // weighted variance of the data
	PMax    float64 // largest raw power in the spectrum
}

// DOF returns the residual degrees of freedom N - Params.
func (c Context) DOF() float64 {
	return float64(c.N - c.Params)
}

func (c Context) cummingScale() float64 {
	return c.DOF() / 2 / math.Max(1-c.PMax, cummingFloor)
}

// Apply converts raw power p to convention t. Unknown types yield NaN.
func (t Type) Apply(p float64, c Context) float64 {
	switch t {
	case Normalized:
		return p
	case Scargle:
		return p * c.Chi2Ref / 2
	case HorneBaliunas:
		return p * float64(c.N-1) / 2
	case Cumming:
		return p * c.cummingScale()
	case Chi2:
		return c.Chi2Ref * (1 - p)
	case WRMS:
		return math.Sqrt(math.Max(c.YY*(1-p), 0))
	default:
		return math.NaN()
	}
}

// Invert converts a value in convention t back to raw power.
// Unknown types yield NaN.
func (t Type) Invert(v float64, c Context) float64 {
	switch t {
	case Normalized:
		return v
	case Scargle:
		return 2 * v / c.Chi2Ref
	case HorneBaliunas:
		return 2 * v / float64(c.N-1)
	case Cumming:
		return v / c.cummingScale()
	case Chi2:
		return 1 - v/c.Chi2Ref
	case WRMS:
		return 1 - v*v/c.YY
	default:
		return math.NaN()
	}
}

// Range returns the values the convention can take for raw power in [0, 1]
// (or [0, PMax] for Cumming), ordered lo <= hi.
func (t Type) Range(c Context) (lo, hi float64) {
	switch t {
	case Cumming:
		return 0, t.Apply(c.PMax, c)
	case Chi2, WRMS:
		return t.Apply(1, c), t.Apply(0, c)
	default:
		return t.Apply(0, c), t.Apply(1, c)
	}
}

// Convert re-expresses v from convention from to convention to.
func Convert(v float64, from, to Type, c Context) (float64, error) {
	if !from.Valid() {
		return 0, fmt.Errorf("norm: invalid source normalization %v: %w", from, timing.ErrConfig)
	}

	if !to.Valid() {
		return 0, fmt.Errorf("norm: invalid target normalization %v: %w", to, timing.ErrConfig)
	}

	return to.Apply(from.Invert(v, c), c), nil
}

// ApplyAll converts a raw power slice into a new slice in convention t.
func ApplyAll(t Type, raw []float64, c Context) ([]float64, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("norm: invalid normalization %v: %w", t, timing.ErrConfig)
	}

	out := make([]float64, len(raw))
	for i, p := range raw {
		out[i] = t.Apply(p, c)
	}

	return out, nil
}
