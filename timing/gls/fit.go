package gls

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BestFit describes the sinusoid at the periodogram peak,
//
//	x(t) = Amplitude * cos(2*pi*Frequency*t + Phase) + Offset
//	     = A*cos(2*pi*Frequency*t) + B*sin(2*pi*Frequency*t) + Offset
//
// Errors are 1-sigma formal errors from the normal equations. Without
// measurement errors they are scaled by the reduced chi-square of the
// residuals. NaN marks an error that cannot be estimated.
type BestFit struct {
	Index        int
	Frequency    float64
	FrequencyErr float64
	Period       float64
	PeriodErr    float64
	Power        float64 // in the result's normalization
	RawPower     float64 // normalized (ZK) power

	Amplitude    float64
	AmplitudeErr float64
	Phase        float64 // radians in (-pi, pi]; 0 puts a maximum at t = 0
	PhaseErr     float64
	Offset       float64
	OffsetErr    float64
	A, B         float64 // cosine and sine coefficients
	AErr, BErr   float64

	T0   float64 // time of maximum nearest the weighted mean time
	Chi2 float64 // residual chi-square (unit weights when errors are absent)
	RMS  float64 // weighted rms of the residuals
}

// Model evaluates the fitted sinusoid at time t.
func (b BestFit) Model(t float64) float64 {
	return b.Amplitude*math.Cos(2*math.Pi*b.Frequency*t+b.Phase) + b.Offset
}

// linearFit holds the weighted least-squares solution at one frequency,
// expressed in the shifted time frame of [prepared].
type linearFit struct {
	a, b, c    float64
	cov        *mat.SymDense // covariance of (a, b[, c]), unscaled
	chi2       float64
	rms        float64
	dof        int
	hasOffset  bool
	solvedOkay bool
}

// solve fits a*cos(w t) + b*sin(w t) (+ c) to the centered data by solving
// the normal equations with the unnormalized weights.
func (p *prepared) solve(omega float64, mode Mode) linearFit {
	k := mode.Params()
	hasOffset := mode == FloatingMean

	normal := mat.NewSymDense(k, nil)
	rhs := mat.NewVecDense(k, nil)
	basis := make([]float64, k)

	for i, ti := range p.t {
		sn, cs := math.Sincos(omega * ti)
		basis[0], basis[1] = cs, sn

		if hasOffset {
			basis[2] = 1
		}

		wi := p.wraw[i]
		for r := range k {
			rhs.SetVec(r, rhs.AtVec(r)+wi*p.xc[i]*basis[r])

			for c := r; c < k; c++ {
				normal.SetSym(r, c, normal.At(r, c)+wi*basis[r]*basis[c])
			}
		}
	}

	fit := linearFit{dof: len(p.t) - k, hasOffset: hasOffset}

	var chol mat.Cholesky
	if ok := chol.Factorize(normal); !ok {
		fit.rms = math.Sqrt(p.yy)
		fit.chi2 = p.wsum * p.yy
		return fit
	}

	var sol mat.VecDense
	if err := chol.SolveVecTo(&sol, rhs); err != nil {
		fit.rms = math.Sqrt(p.yy)
		fit.chi2 = p.wsum * p.yy
		return fit
	}

	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		fit.rms = math.Sqrt(p.yy)
		fit.chi2 = p.wsum * p.yy
		return fit
	}

	fit.a = sol.AtVec(0)
	fit.b = sol.AtVec(1)
	if hasOffset {
		fit.c = sol.AtVec(2)
	}

	fit.cov = &cov
	fit.solvedOkay = true

	var chi2, wr2 float64
	for i, ti := range p.t {
		sn, cs := math.Sincos(omega * ti)
		r := p.xc[i] - fit.a*cs - fit.b*sn - fit.c
		chi2 += p.wraw[i] * r * r
		wr2 += p.w[i] * r * r
	}

	fit.chi2 = chi2
	fit.rms = math.Sqrt(wr2)

	return fit
}

// errorScale returns the variance factor applied to the formal covariance:
// 1 with measurement errors, the reduced chi-square otherwise.
func (p *prepared) errorScale(fit linearFit) float64 {
	if p.errs {
		return 1
	}

	if fit.dof <= 0 {
		return math.NaN()
	}

	return fit.chi2 / float64(fit.dof)
}

// bestFit assembles the reported parameters at grid index idx.
func (p *prepared) bestFit(idx int, freq float64, mode Mode, strat strategy) BestFit {
	omega := 2 * math.Pi * freq
	fit := p.solve(omega, mode)
	scale := p.errorScale(fit)

	bf := BestFit{
		Index:     idx,
		Frequency: freq,
		Period:    1 / freq,
		A:         fit.a,
		B:         fit.b,
		Chi2:      fit.chi2,
		RMS:       fit.rms,
		Offset:    p.mean + fit.c,
	}

	amp := math.Hypot(fit.a, fit.b)
	phaseShifted := math.Atan2(-fit.b, fit.a)
	bf.Amplitude = amp
	bf.Phase = wrapPhase(phaseShifted - omega*p.tref)
	bf.T0 = p.tref - phaseShifted/omega

	nan := math.NaN()
	bf.AErr, bf.BErr, bf.AmplitudeErr, bf.PhaseErr = nan, nan, nan, nan
	bf.OffsetErr = nan

	if fit.solvedOkay {
		vaa := fit.cov.At(0, 0) * scale
		vbb := fit.cov.At(1, 1) * scale
		vab := fit.cov.At(0, 1) * scale

		bf.AErr = math.Sqrt(vaa)
		bf.BErr = math.Sqrt(vbb)

		if amp > 0 {
			a, b := fit.a, fit.b
			bf.AmplitudeErr = math.Sqrt(math.Max(a*a*vaa+b*b*vbb+2*a*b*vab, 0)) / amp
			bf.PhaseErr = math.Sqrt(math.Max(b*b*vaa+a*a*vbb-2*a*b*vab, 0)) / (amp * amp)
		}

		if fit.hasOffset {
			bf.OffsetErr = math.Sqrt(fit.cov.At(2, 2) * scale)
		} else {
			bf.OffsetErr = math.Sqrt(scale / p.wsum)
		}
	}

	bf.FrequencyErr = p.frequencyError(freq, strat, scale)
	bf.PeriodErr = bf.FrequencyErr / (freq * freq)

	return bf
}

// frequencyError estimates sigma_f from the curvature of chi2(f) at the
// peak: chi2(f) ~ chi2_min + (f - f0)^2 / sigma_f^2 for Delta chi2 = 1.
func (p *prepared) frequencyError(freq float64, strat strategy, scale float64) float64 {
	tspan := 0.0
	for _, ti := range p.t {
		tspan = math.Max(tspan, math.Abs(ti))
	}

	if tspan == 0 {
		return math.NaN()
	}

	h := 1e-3 / tspan
	if h >= freq {
		h = freq / 2
	}

	pw := func(f float64) float64 {
		v, _ := strat.power(p.directSums(2*math.Pi*f), p.yy)
		return v
	}

	p0 := pw(freq)
	curv := -(pw(freq+h) - 2*p0 + pw(freq-h)) / (h * h) * p.wsum * p.yy
	if !(curv > 0) {
		return math.NaN()
	}

	return math.Sqrt(2 * scale / curv)
}

// wrapPhase maps an angle to (-pi, pi].
func wrapPhase(phi float64) float64 {
	phi = math.Mod(phi, 2*math.Pi)
	if phi <= -math.Pi {
		phi += 2 * math.Pi
	} else if phi > math.Pi {
		phi -= 2 * math.Pi
	}

	return phi
}
