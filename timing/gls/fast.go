package gls

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

const (
	// extirpolationOrder is the number of mesh points each sample is spread
	// onto (Lagrange weights of that order).
	extirpolationOrder = 6
	// meshOversampling keeps the highest evaluated bin at 1/16 of the mesh,
	// where 6-point Lagrange extirpolation is accurate to ~1e-5.
	meshOversampling = 16
	minMeshSize      = 64
)

// fastSums evaluates the weighted sums on the uniform grid f0 + k*df,
// k = 0..m-1, by extirpolating the samples onto a regular mesh and taking
// one FFT per sum (Press & Rybicki). Cost is O(N + m log m) instead of O(N m).
//
// The grid offset f0 is folded into complex sample weights exp(i 2pi f0 t),
// so the mesh only has to resolve multiples of df. CC, SS, and CS follow
// from the double-angle sums at 2f.
func (p *prepared) fastSums(f0, df float64, m int) ([]trigSums, error) {
	size := nextPowerOf2(max(minMeshSize, meshOversampling*m))

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("gls: failed to create FFT plan: %w", err)
	}

	meshW := make([]complex128, size)
	meshY := make([]complex128, size)
	meshW2 := make([]complex128, size)
	fsize := float64(size)

	for i, ti := range p.t {
		u := fsize * frac(df*ti)
		u2 := fsize * frac(2*df*ti)

		sn, cs := math.Sincos(2 * math.Pi * f0 * ti)
		e1 := complex(cs, sn)
		e2 := e1 * e1

		spread(meshW, complex(p.w[i], 0)*e1, u)
		spread(meshY, complex(p.wx[i], 0)*e1, u)
		spread(meshW2, complex(p.w[i], 0)*e2, u2)
	}

	bins := make([]complex128, size)

	for _, mesh := range [][]complex128{meshW, meshY, meshW2} {
		// sum_j g_j exp(+i 2pi k j / n) = conj(FFT(conj(g)))_k
		conjugate(mesh)

		if err := plan.Forward(bins, mesh); err != nil {
			return nil, fmt.Errorf("gls: forward FFT failed: %w", err)
		}

		copy(mesh, bins)
		conjugate(mesh)
	}

	out := make([]trigSums, m)
	for k := range out {
		sw, sy, s2 := meshW[k], meshY[k], meshW2[k]

		out[k] = trigSums{
			c:  real(sw),
			s:  imag(sw),
			yc: real(sy),
			ys: imag(sy),
			cc: 0.5 * (1 + real(s2)),
			ss: 0.5 * (1 - real(s2)),
			cs: 0.5 * imag(s2),
		}
	}

	return out, nil
}

// spread adds h at fractional mesh position u using Lagrange weights over
// extirpolationOrder neighboring points. The mesh is periodic.
func spread(mesh []complex128, h complex128, u float64) {
	n := len(mesh)

	fl := math.Floor(u)
	if u == fl {
		mesh[wrap(int(fl), n)] += h
		return
	}

	base := int(fl) - extirpolationOrder/2 + 1
	for j := range extirpolationOrder {
		xj := float64(base + j)

		l := 1.0
		for k := range extirpolationOrder {
			if k == j {
				continue
			}

			xk := float64(base + k)
			l *= (u - xk) / (xj - xk)
		}

		mesh[wrap(base+j, n)] += h * complex(l, 0)
	}
}

func conjugate(v []complex128) {
	for i, c := range v {
		v[i] = cmplx.Conj(c)
	}
}

// frac returns x - floor(x) in [0, 1).
func frac(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}

	return f
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}

	return i
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
