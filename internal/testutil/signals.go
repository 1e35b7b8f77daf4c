package testutil

import (
	"math"
	"math/rand/v2"
	"sort"
)

// EvenTimes returns t_i = start + i*dt for i = 0..n-1.
func EvenTimes(start, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*dt
	}
	return out
}

// UnevenTimes returns n sorted sample times drawn uniformly from
// [0, span) with a fixed seed, mimicking irregular observing cadence.
func UnevenTimes(seed uint64, span float64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64() * span
	}
	sort.Float64s(out)
	return out
}

// Sinusoid evaluates amp*cos(2*pi*freq*t + phase) + offset at each time.
func Sinusoid(t []float64, freq, amp, phase, offset float64) []float64 {
	out := make([]float64, len(t))
	for i, ti := range t {
		out[i] = amp*math.Cos(2*math.Pi*freq*ti+phase) + offset
	}
	return out
}

// GaussianNoise returns n normally distributed values with standard
// deviation sigma and a fixed seed.
func GaussianNoise(seed uint64, sigma float64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, ^seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = sigma * rng.NormFloat64()
	}
	return out
}

// Add returns a + b element-wise.
func Add(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// Constant returns a slice of length n filled with value.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}
