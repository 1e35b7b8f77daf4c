package testutil

import (
	"math"
	"sort"
	"testing"
)

func TestEvenTimes(t *testing.T) {
	ts := EvenTimes(2, 0.5, 5)
	want := []float64{2, 2.5, 3, 3.5, 4}
	RequireSliceNearlyEqual(t, ts, want, 0)
}

func TestUnevenTimesSortedAndBounded(t *testing.T) {
	ts := UnevenTimes(7, 100, 200)
	if len(ts) != 200 {
		t.Fatalf("len = %d, want 200", len(ts))
	}
	if !sort.Float64sAreSorted(ts) {
		t.Fatal("times not sorted")
	}
	RequireInRange(t, ts, 0, 100)
}

func TestUnevenTimesReproducible(t *testing.T) {
	a := UnevenTimes(3, 10, 32)
	b := UnevenTimes(3, 10, 32)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
}

func TestSinusoid(t *testing.T) {
	x := Sinusoid([]float64{0, 0.25, 0.5}, 1, 2, 0, 1)
	want := []float64{3, 1, -1}
	RequireSliceNearlyEqual(t, x, want, 1e-12)
}

func TestGaussianNoise(t *testing.T) {
	x := GaussianNoise(42, 2, 20000)

	var mean, sq float64
	for _, v := range x {
		mean += v
		sq += v * v
	}
	mean /= float64(len(x))
	sd := math.Sqrt(sq/float64(len(x)) - mean*mean)

	if math.Abs(mean) > 0.05 {
		t.Fatalf("mean = %v, want ~0", mean)
	}
	if math.Abs(sd-2) > 0.05 {
		t.Fatalf("sd = %v, want ~2", sd)
	}
}

func TestGaussianNoiseDifferentSeeds(t *testing.T) {
	a := GaussianNoise(1, 1.0, 16)
	b := GaussianNoise(2, 1.0, 16)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestAddAndConstant(t *testing.T) {
	got := Add(Constant(1, 3), []float64{1, 2, 3})
	RequireSliceNearlyEqual(t, got, []float64{2, 3, 4}, 0)
}
