package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFromStepIncludesReachableEnd(t *testing.T) {
	g, err := FromStep(0.05, 0.45, 0.01)
	if err != nil {
		t.Fatalf("FromStep error: %v", err)
	}

	if g.Len() != 41 {
		t.Fatalf("Len=%d want=41", g.Len())
	}

	if math.Abs(g.Max()-0.45) > 1e-12 {
		t.Fatalf("Max=%f want=0.45", g.Max())
	}

	if !g.Uniform() || g.Step() != 0.01 {
		t.Fatalf("Uniform=%t Step=%f", g.Uniform(), g.Step())
	}
}

func TestFromStepStopsBelowUnreachableEnd(t *testing.T) {
	g, err := FromStep(1, 2, 0.3)
	if err != nil {
		t.Fatalf("FromStep error: %v", err)
	}

	want := []float64{1, 1.3, 1.6, 1.9}
	if diff := cmp.Diff(want, g.Values(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("Values mismatch (-want +got):\n%s", diff)
	}
}

func TestFromCount(t *testing.T) {
	g, err := FromCount(1, 3, 5)
	if err != nil {
		t.Fatalf("FromCount error: %v", err)
	}

	want := []float64{1, 1.5, 2, 2.5, 3}
	if diff := cmp.Diff(want, g.Values(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("Values mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPeriods(t *testing.T) {
	g, err := FromPeriods(2, 10, 9)
	if err != nil {
		t.Fatalf("FromPeriods error: %v", err)
	}

	if math.Abs(g.Min()-0.1) > 1e-12 || math.Abs(g.Max()-0.5) > 1e-12 {
		t.Fatalf("range=[%f, %f] want [0.1, 0.5]", g.Min(), g.Max())
	}

	p := g.Periods()
	if math.Abs(p[0]-10) > 1e-9 || math.Abs(p[len(p)-1]-2) > 1e-9 {
		t.Fatalf("periods=%v", p)
	}
}

func TestOversampled(t *testing.T) {
	g, err := Oversampled(100, 1, 10, 1)
	if err != nil {
		t.Fatalf("Oversampled error: %v", err)
	}

	if math.Abs(g.Step()-0.001) > 1e-15 || math.Abs(g.Min()-0.001) > 1e-15 {
		t.Fatalf("step=%g min=%g want 0.001", g.Step(), g.Min())
	}

	if math.Abs(g.Max()-0.5) > 1e-9 {
		t.Fatalf("Max=%f want=0.5", g.Max())
	}
}

func TestFromListUniformDetection(t *testing.T) {
	g, err := FromList([]float64{0.1, 0.2, 0.3, 0.4})
	if err != nil {
		t.Fatalf("FromList error: %v", err)
	}

	if !g.Uniform() {
		t.Fatal("evenly spaced list should be uniform")
	}

	g, err = FromList([]float64{0.1, 0.2, 0.5})
	if err != nil {
		t.Fatalf("FromList error: %v", err)
	}

	if g.Uniform() || g.Step() != 0 {
		t.Fatal("uneven list reported as uniform")
	}

	if math.Abs(g.Spacing(1)-0.3) > 1e-12 {
		t.Fatalf("Spacing(1)=%f want=0.3", g.Spacing(1))
	}
}

func TestFromListCopies(t *testing.T) {
	in := []float64{0.1, 0.2, 0.7}

	g, err := FromList(in)
	if err != nil {
		t.Fatalf("FromList error: %v", err)
	}

	in[0] = 0.05

	if g.At(0) != 0.1 {
		t.Fatal("grid aliases caller slice")
	}
}

func TestInvalidGrids(t *testing.T) {
	tests := []struct {
		name string
		make func() (*Grid, error)
	}{
		{"zero fmin", func() (*Grid, error) { return FromStep(0, 1, 0.1) }},
		{"fmax below fmin", func() (*Grid, error) { return FromStep(1, 0.5, 0.1) }},
		{"zero step", func() (*Grid, error) { return FromStep(0.1, 1, 0) }},
		{"negative step", func() (*Grid, error) { return FromStep(0.1, 1, -0.1) }},
		{"count one", func() (*Grid, error) { return FromCount(0.1, 1, 1) }},
		{"bad periods", func() (*Grid, error) { return FromPeriods(5, 2, 10) }},
		{"empty list", func() (*Grid, error) { return FromList(nil) }},
		{"unsorted list", func() (*Grid, error) { return FromList([]float64{0.2, 0.1}) }},
		{"duplicate list", func() (*Grid, error) { return FromList([]float64{0.2, 0.2}) }},
		{"negative list", func() (*Grid, error) { return FromList([]float64{-0.1, 0.2}) }},
		{"zero baseline", func() (*Grid, error) { return Oversampled(0, 1, 10, 1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.make(); !errors.Is(err, timing.ErrConfig) {
				t.Fatalf("err=%v want ErrConfig", err)
			}
		})
	}
}

func TestAllRestartable(t *testing.T) {
	g, err := FromCount(1, 2, 3)
	if err != nil {
		t.Fatalf("FromCount error: %v", err)
	}

	for range 2 {
		n := 0
		for i, f := range g.All() {
			if f != g.At(i) {
				t.Fatalf("All()[%d]=%f want=%f", i, f, g.At(i))
			}
			n++
		}

		if n != 3 {
			t.Fatalf("iterated %d frequencies want 3", n)
		}
	}
}

func TestIndex(t *testing.T) {
	g, err := FromCount(1, 2, 3)
	if err != nil {
		t.Fatalf("FromCount error: %v", err)
	}

	tests := []struct {
		f    float64
		want int
	}{
		{0.5, 0}, {1, 0}, {1.2, 1}, {1.5, 1}, {1.9, 2}, {2, 2}, {3, 3},
	}

	for _, tc := range tests {
		if got := g.Index(tc.f); got != tc.want {
			t.Fatalf("Index(%f)=%d want=%d", tc.f, got, tc.want)
		}
	}
}

func TestAtPanicsOutOfRange(t *testing.T) {
	g, err := FromCount(1, 2, 3)
	if err != nil {
		t.Fatalf("FromCount error: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("At(3) did not panic")
		}
	}()

	_ = g.At(3)
}
