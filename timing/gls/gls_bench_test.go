package gls

import (
	"context"
	"fmt"
	"testing"

	"github.com/cwbudde/algo-timing/internal/testutil"
	"github.com/cwbudde/algo-timing/timing/grid"
	"github.com/cwbudde/algo-timing/timing/series"
)

func benchInput(b *testing.B, n, m int) (*series.Series, *grid.Grid) {
	b.Helper()

	t := testutil.UnevenTimes(1, 100, n)
	x := testutil.Add(testutil.Sinusoid(t, 0.21, 1, 0, 0), testutil.GaussianNoise(2, 0.5, n))

	s, err := series.New(t, x)
	if err != nil {
		b.Fatalf("series.New error: %v", err)
	}

	g, err := grid.FromCount(0.01, 2, m)
	if err != nil {
		b.Fatalf("grid.FromCount error: %v", err)
	}

	return s, g
}

func BenchmarkCompute(b *testing.B) {
	sizes := []struct {
		samples int
		freqs   int
	}{
		{100, 1000},
		{1000, 1000},
		{1000, 10000},
	}

	for _, size := range sizes {
		s, g := benchInput(b, size.samples, size.freqs)

		for _, tc := range []struct {
			name string
			opts []Option
		}{
			{"direct", nil},
			{"workers=4", []Option{WithWorkers(4), WithBatchSize(256)}},
			{"fast", []Option{WithFastSums()}},
		} {
			p, err := New(tc.opts...)
			if err != nil {
				b.Fatalf("New error: %v", err)
			}

			b.Run(fmt.Sprintf("samples=%d_freqs=%d/%s", size.samples, size.freqs, tc.name), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					_, _ = p.Compute(context.Background(), s, g)
				}
			})
		}
	}
}

func BenchmarkThreshold(b *testing.B) {
	s, g := benchInput(b, 200, 1000)

	res, err := Compute(context.Background(), s, g)
	if err != nil {
		b.Fatalf("Compute error: %v", err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		res.mu.Lock()
		res.thresholds = nil
		res.mu.Unlock()

		_, _ = res.Threshold(0.01)
	}
}
