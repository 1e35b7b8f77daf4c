package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/cwbudde/algo-timing/timing/series"
	"go.uber.org/zap"
)

func TestParseLevels(t *testing.T) {
	got, err := parseLevels(" 0.1, 0.01,,0.001 ")
	if err != nil {
		t.Fatalf("parseLevels error: %v", err)
	}

	if len(got) != 3 || got[2] != 0.001 {
		t.Fatalf("parseLevels=%v", got)
	}

	if _, err := parseLevels("0.1,abc"); !errors.Is(err, timing.ErrConfig) {
		t.Fatalf("err=%v want ErrConfig", err)
	}
}

func TestBuildGrid(t *testing.T) {
	s, err := series.New([]float64{0, 1, 2, 4, 10}, []float64{1, 2, 1, 3, 2})
	if err != nil {
		t.Fatalf("series.New error: %v", err)
	}

	tests := []struct {
		name     string
		o        options
		min, max float64
		n        int
	}{
		{"auto", options{ofac: 10, hifac: 1}, 0.01, 0.5, 50},
		{"count", options{fmin: 0.1, fmax: 0.2, count: 11}, 0.1, 0.2, 11},
		{"step", options{fmin: 0.1, fmax: 0.2, df: 0.05}, 0.1, 0.2, 3},
		{"natural", options{fmin: 0.1, fmax: 0.2, ofac: 2}, 0.1, 0.2, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := buildGrid(s, tc.o)
			if err != nil {
				t.Fatalf("buildGrid error: %v", err)
			}

			if g.Len() != tc.n || math.Abs(g.Min()-tc.min) > 1e-12 || math.Abs(g.Max()-tc.max) > 1e-9 {
				t.Fatalf("grid len=%d range=[%f, %f] want len=%d range=[%f, %f]",
					g.Len(), g.Min(), g.Max(), tc.n, tc.min, tc.max)
			}
		})
	}
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "obs.csv")

	var sb strings.Builder
	sb.WriteString("time,value,error\n")

	for i := range 80 {
		ti := float64(i) * 0.7
		fmt.Fprintf(&sb, "%g,%g,0.1\n", ti, math.Sin(2*math.Pi*ti/6)+0.05*math.Cos(float64(i*i)))
	}

	if err := os.WriteFile(in, []byte(sb.String()), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	o := options{
		fmin:     0.02,
		fmax:     0.5,
		df:       0.002,
		normName: "HorneBaliunas",
		faps:     "0.1,0.01",
		workers:  2,
		out:      filepath.Join(dir, "spectrum.txt"),
		csvOut:   filepath.Join(dir, "spectrum.csv"),
		html:     filepath.Join(dir, "spectrum.html"),
	}

	if err := run(context.Background(), in, o, zap.NewNop()); err != nil {
		t.Fatalf("run error: %v", err)
	}

	for _, path := range []string{o.out, o.csvOut, o.html} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat(%s) error: %v", path, err)
		}

		if info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}

	text, err := os.ReadFile(o.out)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	if !strings.Contains(string(text), "normalization=HorneBaliunas") {
		t.Fatalf("text header missing normalization:\n%s", text[:200])
	}
}

func TestRunRejectsUnknownNormalization(t *testing.T) {
	in := filepath.Join(t.TempDir(), "obs.csv")
	if err := os.WriteFile(in, []byte("0,1\n1,2\n2,1\n3,3\n"), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	o := options{fmin: 0.1, fmax: 0.4, df: 0.1, normName: "bogus", workers: 1, noHeader: true}

	if err := run(context.Background(), in, o, zap.NewNop()); !errors.Is(err, timing.ErrConfig) {
		t.Fatalf("err=%v want ErrConfig", err)
	}
}
