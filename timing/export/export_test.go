package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-timing/timing"
)

func testPoints() []timing.Point {
	return []timing.Point{
		{Frequency: 0.1, Power: 0.05},
		{Frequency: 0.2, Power: 0.9},
		{Frequency: 0.25, Power: 0.3},
	}
}

func TestFromSlices(t *testing.T) {
	pts, err := FromSlices([]float64{0.5, 1}, []float64{0.2, 0.4})
	if err != nil {
		t.Fatalf("FromSlices error: %v", err)
	}

	if len(pts) != 2 || pts[1].Frequency != 1 || pts[1].Power != 0.4 {
		t.Fatalf("unexpected points: %+v", pts)
	}

	if _, err := FromSlices([]float64{1}, nil); !errors.Is(err, timing.ErrData) {
		t.Fatalf("err=%v want ErrData", err)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, testPoints(), "series demo", "normalization ZK"); err != nil {
		t.Fatalf("WriteText error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines want 6:\n%s", len(lines), buf.String())
	}

	if lines[0] != "# series demo" || lines[1] != "# normalization ZK" {
		t.Fatalf("header lines=%q", lines[:2])
	}

	if !strings.Contains(lines[2], "frequency") || !strings.Contains(lines[2], "power") {
		t.Fatalf("column header=%q", lines[2])
	}

	fields := strings.Fields(lines[4])
	if len(fields) != 3 || fields[0] != "0.2" || fields[1] != "5" || fields[2] != "0.9" {
		t.Fatalf("row=%q", lines[4])
	}

	// Right-aligned columns give equal-width rows.
	if len(lines[3]) != len(lines[5]) {
		t.Fatalf("rows not aligned:\n%s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testPoints()); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("got %d records want 4", len(records))
	}

	if strings.Join(records[0], ",") != "frequency,period,power" {
		t.Fatalf("header=%v", records[0])
	}

	if strings.Join(records[3], ",") != "0.25,4,0.3" {
		t.Fatalf("row=%v", records[3])
	}
}

func TestPlotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spectrum.png")

	o := PlotOptions{
		Title:      "demo",
		Thresholds: []Threshold{{Label: "FAP 1%", Power: 0.6}},
	}

	if err := PlotPNG(path, testPoints(), o); err != nil {
		t.Fatalf("PlotPNG error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("output is not a PNG file")
	}
}

func TestNewPlotByPeriod(t *testing.T) {
	p, err := NewPlot(testPoints(), PlotOptions{ByPeriod: true})
	if err != nil {
		t.Fatalf("NewPlot error: %v", err)
	}

	if p.X.Label.Text != "Period" {
		t.Fatalf("x label=%q want Period", p.X.Label.Text)
	}

	if p.X.Min > 4 || p.X.Max < 10 {
		t.Fatalf("x range=[%f, %f] does not cover periods 4..10", p.X.Min, p.X.Max)
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer

	o := PlotOptions{Title: "demo chart", Thresholds: []Threshold{{Label: "FAP 1%", Power: 0.6}}}
	if err := RenderHTML(&buf, testPoints(), o); err != nil {
		t.Fatalf("RenderHTML error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"echarts", "demo chart", "FAP 1%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("HTML output missing %q", want)
		}
	}
}

func TestEmptyPoints(t *testing.T) {
	if _, err := NewPlot(nil, PlotOptions{}); !errors.Is(err, timing.ErrData) {
		t.Fatalf("NewPlot err=%v want ErrData", err)
	}

	if err := RenderHTML(&bytes.Buffer{}, nil, PlotOptions{}); !errors.Is(err, timing.ErrData) {
		t.Fatalf("RenderHTML err=%v want ErrData", err)
	}
}
