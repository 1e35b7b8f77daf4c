package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/cwbudde/algo-timing/timing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotOptions controls chart titles, size, and reference lines.
type PlotOptions struct {
	Title      string
	XLabel     string
	YLabel     string
	ByPeriod   bool // plot against period instead of frequency
	Thresholds []Threshold
	Width      vg.Length // PNG only, default 10 inch
	Height     vg.Length // PNG only, default 5 inch
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Title == "" {
		o.Title = "GLS periodogram"
	}

	if o.XLabel == "" {
		o.XLabel = "Frequency"
		if o.ByPeriod {
			o.XLabel = "Period"
		}
	}

	if o.YLabel == "" {
		o.YLabel = "Power"
	}

	if o.Width == 0 {
		o.Width = 10 * vg.Inch
	}

	if o.Height == 0 {
		o.Height = 5 * vg.Inch
	}

	return o
}

var thresholdColors = []color.Color{
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
}

func xValue(p timing.Point, byPeriod bool) float64 {
	if byPeriod {
		return p.Period()
	}

	return p.Frequency
}

// NewPlot builds a gonum plot of the spectrum with one dashed line per
// threshold.
func NewPlot(points []timing.Point, o PlotOptions) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("export: no points to plot: %w", timing.ErrData)
	}

	o = o.withDefaults()

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: xValue(pt, o.ByPeriod), Y: pt.Power}
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("export: failed to create spectrum line: %w", err)
	}

	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)

	for i, th := range o.Thresholds {
		level := th.Power
		fn := plotter.NewFunction(func(float64) float64 { return level })
		fn.Color = thresholdColors[i%len(thresholdColors)]
		fn.Width = vg.Points(1)
		fn.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

		p.Add(fn)
		p.Legend.Add(th.Label, fn)

		// Function lines do not widen the data range.
		p.Y.Min = math.Min(p.Y.Min, level)
		p.Y.Max = math.Max(p.Y.Max, level*1.05)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// PlotPNG draws the spectrum and saves it to path. The image format follows
// the file extension (png, svg, pdf, ...).
func PlotPNG(path string, points []timing.Point, o PlotOptions) error {
	p, err := NewPlot(points, o)
	if err != nil {
		return err
	}

	o = o.withDefaults()
	if err := p.Save(o.Width, o.Height, path); err != nil {
		return fmt.Errorf("export: failed to save plot %s: %w", path, err)
	}

	return nil
}
