package export

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes a self-contained interactive line chart of the spectrum.
// Thresholds become horizontal mark lines.
func RenderHTML(w io.Writer, points []timing.Point, o PlotOptions) error {
	if len(points) == 0 {
		return fmt.Errorf("export: no points to render: %w", timing.ErrData)
	}

	o = o.withDefaults()

	data := make([]opts.LineData, len(points))
	for i, pt := range points {
		data[i] = opts.LineData{Value: []interface{}{xValue(pt, o.ByPeriod), pt.Power}}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: "1000px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: fmt.Sprintf("points=%d", len(points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: o.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: o.YLabel, NameLocation: "middle", NameGap: 40}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	}

	for _, th := range o.Thresholds {
		seriesOpts = append(seriesOpts,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: th.Label, YAxis: th.Power}))
	}

	line.AddSeries("power", data, seriesOpts...)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("export: failed to render chart: %w", err)
	}

	return nil
}
