// Package export writes periodogram spectra for reporting and plotting.
//
// It only sees plain (frequency, power) [timing.Point] values, so any
// spectrum source can use it. Text and CSV output go to an io.Writer, PNG
// plots are drawn with gonum/plot, and interactive HTML charts with
// go-echarts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-timing/timing"
)

// Threshold is a horizontal reference line, typically the power at a given
// false-alarm probability.
type Threshold struct {
	Label string
	Power float64
}

// FromSlices pairs frequencies with powers. The slices must have equal
// length.
func FromSlices(freqs, powers []float64) ([]timing.Point, error) {
	if len(freqs) != len(powers) {
		return nil, fmt.Errorf("export: length mismatch: %d frequencies, %d powers: %w",
			len(freqs), len(powers), timing.ErrData)
	}

	out := make([]timing.Point, len(freqs))
	for i := range freqs {
		out[i] = timing.Point{Frequency: freqs[i], Power: powers[i]}
	}

	return out, nil
}

// WriteText writes one "frequency period power" row per point in aligned
// columns. Header lines, if any, are written first prefixed with "# ".
func WriteText(w io.Writer, points []timing.Point, header ...string) error {
	for _, h := range header {
		if _, err := fmt.Fprintf(w, "# %s\n", h); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "# frequency\tperiod\tpower\t")

	for _, p := range points {
		fmt.Fprintf(tw, "%.10g\t%.10g\t%.10g\t\n", p.Frequency, p.Period(), p.Power)
	}

	return tw.Flush()
}

// WriteCSV writes the points as CSV with a frequency,period,power header.
func WriteCSV(w io.Writer, points []timing.Point) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"frequency", "period", "power"}); err != nil {
		return err
	}

	for _, p := range points {
		rec := []string{
			formatFloat(p.Frequency),
			formatFloat(p.Period()),
			formatFloat(p.Power),
		}

		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
