// Command glsinfo computes the Generalized Lomb-Scargle periodogram of a
// time series read from a CSV file and prints the best-fit sinusoid.
//
// Usage:
//
//	glsinfo [flags] file.csv
//
// The file holds time, value, and optionally error columns. Without -fmin,
// -fmax, and -df the grid is derived from the sampling (-ofac, -hifac).
//
// Examples:
//
//	glsinfo data.csv
//	glsinfo -fmin 0.01 -fmax 1 -df 0.0005 -norm cumming data.csv
//	glsinfo -fap 0.01,0.001 -png spectrum.png -html spectrum.html data.csv
//	glsinfo -out spectrum.txt -fast data.csv
//	glsinfo -list
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/cwbudde/algo-timing/timing/export"
	"github.com/cwbudde/algo-timing/timing/gls"
	"github.com/cwbudde/algo-timing/timing/grid"
	"github.com/cwbudde/algo-timing/timing/norm"
	"github.com/cwbudde/algo-timing/timing/series"
	"github.com/cwbudde/algo-timing/timing/significance"
	"go.uber.org/zap"
)

type options struct {
	fmin, fmax, df float64
	count          int
	ofac, hifac    float64
	normName       string
	classical      bool
	fast           bool
	faps           string
	out            string
	csvOut         string
	png            string
	html           string
	workers        int
	noHeader       bool
	verbose        bool
}

func main() {
	var o options

	flag.Float64Var(&o.fmin, "fmin", 0, "lowest frequency (0 derives the grid from the sampling)")
	flag.Float64Var(&o.fmax, "fmax", 0, "highest frequency")
	flag.Float64Var(&o.df, "df", 0, "frequency step (alternative to -n)")
	flag.IntVar(&o.count, "n", 0, "number of frequencies between -fmin and -fmax")
	flag.Float64Var(&o.ofac, "ofac", 10, "oversampling factor for the derived grid")
	flag.Float64Var(&o.hifac, "hifac", 1, "maximum frequency in units of the pseudo-Nyquist frequency")
	flag.StringVar(&o.normName, "norm", "normalized", "power normalization (see -list)")
	flag.BoolVar(&o.classical, "classical", false, "classical Lomb-Scargle (offset fixed at the mean)")
	flag.BoolVar(&o.fast, "fast", false, "FFT-based trigonometric sums (uniform grids)")
	flag.StringVar(&o.faps, "fap", "0.1,0.01,0.001", "comma-separated false-alarm levels to report")
	flag.StringVar(&o.out, "out", "", "write the spectrum as text to this file")
	flag.StringVar(&o.csvOut, "csv", "", "write the spectrum as CSV to this file")
	flag.StringVar(&o.png, "png", "", "plot the spectrum to this image file")
	flag.StringVar(&o.html, "html", "", "write an interactive HTML chart to this file")
	flag.IntVar(&o.workers, "workers", 1, "goroutines evaluating frequency batches")
	flag.BoolVar(&o.noHeader, "noheader", false, "input file has no header line")
	flag.BoolVar(&o.verbose, "v", false, "verbose (debug) logging")
	list := flag.Bool("list", false, "list available normalizations")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: glsinfo [flags] file.csv\n\n")
		fmt.Fprintf(os.Stderr, "Computes the Generalized Lomb-Scargle periodogram of a time series.\n")
		fmt.Fprintf(os.Stderr, "Columns: time, value[, error].\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  glsinfo data.csv\n")
		fmt.Fprintf(os.Stderr, "  glsinfo -fmin 0.01 -fmax 1 -df 0.0005 -norm cumming data.csv\n")
		fmt.Fprintf(os.Stderr, "  glsinfo -fap 0.01 -png spectrum.png data.csv\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := newLogger(o.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, flag.Arg(0), o, logger); err != nil {
		logger.Error("glsinfo failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}

func printList() {
	for _, t := range norm.Types() {
		fmt.Println(t)
	}
}

func run(ctx context.Context, path string, o options, logger *zap.Logger) error {
	copts := series.DefaultCSVOptions()
	copts.HasHeader = !o.noHeader

	s, err := series.LoadCSV(path, copts)
	if err != nil {
		return err
	}

	logger.Info("loaded series",
		zap.String("path", path),
		zap.Int("samples", s.Len()),
		zap.Bool("errors", s.HasErrors()),
		zap.Float64("baseline", s.Baseline()),
	)

	g, err := buildGrid(s, o)
	if err != nil {
		return err
	}

	levels, err := parseLevels(o.faps)
	if err != nil {
		return err
	}

	gopts := []gls.Option{
		gls.WithNormalizationName(o.normName),
		gls.WithFloatingMean(!o.classical),
		gls.WithWorkers(o.workers),
		gls.WithLogger(logger),
	}
	if o.fast {
		gopts = append(gopts, gls.WithFastSums())
	}

	res, err := gls.Compute(ctx, s, g, gopts...)
	if err != nil {
		return err
	}

	if err := res.Info(os.Stdout); err != nil {
		return err
	}

	table, err := res.FAPTable(levels...)
	if err != nil {
		logger.Warn("no FAP table", zap.Error(err))
	} else if err := printTable(table); err != nil {
		return err
	}

	thresholds := make([]export.Threshold, len(table))
	for i, l := range table {
		thresholds[i] = export.Threshold{Label: fmt.Sprintf("FAP %g", l.FAP), Power: l.Power}
	}

	return writeOutputs(res, o, thresholds)
}

func buildGrid(s *series.Series, o options) (*grid.Grid, error) {
	switch {
	case o.fmin == 0 && o.fmax == 0:
		return grid.Oversampled(s.Baseline(), s.MinSpacing(), o.ofac, o.hifac)
	case o.count > 0:
		return grid.FromCount(o.fmin, o.fmax, o.count)
	case o.df > 0:
		return grid.FromStep(o.fmin, o.fmax, o.df)
	default:
		// Natural resolution oversampled by ofac.
		return grid.FromStep(o.fmin, o.fmax, 1/(o.ofac*s.Baseline()))
	}
}

func parseLevels(list string) ([]float64, error) {
	var out []float64

	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}

		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FAP level %q: %w", f, timing.ErrConfig)
		}

		out = append(out, v)
	}

	return out, nil
}

func printTable(levels []significance.Level) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nFAP\tPower\n")
	fmt.Fprintf(tw, "---\t-----\n")

	for _, l := range levels {
		fmt.Fprintf(tw, "%g\t%.6g\n", l.FAP, l.Power)
	}

	return tw.Flush()
}

func writeOutputs(res *gls.Result, o options, thresholds []export.Threshold) error {
	points := res.Pairs()

	if o.out != "" {
		header := []string{
			fmt.Sprintf("GLS periodogram of %s", res.Series().Name()),
			fmt.Sprintf("normalization=%s mode=%s", res.Normalization(), res.Mode()),
		}

		if err := writeFile(o.out, func(f *os.File) error { return export.WriteText(f, points, header...) }); err != nil {
			return err
		}
	}

	if o.csvOut != "" {
		if err := writeFile(o.csvOut, func(f *os.File) error { return export.WriteCSV(f, points) }); err != nil {
			return err
		}
	}

	popts := export.PlotOptions{
		Title:      fmt.Sprintf("GLS periodogram: %s", res.Series().Name()),
		YLabel:     fmt.Sprintf("Power (%s)", res.Normalization()),
		Thresholds: thresholds,
	}

	if o.png != "" {
		if err := export.PlotPNG(o.png, points, popts); err != nil {
			return err
		}
	}

	if o.html != "" {
		if err := writeFile(o.html, func(f *os.File) error { return export.RenderHTML(f, points, popts) }); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
