package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-timing/timing"
)

// CSVOptions controls how [ReadCSV] interprets columns.
type CSVOptions struct {
	Delimiter   rune // field delimiter (default ',')
	Comment     rune // comment prefix (default '#')
	HasHeader   bool // skip the first non-comment row
	TimeColumn  int  // zero-based column index for t (default 0)
	ValueColumn int  // zero-based column index for x (default 1)
	// ErrorColumn is the zero-based column for err. A negative value disables
	// errors; zero selects column 2 when present.
	ErrorColumn int
	Name        string
}

// DefaultCSVOptions returns options for "t,x[,err]" files with '#' comments.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:   ',',
		Comment:     '#',
		TimeColumn:  0,
		ValueColumn: 1,
	}
}

// LoadCSV reads a series from the named file.
func LoadCSV(path string, opts CSVOptions) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("series: open %s: %w", path, err)
	}
	defer f.Close()

	if opts.Name == "" {
		opts.Name = path
	}

	return ReadCSV(f, opts)
}

// ReadCSV parses delimited (t, x[, err]) rows into a [Series].
//
// Empty error fields are read as absent; a file that provides errors for only
// some rows is rejected the same way [New] rejects partial errors.
func ReadCSV(r io.Reader, opts CSVOptions) (*Series, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	if opts.Comment == 0 {
		opts.Comment = '#'
	}

	if opts.TimeColumn < 0 || opts.ValueColumn < 0 || opts.TimeColumn == opts.ValueColumn {
		return nil, fmt.Errorf("series: invalid csv columns t=%d x=%d: %w", opts.TimeColumn, opts.ValueColumn, timing.ErrConfig)
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.Comment = opts.Comment
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	errCol := opts.ErrorColumn
	if errCol == 0 {
		errCol = 2
		if errCol == opts.TimeColumn || errCol == opts.ValueColumn {
			errCol = -1
		}
	}

	var (
		t, x, e   []float64
		anyErrCol bool
		row       int
		header    = opts.HasHeader
	)

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("series: csv read: %w", err)
		}

		row++
		if header {
			header = false
			continue
		}

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		tv, err := parseField(rec, opts.TimeColumn, row)
		if err != nil {
			return nil, err
		}

		xv, err := parseField(rec, opts.ValueColumn, row)
		if err != nil {
			return nil, err
		}

		ev := math.NaN()
		if errCol >= 0 && errCol < len(rec) && strings.TrimSpace(rec[errCol]) != "" {
			ev, err = parseField(rec, errCol, row)
			if err != nil {
				return nil, err
			}

			anyErrCol = true
		}

		t = append(t, tv)
		x = append(x, xv)
		e = append(e, ev)
	}

	sopts := []Option{WithName(opts.Name)}
	if anyErrCol {
		sopts = append(sopts, WithErrors(e))
	}

	return New(t, x, sopts...)
}

func parseField(rec []string, col, row int) (float64, error) {
	if col >= len(rec) {
		return 0, fmt.Errorf("series: csv row %d has %d fields, need column %d: %w", row, len(rec), col, timing.ErrData)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("series: csv row %d column %d: %v: %w", row, col, err, timing.ErrData)
	}

	return v, nil
}
