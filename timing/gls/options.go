package gls

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-timing/timing"
	"github.com/cwbudde/algo-timing/timing/norm"
	"go.uber.org/zap"
)

const (
	defaultBatchSize = 1024
	defaultWorkers   = 1
)

// Mode selects how the constant offset of the model is handled.
type Mode int

const (
	// FloatingMean fits x(t) = a cos(wt) + b sin(wt) + c with c free
	// (generalized Lomb-Scargle). This is the default.
	FloatingMean Mode = iota
	// Classical fixes the offset at the weighted mean of the data and uses
	// the time-shift diagonalization of the classical Lomb-Scargle method.
	Classical

	modeCount
)

var modeNames = [modeCount]string{
	FloatingMean: "floating-mean",
	Classical:    "classical",
}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// Params returns the number of fitted model parameters: 3 for a floating
// mean, 2 otherwise.
func (m Mode) Params() int {
	if m == Classical {
		return 2
	}

	return 3
}

// Config holds periodogram settings. The zero value is not valid; start from
// [DefaultConfig].
type Config struct {
	Normalization norm.Type
	Mode          Mode
	// FastSums evaluates the trigonometric sums by extirpolation and FFT
	// instead of directly. Requires a uniform grid.
	FastSums bool
	// Workers is the number of goroutines evaluating frequency batches.
	Workers int
	// BatchSize is the number of frequencies evaluated between cancellation
	// checks.
	BatchSize int
	// Independent overrides the number of independent frequencies used for
	// false-alarm probabilities. Zero estimates it from the grid and baseline.
	Independent float64
	Logger      *zap.Logger
}

// DefaultConfig returns floating-mean GLS with the normalized convention,
// direct sums, and a single worker.
func DefaultConfig() Config {
	return Config{
		Normalization: norm.Normalized,
		Mode:          FloatingMean,
		Workers:       defaultWorkers,
		BatchSize:     defaultBatchSize,
	}
}

func (c Config) validate() error {
	if !c.Normalization.Valid() {
		return fmt.Errorf("gls: invalid normalization %v: %w", c.Normalization, timing.ErrConfig)
	}

	if !c.Mode.Valid() {
		return fmt.Errorf("gls: invalid mode %v: %w", c.Mode, timing.ErrConfig)
	}

	if c.Workers < 1 {
		return fmt.Errorf("gls: workers must be >= 1: %d: %w", c.Workers, timing.ErrConfig)
	}

	if c.BatchSize < 1 {
		return fmt.Errorf("gls: batch size must be >= 1: %d: %w", c.BatchSize, timing.ErrConfig)
	}

	if c.Independent != 0 && (!(c.Independent >= 1) || math.IsInf(c.Independent, 0)) {
		return fmt.Errorf("gls: independent frequencies must be >= 1: %v: %w", c.Independent, timing.ErrConfig)
	}

	return nil
}

// Option mutates a [Config].
type Option func(*Config) error

// WithNormalization selects the power convention (default [norm.Normalized]).
func WithNormalization(t norm.Type) Option {
	return func(cfg *Config) error {
		if !t.Valid() {
			return fmt.Errorf("gls: invalid normalization %v: %w", t, timing.ErrConfig)
		}

		cfg.Normalization = t

		return nil
	}
}

// WithNormalizationName selects the power convention by name, see [norm.Parse].
func WithNormalizationName(name string) Option {
	return func(cfg *Config) error {
		t, err := norm.Parse(name)
		if err != nil {
			return err
		}

		cfg.Normalization = t

		return nil
	}
}

// WithMode selects the offset handling (default [FloatingMean]).
func WithMode(m Mode) Option {
	return func(cfg *Config) error {
		if !m.Valid() {
			return fmt.Errorf("gls: invalid mode %v: %w", m, timing.ErrConfig)
		}

		cfg.Mode = m

		return nil
	}
}

// WithFloatingMean is shorthand for WithMode(FloatingMean) or
// WithMode(Classical).
func WithFloatingMean(enabled bool) Option {
	if enabled {
		return WithMode(FloatingMean)
	}

	return WithMode(Classical)
}

// WithFastSums enables FFT-based evaluation of the trigonometric sums.
func WithFastSums() Option {
	return func(cfg *Config) error {
		cfg.FastSums = true
		return nil
	}
}

// WithWorkers sets the number of goroutines evaluating frequency batches.
func WithWorkers(n int) Option {
	return func(cfg *Config) error {
		if n < 1 {
			return fmt.Errorf("gls: workers must be >= 1: %d: %w", n, timing.ErrConfig)
		}

		cfg.Workers = n

		return nil
	}
}

// WithBatchSize sets how many frequencies are evaluated between
// cancellation checks (default 1024).
func WithBatchSize(n int) Option {
	return func(cfg *Config) error {
		if n < 1 {
			return fmt.Errorf("gls: batch size must be >= 1: %d: %w", n, timing.ErrConfig)
		}

		cfg.BatchSize = n

		return nil
	}
}

// WithIndependentFrequencies fixes the number of independent frequencies M
// used for false-alarm probabilities.
func WithIndependentFrequencies(m float64) Option {
	return func(cfg *Config) error {
		if !(m >= 1) || math.IsInf(m, 0) {
			return fmt.Errorf("gls: independent frequencies must be >= 1: %v: %w", m, timing.ErrConfig)
		}

		cfg.Independent = m

		return nil
	}
}

// WithLogger attaches a logger for debug output. The default discards logs.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) error {
		cfg.Logger = l
		return nil
	}
}
