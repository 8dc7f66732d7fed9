package config

import (
	"fmt"
	"os"

	"github.com/san-kum/tbsim/internal/lattice"
	"github.com/san-kum/tbsim/internal/wave"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSites   = 100
	DefaultOnsite  = 0.5
	DefaultHopping = 1.0
	DefaultStart   = 0.0
	DefaultStop    = 25.0
	DefaultPoints  = 200
	DefaultWorkers = 1

	// DefaultBenchMax bounds the sweep used when no bench worker counts are
	// configured.
	DefaultBenchMax = 12
)

type Config struct {
	Sites         int        `yaml:"sites"`
	Onsite        float64    `yaml:"onsite"`
	OnsiteValues  []float64  `yaml:"onsite_values,omitempty"`
	Hopping       float64    `yaml:"hopping"`
	HoppingValues []float64  `yaml:"hopping_values,omitempty"`
	Time          TimeConfig `yaml:"time"`
	Workers       int        `yaml:"workers"`
	BenchWorkers  []int      `yaml:"bench_workers,omitempty"`
	ValidateState bool       `yaml:"validate_state"`
}

// TimeConfig describes an evenly spaced grid of Points samples from Start
// to Stop inclusive.
type TimeConfig struct {
	Start  float64 `yaml:"start"`
	Stop   float64 `yaml:"stop"`
	Points int     `yaml:"points"`
}

func DefaultConfig() *Config {
	return &Config{
		Sites:   DefaultSites,
		Onsite:  DefaultOnsite,
		Hopping: DefaultHopping,
		Time: TimeConfig{
			Start:  DefaultStart,
			Stop:   DefaultStop,
			Points: DefaultPoints,
		},
		Workers:       DefaultWorkers,
		ValidateState: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var given struct {
		Sites *int `yaml:"sites"`
	}
	if err := yaml.Unmarshal(data, &given); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// Without an explicit size the diagonal fixes it; a conflicting size is
	// left for Validate to reject.
	if given.Sites == nil && len(cfg.OnsiteValues) > 0 {
		cfg.Sites = len(cfg.OnsiteValues)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// OnsiteEnergies returns the per-site diagonal, expanding the scalar
// Onsite when no explicit values are given.
func (c *Config) OnsiteEnergies() []float64 {
	if len(c.OnsiteValues) > 0 {
		return append([]float64(nil), c.OnsiteValues...)
	}
	return lattice.Uniform(c.Sites, c.Onsite)
}

// HoppingAmplitudes returns the couplings, expanding the scalar Hopping to
// one entry per site when no explicit values are given.
func (c *Config) HoppingAmplitudes() []float64 {
	if len(c.HoppingValues) > 0 {
		return append([]float64(nil), c.HoppingValues...)
	}
	return lattice.Uniform(c.Sites, c.Hopping)
}

func (c *Config) Times() []float64 {
	switch {
	case c.Time.Points == 1:
		return []float64{c.Time.Start}
	case c.Time.Points < 1:
		return nil
	}
	ts := floats.Span(make([]float64, c.Time.Points), c.Time.Start, c.Time.Stop)
	ts[len(ts)-1] = c.Time.Stop
	return ts
}

func (c *Config) Validate() error {
	if c.Sites < 1 {
		return fmt.Errorf("%w: sites must be positive, got %d", wave.ErrInvalidDimension, c.Sites)
	}
	if len(c.OnsiteValues) > 0 && len(c.OnsiteValues) != c.Sites {
		return fmt.Errorf("%w: %d onsite values for %d sites", wave.ErrInvalidDimension, len(c.OnsiteValues), c.Sites)
	}
	if h := len(c.HoppingValues); h > 0 && h != c.Sites && h != c.Sites-1 {
		return fmt.Errorf("%w: %d hopping values for %d sites", wave.ErrInvalidDimension, h, c.Sites)
	}
	if c.Time.Points < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", wave.ErrInvalidTimeGrid, c.Time.Points)
	}
	if !(c.Time.Stop > c.Time.Start) {
		return fmt.Errorf("%w: stop %g must exceed start %g", wave.ErrInvalidTimeGrid, c.Time.Stop, c.Time.Start)
	}
	if c.Workers <= 0 || c.Workers > c.Sites {
		return fmt.Errorf("%w: %d workers for %d sites", wave.ErrInvalidPartition, c.Workers, c.Sites)
	}
	return nil
}

// BenchSweep returns the worker counts for a benchmark. Without configured
// counts it sweeps 1 through DefaultBenchMax, capped at Sites.
func (c *Config) BenchSweep() []int {
	if len(c.BenchWorkers) > 0 {
		return append([]int(nil), c.BenchWorkers...)
	}
	sweep := make([]int, 0, DefaultBenchMax)
	for w := 1; w <= DefaultBenchMax && w <= c.Sites; w++ {
		sweep = append(sweep, w)
	}
	return sweep
}

// ValidateBench checks the worker counts used by a benchmark sweep.
func (c *Config) ValidateBench() error {
	sweep := c.BenchSweep()
	if len(sweep) == 0 {
		return fmt.Errorf("%w: no bench worker counts", wave.ErrInvalidPartition)
	}
	for _, w := range sweep {
		if w <= 0 || w > c.Sites {
			return fmt.Errorf("%w: bench worker count %d for %d sites", wave.ErrInvalidPartition, w, c.Sites)
		}
	}
	return nil
}
