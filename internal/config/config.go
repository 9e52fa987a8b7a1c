package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"walkforward-ensemble/internal/ensemble"
	"walkforward-ensemble/internal/metrics"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Data DataConfig `yaml:"data"`

	// Optional: load the grid from a separate YAML (e.g. examples/grids/*.yaml).
	// Dimensions set under Grid override the loaded file.
	GridFile string     `yaml:"grid_file"`
	Grid     GridConfig `yaml:"grid"`

	// Workers bounds concurrent back-tests; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

type DataConfig struct {
	ReturnsCSV  string `yaml:"returns_csv"`
	TurnoverCSV string `yaml:"turnover_csv"`
}

// GridConfig mirrors ensemble.Grid with YAML-friendly types.
type GridConfig struct {
	FirstOS      []string  `yaml:"first_os"`
	WindowMonths []int     `yaml:"window_months"`
	StepMonths   []int     `yaml:"step_months"`
	Anchored     []bool    `yaml:"anchored"`
	Metrics      []string  `yaml:"metrics"`
	RiskFree     []float64 `yaml:"risk_free"`
	TopN         []int     `yaml:"top_n"`
	MaxCorr      []float64 `yaml:"max_corr"`
	MaxColumns   []int     `yaml:"max_columns"`
	MinAvgTrade  []float64 `yaml:"min_avg_trade"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.GridFile != "" {
		gridPath := c.GridFile
		if !filepath.IsAbs(gridPath) {
			// Prefer interpreting relative paths as relative to the config file
			// directory, but fall back to the provided path if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), gridPath)
			if _, err := os.Stat(cand); err == nil {
				gridPath = cand
			}
		}
		loaded, err := loadGridFile(gridPath)
		if err != nil {
			return nil, err
		}
		c.Grid = MergeGrid(loaded, c.Grid)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Data.ReturnsCSV == "" {
		return errors.New("data.returns_csv is required")
	}
	if len(c.Grid.FirstOS) == 0 {
		return errors.New("grid.first_os is required")
	}
	for _, s := range c.Grid.FirstOS {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("grid.first_os %q: want YYYY-MM-DD", s)
		}
	}
	if len(c.Grid.WindowMonths) == 0 {
		return errors.New("grid.window_months is required")
	}
	for _, w := range c.Grid.WindowMonths {
		if w < 1 {
			return fmt.Errorf("grid.window_months value %d must be >= 1", w)
		}
	}
	for _, s := range c.Grid.StepMonths {
		if s < 1 {
			return fmt.Errorf("grid.step_months value %d must be >= 1", s)
		}
	}
	for _, name := range c.Grid.Metrics {
		if _, err := metrics.Lookup(name); err != nil {
			return fmt.Errorf("grid.metrics: %w", err)
		}
	}
	for _, n := range c.Grid.TopN {
		if n < 1 {
			return fmt.Errorf("grid.top_n value %d must be >= 1", n)
		}
	}
	for _, mc := range c.Grid.MaxCorr {
		if mc <= 0 || mc > 1 {
			return fmt.Errorf("grid.max_corr value %v must be in (0, 1]", mc)
		}
	}
	for _, n := range c.Grid.MaxColumns {
		if n < 1 {
			return fmt.Errorf("grid.max_columns value %d must be >= 1", n)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

// ToGrid converts the YAML shape into an ensemble grid.
func (g GridConfig) ToGrid() (ensemble.Grid, error) {
	firstOS := make([]time.Time, len(g.FirstOS))
	for i, s := range g.FirstOS {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return ensemble.Grid{}, fmt.Errorf("first_os %q: %w", s, err)
		}
		firstOS[i] = t.UTC()
	}
	return ensemble.Grid{
		FirstOS:      firstOS,
		WindowMonths: g.WindowMonths,
		StepMonths:   g.StepMonths,
		Anchored:     g.Anchored,
		Metrics:      g.Metrics,
		RiskFree:     g.RiskFree,
		TopN:         g.TopN,
		MaxCorr:      g.MaxCorr,
		MaxColumns:   g.MaxColumns,
		MinAvgTrade:  g.MinAvgTrade,
	}, nil
}

type gridFileWrapper struct {
	Grid GridConfig `yaml:"grid"`
}

func loadGridFile(path string) (GridConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return GridConfig{}, err
	}
	var w gridFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return GridConfig{}, err
	}
	return w.Grid, nil
}

// MergeGrid overlays non-empty dimensions from override onto base.
// This is used when loading a grid file and then applying overrides from
// the main config.
func MergeGrid(base, override GridConfig) GridConfig {
	out := base
	if len(override.FirstOS) > 0 {
		out.FirstOS = override.FirstOS
	}
	if len(override.WindowMonths) > 0 {
		out.WindowMonths = override.WindowMonths
	}
	if len(override.StepMonths) > 0 {
		out.StepMonths = override.StepMonths
	}
	if len(override.Anchored) > 0 {
		out.Anchored = override.Anchored
	}
	if len(override.Metrics) > 0 {
		out.Metrics = override.Metrics
	}
	if len(override.RiskFree) > 0 {
		out.RiskFree = override.RiskFree
	}
	if len(override.TopN) > 0 {
		out.TopN = override.TopN
	}
	if len(override.MaxCorr) > 0 {
		out.MaxCorr = override.MaxCorr
	}
	if len(override.MaxColumns) > 0 {
		out.MaxColumns = override.MaxColumns
	}
	if len(override.MinAvgTrade) > 0 {
		out.MinAvgTrade = override.MinAvgTrade
	}
	return out
}
