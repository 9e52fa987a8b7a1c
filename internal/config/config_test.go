package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
data:
  returns_csv: data/returns.csv
  turnover_csv: data/turnover.csv
grid:
  first_os: ["2020-01-01", "2021-01-01"]
  window_months: [12, 24]
  metrics: [sharpe, momentum]
  top_n: [10]
  max_corr: [0.5]
workers: 4
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/returns.csv", c.Data.ReturnsCSV)
	assert.Equal(t, []string{"2020-01-01", "2021-01-01"}, c.Grid.FirstOS)
	assert.Equal(t, []int{12, 24}, c.Grid.WindowMonths)
	assert.Equal(t, 4, c.Workers)
}

func TestLoadValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing returns csv", `
grid:
  first_os: ["2020-01-01"]
  window_months: [12]
`},
		{"missing first_os", `
data:
  returns_csv: r.csv
grid:
  window_months: [12]
`},
		{"bad first_os format", `
data:
  returns_csv: r.csv
grid:
  first_os: ["01/02/2020"]
  window_months: [12]
`},
		{"unknown metric", `
data:
  returns_csv: r.csv
grid:
  first_os: ["2020-01-01"]
  window_months: [12]
  metrics: [alpha_decay]
`},
		{"max_corr out of range", `
data:
  returns_csv: r.csv
grid:
  first_os: ["2020-01-01"]
  window_months: [12]
  max_corr: [1.5]
`},
		{"negative workers", `
data:
  returns_csv: r.csv
grid:
  first_os: ["2020-01-01"]
  window_months: [12]
workers: -1
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tc.yaml)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadGridFileOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
grid:
  first_os: ["2019-01-01"]
  window_months: [12, 24, 36]
  metrics: [sharpe]
`)
	path := writeFile(t, dir, "config.yaml", `
data:
  returns_csv: r.csv
grid_file: base.yaml
grid:
  metrics: [momentum, composite]
`)

	c, err := Load(path)
	require.NoError(t, err)
	// Grid file supplies the dimensions, inline grid overrides metrics.
	assert.Equal(t, []string{"2019-01-01"}, c.Grid.FirstOS)
	assert.Equal(t, []int{12, 24, 36}, c.Grid.WindowMonths)
	assert.Equal(t, []string{"momentum", "composite"}, c.Grid.Metrics)
}

func TestMergeGrid(t *testing.T) {
	base := GridConfig{
		FirstOS:      []string{"2019-01-01"},
		WindowMonths: []int{12},
		Metrics:      []string{"sharpe"},
	}
	merged := MergeGrid(base, GridConfig{WindowMonths: []int{24}})
	assert.Equal(t, []string{"2019-01-01"}, merged.FirstOS)
	assert.Equal(t, []int{24}, merged.WindowMonths)
	assert.Equal(t, []string{"sharpe"}, merged.Metrics)
}

func TestGridConfigToGrid(t *testing.T) {
	g, err := GridConfig{
		FirstOS:      []string{"2020-06-30"},
		WindowMonths: []int{12},
		MinAvgTrade:  []float64{0.25},
	}.ToGrid()
	require.NoError(t, err)
	require.Len(t, g.FirstOS, 1)
	assert.Equal(t, time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC), g.FirstOS[0])
	assert.Equal(t, []float64{0.25}, g.MinAvgTrade)

	_, err = GridConfig{FirstOS: []string{"not-a-date"}, WindowMonths: []int{12}}.ToGrid()
	assert.Error(t, err)
}
