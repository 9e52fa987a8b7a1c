package ensemble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestGridRequiresFirstOSAndWindow(t *testing.T) {
	_, err := Grid{}.Configs()
	assert.Error(t, err)

	_, err = Grid{FirstOS: []time.Time{day("2020-01-01")}}.Configs()
	assert.Error(t, err)
}

func TestGridDefaults(t *testing.T) {
	configs, err := Grid{
		FirstOS:      []time.Time{day("2020-01-01")},
		WindowMonths: []int{12},
	}.Configs()
	require.NoError(t, err)
	require.Len(t, configs, 1)

	cfg := configs[0]
	assert.Equal(t, 12, cfg.StepMonths)
	assert.True(t, cfg.Anchored)
	assert.Equal(t, "sharpe", cfg.Metric)
	assert.Equal(t, 0.0, cfg.RiskFree)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 0.5, cfg.MaxCorr)
	assert.Equal(t, 10, cfg.MaxColumns)
	assert.Nil(t, cfg.MinAvgTrade)
}

func TestGridCartesianProduct(t *testing.T) {
	configs, err := Grid{
		FirstOS:      []time.Time{day("2019-01-01"), day("2020-01-01")},
		WindowMonths: []int{12, 24, 36},
		Anchored:     []bool{true, false},
		Metrics:      []string{"sharpe", "momentum"},
		MinAvgTrade:  []float64{0.1},
	}.Configs()
	require.NoError(t, err)
	assert.Len(t, configs, 2*3*2*2)

	for _, cfg := range configs {
		require.NotNil(t, cfg.MinAvgTrade)
		assert.Equal(t, 0.1, *cfg.MinAvgTrade)
	}

	// Dimensions vary innermost-last, so the first configs share the first
	// out-of-sample date.
	assert.Equal(t, day("2019-01-01"), configs[0].FirstOS)
	assert.Equal(t, day("2019-01-01"), configs[11].FirstOS)
	assert.Equal(t, day("2020-01-01"), configs[12].FirstOS)
}
