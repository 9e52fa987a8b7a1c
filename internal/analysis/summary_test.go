package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkforward-ensemble/internal/backtest"
)

func TestDescribe(t *testing.T) {
	d := Describe([]float64{4, 2, 1, 3, 5})
	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 5.0, d.Max)
	assert.Equal(t, 3.0, d.Mean)
	assert.Equal(t, 3.0, d.P50)
	// Interpolated quartiles over [1 2 3 4 5].
	assert.InDelta(t, 2.0, d.P25, 1e-12)
	assert.InDelta(t, 4.0, d.P75, 1e-12)
	assert.InDelta(t, 1.2, d.P05, 1e-12)
	assert.InDelta(t, 4.8, d.P95, 1e-12)
}

func TestDescribeSkipsNaN(t *testing.T) {
	d := Describe([]float64{1, math.NaN(), 3})
	assert.Equal(t, 2, d.Count)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 3.0, d.Max)
	assert.Equal(t, 2.0, d.Mean)
	assert.Equal(t, 2.0, d.P50)
}

func TestDescribeEmpty(t *testing.T) {
	d := Describe(nil)
	assert.Equal(t, 0, d.Count)
	assert.Equal(t, 0.0, d.Mean)

	d = Describe([]float64{math.NaN()})
	assert.Equal(t, 0, d.Count)
}

func testAggregates() map[string]*backtest.Aggregate {
	return map[string]*backtest.Aggregate{
		"a": {CumulativeReturn: 0.50, Sharpe: 1.2, Volatility: 0.10, AvgTrade: 0.3},
		"b": {CumulativeReturn: 0.20, Sharpe: 0.8, Volatility: 0.15, AvgTrade: math.NaN()},
		"c": {CumulativeReturn: 0.90, Sharpe: math.NaN(), Volatility: 0.05, AvgTrade: 0.1},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testAggregates())
	assert.Equal(t, 3, s.Configs)
	assert.Equal(t, 3, s.CumulativeReturn.Count)
	assert.Equal(t, 2, s.Sharpe.Count, "NaN sharpe excluded from the distribution")
	assert.InDelta(t, 1.0, s.Sharpe.Mean, 1e-12)
	assert.InDelta(t, 0.9, s.CumulativeReturn.Max, 1e-12)
}

func TestRankBySharpe(t *testing.T) {
	ranked := RankBySharpe(testAggregates())
	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].Key)
	assert.Equal(t, "b", ranked[1].Key)
	assert.Equal(t, "c", ranked[2].Key, "NaN sharpe sorts last")
}

func TestRankByCumulativeReturn(t *testing.T) {
	ranked := RankByCumulativeReturn(testAggregates())
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{ranked[0].Key, ranked[1].Key, ranked[2].Key})
}
