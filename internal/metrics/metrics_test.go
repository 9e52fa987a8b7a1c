package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharpe(t *testing.T) {
	in := Input{Returns: [][]float64{
		{0.01, 0.05},
		{0.03, 0.05},
	}}
	got := Sharpe(in)

	// Column 0: mean 0.02, population std 0.01 -> sharpe 2.
	assert.InDelta(t, 2.0, got[0], 1e-9)
	// Column 1 is constant: zero dispersion scores 0.
	assert.Equal(t, 0.0, got[1])
}

func TestSharpeRiskFree(t *testing.T) {
	in := Input{
		Returns:  [][]float64{{0.01}, {0.03}},
		RiskFree: 0.02,
	}
	got := Sharpe(in)
	assert.InDelta(t, 0.0, got[0], 1e-9)
}

func TestTotalReturn(t *testing.T) {
	in := Input{Returns: [][]float64{
		{0.01, -0.02},
		{0.02, -0.03},
	}}
	got := TotalReturn(in)
	assert.InDelta(t, 0.03, got[0], 1e-9)
	assert.InDelta(t, -0.05, got[1], 1e-9)
}

func TestMaxDrawdown(t *testing.T) {
	// Up 10%, down 50%, up 10%: deepest trough is 50% below the peak.
	in := Input{Returns: [][]float64{
		{0.10},
		{-0.50},
		{0.10},
	}}
	got := MaxDrawdown(in)
	assert.InDelta(t, 0.50, got[0], 1e-9)

	// Monotonically rising column never draws down.
	in = Input{Returns: [][]float64{{0.01}, {0.01}}}
	assert.Equal(t, 0.0, MaxDrawdown(in)[0])
}

func TestMomentumClampsLookback(t *testing.T) {
	in := Input{Returns: [][]float64{
		{0.10},
		{0.10},
	}}
	got := Momentum(12)(in)
	assert.InDelta(t, 1.1*1.1-1, got[0], 1e-9)

	// With more history, only the trailing window counts.
	in = Input{Returns: [][]float64{
		{1.0}, // outside the lookback
		{0.10},
		{0.10},
	}}
	got = Momentum(2)(in)
	assert.InDelta(t, 1.1*1.1-1, got[0], 1e-9)
}

func TestAvgTradeRatio(t *testing.T) {
	in := Input{
		Returns: [][]float64{
			{0.02, 0.01},
			{0.02, -0.01},
		},
		Turnover: [][]float64{
			{0.01, 0.0},
			{0.01, 0.0},
		},
	}
	got := AvgTradeRatio(in)
	assert.InDelta(t, 2.0, got[0], 1e-9)
	assert.True(t, math.IsNaN(got[1]), "zero turnover should score NaN")

	got = AvgTradeRatio(Input{Returns: in.Returns})
	assert.True(t, math.IsNaN(got[0]), "missing turnover should score NaN")
}

func TestComposite(t *testing.T) {
	in := Input{Returns: [][]float64{
		{0.01, 0.05},
		{0.03, 0.05},
	}}
	sharpe := Sharpe(in)
	mom := Momentum(12)(in)
	got := Composite(in)
	for j := range got {
		assert.InDelta(t, 0.7*sharpe[j]+0.3*mom[j], got[j], 1e-9)
	}
}

func TestRegistry(t *testing.T) {
	m, err := Lookup("sharpe")
	require.NoError(t, err)
	assert.Equal(t, "sharpe", m.Name)
	assert.False(t, m.Ascending)

	m, err = Lookup("max_drawdown")
	require.NoError(t, err)
	assert.True(t, m.Ascending, "smaller drawdown should rank first")

	_, err = Lookup("nope")
	assert.Error(t, err)

	assert.Equal(t, []string{
		"avg_trade", "composite", "highest_return",
		"max_drawdown", "momentum", "sharpe", "volatility",
	}, Names())
}
