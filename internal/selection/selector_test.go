package selection

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkforward-ensemble/internal/metrics"
	"walkforward-ensemble/internal/model"
)

func frameOf(t *testing.T, columns []string, values [][]float64) *model.Frame {
	t.Helper()
	dates := make([]time.Time, len(values))
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	f, err := model.NewFrame(dates, columns, values)
	require.NoError(t, err)
	return f
}

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1.0, pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, -1.0, pearson([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-9)
	assert.Equal(t, 0.0, pearson([]float64{1, 1, 1}, []float64{1, 2, 3}), "zero variance correlates as 0")
}

func TestUncorrelatedIndicesGreedyKeepsFirst(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	aCopy := []float64{2, 4, 6, 8}    // perfectly correlated with a
	b := []float64{1, -1, 1, -1}      // uncorrelated with a
	kept := uncorrelatedIndices([][]float64{a, aCopy, b}, 0.5, 10)
	assert.Equal(t, []int{0, 2}, kept)
}

func TestUncorrelatedIndicesStopsAtMaxColumns(t *testing.T) {
	a := []float64{1, -1, 2, -2}
	b := []float64{5, 5, -5, -5}
	c := []float64{0, 1, 0, -1}
	kept := uncorrelatedIndices([][]float64{a, b, c}, 0.99, 2)
	assert.Len(t, kept, 2)
	assert.Equal(t, 0, kept[0])
}

func TestRankOrdering(t *testing.T) {
	scores := []float64{0.5, math.NaN(), 2.0, -1.0}

	assert.Equal(t, []int{2, 0, 3, 1}, rank(scores, false), "descending, NaN last")
	assert.Equal(t, []int{3, 0, 2, 1}, rank(scores, true), "ascending, NaN last")
}

func TestPerformSelectsAndFilters(t *testing.T) {
	// up trends twice as fast as its clone; alt is uncorrelated; down loses.
	returns := frameOf(t, []string{"up", "clone", "alt", "down"}, [][]float64{
		{0.02, 0.01, 0.01, -0.02},
		{0.04, 0.02, -0.01, -0.04},
		{0.02, 0.01, 0.02, -0.02},
		{0.04, 0.02, -0.02, -0.04},
	})
	metric, err := metrics.Lookup("highest_return")
	require.NoError(t, err)

	res, err := Perform(returns, nil, metric, Params{TopN: 3, MaxCorr: 0.5, MaxColumns: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"up", "clone", "alt"}, res.Selected)
	// clone moves in lockstep with up, so the correlation filter drops it.
	assert.Equal(t, []string{"up", "alt"}, res.Filtered)
	assert.Len(t, res.FilteredValues, 2)
	assert.Nil(t, res.AvgTrade)
}

func TestPerformMinAvgTradeScreen(t *testing.T) {
	returns := frameOf(t, []string{"good", "thin"}, [][]float64{
		{0.02, 0.001},
		{0.02, 0.001},
	})
	turnover := frameOf(t, []string{"good", "thin"}, [][]float64{
		{0.01, 0.01},
		{0.01, 0.01},
	})
	metric, err := metrics.Lookup("highest_return")
	require.NoError(t, err)

	floor := 1.0 // good: 0.04/0.02 = 2, thin: 0.002/0.02 = 0.1
	res, err := Perform(returns, turnover, metric, Params{
		TopN: 2, MaxCorr: 1.0, MaxColumns: 2, MinAvgTrade: &floor,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"good"}, res.Filtered)
	require.Len(t, res.AvgTrade, 1)
	assert.InDelta(t, 2.0, res.AvgTrade[0], 1e-9)
}

func TestPerformRejectsEmptySlice(t *testing.T) {
	returns := frameOf(t, []string{"a"}, [][]float64{{0.01}})
	empty := returns.Slice(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC))
	metric, err := metrics.Lookup("sharpe")
	require.NoError(t, err)

	_, err = Perform(empty, nil, metric, Params{TopN: 1, MaxCorr: 0.5, MaxColumns: 1})
	assert.Error(t, err)
}
