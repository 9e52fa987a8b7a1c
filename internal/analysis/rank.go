package analysis

import (
	"math"
	"sort"

	"walkforward-ensemble/internal/backtest"
)

// RankedConfig is one ensemble member with its whole-run aggregate.
type RankedConfig struct {
	Key string `json:"key"`

	CumulativeReturn float64 `json:"cumulative_return"`
	Sharpe           float64 `json:"sharpe"`
	Volatility       float64 `json:"volatility"`
	AvgTrade         float64 `json:"avg_trade"`
}

// RankBySharpe sorts ensemble members descending by overall Sharpe.
// NaN Sharpe ranks last.
func RankBySharpe(aggregates map[string]*backtest.Aggregate) []RankedConfig {
	return rankBy(aggregates, func(r RankedConfig) float64 { return r.Sharpe })
}

// RankByCumulativeReturn sorts ensemble members descending by overall
// cumulative return.
func RankByCumulativeReturn(aggregates map[string]*backtest.Aggregate) []RankedConfig {
	return rankBy(aggregates, func(r RankedConfig) float64 { return r.CumulativeReturn })
}

func rankBy(aggregates map[string]*backtest.Aggregate, stat func(RankedConfig) float64) []RankedConfig {
	out := make([]RankedConfig, 0, len(aggregates))
	for key, a := range aggregates {
		out = append(out, RankedConfig{
			Key:              key,
			CumulativeReturn: a.CumulativeReturn,
			Sharpe:           a.Sharpe,
			Volatility:       a.Volatility,
			AvgTrade:         a.AvgTrade,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		vi, vj := stat(out[i]), stat(out[j])
		ni, nj := math.IsNaN(vi), math.IsNaN(vj)
		if ni || nj {
			return !ni && nj
		}
		if vi != vj {
			return vi > vj
		}
		return out[i].Key < out[j].Key
	})
	return out
}
