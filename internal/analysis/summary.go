package analysis

import (
	"math"
	"sort"

	"walkforward-ensemble/internal/backtest"
)

// Distribution summarizes one statistic across every ensemble member.
// This is the point of the ensemble: instead of a single back-test number,
// the spread of outcomes over plausible configurations.
type Distribution struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P05   float64 `json:"p05"`
	P25   float64 `json:"p25"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
	P95   float64 `json:"p95"`
}

// Summary carries the outcome distributions of an ensemble run.
type Summary struct {
	Configs          int          `json:"configs"`
	CumulativeReturn Distribution `json:"cumulative_return"`
	Sharpe           Distribution `json:"sharpe"`
	Volatility       Distribution `json:"volatility"`
	AvgTrade         Distribution `json:"avg_trade"`
}

// Summarize computes the outcome distributions over per-config aggregates.
func Summarize(aggregates map[string]*backtest.Aggregate) Summary {
	var cum, sharpe, vol, avg []float64
	for _, a := range aggregates {
		cum = append(cum, a.CumulativeReturn)
		sharpe = append(sharpe, a.Sharpe)
		vol = append(vol, a.Volatility)
		avg = append(avg, a.AvgTrade)
	}
	return Summary{
		Configs:          len(aggregates),
		CumulativeReturn: Describe(cum),
		Sharpe:           Describe(sharpe),
		Volatility:       Describe(vol),
		AvgTrade:         Describe(avg),
	}
}

// Describe computes the distribution of a sample, ignoring NaNs.
func Describe(values []float64) Distribution {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	d := Distribution{Count: len(clean)}
	if len(clean) == 0 {
		return d
	}
	sort.Float64s(clean)
	var sum float64
	for _, v := range clean {
		sum += v
	}
	d.Min = clean[0]
	d.Max = clean[len(clean)-1]
	d.Mean = sum / float64(len(clean))
	d.P05 = percentileSorted(clean, 0.05)
	d.P25 = percentileSorted(clean, 0.25)
	d.P50 = percentileSorted(clean, 0.50)
	d.P75 = percentileSorted(clean, 0.75)
	d.P95 = percentileSorted(clean, 0.95)
	return d
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
