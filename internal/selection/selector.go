package selection

import (
	"fmt"
	"math"
	"sort"

	"walkforward-ensemble/internal/metrics"
	"walkforward-ensemble/internal/model"
)

// Params drives one in-sample selection pass.
type Params struct {
	TopN       int
	MaxCorr    float64
	MaxColumns int

	// MinAvgTrade, when set and turnover data is present, drops filtered
	// columns whose avg-trade ratio falls below it.
	MinAvgTrade *float64

	RiskFree float64
}

// Result is the outcome of a selection pass: the metric-ranked columns,
// then the survivors of the correlation (and optional avg-trade) filters.
type Result struct {
	Selected       []string
	Values         []float64
	Filtered       []string
	FilteredValues []float64
	AvgTrade       []float64
}

// Perform runs the two-stage selection on an in-sample slice:
// rank all columns by the metric and take the top N, then greedily drop
// columns too correlated with better-ranked survivors. When turnover data
// and a MinAvgTrade threshold are both present, a final avg-trade screen
// is applied.
func Perform(returns, turnover *model.Frame, metric metrics.Func, p Params) (Result, error) {
	if returns.Rows() == 0 {
		return Result{}, fmt.Errorf("selection: empty in-sample slice")
	}
	if p.TopN < 1 || p.MaxColumns < 1 {
		return Result{}, fmt.Errorf("selection: top_n and max_columns must be >= 1")
	}

	in := metrics.Input{Returns: returns.Values, RiskFree: p.RiskFree}
	if turnover != nil {
		in.Turnover = turnover.Values
	}
	scores := metric.Score(in)

	order := rank(scores, metric.Ascending)
	if len(order) > p.TopN {
		order = order[:p.TopN]
	}
	selected := make([]string, len(order))
	values := make([]float64, len(order))
	columns := make([][]float64, len(order))
	for i, j := range order {
		selected[i] = returns.Columns[j]
		values[i] = scores[j]
		columns[i] = columnValues(returns, j)
	}

	keep := uncorrelatedIndices(columns, p.MaxCorr, p.MaxColumns)
	filtered := make([]string, len(keep))
	filteredValues := make([]float64, len(keep))
	for i, k := range keep {
		filtered[i] = selected[k]
		filteredValues[i] = values[k]
	}

	res := Result{
		Selected:       selected,
		Values:         values,
		Filtered:       filtered,
		FilteredValues: filteredValues,
	}

	if turnover != nil && p.MinAvgTrade != nil && len(filtered) > 0 {
		retSub, err := returns.Select(filtered)
		if err != nil {
			return Result{}, err
		}
		toSub, err := turnover.Select(filtered)
		if err != nil {
			return Result{}, err
		}
		avg := metrics.AvgTradeRatio(metrics.Input{Returns: retSub.Values, Turnover: toSub.Values, RiskFree: p.RiskFree})
		var cols []string
		var vals, avgs []float64
		for i := range filtered {
			if avg[i] >= *p.MinAvgTrade {
				cols = append(cols, filtered[i])
				vals = append(vals, filteredValues[i])
				avgs = append(avgs, avg[i])
			}
		}
		res.Filtered = cols
		res.FilteredValues = vals
		res.AvgTrade = avgs
	}

	return res, nil
}

// rank orders column indices by score. NaN scores always rank last,
// whichever direction the metric sorts in.
func rank(scores []float64, ascending bool) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := scores[idx[a]], scores[idx[b]]
		na, nb := math.IsNaN(va), math.IsNaN(vb)
		if na || nb {
			return !na && nb
		}
		if ascending {
			return va < vb
		}
		return va > vb
	})
	return idx
}

func columnValues(f *model.Frame, col int) []float64 {
	out := make([]float64, len(f.Values))
	for r, row := range f.Values {
		out[r] = row[col]
	}
	return out
}
