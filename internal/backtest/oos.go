package backtest

import (
	"math"

	"walkforward-ensemble/internal/model"
)

// evaluatePeriod scores an equal-weight portfolio of the selected assets
// over one out-of-sample slice.
func evaluatePeriod(returns, turnover *model.Frame, assets []string, riskFree float64) (PeriodReport, error) {
	retSub, err := returns.Select(assets)
	if err != nil {
		return PeriodReport{}, err
	}

	portfolio := rowMeans(retSub)
	pr := PeriodReport{
		Assets:           assets,
		Returns:          portfolio,
		CumulativeReturn: cumulativeReturn(portfolio.Values),
		Volatility:       stdDev(portfolio.Values) * math.Sqrt(252),
		Sharpe:           sharpe(portfolio.Values, riskFree),
		AvgTrade:         math.NaN(),
	}

	if turnover != nil {
		toSub, err := turnover.Select(assets)
		if err != nil {
			return PeriodReport{}, err
		}
		pr.Turnover = rowMeans(toSub)
		pr.AvgTrade = avgTrade(portfolio.Values, pr.Turnover.Values)
	}
	return pr, nil
}

// rowMeans collapses a frame into the equal-weight portfolio series.
func rowMeans(f *model.Frame) model.Series {
	out := model.Series{
		Dates:  f.Dates,
		Values: make([]float64, f.Rows()),
	}
	for r, row := range f.Values {
		var sum float64
		for _, v := range row {
			sum += v
		}
		out.Values[r] = sum / float64(len(row))
	}
	return out
}

func cumulativeReturn(values []float64) float64 {
	cum := 1.0
	for _, v := range values {
		cum *= 1 + v
	}
	return cum - 1
}

func stdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n))
}

// sharpe is (mean - riskFree) / std over the period, NaN when the path
// has no dispersion.
func sharpe(values []float64, riskFree float64) float64 {
	std := stdDev(values)
	if std == 0 {
		return math.NaN()
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	return (mean - riskFree) / std
}

// avgTrade is total PnL over total turnover, NaN when nothing turned over.
func avgTrade(returns, turnover []float64) float64 {
	var pl, to float64
	for _, v := range returns {
		pl += v
	}
	for _, v := range turnover {
		to += v
	}
	if to == 0 {
		return math.NaN()
	}
	return pl / to
}
