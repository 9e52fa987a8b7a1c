package metrics

import (
	"math"
)

// Input is everything a metric may score from. Returns is row-major
// (one row per date). Turnover may be nil; only avg_trade needs it.
type Input struct {
	Returns  [][]float64
	Turnover [][]float64
	RiskFree float64
}

// Func scores every column of the input. Ascending declares the sort
// order for selection: true means lower is better.
type Func struct {
	Name      string
	Ascending bool
	Score     func(in Input) []float64
}

const tradingDays = 252

// Sharpe computes (mean - riskFree) / std per column. Columns with zero
// dispersion score 0.
func Sharpe(in Input) []float64 {
	cols := numCols(in.Returns)
	out := make([]float64, cols)
	for j := 0; j < cols; j++ {
		mean, std := meanStd(in.Returns, j)
		if std > 0 {
			out[j] = (mean - in.RiskFree) / std
		}
	}
	return out
}

// TotalReturn sums each column's returns.
func TotalReturn(in Input) []float64 {
	cols := numCols(in.Returns)
	out := make([]float64, cols)
	for _, row := range in.Returns {
		for j, v := range row {
			out[j] += v
		}
	}
	return out
}

// MaxDrawdown computes the deepest peak-to-trough loss on each column's
// compounded equity curve, returned as a positive fraction.
func MaxDrawdown(in Input) []float64 {
	cols := numCols(in.Returns)
	out := make([]float64, cols)
	for j := 0; j < cols; j++ {
		equity := 1.0
		peak := 1.0
		worst := 0.0
		for _, row := range in.Returns {
			equity *= 1 + row[j]
			if equity > peak {
				peak = equity
			}
			dd := (equity - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
		out[j] = -worst
	}
	return out
}

// Volatility computes the per-column standard deviation of returns,
// annualized over 252 trading days.
func Volatility(in Input) []float64 {
	cols := numCols(in.Returns)
	out := make([]float64, cols)
	for j := 0; j < cols; j++ {
		_, std := meanStd(in.Returns, j)
		out[j] = std * math.Sqrt(tradingDays)
	}
	return out
}

// Momentum compounds each column's trailing returns over the lookback
// window, clamped to the available history.
func Momentum(lookback int) func(Input) []float64 {
	return func(in Input) []float64 {
		cols := numCols(in.Returns)
		out := make([]float64, cols)
		lb := lookback
		if len(in.Returns) < lb {
			lb = len(in.Returns)
		}
		start := len(in.Returns) - lb
		for j := 0; j < cols; j++ {
			cum := 1.0
			for r := start; r < len(in.Returns); r++ {
				cum *= 1 + in.Returns[r][j]
			}
			out[j] = cum - 1
		}
		return out
	}
}

// AvgTradeRatio computes sum(PnL)/sum(turnover) per column. Columns with
// zero total turnover (or missing turnover data) score NaN.
func AvgTradeRatio(in Input) []float64 {
	cols := numCols(in.Returns)
	out := make([]float64, cols)
	if in.Turnover == nil {
		for j := range out {
			out[j] = math.NaN()
		}
		return out
	}
	for j := 0; j < cols; j++ {
		var pl, to float64
		for r := range in.Returns {
			pl += in.Returns[r][j]
			to += in.Turnover[r][j]
		}
		if to != 0 {
			out[j] = pl / to
		} else {
			out[j] = math.NaN()
		}
	}
	return out
}

// Composite blends Sharpe and 12-period momentum 70/30.
func Composite(in Input) []float64 {
	sharpe := Sharpe(in)
	mom := Momentum(12)(in)
	out := make([]float64, len(sharpe))
	for j := range out {
		out[j] = 0.7*sharpe[j] + 0.3*mom[j]
	}
	return out
}

func numCols(data [][]float64) int {
	if len(data) == 0 {
		return 0
	}
	return len(data[0])
}

// meanStd computes the population mean and standard deviation of one column.
func meanStd(data [][]float64, col int) (mean, std float64) {
	n := len(data)
	if n == 0 {
		return 0, 0
	}
	for _, row := range data {
		mean += row[col]
	}
	mean /= float64(n)
	var ss float64
	for _, row := range data {
		d := row[col] - mean
		ss += d * d
	}
	std = math.Sqrt(ss / float64(n))
	return mean, std
}
