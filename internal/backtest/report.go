package backtest

import (
	"time"

	"walkforward-ensemble/internal/model"
	"walkforward-ensemble/internal/walkforward"
)

// Report holds everything one walk-forward run produced.
type Report struct {
	Config   Config
	InSample []walkforward.PeriodResult
	Periods  []PeriodReport

	// Aggregate is nil when no out-of-sample period produced data.
	Aggregate *Aggregate
}

// PeriodReport is the out-of-sample performance of one in-sample window's
// selection over the step that follows it.
type PeriodReport struct {
	Window   walkforward.Window
	OOSStart time.Time
	OOSEnd   time.Time

	Assets []string

	Returns          model.Series
	CumulativeReturn float64
	Volatility       float64 // annualized
	Sharpe           float64

	// Turnover fields are zero-valued when no turnover data was supplied.
	Turnover model.Series
	AvgTrade float64
}

// Aggregate is the whole-run view: every out-of-sample portfolio path
// stitched into one series, with statistics over the full path.
type Aggregate struct {
	Series           model.Series
	CumulativeReturn float64
	Volatility       float64
	Sharpe           float64

	Turnover model.Series
	AvgTrade float64
}
