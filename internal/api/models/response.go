package models

import (
	"walkforward-ensemble/internal/analysis"
)

// ErrorResponse is the JSON error envelope for every failure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// AggregateSummary is the whole-run view of one configuration.
// Sharpe and AvgTrade are null when undefined (flat path, no turnover);
// NaN is not representable in JSON.
type AggregateSummary struct {
	CumulativeReturn float64  `json:"cumulative_return"`
	Volatility       float64  `json:"volatility"`
	Sharpe           *float64 `json:"sharpe"`
	AvgTrade         *float64 `json:"avg_trade"`
	Periods          int      `json:"periods"`
}

// PeriodSummary is one out-of-sample step of a single-config run.
type PeriodSummary struct {
	InSampleStart    string   `json:"in_sample_start"`
	InSampleEnd      string   `json:"in_sample_end"`
	OOSStart         string   `json:"oos_start"`
	OOSEnd           string   `json:"oos_end"`
	Assets           []string `json:"assets"`
	CumulativeReturn float64  `json:"cumulative_return"`
	Volatility       float64  `json:"volatility"`
	Sharpe           *float64 `json:"sharpe"`
	AvgTrade         *float64 `json:"avg_trade"`
}

// LedgerRow is one dated point of the stitched out-of-sample path.
type LedgerRow struct {
	Date            string  `json:"date"`
	PortfolioReturn float64 `json:"portfolio_return"`
	Equity          float64 `json:"equity"`
}

// BacktestResponse answers POST /api/v1/backtest.
type BacktestResponse struct {
	Config    string            `json:"config"`
	Aggregate *AggregateSummary `json:"aggregate"`
	Periods   []PeriodSummary   `json:"periods"`
	Ledger    []LedgerRow       `json:"ledger,omitempty"`
}

// RankingEntry is one ensemble member ordered by overall Sharpe.
type RankingEntry struct {
	Key              string   `json:"key"`
	CumulativeReturn float64  `json:"cumulative_return"`
	Volatility       float64  `json:"volatility"`
	Sharpe           *float64 `json:"sharpe"`
	AvgTrade         *float64 `json:"avg_trade"`
}

// EnsembleResponse answers POST /api/v1/ensemble.
type EnsembleResponse struct {
	Configs int                         `json:"configs"`
	Summary analysis.Summary            `json:"summary"`
	Ranking []RankingEntry              `json:"ranking"`
	Results map[string]AggregateSummary `json:"results"`
}

// MetricInfo describes one registered selection metric.
type MetricInfo struct {
	Name      string `json:"name"`
	Ascending bool   `json:"ascending"`
}

// DatasetInfo describes one CSV dataset available on the server.
type DatasetInfo struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Start   string `json:"start"`
	End     string `json:"end"`
}
