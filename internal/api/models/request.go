package models

// DataSource names the dataset a request runs against: CSV paths on the
// server, or an inline matrix.
type DataSource struct {
	ReturnsCSV  string      `json:"returns_csv"`
	TurnoverCSV string      `json:"turnover_csv"`
	Inline      *InlineData `json:"inline"`
}

// InlineData is a request-embedded returns matrix. Dates are YYYY-MM-DD.
// Turnover is optional and must match the returns shape when present.
type InlineData struct {
	Dates    []string    `json:"dates"`
	Columns  []string    `json:"columns"`
	Returns  [][]float64 `json:"returns"`
	Turnover [][]float64 `json:"turnover"`
}

// BacktestConfig is one walk-forward configuration in request form.
type BacktestConfig struct {
	FirstOS      string   `json:"first_os" binding:"required"`
	WindowMonths int      `json:"window_months" binding:"required"`
	StepMonths   int      `json:"step_months"`
	Anchored     *bool    `json:"anchored"`
	Metric       string   `json:"metric"`
	RiskFree     float64  `json:"risk_free"`
	TopN         int      `json:"top_n"`
	MaxCorr      float64  `json:"max_corr"`
	MaxColumns   int      `json:"max_columns"`
	MinAvgTrade  *float64 `json:"min_avg_trade"`
}

// BacktestRequest runs a single configuration.
type BacktestRequest struct {
	Data    DataSource      `json:"data" binding:"required"`
	Config  BacktestConfig  `json:"config" binding:"required"`
	Options BacktestOptions `json:"options"`
}

type BacktestOptions struct {
	// IncludeLedger adds the dated out-of-sample path to the response.
	IncludeLedger bool `json:"include_ledger"`
	// LimitRows truncates the dataset to its first N rows (0 = all).
	LimitRows int `json:"limit_rows"`
}

// GridRequest mirrors the YAML grid shape for HTTP callers.
type GridRequest struct {
	FirstOS      []string  `json:"first_os" binding:"required"`
	WindowMonths []int     `json:"window_months" binding:"required"`
	StepMonths   []int     `json:"step_months"`
	Anchored     []bool    `json:"anchored"`
	Metrics      []string  `json:"metrics"`
	RiskFree     []float64 `json:"risk_free"`
	TopN         []int     `json:"top_n"`
	MaxCorr      []float64 `json:"max_corr"`
	MaxColumns   []int     `json:"max_columns"`
	MinAvgTrade  []float64 `json:"min_avg_trade"`
}

// EnsembleRequest runs the full grid.
type EnsembleRequest struct {
	Data    DataSource      `json:"data" binding:"required"`
	Grid    GridRequest     `json:"grid" binding:"required"`
	Workers int             `json:"workers"`
	Options BacktestOptions `json:"options"`
}
