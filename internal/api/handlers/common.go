package handlers

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"walkforward-ensemble/internal/api/models"
	"walkforward-ensemble/internal/backtest"
	"walkforward-ensemble/internal/data"
	"walkforward-ensemble/internal/model"
)

// resolveData turns a request's data source into aligned frames.
func resolveData(src models.DataSource, limitRows int) (*model.Frame, *model.Frame, error) {
	var returns, turnover *model.Frame
	var err error

	switch {
	case src.Inline != nil:
		returns, turnover, err = framesFromInline(src.Inline)
	case src.ReturnsCSV != "":
		returns, turnover, err = data.LoadAlignedCached(src.ReturnsCSV, src.TurnoverCSV)
	default:
		return nil, nil, fmt.Errorf("data source requires either inline data or returns_csv")
	}
	if err != nil {
		return nil, nil, err
	}

	if limitRows > 0 && limitRows < returns.Rows() {
		end := returns.Dates[limitRows-1]
		returns = returns.Slice(returns.Start(), end)
		if turnover != nil {
			turnover = turnover.Slice(turnover.Start(), end)
		}
	}
	return returns, turnover, nil
}

func framesFromInline(in *models.InlineData) (*model.Frame, *model.Frame, error) {
	dates := make([]time.Time, len(in.Dates))
	for i, s := range in.Dates {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, fmt.Errorf("inline date %q: want YYYY-MM-DD", s)
		}
		dates[i] = d.UTC()
	}
	returns, err := model.NewFrame(dates, in.Columns, in.Returns)
	if err != nil {
		return nil, nil, fmt.Errorf("inline returns: %w", err)
	}
	if in.Turnover == nil {
		return returns, nil, nil
	}
	turnover, err := model.NewFrame(dates, in.Columns, in.Turnover)
	if err != nil {
		return nil, nil, fmt.Errorf("inline turnover: %w", err)
	}
	return returns, turnover, nil
}

// configFromRequest applies request defaults and parses the OOS boundary.
func configFromRequest(rc models.BacktestConfig) (backtest.Config, error) {
	firstOS, err := time.Parse("2006-01-02", rc.FirstOS)
	if err != nil {
		return backtest.Config{}, fmt.Errorf("first_os %q: want YYYY-MM-DD", rc.FirstOS)
	}
	cfg := backtest.Config{
		FirstOS:      firstOS.UTC(),
		WindowMonths: rc.WindowMonths,
		StepMonths:   rc.StepMonths,
		Anchored:     true,
		Metric:       rc.Metric,
		RiskFree:     rc.RiskFree,
		TopN:         rc.TopN,
		MaxCorr:      rc.MaxCorr,
		MaxColumns:   rc.MaxColumns,
		MinAvgTrade:  rc.MinAvgTrade,
	}
	if rc.Anchored != nil {
		cfg.Anchored = *rc.Anchored
	}
	if cfg.StepMonths == 0 {
		cfg.StepMonths = 12
	}
	if cfg.Metric == "" {
		cfg.Metric = "sharpe"
	}
	if cfg.TopN == 0 {
		cfg.TopN = 10
	}
	if cfg.MaxCorr == 0 {
		cfg.MaxCorr = 0.5
	}
	if cfg.MaxColumns == 0 {
		cfg.MaxColumns = 10
	}
	return cfg, nil
}

func aggregateSummary(agg *backtest.Aggregate, periods int) *models.AggregateSummary {
	if agg == nil {
		return nil
	}
	return &models.AggregateSummary{
		CumulativeReturn: agg.CumulativeReturn,
		Volatility:       agg.Volatility,
		Sharpe:           fptr(agg.Sharpe),
		AvgTrade:         fptr(agg.AvgTrade),
		Periods:          periods,
	}
}

// fptr maps NaN to null for JSON.
func fptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}
