package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"walkforward-ensemble/internal/api/models"
	"walkforward-ensemble/internal/backtest"
)

// BacktestHandler handles single-configuration runs.
type BacktestHandler struct {
	logger zerolog.Logger
}

func NewBacktestHandler(logger zerolog.Logger) *BacktestHandler {
	return &BacktestHandler{logger: logger.With().Str("handler", "backtest").Logger()}
}

// Run handles POST /api/v1/backtest.
func (h *BacktestHandler) Run(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	returns, turnover, err := resolveData(req.Data, req.Options.LimitRows)
	if err != nil {
		badRequest(c, "DATA_LOAD_ERROR", err.Error())
		return
	}

	cfg, err := configFromRequest(req.Config)
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err.Error())
		return
	}

	bt, err := backtest.New(returns, turnover, cfg, h.logger)
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err.Error())
		return
	}

	report, err := bt.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "BACKTEST_ERROR", Message: err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, buildBacktestResponse(report, req.Options.IncludeLedger))
}

func buildBacktestResponse(report *backtest.Report, includeLedger bool) models.BacktestResponse {
	resp := models.BacktestResponse{
		Config:    report.Config.Key(),
		Aggregate: aggregateSummary(report.Aggregate, len(report.Periods)),
	}
	for _, p := range report.Periods {
		resp.Periods = append(resp.Periods, models.PeriodSummary{
			InSampleStart:    p.Window.Start.Format("2006-01-02"),
			InSampleEnd:      p.Window.End.Format("2006-01-02"),
			OOSStart:         p.OOSStart.Format("2006-01-02"),
			OOSEnd:           p.OOSEnd.Format("2006-01-02"),
			Assets:           p.Assets,
			CumulativeReturn: p.CumulativeReturn,
			Volatility:       p.Volatility,
			Sharpe:           fptr(p.Sharpe),
			AvgTrade:         fptr(p.AvgTrade),
		})
	}
	if includeLedger && report.Aggregate != nil {
		equity := 1.0
		for i, d := range report.Aggregate.Series.Dates {
			equity *= 1 + report.Aggregate.Series.Values[i]
			resp.Ledger = append(resp.Ledger, models.LedgerRow{
				Date:            d.Format("2006-01-02"),
				PortfolioReturn: report.Aggregate.Series.Values[i],
				Equity:          equity,
			})
		}
	}
	return resp
}
