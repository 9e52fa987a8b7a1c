package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"walkforward-ensemble/internal/analysis"
	"walkforward-ensemble/internal/api/models"
	"walkforward-ensemble/internal/ensemble"
)

// EnsembleHandler handles grid runs.
type EnsembleHandler struct {
	logger zerolog.Logger
}

func NewEnsembleHandler(logger zerolog.Logger) *EnsembleHandler {
	return &EnsembleHandler{logger: logger.With().Str("handler", "ensemble").Logger()}
}

// Run handles POST /api/v1/ensemble.
func (h *EnsembleHandler) Run(c *gin.Context) {
	var req models.EnsembleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	returns, turnover, err := resolveData(req.Data, req.Options.LimitRows)
	if err != nil {
		badRequest(c, "DATA_LOAD_ERROR", err.Error())
		return
	}

	grid, err := gridFromRequest(req.Grid)
	if err != nil {
		badRequest(c, "INVALID_GRID", err.Error())
		return
	}
	configs, err := grid.Configs()
	if err != nil {
		badRequest(c, "INVALID_GRID", err.Error())
		return
	}

	runner := &ensemble.Runner{Workers: req.Workers, Logger: h.logger}
	result, err := runner.Run(c.Request.Context(), returns, turnover, configs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "ENSEMBLE_ERROR", Message: err.Error()},
		})
		return
	}

	aggregates := result.Aggregates()
	resp := models.EnsembleResponse{
		Configs: len(configs),
		Summary: analysis.Summarize(aggregates),
		Results: make(map[string]models.AggregateSummary, len(aggregates)),
	}
	for key, agg := range aggregates {
		resp.Results[key] = *aggregateSummary(agg, len(result.Reports[key].Periods))
	}
	for _, r := range analysis.RankBySharpe(aggregates) {
		resp.Ranking = append(resp.Ranking, models.RankingEntry{
			Key:              r.Key,
			CumulativeReturn: r.CumulativeReturn,
			Volatility:       r.Volatility,
			Sharpe:           fptr(r.Sharpe),
			AvgTrade:         fptr(r.AvgTrade),
		})
	}

	c.JSON(http.StatusOK, resp)
}

func gridFromRequest(g models.GridRequest) (ensemble.Grid, error) {
	firstOS := make([]time.Time, len(g.FirstOS))
	for i, s := range g.FirstOS {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return ensemble.Grid{}, err
		}
		firstOS[i] = t.UTC()
	}
	return ensemble.Grid{
		FirstOS:      firstOS,
		WindowMonths: g.WindowMonths,
		StepMonths:   g.StepMonths,
		Anchored:     g.Anchored,
		Metrics:      g.Metrics,
		RiskFree:     g.RiskFree,
		TopN:         g.TopN,
		MaxCorr:      g.MaxCorr,
		MaxColumns:   g.MaxColumns,
		MinAvgTrade:  g.MinAvgTrade,
	}, nil
}
