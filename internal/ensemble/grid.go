package ensemble

import (
	"fmt"
	"time"

	"walkforward-ensemble/internal/backtest"
)

// Grid spans the configuration space of an ensemble: every combination of
// its dimensions becomes one walk-forward back-test. Empty dimensions fall
// back to a single default value, except FirstOS and WindowMonths which
// must be provided.
type Grid struct {
	FirstOS      []time.Time
	WindowMonths []int
	StepMonths   []int
	Anchored     []bool
	Metrics      []string
	RiskFree     []float64
	TopN         []int
	MaxCorr      []float64
	MaxColumns   []int

	// MinAvgTrade thresholds; empty means a single unconstrained run.
	MinAvgTrade []float64
}

// Configs expands the grid into the cartesian product of its dimensions.
func (g Grid) Configs() ([]backtest.Config, error) {
	if len(g.FirstOS) == 0 {
		return nil, fmt.Errorf("grid: first_os is required")
	}
	if len(g.WindowMonths) == 0 {
		return nil, fmt.Errorf("grid: window_months is required")
	}

	steps := orDefaultInts(g.StepMonths, 12)
	anchored := g.Anchored
	if len(anchored) == 0 {
		anchored = []bool{true}
	}
	metricNames := g.Metrics
	if len(metricNames) == 0 {
		metricNames = []string{"sharpe"}
	}
	riskFree := g.RiskFree
	if len(riskFree) == 0 {
		riskFree = []float64{0}
	}
	topN := orDefaultInts(g.TopN, 10)
	maxCorr := g.MaxCorr
	if len(maxCorr) == 0 {
		maxCorr = []float64{0.5}
	}
	maxColumns := orDefaultInts(g.MaxColumns, 10)

	minAvgTrade := make([]*float64, 0, len(g.MinAvgTrade))
	if len(g.MinAvgTrade) == 0 {
		minAvgTrade = append(minAvgTrade, nil)
	} else {
		for i := range g.MinAvgTrade {
			minAvgTrade = append(minAvgTrade, &g.MinAvgTrade[i])
		}
	}

	var out []backtest.Config
	for _, fos := range g.FirstOS {
		for _, wl := range g.WindowMonths {
			for _, step := range steps {
				for _, anc := range anchored {
					for _, metric := range metricNames {
						for _, rf := range riskFree {
							for _, tn := range topN {
								for _, mc := range maxCorr {
									for _, mcols := range maxColumns {
										for _, mat := range minAvgTrade {
											out = append(out, backtest.Config{
												FirstOS:      fos,
												WindowMonths: wl,
												StepMonths:   step,
												Anchored:     anc,
												Metric:       metric,
												RiskFree:     rf,
												TopN:         tn,
												MaxCorr:      mc,
												MaxColumns:   mcols,
												MinAvgTrade:  mat,
											})
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
	return out, nil
}

func orDefaultInts(vals []int, def int) []int {
	if len(vals) == 0 {
		return []int{def}
	}
	return vals
}
