package backtest

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"walkforward-ensemble/internal/metrics"
	"walkforward-ensemble/internal/model"
	"walkforward-ensemble/internal/selection"
	"walkforward-ensemble/internal/walkforward"
)

// Config fully describes one walk-forward back-test.
type Config struct {
	FirstOS      time.Time
	WindowMonths int
	StepMonths   int
	Anchored     bool

	Metric   string
	RiskFree float64

	TopN        int
	MaxCorr     float64
	MaxColumns  int
	MinAvgTrade *float64
}

// Key labels a config inside ensemble results.
func (c Config) Key() string {
	anchored := "False"
	if c.Anchored {
		anchored = "True"
	}
	return fmt.Sprintf("%s_WL%d_Anchored%s_Step%d", c.Metric, c.WindowMonths, anchored, c.StepMonths)
}

// Backtester runs the full in-sample/out-of-sample walk-forward cycle for
// one configuration.
type Backtester struct {
	returns  *model.Frame
	turnover *model.Frame
	cfg      Config
	metric   metrics.Func
	schedule *walkforward.Schedule
	logger   zerolog.Logger
}

// New validates the config against the data and prepares the schedule.
// turnover may be nil; avg-trade filtering and reporting are skipped then.
func New(returns, turnover *model.Frame, cfg Config, logger zerolog.Logger) (*Backtester, error) {
	if returns == nil || returns.Rows() == 0 {
		return nil, fmt.Errorf("backtest: no returns data")
	}
	if turnover != nil {
		if err := model.SameShape(returns, turnover); err != nil {
			return nil, fmt.Errorf("backtest: turnover not aligned with returns: %w", err)
		}
	}
	metric, err := metrics.Lookup(cfg.Metric)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	schedule, err := walkforward.NewSchedule(returns, cfg.FirstOS, cfg.WindowMonths, cfg.Anchored, cfg.StepMonths)
	if err != nil {
		return nil, err
	}
	return &Backtester{
		returns:  returns,
		turnover: turnover,
		cfg:      cfg,
		metric:   metric,
		schedule: schedule,
		logger:   logger.With().Str("config", cfg.Key()).Logger(),
	}, nil
}

// Schedule exposes the in-sample windows the run will cover.
func (b *Backtester) Schedule() *walkforward.Schedule { return b.schedule }

// Run executes in-sample selection over every window, evaluates each
// out-of-sample step, and aggregates the stitched portfolio path.
// The Aggregate is nil when no window produced out-of-sample data.
func (b *Backtester) Run(ctx context.Context) (*Report, error) {
	runner := &walkforward.Runner{
		Returns:  b.returns,
		Turnover: b.turnover,
		Metric:   b.metric,
		Params: selection.Params{
			TopN:        b.cfg.TopN,
			MaxCorr:     b.cfg.MaxCorr,
			MaxColumns:  b.cfg.MaxColumns,
			MinAvgTrade: b.cfg.MinAvgTrade,
			RiskFree:    b.cfg.RiskFree,
		},
	}

	inSample, err := runner.Run(b.schedule)
	if err != nil {
		return nil, err
	}
	b.logger.Debug().Int("windows", len(inSample)).Msg("in-sample selection done")

	report := &Report{Config: b.cfg, InSample: inSample}

	for _, period := range inSample {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pr, ok := b.evaluateOOS(period)
		if !ok {
			continue
		}
		report.Periods = append(report.Periods, pr)
	}

	report.Aggregate = b.aggregate(report.Periods)
	if report.Aggregate == nil {
		b.logger.Warn().Msg("no out-of-sample periods produced data")
	}
	return report, nil
}

// evaluateOOS tests one in-sample selection on the step that follows it.
// The out-of-sample span runs from the day after the in-sample end through
// stepMonths later. Empty spans and empty selections are skipped.
func (b *Backtester) evaluateOOS(period walkforward.PeriodResult) (PeriodReport, bool) {
	assets := period.Selection.Filtered
	if len(assets) == 0 {
		return PeriodReport{}, false
	}
	oosStart := period.Window.End.AddDate(0, 0, 1)
	oosEnd := model.AddMonths(period.Window.End, b.cfg.StepMonths)

	retSlice := b.returns.Slice(oosStart, oosEnd)
	if retSlice.Rows() == 0 {
		return PeriodReport{}, false
	}
	var toSlice *model.Frame
	if b.turnover != nil {
		toSlice = b.turnover.Slice(oosStart, oosEnd)
	}

	pr, err := evaluatePeriod(retSlice, toSlice, assets, b.cfg.RiskFree)
	if err != nil {
		b.logger.Warn().Err(err).Str("window", period.Window.Key()).Msg("skipping out-of-sample period")
		return PeriodReport{}, false
	}
	pr.Window = period.Window
	pr.OOSStart = oosStart
	pr.OOSEnd = oosEnd
	return pr, true
}

// aggregate stitches the per-period portfolio paths into one series and
// computes whole-run statistics over it.
func (b *Backtester) aggregate(periods []PeriodReport) *Aggregate {
	var retParts, toParts []model.Series
	for _, p := range periods {
		if !p.Returns.Empty() {
			retParts = append(retParts, p.Returns)
		}
		if !p.Turnover.Empty() {
			toParts = append(toParts, p.Turnover)
		}
	}
	if len(retParts) == 0 {
		return nil
	}

	full := model.ConcatSeries(retParts)
	agg := &Aggregate{
		Series:           full,
		CumulativeReturn: cumulativeReturn(full.Values),
		Volatility:       stdDev(full.Values),
		Sharpe:           sharpe(full.Values, b.cfg.RiskFree),
		AvgTrade:         math.NaN(),
	}
	if len(toParts) > 0 {
		fullTO := model.ConcatSeries(toParts)
		agg.Turnover = fullTO
		agg.AvgTrade = avgTrade(full.Values, fullTO.Values)
	}
	return agg
}
