package ensemble

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"walkforward-ensemble/internal/backtest"
	"walkforward-ensemble/internal/model"
)

// Runner executes every configuration of an ensemble over the same data,
// bounded to Workers concurrent back-tests.
type Runner struct {
	Workers int
	Logger  zerolog.Logger
}

// Result maps config keys to their reports, preserving config order in Keys.
type Result struct {
	Keys    []string
	Reports map[string]*backtest.Report
}

// Run builds and executes a back-test per config. A bad config (unknown
// metric, impossible schedule) fails the whole run before any work starts;
// cancellation aborts outstanding back-tests.
func (r *Runner) Run(ctx context.Context, returns, turnover *model.Frame, configs []backtest.Config) (*Result, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("ensemble: no configurations to run")
	}

	keys := make([]string, len(configs))
	testers := make([]*backtest.Backtester, len(configs))
	seen := map[string]int{}
	for i, cfg := range configs {
		bt, err := backtest.New(returns, turnover, cfg, r.Logger)
		if err != nil {
			return nil, fmt.Errorf("ensemble: config %s: %w", cfg.Key(), err)
		}
		key := cfg.Key()
		// Keys collide when configs differ only in dimensions the key
		// doesn't encode (top_n, max_corr, ...); disambiguate.
		if n := seen[key]; n > 0 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		seen[cfg.Key()]++
		keys[i] = key
		testers[i] = bt
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	reports := make(map[string]*backtest.Report, len(configs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range testers {
		i := i
		g.Go(func() error {
			r.Logger.Info().Str("config", keys[i]).Msg("running configuration")
			report, err := testers[i].Run(ctx)
			if err != nil {
				return fmt.Errorf("config %s: %w", keys[i], err)
			}
			mu.Lock()
			reports[keys[i]] = report
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{Keys: keys, Reports: reports}, nil
}

// Aggregates extracts the non-nil aggregate per config, in key order.
func (r *Result) Aggregates() map[string]*backtest.Aggregate {
	out := make(map[string]*backtest.Aggregate, len(r.Reports))
	for key, report := range r.Reports {
		if report.Aggregate != nil {
			out[key] = report.Aggregate
		}
	}
	return out
}
