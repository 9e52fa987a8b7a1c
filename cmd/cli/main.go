package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"walkforward-ensemble/internal/analysis"
	"walkforward-ensemble/internal/backtest"
	"walkforward-ensemble/internal/config"
	"walkforward-ensemble/internal/data"
	"walkforward-ensemble/internal/ensemble"
	"walkforward-ensemble/internal/metrics"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "ensemble":
		cmdEnsemble(os.Args[2:])
	case "metrics":
		cmdMetrics()
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli backtest --returns data/returns.csv --first-os 2016-12-31 --window 12 --out results/oos.csv")
	fmt.Println("  cli ensemble --config examples/config.yaml")
	fmt.Println("  cli metrics")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - backtest runs one walk-forward configuration and writes the OOS ledger CSV")
	fmt.Println("  - ensemble expands the config grid and reports the outcome distribution")
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	returnsPath := fs.String("returns", "", "Path to wide returns CSV (date,asset,...)")
	turnoverPath := fs.String("turnover", "", "Optional path to aligned turnover CSV")
	firstOS := fs.String("first-os", "", "First out-of-sample date (YYYY-MM-DD)")
	window := fs.Int("window", 12, "In-sample window length in months")
	step := fs.Int("step", 12, "Walk-forward step in months")
	anchored := fs.Bool("anchored", true, "Anchor the in-sample start")
	metricName := fs.String("metric", "sharpe", "Selection metric")
	riskFree := fs.Float64("risk-free", 0, "Risk-free rate per period")
	topN := fs.Int("top-n", 10, "Assets surviving the metric ranking")
	maxCorr := fs.Float64("max-corr", 0.5, "Pairwise correlation ceiling")
	maxColumns := fs.Int("max-columns", 10, "Assets surviving the correlation filter")
	minAvgTrade := fs.Float64("min-avg-trade", math.NaN(), "Optional avg-trade floor (requires --turnover)")
	outPath := fs.String("out", "results/oos.csv", "Output ledger CSV path")
	_ = fs.Parse(args)

	if *returnsPath == "" || *firstOS == "" {
		fmt.Println("--returns and --first-os are required")
		os.Exit(2)
	}
	boundary, err := time.Parse("2006-01-02", *firstOS)
	if err != nil {
		log.Fatal().Err(err).Msg("--first-os must be YYYY-MM-DD")
	}

	returns, turnover, err := data.LoadAligned(*returnsPath, *turnoverPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading data failed")
	}

	cfg := backtest.Config{
		FirstOS:      boundary.UTC(),
		WindowMonths: *window,
		StepMonths:   *step,
		Anchored:     *anchored,
		Metric:       *metricName,
		RiskFree:     *riskFree,
		TopN:         *topN,
		MaxCorr:      *maxCorr,
		MaxColumns:   *maxColumns,
	}
	if !math.IsNaN(*minAvgTrade) {
		cfg.MinAvgTrade = minAvgTrade
	}

	bt, err := backtest.New(returns, turnover, cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	report, err := bt.Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("backtest failed")
	}
	if report.Aggregate == nil {
		log.Fatal().Msg("no out-of-sample data produced; check first-os and window against the dataset span")
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("creating output directory failed")
	}
	if err := backtest.WriteAggregateCSV(*outPath, report.Aggregate); err != nil {
		log.Fatal().Err(err).Msg("writing ledger failed")
	}

	fmt.Printf("Wrote %d rows to %s\n", report.Aggregate.Series.Len(), *outPath)
	fmt.Printf("Config: %s\n", cfg.Key())
	fmt.Printf("OOS periods: %d\n", len(report.Periods))
	fmt.Printf("Cumulative return: %.4f  Volatility: %.6f  Sharpe: %.4f\n",
		report.Aggregate.CumulativeReturn, report.Aggregate.Volatility, report.Aggregate.Sharpe)
	if !math.IsNaN(report.Aggregate.AvgTrade) {
		fmt.Printf("Avg trade: %.6f\n", report.Aggregate.AvgTrade)
	}
}

func cmdEnsemble(args []string) {
	fs := flag.NewFlagSet("ensemble", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	limit := fs.Int("n", 0, "Optional: limit to first N data rows (0=all)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config failed")
	}

	returns, turnover, err := data.LoadAligned(cfg.Data.ReturnsCSV, cfg.Data.TurnoverCSV)
	if err != nil {
		log.Fatal().Err(err).Msg("loading data failed")
	}
	if *limit > 0 && *limit < returns.Rows() {
		end := returns.Dates[*limit-1]
		returns = returns.Slice(returns.Start(), end)
		if turnover != nil {
			turnover = turnover.Slice(turnover.Start(), end)
		}
	}

	grid, err := cfg.Grid.ToGrid()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid grid")
	}
	configs, err := grid.Configs()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid grid")
	}
	log.Info().Int("configs", len(configs)).Msg("expanded configuration grid")

	runner := &ensemble.Runner{Workers: cfg.Workers, Logger: log.Logger}
	result, err := runner.Run(context.Background(), returns, turnover, configs)
	if err != nil {
		log.Fatal().Err(err).Msg("ensemble run failed")
	}

	aggregates := result.Aggregates()
	printSummary(analysis.Summarize(aggregates))
	printRanking(analysis.RankBySharpe(aggregates))
}

func cmdMetrics() {
	fmt.Println("Available metrics:")
	for _, name := range metrics.Names() {
		m, err := metrics.Lookup(name)
		if err != nil {
			continue
		}
		order := "higher is better"
		if m.Ascending {
			order = "lower is better"
		}
		fmt.Printf(" - %s (%s)\n", name, order)
	}
}

func printSummary(s analysis.Summary) {
	fmt.Printf("\nEnsemble outcome distribution over %d configurations:\n", s.Configs)
	printDistribution("cumulative return", s.CumulativeReturn)
	printDistribution("sharpe", s.Sharpe)
	printDistribution("volatility", s.Volatility)
	if s.AvgTrade.Count > 0 {
		printDistribution("avg trade", s.AvgTrade)
	}
}

func printDistribution(name string, d analysis.Distribution) {
	fmt.Printf("  %-18s p05=%.4f p25=%.4f median=%.4f p75=%.4f p95=%.4f (mean=%.4f, n=%d)\n",
		name, d.P05, d.P25, d.P50, d.P75, d.P95, d.Mean, d.Count)
}

func printRanking(ranked []analysis.RankedConfig) {
	fmt.Println("\nConfigurations by overall Sharpe:")
	for i, r := range ranked {
		fmt.Printf("  %2d. %-45s sharpe=%.4f cum=%.4f vol=%.6f\n",
			i+1, r.Key, r.Sharpe, r.CumulativeReturn, r.Volatility)
	}
}
