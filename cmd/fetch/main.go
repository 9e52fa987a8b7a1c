package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"walkforward-ensemble/internal/data"
	"walkforward-ensemble/internal/model"
)

// fetch pulls a returns (and optionally turnover) matrix from the matrix
// API and writes it as the wide CSV the backtester reads.
func main() {
	var (
		datasetID   = flag.String("dataset-id", "", "Matrix API dataset ID")
		start       = flag.String("start", "", "Start date (YYYY-MM-DD)")
		end         = flag.String("end", "", "End date (YYYY-MM-DD), defaults to today")
		outReturns  = flag.String("out-returns", "data/returns.csv", "Output returns CSV path")
		outTurnover = flag.String("out-turnover", "", "Optional output turnover CSV path")
		baseURL     = flag.String("base-url", "", "Override the matrix API base URL")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	apiKey := os.Getenv("MATRIX_API_KEY")
	if apiKey == "" {
		log.Fatal().Msg("MATRIX_API_KEY environment variable is required")
	}
	if *datasetID == "" || *start == "" {
		log.Fatal().Msg("--dataset-id and --start are required")
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatal().Err(err).Msg("--start must be YYYY-MM-DD")
	}
	endDate := time.Now().UTC()
	if *end != "" {
		endDate, err = time.Parse("2006-01-02", *end)
		if err != nil {
			log.Fatal().Err(err).Msg("--end must be YYYY-MM-DD")
		}
	}

	client := data.NewReturnsClient(apiKey, *baseURL, log.Logger)
	ctx := context.Background()

	returns, err := client.QueryFrame(ctx, data.QueryParams{
		DatasetID: *datasetID,
		Field:     "returns",
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("fetching returns failed")
	}
	if err := writeCSV(*outReturns, returns); err != nil {
		log.Fatal().Err(err).Msg("writing returns failed")
	}
	fmt.Printf("Wrote %d rows x %d assets to %s\n", returns.Rows(), len(returns.Columns), *outReturns)

	if *outTurnover != "" {
		turnover, err := client.QueryFrame(ctx, data.QueryParams{
			DatasetID: *datasetID,
			Field:     "turnover",
			StartDate: startDate,
			EndDate:   endDate,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("fetching turnover failed")
		}
		if err := writeCSV(*outTurnover, turnover); err != nil {
			log.Fatal().Err(err).Msg("writing turnover failed")
		}
		fmt.Printf("Wrote %d rows x %d assets to %s\n", turnover.Rows(), len(turnover.Columns), *outTurnover)
	}
}

func writeCSV(path string, frame *model.Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return data.WriteFrameCSV(path, frame)
}
