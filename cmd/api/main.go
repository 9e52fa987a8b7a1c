package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"walkforward-ensemble/internal/api/handlers"
	"walkforward-ensemble/internal/api/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	lvl, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	port := envOr("API_PORT", "8080")
	dataDir := envOr("DATA_DIR", "data")

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger(log.Logger))
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	backtestHandler := handlers.NewBacktestHandler(log.Logger)
	ensembleHandler := handlers.NewEnsembleHandler(log.Logger)
	datasetHandler := handlers.NewDatasetHandler(dataDir, log.Logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/backtest", backtestHandler.Run)
		v1.POST("/ensemble", ensembleHandler.Run)
		v1.GET("/metrics", handlers.ListMetrics)
		v1.GET("/datasets", datasetHandler.List)
	}

	log.Info().Str("port", port).Str("data_dir", dataDir).Msg("starting API server")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
