package main

import (
	"flag"
	"log"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"crosswarped.com/springs"
	"crosswarped.com/springs/internal/bqsource"
	"crosswarped.com/springs/internal/config"
	"crosswarped.com/springs/internal/function"
)

func main() {
	configPath := flag.String("config", "", "Path to a yaml config file")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}
	logger, err := cfg.NewLogger(*verbose)
	if err != nil {
		log.Fatalf("cfg.NewLogger: %v", err)
	}
	defer logger.Sync()

	solver := springs.CreateSolver(springs.SolverParams{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	h := function.NewHandler(cfg, solver, bqsource.New(cfg.BigQuery), logger)

	funcframework.RegisterHTTPFunction("/count-arrangements", h.CountArrangements)
	funcframework.RegisterHTTPFunction("/metrics", promhttp.Handler().ServeHTTP)

	logger.Info("starting function", zap.String("host", cfg.Server.Host), zap.String("port", cfg.Server.Port))
	if err := funcframework.StartHostPort(cfg.Server.Host, cfg.Server.Port); err != nil {
		logger.Fatal("funcframework.StartHostPort", zap.Error(err))
	}
}
