package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/shopmetrics/shopmetrics-backend/internal/analytics"
	"github.com/shopmetrics/shopmetrics-backend/internal/stores"
	"github.com/shopmetrics/shopmetrics-backend/internal/sync"
	"github.com/shopmetrics/shopmetrics-backend/pkg/config"
	"github.com/shopmetrics/shopmetrics-backend/pkg/db"
	"github.com/shopmetrics/shopmetrics-backend/pkg/logger"
	"github.com/shopmetrics/shopmetrics-backend/pkg/metrics"
)

// One-shot sync runner for operators: runs a single store synchronously and
// prints the per-phase summaries.
func main() {
	logg := logger.New(logger.Options{ServiceName: "sync"})

	_ = godotenv.Load()

	storeFlag := flag.String("store", "", "store UUID to sync (required)")
	fullFlag := flag.Bool("full", false, "pull the entire order history")
	sinceFlag := flag.String("since", "", "RFC3339 lower bound for the order window")
	reasonFlag := flag.String("reason", "manual", "free-form reason recorded with the run")
	flag.Parse()

	storeID, err := uuid.Parse(*storeFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid or missing -store:", err)
		os.Exit(2)
	}

	var since *time.Time
	if *sinceFlag != "" {
		parsed, err := time.Parse(time.RFC3339, *sinceFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid -since, want RFC3339:", err)
			os.Exit(2)
		}
		utc := parsed.UTC()
		since = &utc
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sync",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	syncMetrics := metrics.NewSyncMetrics(nil)
	storesRepo := stores.NewRepository(dbClient.DB())
	analyticsService := analytics.NewService(dbClient.DB(), cfg.Sync, syncMetrics, logg)
	syncService := sync.NewService(dbClient, storesRepo, analyticsService, syncMetrics, cfg.Woo, logg)

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)
	result, err := syncService.Run(ctx, sync.RunInput{
		StoreID: storeID,
		Full:    *fullFlag,
		Since:   since,
		Reason:  *reasonFlag,
	})
	if err != nil {
		logg.Error(ctx, "sync run failed", err)
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logg.Error(ctx, "failed to encode result", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}
