// Backfill tool: import filled Alpaca orders as round-trip trade
// records into the Parquet trade store.
//
// Usage:
//
//	go run cmd/trades-import/main.go [-start 2025-01-01]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stratboard/internal/config"
	"stratboard/internal/importer"
	"stratboard/internal/store"
	"stratboard/internal/util"
)

func main() {
	startFlag := flag.String("start", "", "import orders filled on or after this date (YYYY-MM-DD)")
	flag.Parse()

	cfgPath := "config/stratboard.yaml"
	if p := os.Getenv("STRATBOARD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	if cfg.Alpaca.APIKey == "" || cfg.Alpaca.APISecret == "" {
		log.Fatal("alpaca credentials not configured (set APCA_API_KEY_ID / APCA_API_SECRET_KEY)")
	}

	startDate := cfg.Import.StartDate
	if *startFlag != "" {
		startDate = *startFlag
	}
	start := time.Now().UTC().AddDate(0, -1, 0)
	if startDate != "" {
		if start, err = time.Parse("2006-01-02", startDate); err != nil {
			log.Fatalf("invalid start date %q: %v", startDate, err)
		}
	}

	client := importer.NewAlpacaClient(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL)
	pstore := store.NewParquetStore(cfg.Storage.DataDir)
	imp := importer.New(client, pstore, cfg.Import.BatchSize, cfg.Import.RateLimitPerMin)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("importing alpaca fills", "start", start.Format("2006-01-02"))
	if err := imp.Run(ctx, start); err != nil {
		log.Fatalf("import error: %v", err)
	}
	logger.Info("import complete")
}
