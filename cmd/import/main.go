// Command import pulls historical candles into the sqlite store, either
// from a CSV file or from the Bybit REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/trade_backtest/internal/domain"
	"github.com/vitos/trade_backtest/internal/infrastructure/logger"
	"github.com/vitos/trade_backtest/internal/infrastructure/provider"
	"github.com/vitos/trade_backtest/internal/infrastructure/storage"
)

func main() {
	var (
		dbPath      = flag.String("db", "candles.db", "sqlite database path")
		source      = flag.String("source", "bybit", "candle source: bybit | csv")
		csvDir      = flag.String("csv-dir", "data", "directory with CSV candle files")
		symbol      = flag.String("symbol", "", "symbol to import, e.g. BTCUSDT")
		granularity = flag.String("granularity", "1h", "candle granularity, e.g. 1m, 1h, 1d")
		startStr    = flag.String("start", "", "range start, YYYY-MM-DD")
		endStr      = flag.String("end", "", "range end, YYYY-MM-DD")
	)
	flag.Parse()

	log, err := logger.NewConsoleLogger("info")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *symbol == "" || *startStr == "" || *endStr == "" {
		log.Fatal("symbol, start and end are required")
	}

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatal("Invalid start date", zap.Error(err))
	}
	end, err := time.Parse("2006-01-02", *endStr)
	if err != nil {
		log.Fatal("Invalid end date", zap.Error(err))
	}

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	var src domain.DataProvider
	switch *source {
	case "bybit":
		src = provider.NewBybitProvider("")
	case "csv":
		src = provider.NewCSVProvider(*csvDir)
	default:
		log.Fatal("Unknown source", zap.String("source", *source))
	}

	ctx := context.Background()
	candles, err := src.Load(ctx, *symbol, start, end, *granularity, nil)
	if err != nil {
		log.Fatal("Failed to load candles", zap.Error(err))
	}
	if len(candles) == 0 {
		log.Fatal("No candles in range",
			zap.String("symbol", *symbol),
			zap.String("granularity", *granularity))
	}

	if err := store.SaveCandles(ctx, *symbol, *granularity, candles); err != nil {
		log.Fatal("Failed to save candles", zap.Error(err))
	}

	log.Info("Import complete",
		zap.String("symbol", *symbol),
		zap.String("granularity", *granularity),
		zap.Int("candles", len(candles)),
		zap.Time("first", candles[0].Timestamp),
		zap.Time("last", candles[len(candles)-1].Timestamp))
}
