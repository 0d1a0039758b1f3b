// Command record streams live klines from Bybit over websocket and persists
// every confirmed candle into the sqlite store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/vitos/trade_backtest/internal/infrastructure/logger"
	"github.com/vitos/trade_backtest/internal/infrastructure/provider"
	"github.com/vitos/trade_backtest/internal/infrastructure/storage"
)

func main() {
	var (
		dbPath      = flag.String("db", "candles.db", "sqlite database path")
		symbolsStr  = flag.String("symbols", "", "comma-separated symbols, e.g. BTCUSDT,ETHUSDT")
		granularity = flag.String("granularity", "1m", "candle granularity, e.g. 1m, 1h")
		level       = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log, err := logger.NewLogger(*level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *symbolsStr == "" {
		log.Fatal("symbols are required")
	}
	symbols := strings.Split(*symbolsStr, ",")

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := provider.NewKlineRecorder("", store, log)
	if err := recorder.Run(ctx, symbols, *granularity); err != nil && ctx.Err() == nil {
		log.Fatal("Recorder stopped", zap.Error(err))
	}

	log.Info("Recorder shut down")
}
