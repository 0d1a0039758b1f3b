package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/vitos/trade_backtest/internal/domain"
	"github.com/vitos/trade_backtest/internal/infrastructure/logger"
	"github.com/vitos/trade_backtest/internal/infrastructure/provider"
	"github.com/vitos/trade_backtest/internal/infrastructure/storage"
	"github.com/vitos/trade_backtest/internal/report"
	"github.com/vitos/trade_backtest/internal/strategy"
	"github.com/vitos/trade_backtest/internal/usecase"
)

type Config struct {
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Data struct {
		Driver string `yaml:"driver"` // sqlite | csv | bybit
		Path   string `yaml:"path"`   // db file or csv directory
	} `yaml:"data"`
	Backtest struct {
		Symbol          string   `yaml:"symbol"`
		Granularity     string   `yaml:"granularity"`
		Start           string   `yaml:"start"`
		End             string   `yaml:"end"`
		StartingBalance float64  `yaml:"starting_balance"`
		Indicators      []string `yaml:"indicators"`
		ReportJSON      string   `yaml:"report_json"`
	} `yaml:"backtest"`
	Strategy struct {
		Fast     int     `yaml:"fast"`
		Slow     int     `yaml:"slow"`
		Quantity float64 `yaml:"quantity"`
	} `yaml:"strategy"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newProvider(cfg *Config) (domain.DataProvider, func(), error) {
	switch cfg.Data.Driver {
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.Data.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "csv":
		return provider.NewCSVProvider(cfg.Data.Path), func() {}, nil
	case "bybit":
		return provider.NewBybitProvider(""), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown data driver: %q", cfg.Data.Driver)
	}
}

func main() {
	configPath := flag.String("config", "config/backtest.yaml", "path to config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewConsoleLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	start, err := time.Parse("2006-01-02", cfg.Backtest.Start)
	if err != nil {
		log.Fatal("Invalid start date", zap.Error(err))
	}
	end, err := time.Parse("2006-01-02", cfg.Backtest.End)
	if err != nil {
		log.Fatal("Invalid end date", zap.Error(err))
	}

	dataProvider, cleanup, err := newProvider(cfg)
	if err != nil {
		log.Fatal("Failed to init data provider", zap.Error(err))
	}
	defer cleanup()

	engine := usecase.NewBacktestEngine(dataProvider, cfg.Backtest.StartingBalance, log)

	engine.Subscribe(domain.EventProgress, func(ev domain.Event) {
		p := ev.(domain.ProgressEvent)
		log.Info("progress", zap.Int("processed", p.Processed), zap.Int("total", p.Total))
	})
	engine.Subscribe(domain.EventOrderRejected, func(ev domain.Event) {
		r := ev.(domain.OrderRejectedEvent)
		log.Warn("order rejected",
			zap.String("symbol", r.Order.Symbol),
			zap.String("reason", r.Reason))
	})

	ctx := context.Background()
	if err := engine.LoadHistoricalData(ctx, cfg.Backtest.Symbol, start, end,
		cfg.Backtest.Granularity, cfg.Backtest.Indicators); err != nil {
		log.Fatal("Failed to load historical data", zap.Error(err))
	}

	strat := strategy.NewSMACross(cfg.Backtest.Symbol,
		cfg.Strategy.Fast, cfg.Strategy.Slow, cfg.Strategy.Quantity)

	result, err := engine.RunBacktest(strat)
	if err != nil {
		log.Fatal("Backtest failed", zap.Error(err))
	}

	report.Write(os.Stdout, result)

	if cfg.Backtest.ReportJSON != "" {
		f, err := os.Create(cfg.Backtest.ReportJSON)
		if err != nil {
			log.Fatal("Failed to create report file", zap.Error(err))
		}
		defer f.Close()
		if err := report.WriteJSON(f, result); err != nil {
			log.Fatal("Failed to write report", zap.Error(err))
		}
		log.Info("JSON report written", zap.String("path", cfg.Backtest.ReportJSON))
	}
}
