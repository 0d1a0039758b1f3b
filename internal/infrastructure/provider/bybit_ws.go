package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vitos/trade_backtest/internal/domain"
)

const BybitWSURL = "wss://stream.bybit.com/v5/public/linear"

// KlineRecorder subscribes to the Bybit v5 public kline stream and persists
// every confirmed (closed) candle to a store, so recorded series can later
// feed backtests.
type KlineRecorder struct {
	wsURL string
	store domain.CandleStore
	log   *zap.Logger
}

func NewKlineRecorder(wsURL string, store domain.CandleStore, log *zap.Logger) *KlineRecorder {
	if wsURL == "" {
		wsURL = BybitWSURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &KlineRecorder{wsURL: wsURL, store: store, log: log}
}

// Run connects, subscribes to kline.<interval>.<symbol> for every symbol and
// blocks until the context is cancelled or the connection drops.
func (r *KlineRecorder) Run(ctx context.Context, symbols []string, granularity string) error {
	interval, ok := bybitIntervals[granularity]
	if !ok {
		return fmt.Errorf("unsupported granularity: %q", granularity)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", r.wsURL, err)
	}
	defer conn.Close()

	args := make([]string, len(symbols))
	for i, s := range symbols {
		args[i] = "kline." + interval + "." + s
	}
	subMsg := map[string]any{
		"op":   "subscribe",
		"args": args,
	}
	if err := conn.WriteJSON(subMsg); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	r.log.Info("kline stream connected",
		zap.Strings("symbols", symbols),
		zap.String("granularity", granularity))

	// Close the connection when the context ends so ReadMessage unblocks.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("ws read: %w", err)
		}

		var event struct {
			Topic string `json:"topic"`
			Data  []struct {
				Start   int64  `json:"start"`
				Open    string `json:"open"`
				High    string `json:"high"`
				Low     string `json:"low"`
				Close   string `json:"close"`
				Volume  string `json:"volume"`
				Confirm bool   `json:"confirm"`
			} `json:"data"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			r.log.Warn("ws unmarshal error", zap.Error(err))
			continue
		}

		symbol, ok := klineSymbol(event.Topic, interval)
		if !ok {
			continue
		}

		for _, k := range event.Data {
			if !k.Confirm {
				continue
			}

			open, _ := strconv.ParseFloat(k.Open, 64)
			high, _ := strconv.ParseFloat(k.High, 64)
			low, _ := strconv.ParseFloat(k.Low, 64)
			closePrice, _ := strconv.ParseFloat(k.Close, 64)
			volume, _ := strconv.ParseFloat(k.Volume, 64)

			candle := domain.Candle{
				Timestamp: time.UnixMilli(k.Start).UTC(),
				Open:      open,
				High:      high,
				Low:       low,
				Close:     closePrice,
				Volume:    volume,
			}
			if err := r.store.SaveCandles(ctx, symbol, granularity, []domain.Candle{candle}); err != nil {
				r.log.Error("save candle", zap.String("symbol", symbol), zap.Error(err))
				continue
			}
			r.log.Debug("candle recorded",
				zap.String("symbol", symbol),
				zap.Time("timestamp", candle.Timestamp),
				zap.Float64("close", candle.Close))
		}
	}
}

func klineSymbol(topic, interval string) (string, bool) {
	prefix := "kline." + interval + "."
	if len(topic) <= len(prefix) || topic[:len(prefix)] != prefix {
		return "", false
	}
	return topic[len(prefix):], true
}
