package provider_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitos/trade_backtest/internal/infrastructure/provider"
)

func TestCSVProvider_Load(t *testing.T) {
	dir := t.TempDir()
	content := "timestamp,open,high,low,close,volume\n" +
		"1704067200000,100,110,95,105,10\n" +
		"1704070800000,105,112,104,110,12\n" +
		"1704074400000,110,115,108,112,8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BTCUSDT_1h.csv"), []byte(content), 0o644))

	p := provider.NewCSVProvider(dir)
	start := time.UnixMilli(1704067200000).UTC()

	candles, err := p.Load(context.Background(), "BTCUSDT", start, start.Add(3*time.Hour), "1h", nil)
	require.NoError(t, err)
	require.Len(t, candles, 3)
	assert.Equal(t, start, candles[0].Timestamp)
	assert.Equal(t, 105.0, candles[0].Close)
	assert.True(t, candles[0].Timestamp.Before(candles[1].Timestamp))

	// Range filter drops the trailing candle.
	candles, err = p.Load(context.Background(), "BTCUSDT", start, start.Add(90*time.Minute), "1h", nil)
	require.NoError(t, err)
	assert.Len(t, candles, 2)
}

func TestCSVProvider_MissingFile(t *testing.T) {
	p := provider.NewCSVProvider(t.TempDir())
	_, err := p.Load(context.Background(), "ETHUSDT", time.Time{}, time.Now(), "1h", nil)
	assert.Error(t, err)
}
