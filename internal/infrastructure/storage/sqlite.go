package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vitos/trade_backtest/internal/domain"
)

// SQLiteStore persists candle series and serves them back as a
// domain.DataProvider. Indicator values are stored as a JSON object per row.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS candles (
			symbol TEXT NOT NULL,
			granularity TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			open REAL NOT NULL,
			high REAL NOT NULL,
			low REAL NOT NULL,
			close REAL NOT NULL,
			volume REAL NOT NULL,
			indicators TEXT,
			PRIMARY KEY (symbol, granularity, timestamp)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_candles_symbol_granularity ON candles(symbol, granularity);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}

	return nil
}

// SaveCandles upserts a batch of candles for (symbol, granularity) in one
// transaction.
func (s *SQLiteStore) SaveCandles(ctx context.Context, symbol, granularity string, candles []domain.Candle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO candles
		(symbol, granularity, timestamp, open, high, low, close, volume, indicators)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candles {
		var indicators any
		if len(c.Indicators) > 0 {
			blob, err := json.Marshal(c.Indicators)
			if err != nil {
				return fmt.Errorf("marshal indicators: %w", err)
			}
			indicators = string(blob)
		}
		if _, err := stmt.ExecContext(ctx, symbol, granularity, c.Timestamp.UnixMilli(),
			c.Open, c.High, c.Low, c.Close, c.Volume, indicators); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load implements domain.DataProvider over the stored series. Candles come
// back in ascending time order; when indicator ids are requested, only those
// keys are kept on each candle.
func (s *SQLiteStore) Load(ctx context.Context, symbol string, start, end time.Time, granularity string, indicators []string) ([]domain.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT timestamp, open, high, low, close, volume, indicators
		FROM candles
		WHERE symbol = ? AND granularity = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`,
		symbol, granularity, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candles []domain.Candle
	for rows.Next() {
		var (
			ts   int64
			c    domain.Candle
			blob sql.NullString
		)
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &blob); err != nil {
			return nil, err
		}
		c.Timestamp = time.UnixMilli(ts).UTC()

		if blob.Valid && blob.String != "" {
			var all map[string]float64
			if err := json.Unmarshal([]byte(blob.String), &all); err != nil {
				return nil, fmt.Errorf("unmarshal indicators for %s@%d: %w", symbol, ts, err)
			}
			c.Indicators = filterIndicators(all, indicators)
		}

		candles = append(candles, c)
	}

	return candles, rows.Err()
}

// ListSymbols returns the distinct symbols stored for a granularity.
func (s *SQLiteStore) ListSymbols(ctx context.Context, granularity string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT symbol FROM candles WHERE granularity = ? ORDER BY symbol`, granularity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func filterIndicators(all map[string]float64, ids []string) map[string]float64 {
	if len(ids) == 0 {
		return all
	}
	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		if v, ok := all[id]; ok {
			out[id] = v
		}
	}
	return out
}
