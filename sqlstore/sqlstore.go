// Package sqlstore keeps daily prices in a SQLite database.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/date"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS prices (
	ticker    TEXT NOT NULL,
	date      TEXT NOT NULL,
	open      REAL,
	high      REAL,
	low       REAL,
	close     REAL,
	adj_close REAL NOT NULL,
	volume    INTEGER,
	PRIMARY KEY (ticker, date)
);
`

// Store is a stockstats.OHLCStore over a SQLite database.
//
// Tickers are keyed by stockstats.FileName, so "^NSEI" and "NSEI" share rows
// just like they share a file in a stockstats.CSVStore.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// check that Store implements the OHLCStore interface.
var _ stockstats.OHLCStore = (*Store)(nil)

// Open opens or creates the database at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", absPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", absPath, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", absPath, err)
	}
	s, err := New(db, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New returns a Store over db, creating the schema when needed.
func New(db *sql.DB, log zerolog.Logger) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db, log: log.With().Str("component", "sqlstore").Logger()}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) AdjustedClose(ticker string) (*stockstats.PriceSeries, error) {
	rows, err := s.db.Query(`SELECT date, adj_close FROM prices WHERE ticker = ? ORDER BY date`, stockstats.FileName(ticker))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", stockstats.ErrDataUnavailable, ticker, err)
	}
	defer rows.Close()

	series := stockstats.NewPriceSeries(ticker)
	for rows.Next() {
		var day string
		var price float64
		if err := rows.Scan(&day, &price); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", stockstats.ErrDataUnavailable, ticker, err)
		}
		d, err := date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", stockstats.ErrDataUnavailable, ticker, err)
		}
		series.Append(d, price)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", stockstats.ErrDataUnavailable, ticker, err)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", stockstats.ErrTickerNotFound, ticker)
	}
	return series, nil
}

func (s *Store) OHLC(ticker string) ([]stockstats.OHLC, error) {
	rows, err := s.db.Query(`SELECT date, open, high, low, close, adj_close, volume FROM prices WHERE ticker = ? ORDER BY date`, stockstats.FileName(ticker))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", stockstats.ErrDataUnavailable, ticker, err)
	}
	defer rows.Close()

	var out []stockstats.OHLC
	for rows.Next() {
		var day string
		var open, high, low, close sql.NullFloat64
		var volume sql.NullInt64
		var r stockstats.OHLC
		if err := rows.Scan(&day, &open, &high, &low, &close, &r.AdjClose, &volume); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", stockstats.ErrDataUnavailable, ticker, err)
		}
		if r.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", stockstats.ErrDataUnavailable, ticker, err)
		}
		r.Open, r.High, r.Low, r.Close = open.Float64, high.Float64, low.Float64, close.Float64
		r.Volume = volume.Int64
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", stockstats.ErrDataUnavailable, ticker, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", stockstats.ErrTickerNotFound, ticker)
	}
	return out, nil
}

// Put upserts rows in a single transaction. No row is written if any is
// invalid.
func (s *Store) Put(ticker string, rows []stockstats.OHLC) error {
	for _, r := range rows {
		if err := stockstats.ValidateRow(r); err != nil {
			return fmt.Errorf("%s: %w", ticker, err)
		}
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO prices (ticker, date, open, high, low, close, adj_close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticker, date) DO UPDATE SET
			open = excluded.open, high = excluded.high, low = excluded.low,
			close = excluded.close, adj_close = excluded.adj_close, volume = excluded.volume`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	key := stockstats.FileName(ticker)
	for _, r := range rows {
		if _, err := stmt.Exec(key, r.Date.String(), r.Open, r.High, r.Low, r.Close, r.AdjClose, r.Volume); err != nil {
			return fmt.Errorf("cannot store %s on %s: %w", ticker, r.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug().Str("ticker", ticker).Int("rows", len(rows)).Msg("rows stored")
	return nil
}

func (s *Store) Latest(ticker string) (date.Date, error) {
	var day sql.NullString
	err := s.db.QueryRow(`SELECT MAX(date) FROM prices WHERE ticker = ?`, stockstats.FileName(ticker)).Scan(&day)
	if err != nil {
		return date.Date{}, err
	}
	if !day.Valid {
		return date.Date{}, nil
	}
	return date.Parse(day.String)
}

// Tickers returns the stored tickers, sorted.
func (s *Store) Tickers() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT ticker FROM prices ORDER BY ticker`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}
