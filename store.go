package stockstats

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/etnz/stockstats/date"
)

// PriceStore reads adjusted close histories.
//
// AdjustedClose returns an error wrapping ErrTickerNotFound when the store
// holds nothing for ticker.
type PriceStore interface {
	AdjustedClose(ticker string) (*PriceSeries, error)
}

// OHLCStore reads and writes full daily price rows.
type OHLCStore interface {
	PriceStore
	// OHLC returns the rows of ticker in date order.
	OHLC(ticker string) ([]OHLC, error)
	// Put merges rows into the history of ticker, replacing existing days.
	Put(ticker string, rows []OHLC) error
	// Latest returns the most recent stored day of ticker, zero when none.
	Latest(ticker string) (date.Date, error)
}

// FileName returns the base name under which ticker is stored: index symbols
// lose their leading "^".
func FileName(ticker string) string {
	return strings.TrimPrefix(ticker, "^")
}

// MarketSymbol returns the symbol to query remote sources with: index symbols
// are kept as is, and every other ticker gets the National Stock Exchange
// suffix.
func MarketSymbol(ticker string) string {
	if strings.HasPrefix(ticker, "^") {
		return ticker
	}
	return ticker + ".NS"
}

// mergeRows validates rows and merges them into existing, returning rows
// sorted by date with one row per day.
func mergeRows(ticker string, existing, rows []OHLC) ([]OHLC, error) {
	for _, r := range rows {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", ticker, err)
		}
	}
	byDay := make(map[date.Date]OHLC, len(existing)+len(rows))
	for _, r := range existing {
		byDay[r.Date] = r
	}
	for _, r := range rows {
		byDay[r.Date] = r
	}
	merged := make([]OHLC, 0, len(byDay))
	for _, r := range byDay {
		merged = append(merged, r)
	}
	slices.SortFunc(merged, func(a, b OHLC) int { return a.Date.Compare(b.Date) })
	return merged, nil
}

// seriesOf returns the adjusted close series of rows.
func seriesOf(ticker string, rows []OHLC) *PriceSeries {
	s := NewPriceSeries(ticker)
	for _, r := range rows {
		s.Append(r.Date, r.AdjClose)
	}
	return s
}

// MemoryStore is an OHLCStore kept in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string][]OHLC
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string][]OHLC)}
}

// Has returns true if the store holds rows for ticker.
func (m *MemoryStore) Has(ticker string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rows[FileName(ticker)]
	return ok
}

func (m *MemoryStore) AdjustedClose(ticker string) (*PriceSeries, error) {
	rows, err := m.OHLC(ticker)
	if err != nil {
		return nil, err
	}
	return seriesOf(ticker, rows), nil
}

func (m *MemoryStore) OHLC(ticker string) ([]OHLC, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.rows[FileName(ticker)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return slices.Clone(rows), nil
}

func (m *MemoryStore) Put(ticker string, rows []OHLC) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	merged, err := mergeRows(ticker, m.rows[FileName(ticker)], rows)
	if err != nil {
		return err
	}
	m.rows[FileName(ticker)] = merged
	return nil
}

func (m *MemoryStore) Latest(ticker string) (date.Date, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := m.rows[FileName(ticker)]
	if len(rows) == 0 {
		return date.Date{}, nil
	}
	return rows[len(rows)-1].Date, nil
}
