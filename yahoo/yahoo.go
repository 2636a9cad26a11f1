// Package yahoo fetches daily prices from Yahoo Finance.
package yahoo

import (
	"context"
	"fmt"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/date"
	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// Bar is one daily bar as returned by Yahoo Finance.
type Bar = models.Bar

// historyFunc returns the full daily history of symbol.
type historyFunc func(symbol string) ([]Bar, error)

// Source is a stockstats.PriceSource backed by Yahoo Finance.
type Source struct {
	Log     zerolog.Logger
	history historyFunc
}

// check that Source implements the PriceSource interface.
var _ stockstats.PriceSource = (*Source)(nil)

// New returns a Source querying Yahoo Finance.
func New(log zerolog.Logger) *Source {
	return &Source{Log: log, history: fetchHistory}
}

// fetchHistory downloads the unadjusted daily bars of symbol, with their
// adjusted close.
func fetchHistory(symbol string) ([]Bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     "max",
		Interval:   "1d",
		AutoAdjust: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}
	return bars, nil
}

// History returns the daily rows of symbol within r.
//
// Bars without an adjusted close fall back on the close.
func (s *Source) History(ctx context.Context, symbol string, r date.Range) ([]stockstats.OHLC, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	history := s.history
	if history == nil {
		history = fetchHistory
	}
	bars, err := history(symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}

	rows := make([]stockstats.OHLC, 0, len(bars))
	for _, bar := range bars {
		day := date.FromTime(bar.Date)
		if !r.Contains(day) {
			continue
		}
		adj := bar.AdjClose
		if adj == 0 {
			adj = bar.Close
		}
		rows = append(rows, stockstats.OHLC{
			Date:     day,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			AdjClose: adj,
			Volume:   int64(bar.Volume),
		})
	}
	s.Log.Debug().Str("symbol", symbol).Int("bars", len(bars)).Int("rows", len(rows)).Msg("yahoo history")
	return rows, nil
}
