package stockstats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/stockstats/date"
	"github.com/rs/zerolog"
)

// PriceSource fetches daily prices from a remote market data provider.
type PriceSource interface {
	// History returns the daily rows of symbol within r, in any order.
	History(ctx context.Context, symbol string, r date.Range) ([]OHLC, error)
}

// Updater copies prices from a PriceSource into an OHLCStore.
type Updater struct {
	Source PriceSource
	Store  OHLCStore
	// Start is the first day fetched for a ticker the store does not have yet.
	Start date.Date
	// Attempts is the number of tries per ticker, at least one.
	Attempts int
	// Backoff is the wait after the first failed attempt, doubled after each
	// further failure.
	Backoff time.Duration
	Log     zerolog.Logger
}

// Update fetches every ticker up to end and stores the new rows.
//
// Tickers are fetched from the day after their latest stored price, or from
// Start. A ticker that fails does not stop the batch: all failures are joined
// in the returned error, each wrapping ErrDataUnavailable.
func (u *Updater) Update(ctx context.Context, tickers []string, end date.Date) error {
	var errs error
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return errors.Join(errs, err)
		}
		if err := u.update(ctx, ticker, end); err != nil {
			u.Log.Warn().Err(err).Str("ticker", ticker).Msg("update failed")
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func (u *Updater) update(ctx context.Context, ticker string, end date.Date) error {
	latest, err := u.Store.Latest(ticker)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, ticker, err)
	}
	from := u.Start
	if !latest.IsZero() && !latest.Before(from) {
		from = latest.Add(1)
	}
	// Already up to date.
	if from.After(end) {
		u.Log.Debug().Str("ticker", ticker).Stringer("latest", latest).Msg("up to date")
		return nil
	}

	symbol := MarketSymbol(ticker)
	rows, err := u.fetch(ctx, symbol, date.NewRange(from, end))
	if err != nil {
		return fmt.Errorf("%w: fetching %s (%s): %w", ErrDataUnavailable, ticker, symbol, err)
	}

	// Sources may report rows outside of the request, or without usable
	// adjusted close; neither belong in the store.
	r := date.NewRange(from, end)
	kept := rows[:0]
	for _, row := range rows {
		if r.Contains(row.Date) && row.validate() == nil {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		u.Log.Info().Str("ticker", ticker).Stringer("from", from).Stringer("to", end).Msg("no new prices")
		return nil
	}
	if err := u.Store.Put(ticker, kept); err != nil {
		return fmt.Errorf("%w: storing %s: %w", ErrDataUnavailable, ticker, err)
	}
	u.Log.Info().Str("ticker", ticker).Int("rows", len(kept)).Msg("prices updated")
	return nil
}

// fetch calls the source with exponential backoff between attempts.
func (u *Updater) fetch(ctx context.Context, symbol string, r date.Range) ([]OHLC, error) {
	attempts := max(u.Attempts, 1)
	wait := u.Backoff
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			u.Log.Debug().Err(lastErr).Str("symbol", symbol).Dur("wait", wait).Msg("retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
		rows, err := u.Source.History(ctx, symbol, r)
		if err == nil {
			return rows, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
