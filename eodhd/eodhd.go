// Package eodhd fetches daily prices from the EOD Historical Data API.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/date"
	"github.com/etnz/stockstats/httpcache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultURL is the base address of the EODHD API.
const DefaultURL = "https://eodhd.com/api"

// Source is a stockstats.PriceSource backed by the EODHD end of day API.
type Source struct {
	APIKey string
	// URL is the API base address, DefaultURL when empty.
	URL    string
	Client *http.Client
	Log    zerolog.Logger
}

// check that Source implements the PriceSource interface.
var _ stockstats.PriceSource = (*Source)(nil)

// New returns a Source whose responses are cached on disk for the day.
func New(apiKey, cacheDir string, log zerolog.Logger) (*Source, error) {
	if apiKey == "" {
		return nil, errors.New("EODHD API key is not set, use eodhd_api_key in the config file or the EODHD_API_KEY environment variable")
	}
	return &Source{
		APIKey: apiKey,
		Client: httpcache.NewClient(cacheDir, log),
		Log:    log,
	}, nil
}

// Ticker converts a market symbol to its EODHD form: the NSE suffix becomes
// the NSE exchange code, and index symbols move to the INDX exchange.
func Ticker(symbol string) string {
	switch {
	case strings.HasPrefix(symbol, "^"):
		return strings.TrimPrefix(symbol, "^") + ".INDX"
	case strings.HasSuffix(symbol, ".NS"):
		return strings.TrimSuffix(symbol, ".NS") + ".NSE"
	}
	return symbol
}

// History returns the daily rows of symbol within r.
func (s *Source) History(ctx context.Context, symbol string, r date.Range) ([]stockstats.OHLC, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-02-01&to=2024-02-13
	// [
	//   {
	//     "date": "2024-02-13",
	//     "open": 675.066,
	//     "high": 684.219,
	//     "low": 648.659,
	//     "close": 668.445,
	//     "adjusted_close": 67.705,
	//     "volume": 0
	//   },
	base := s.URL
	if base == "" {
		base = DefaultURL
	}
	ticker := Ticker(symbol)
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", s.APIKey)
	if !r.From.IsZero() {
		q.Set("from", r.From.String())
	}
	if !r.To.IsZero() {
		q.Set("to", r.To.String())
	}
	addr := fmt.Sprintf("%s/eod/%s?%s", base, url.PathEscape(ticker), q.Encode())

	type Info struct {
		Date          date.Date       `json:"date"`
		Open          decimal.Decimal `json:"open"`
		High          decimal.Decimal `json:"high"`
		Low           decimal.Decimal `json:"low"`
		Close         decimal.Decimal `json:"close"`
		AdjustedClose decimal.Decimal `json:"adjusted_close"`
		Volume        decimal.Decimal `json:"volume"`
	}

	// that's the payload
	content := make([]Info, 0)
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	if err := httpcache.GetJSON(ctx, client, addr, nil, &content); err != nil {
		return nil, fmt.Errorf("eodhd %s: %w", ticker, err)
	}

	rows := make([]stockstats.OHLC, 0, len(content))
	for _, info := range content {
		rows = append(rows, stockstats.OHLC{
			Date:     info.Date,
			Open:     info.Open.InexactFloat64(),
			High:     info.High.InexactFloat64(),
			Low:      info.Low.InexactFloat64(),
			Close:    info.Close.InexactFloat64(),
			AdjClose: info.AdjustedClose.InexactFloat64(),
			Volume:   info.Volume.IntPart(),
		})
	}
	s.Log.Debug().Str("ticker", ticker).Int("rows", len(rows)).Msg("eodhd history")
	return rows, nil
}
