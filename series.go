package stockstats

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/etnz/stockstats/date"
)

// OHLC is one trading day of prices for a ticker as stored locally.
type OHLC struct {
	Date     date.Date
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64 // close adjusted for splits and distributions
	Volume   int64
}

// ValidateRow checks that the adjusted close of o is usable for statistics:
// finite and strictly positive.
func ValidateRow(o OHLC) error { return o.validate() }

func (o OHLC) validate() error {
	if math.IsNaN(o.AdjClose) || math.IsInf(o.AdjClose, 0) || o.AdjClose <= 0 {
		return fmt.Errorf("%w: adjusted close %v on %s", ErrInvalidPrice, o.AdjClose, o.Date)
	}
	return nil
}

// PriceSeries is the chronological adjusted close history of one ticker.
type PriceSeries struct {
	Ticker string
	prices date.History[float64]
}

// NewPriceSeries returns an empty series for ticker.
func NewPriceSeries(ticker string) *PriceSeries {
	return &PriceSeries{Ticker: ticker}
}

// Append records price on a given day, replacing any previous value for that day.
func (s *PriceSeries) Append(on date.Date, price float64) *PriceSeries {
	s.prices.Append(on, price)
	return s
}

// Len returns the number of days in the series.
func (s *PriceSeries) Len() int { return s.prices.Len() }

// Values iterates over the series in chronological order.
func (s *PriceSeries) Values() iter.Seq2[date.Date, float64] { return s.prices.Values() }

// Get returns the price on day, if any.
func (s *PriceSeries) Get(day date.Date) (float64, bool) { return s.prices.Get(day) }

// Latest returns the most recent day and price.
func (s *PriceSeries) Latest() (date.Date, float64) { return s.prices.Latest() }

// Between returns the part of the series within r.
func (s *PriceSeries) Between(r date.Range) *PriceSeries {
	return &PriceSeries{Ticker: s.Ticker, prices: *s.prices.Between(r)}
}

// PriceTable aligns several price series on the union of their dates.
//
// Cells where a ticker has no price on a date hold NaN.
type PriceTable struct {
	tickers []string
	dates   []date.Date
	columns [][]float64 // columns[j][i] is the price of tickers[j] on dates[i]
}

// NewPriceTable outer-joins series on their dates, keeping the order of series
// as the column order.
func NewPriceTable(series ...*PriceSeries) *PriceTable {
	histories := make([]*date.History[float64], len(series))
	t := &PriceTable{
		tickers: make([]string, len(series)),
		columns: make([][]float64, len(series)),
	}
	for j, s := range series {
		t.tickers[j] = s.Ticker
		histories[j] = &s.prices
	}
	for day := range date.Iterate(histories...) {
		t.dates = append(t.dates, day)
	}
	for j, h := range histories {
		col := make([]float64, len(t.dates))
		for i, day := range t.dates {
			v, ok := h.Get(day)
			if !ok {
				v = math.NaN()
			}
			col[i] = v
		}
		t.columns[j] = col
	}
	return t
}

// Tickers returns the column names.
func (t *PriceTable) Tickers() []string { return slices.Clone(t.tickers) }

// Dates returns the row dates in ascending order.
func (t *PriceTable) Dates() []date.Date { return slices.Clone(t.dates) }

// Len returns the number of rows.
func (t *PriceTable) Len() int { return len(t.dates) }

// Column returns a copy of the prices of the j-th ticker.
func (t *PriceTable) Column(j int) []float64 { return slices.Clone(t.columns[j]) }

// Valid returns the non-missing prices of the j-th ticker in date order.
func (t *PriceTable) Valid(j int) []float64 { return valid(t.columns[j]) }

// Window returns the rows whose date is within r.
func (t *PriceTable) Window(r date.Range) *PriceTable {
	w := &PriceTable{
		tickers: slices.Clone(t.tickers),
		columns: make([][]float64, len(t.columns)),
	}
	var rows []int
	for i, day := range t.dates {
		if r.Contains(day) {
			rows = append(rows, i)
			w.dates = append(w.dates, day)
		}
	}
	for j, col := range t.columns {
		wc := make([]float64, len(rows))
		for k, i := range rows {
			wc[k] = col[i]
		}
		w.columns[j] = wc
	}
	return w
}

// valid drops NaN values.
func valid(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
