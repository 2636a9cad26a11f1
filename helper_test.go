package stockstats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/etnz/stockstats/date"
	"github.com/stretchr/testify/require"
)

// origin is the first day of test series.
var origin = date.New(2010, 1, 4)

// newSeries returns a series of consecutive days starting at origin.
func newSeries(ticker string, prices ...float64) *PriceSeries {
	s := NewPriceSeries(ticker)
	for i, p := range prices {
		s.Append(origin.Add(i), p)
	}
	return s
}

// randomWalk returns n positive prices with daily returns drawn from seed.
func randomWalk(seed uint64, n int) []float64 {
	r := rand.New(rand.NewPCG(seed, 1))
	prices := make([]float64, n)
	p := 100.0
	for i := range prices {
		prices[i] = p
		p *= 1 + (r.Float64()-0.5)*0.04
	}
	return prices
}

// geometric returns n prices growing from start to start*factor.
func geometric(start, factor float64, n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = start * math.Pow(factor, float64(i)/float64(n-1))
	}
	return prices
}

// rows converts prices to OHLC rows from origin.
func rows(prices ...float64) []OHLC {
	out := make([]OHLC, len(prices))
	for i, p := range prices {
		out[i] = OHLC{Date: origin.Add(i), Open: p, High: p, Low: p, Close: p, AdjClose: p, Volume: 1000}
	}
	return out
}

// memoryStore returns a MemoryStore holding each ticker's prices.
func memoryStore(t *testing.T, prices map[string][]float64) *MemoryStore {
	t.Helper()
	m := NewMemoryStore()
	for ticker, p := range prices {
		require.NoError(t, m.Put(ticker, rows(p...)))
	}
	return m
}
