package stockstats

import (
	"math"
	"slices"

	"github.com/etnz/stockstats/date"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the number of trading days used to annualize daily
// statistics.
const TradingDaysPerYear = 250

// ReturnTable holds daily returns aligned like the PriceTable they derive from.
//
// It has one row fewer than its price table: the first row of prices has no
// previous value. A cell is NaN when either of the two prices it relates is
// missing.
type ReturnTable struct {
	tickers []string
	dates   []date.Date
	columns [][]float64
}

// Tickers returns the column names.
func (r *ReturnTable) Tickers() []string { return slices.Clone(r.tickers) }

// Dates returns the row dates, the date of the later price of each pair.
func (r *ReturnTable) Dates() []date.Date { return slices.Clone(r.dates) }

// Len returns the number of rows.
func (r *ReturnTable) Len() int { return len(r.dates) }

// Column returns a copy of the returns of the j-th ticker.
func (r *ReturnTable) Column(j int) []float64 { return slices.Clone(r.columns[j]) }

// Valid returns the non-missing returns of the j-th ticker.
func (r *ReturnTable) Valid(j int) []float64 { return valid(r.columns[j]) }

// SimpleReturns computes p[t]/p[t-1] - 1 for every column of prices.
func SimpleReturns(prices *PriceTable) *ReturnTable {
	return derive(prices, func(prev, cur float64) float64 { return cur/prev - 1 })
}

// LogReturns computes ln(p[t]/p[t-1]) for every column of prices.
func LogReturns(prices *PriceTable) *ReturnTable {
	return derive(prices, func(prev, cur float64) float64 { return math.Log(cur / prev) })
}

func derive(prices *PriceTable, f func(prev, cur float64) float64) *ReturnTable {
	r := &ReturnTable{
		tickers: prices.Tickers(),
		columns: make([][]float64, len(prices.columns)),
	}
	if prices.Len() > 1 {
		r.dates = slices.Clone(prices.dates[1:])
	}
	for j, col := range prices.columns {
		out := make([]float64, len(r.dates))
		for i := range out {
			prev, cur := col[i], col[i+1]
			if math.IsNaN(prev) || math.IsNaN(cur) {
				out[i] = math.NaN()
				continue
			}
			out[i] = f(prev, cur)
		}
		r.columns[j] = out
	}
	return r
}

// AnnualizedMean returns, for each column, the mean of its valid daily returns
// multiplied by TradingDaysPerYear. A column without any valid return yields NaN.
func AnnualizedMean(returns *ReturnTable) []float64 {
	means := make([]float64, len(returns.columns))
	for j := range returns.columns {
		xs := returns.Valid(j)
		if len(xs) == 0 {
			means[j] = math.NaN()
			continue
		}
		means[j] = stat.Mean(xs, nil) * TradingDaysPerYear
	}
	return means
}

// AnnualizedStdDev returns the sample standard deviation of xs scaled to a
// year, sqrt(var * TradingDaysPerYear). Fewer than two values yield zero.
func AnnualizedStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return math.Sqrt(stat.Variance(xs, nil) * TradingDaysPerYear)
}
