// Package gann projects trend reversal dates from the extremes of a price
// history, using Gann's square root of price and time degrees.
//
// For a ticker, the lowest low, the highest high, the calendar distance and
// the trading distance between them are each converted to a degree on the
// Gann wheel. Cycles derived from the smallest degree are counted from the
// date of the high, and cycles derived from the largest degree from the date
// of the low.
package gann

import (
	"errors"
	"fmt"
	"math"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/date"
)

const (
	// Cycles is the number of cycles computed per degree.
	Cycles = 3
	// MaxCycleDays is the longest cycle kept, in days, so that projections
	// stay within the coming weeks.
	MaxCycleDays = 50
)

// Reader reads daily OHLC rows.
type Reader interface {
	OHLC(ticker string) ([]stockstats.OHLC, error)
}

// Extremes are the inputs of a projection.
type Extremes struct {
	Low      float64
	LowDate  date.Date
	High     float64
	HighDate date.Date
	// CalendarDays is the number of days from one extreme to the other,
	// both included.
	CalendarDays int
	// TradingDays is the number of rows from one extreme to the other, both
	// included.
	TradingDays int
}

// FindExtremes returns the lowest low and highest high of rows, the first one
// when several rows share the extreme. rows must be in date order.
//
// A Low or High that is not a positive number is a missing cell and is
// skipped; the row still counts as a trading day.
func FindExtremes(rows []stockstats.OHLC) (Extremes, error) {
	if len(rows) == 0 {
		return Extremes{}, errors.New("no price")
	}
	lo, hi := -1, -1
	for i, r := range rows {
		if valid(r.Low) && (lo < 0 || r.Low < rows[lo].Low) {
			lo = i
		}
		if valid(r.High) && (hi < 0 || r.High > rows[hi].High) {
			hi = i
		}
	}
	if lo < 0 || hi < 0 {
		return Extremes{}, errors.New("no valid low and high")
	}
	e := Extremes{
		Low:      rows[lo].Low,
		LowDate:  rows[lo].Date,
		High:     rows[hi].High,
		HighDate: rows[hi].Date,
	}
	e.CalendarDays = abs(e.HighDate.Sub(e.LowDate)) + 1
	e.TradingDays = abs(hi-lo) + 1
	return e, nil
}

func valid(p float64) bool { return p > 0 && !math.IsInf(p, 1) }

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// Degree converts x to a degree on the Gann wheel: mod(sqrt(x)*180 - 225, 360).
// The result has the sign of sqrt(x)*180 - 225.
func Degree(x float64) float64 {
	return math.Mod(math.Sqrt(x)*180-225, 360)
}

// CycleLengths returns the n cycles of deg, (2i + 2*deg/360 + 1.25)² for i in 1..n,
// in days.
func CycleLengths(deg float64, n int) []float64 {
	cycles := make([]float64, n)
	for i := range cycles {
		c := 2*float64(i+1) + 2*deg/360 + 1.25
		cycles[i] = c * c
	}
	return cycles
}

// Projection is the outcome of Project for one ticker.
type Projection struct {
	Ticker string
	Extremes
	MinDegree float64
	MaxDegree float64
	// Dates are the projected reversal dates: first those counted from the
	// high, then those counted from the low.
	Dates []date.Date
}

// Project computes the reversal dates of e.
func Project(ticker string, e Extremes) Projection {
	degrees := []float64{
		Degree(e.Low),
		Degree(e.High),
		Degree(float64(e.CalendarDays)),
		Degree(float64(e.TradingDays)),
	}
	p := Projection{Ticker: ticker, Extremes: e, MinDegree: degrees[0], MaxDegree: degrees[0]}
	for _, d := range degrees[1:] {
		p.MinDegree = math.Min(p.MinDegree, d)
		p.MaxDegree = math.Max(p.MaxDegree, d)
	}
	p.Dates = append(p.Dates, project(e.HighDate, p.MinDegree)...)
	p.Dates = append(p.Dates, project(e.LowDate, p.MaxDegree)...)
	return p
}

func project(from date.Date, deg float64) []date.Date {
	var dates []date.Date
	for _, c := range CycleLengths(deg, Cycles) {
		if c > MaxCycleDays {
			continue
		}
		dates = append(dates, from.Add(int(math.Ceil(c))))
	}
	return dates
}

// Dates projects the reversal dates of each ticker from its rows within r.
//
// A ticker that cannot be read or has no row in r is skipped, and its error
// joined to the returned one.
func Dates(store Reader, tickers []string, r date.Range) ([]Projection, error) {
	var projections []Projection
	var errs error
	for _, ticker := range tickers {
		rows, err := store.OHLC(ticker)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%w: %w", stockstats.ErrDataUnavailable, err))
			continue
		}
		var window []stockstats.OHLC
		for _, row := range rows {
			if r.Contains(row.Date) {
				window = append(window, row)
			}
		}
		e, err := FindExtremes(window)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%w: %s in %s: %w", stockstats.ErrDataUnavailable, ticker, r, err))
			continue
		}
		projections = append(projections, Project(ticker, e))
	}
	return projections, errs
}
