package gann

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) date.Date { return date.New(2024, 1, d) }

func fixture() []stockstats.OHLC {
	return []stockstats.OHLC{
		{Date: day(1), Low: 90, High: 100, AdjClose: 95},
		{Date: day(2), Low: 95, High: 120, AdjClose: 110},
		{Date: day(3), Low: 80, High: 110, AdjClose: 85},
	}
}

func TestDegree(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{4, 135},
		{25, 315},
		// the sign of sqrt(x)*180-225 is kept
		{1, -45},
		{80, math.Mod(math.Sqrt(80)*180-225, 360)},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Degree(tt.x), 1e-9, "Degree(%v)", tt.x)
	}
}

func TestCycleLengths(t *testing.T) {
	got := CycleLengths(0, 3)
	assert.InDeltaSlice(t, []float64{3.25 * 3.25, 5.25 * 5.25, 7.25 * 7.25}, got, 1e-12)
}

func TestFindExtremes(t *testing.T) {
	e, err := FindExtremes(fixture())
	require.NoError(t, err)
	assert.Equal(t, Extremes{Low: 80, LowDate: day(3), High: 120, HighDate: day(2), CalendarDays: 2, TradingDays: 2}, e)

	_, err = FindExtremes(nil)
	assert.Error(t, err)
}

func TestFindExtremesSkipsMissingCells(t *testing.T) {
	rows := append(fixture(),
		stockstats.OHLC{Date: day(4), Low: 0, High: 0, AdjClose: 90},
		stockstats.OHLC{Date: day(5), Low: math.NaN(), High: math.NaN(), AdjClose: 90},
	)
	e, err := FindExtremes(rows)
	require.NoError(t, err)
	assert.Equal(t, Extremes{Low: 80, LowDate: day(3), High: 120, HighDate: day(2), CalendarDays: 2, TradingDays: 2}, e)

	// a row missing only its low still gives its high.
	rows = []stockstats.OHLC{
		{Date: day(1), Low: 0, High: 130},
		{Date: day(2), Low: 95, High: 100},
	}
	e, err = FindExtremes(rows)
	require.NoError(t, err)
	assert.Equal(t, Extremes{Low: 95, LowDate: day(2), High: 130, HighDate: day(1), CalendarDays: 2, TradingDays: 2}, e)

	_, err = FindExtremes([]stockstats.OHLC{{Date: day(1), AdjClose: 90}})
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	e, err := FindExtremes(fixture())
	require.NoError(t, err)

	p := Project("TCS", e)

	// min degree comes from the 2 day distances: (2i + sqrt(2))², i.e. 11.66 and 29.31.
	// max degree comes from the high: (2i + sqrt(120) - 8)², i.e. 24.55 and 48.36.
	assert.InDelta(t, math.Sqrt(2)*180-225, p.MinDegree, 1e-9)
	assert.InDelta(t, Degree(120), p.MaxDegree, 1e-9)
	assert.Equal(t, []date.Date{
		date.New(2024, 1, 14),
		date.New(2024, 2, 1),
		date.New(2024, 1, 28),
		date.New(2024, 2, 21),
	}, p.Dates)
}

type store map[string][]stockstats.OHLC

func (s store) OHLC(ticker string) ([]stockstats.OHLC, error) {
	rows, ok := s[ticker]
	if !ok {
		return nil, stockstats.ErrTickerNotFound
	}
	return rows, nil
}

func TestDates(t *testing.T) {
	s := store{"TCS": fixture()}

	projections, err := Dates(s, []string{"TCS", "NOPE"}, date.All)
	require.Len(t, projections, 1)
	assert.Equal(t, "TCS", projections[0].Ticker)
	assert.True(t, errors.Is(err, stockstats.ErrTickerNotFound))

	// restricting the window moves the extremes
	projections, err = Dates(s, []string{"TCS"}, date.NewRange(day(1), day(2)))
	require.NoError(t, err)
	assert.Equal(t, 90.0, projections[0].Low)
	assert.Equal(t, day(1), projections[0].LowDate)

	_, err = Dates(s, []string{"TCS"}, date.Range{From: day(10)})
	assert.True(t, errors.Is(err, stockstats.ErrDataUnavailable))
}

func TestDatesEmptyLowInCSV(t *testing.T) {
	dir := t.TempDir()
	content := "Date,Open,High,Low,Close,Adj Close,Volume\n" +
		"2024-01-01,95,100,90,95,95,1000\n" +
		"2024-01-02,100,120,,110,110,1000\n" +
		"2024-01-03,110,110,80,85,85,1000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TCS.csv"), []byte(content), 0o644))

	projections, err := Dates(stockstats.CSVStore{Dir: dir}, []string{"TCS"}, date.All)
	require.NoError(t, err)
	require.Len(t, projections, 1)
	assert.Equal(t, 80.0, projections[0].Low)
	assert.Equal(t, day(3), projections[0].LowDate)
	assert.Equal(t, 120.0, projections[0].High)
}
