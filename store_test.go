package stockstats

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/stockstats/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileNameAndMarketSymbol(t *testing.T) {
	tests := []struct {
		ticker, file, symbol string
	}{
		{"TCS", "TCS", "TCS.NS"},
		{"^NSEI", "NSEI", "^NSEI"},
		{"M&M", "M&M", "M&M.NS"},
		{"BAJAJ-AUTO", "BAJAJ-AUTO", "BAJAJ-AUTO.NS"},
		// only index symbols are exempt from the suffix.
		{"MCD.US", "MCD.US", "MCD.US.NS"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.file, FileName(tt.ticker), "FileName(%q)", tt.ticker)
		assert.Equal(t, tt.symbol, MarketSymbol(tt.ticker), "MarketSymbol(%q)", tt.ticker)
	}
}

func TestCSVStore_ReadFormat(t *testing.T) {
	dir := t.TempDir()
	content := "Date,Open,High,Low,Close,Adj Close,Volume\n" +
		"2020-01-01,10,11,9,10.5,10.25,1000\n" +
		"2020-01-02,null,null,null,null,null,null\n" +
		"2020-01-03 00:00:00+05:30,10.5,12,10,11.5,11.25,1200\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NSEI.csv"), []byte(content), 0o644))

	store := CSVStore{Dir: dir}
	rows, err := store.OHLC("^NSEI")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, OHLC{Date: date.New(2020, 1, 1), Open: 10, High: 11, Low: 9, Close: 10.5, AdjClose: 10.25, Volume: 1000}, rows[0])
	assert.Equal(t, date.New(2020, 1, 3), rows[1].Date)

	series, err := store.AdjustedClose("^NSEI")
	require.NoError(t, err)
	assert.Equal(t, "^NSEI", series.Ticker)
	v, ok := series.Get(date.New(2020, 1, 3))
	assert.True(t, ok)
	assert.Equal(t, 11.25, v)
}

func TestCSVStore_Errors(t *testing.T) {
	dir := t.TempDir()
	store := CSVStore{Dir: dir}

	_, err := store.AdjustedClose("NOPE")
	assert.True(t, errors.Is(err, ErrTickerNotFound))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "BAD.csv"), []byte("Date,Close\n2020-01-01,1\n"), 0o644))
	_, err = store.AdjustedClose("BAD")
	assert.True(t, errors.Is(err, ErrDataUnavailable))
	assert.ErrorContains(t, err, "Adj Close")
}

func TestStores_Put(t *testing.T) {
	stores := map[string]OHLCStore{
		"csv":    CSVStore{Dir: filepath.Join(t.TempDir(), "csvs")},
		"memory": NewMemoryStore(),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			latest, err := store.Latest("TCS")
			require.NoError(t, err)
			assert.True(t, latest.IsZero())

			require.NoError(t, store.Put("TCS", rows(1, 2, 3)))
			// overlapping update replaces the third day and adds a fourth one
			update := rows(0, 0, 30, 4)[2:]
			require.NoError(t, store.Put("TCS", update))

			got, err := store.OHLC("TCS")
			require.NoError(t, err)
			require.Len(t, got, 4)
			assert.Equal(t, []float64{1, 2, 30, 4}, []float64{got[0].AdjClose, got[1].AdjClose, got[2].AdjClose, got[3].AdjClose})

			latest, err = store.Latest("TCS")
			require.NoError(t, err)
			assert.Equal(t, origin.Add(3), latest)

			err = store.Put("TCS", []OHLC{{Date: origin.Add(10), AdjClose: -1}})
			assert.True(t, errors.Is(err, ErrInvalidPrice))
			err = store.Put("TCS", []OHLC{{Date: origin.Add(10), AdjClose: math.NaN()}})
			assert.True(t, errors.Is(err, ErrInvalidPrice))

			got, err = store.OHLC("TCS")
			require.NoError(t, err)
			assert.Len(t, got, 4, "rejected rows are not stored")
		})
	}
}
