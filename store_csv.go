package stockstats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/stockstats/date"
	"github.com/shopspring/decimal"
)

// csvHeader is the column layout of stored price files.
var csvHeader = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// CSVStore is an OHLCStore keeping one CSV file per ticker in Dir.
//
// Files are named after FileName(ticker) with a ".csv" extension and start
// with the header Date,Open,High,Low,Close,Adj Close,Volume. Columns are
// located by name when reading, so files with extra or reordered columns are
// accepted as long as Date and Adj Close are present.
type CSVStore struct {
	Dir string
}

// Path returns the file path of ticker.
func (s CSVStore) Path(ticker string) string {
	return filepath.Join(s.Dir, FileName(ticker)+".csv")
}

func (s CSVStore) AdjustedClose(ticker string) (*PriceSeries, error) {
	rows, err := s.OHLC(ticker)
	if err != nil {
		return nil, err
	}
	return seriesOf(ticker, rows), nil
}

func (s CSVStore) OHLC(ticker string) ([]OHLC, error) {
	f, err := os.Open(s.Path(ticker))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: no file %s", ErrTickerNotFound, ticker, s.Path(ticker))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, ticker, err)
	}
	defer f.Close()
	rows, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, ticker, err)
	}
	return rows, nil
}

func (s CSVStore) Latest(ticker string) (date.Date, error) {
	rows, err := s.OHLC(ticker)
	if errors.Is(err, ErrTickerNotFound) {
		return date.Date{}, nil
	}
	if err != nil || len(rows) == 0 {
		return date.Date{}, err
	}
	return rows[len(rows)-1].Date, nil
}

// Put merges rows into the file of ticker. The file is replaced atomically.
func (s CSVStore) Put(ticker string, rows []OHLC) error {
	existing, err := s.OHLC(ticker)
	if err != nil && !errors.Is(err, ErrTickerNotFound) {
		return err
	}
	merged, err := mergeRows(ticker, existing, rows)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("cannot create price directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, FileName(ticker)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot write prices of %s: %w", ticker, err)
	}
	defer os.Remove(tmp.Name())
	if err := writeCSV(tmp, merged); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write prices of %s: %w", ticker, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write prices of %s: %w", ticker, err)
	}
	return os.Rename(tmp.Name(), s.Path(ticker))
}

// readCSV decodes price rows. Rows without an adjusted close are skipped.
func readCSV(r io.Reader) ([]OHLC, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	if _, ok := col["Date"]; !ok {
		return nil, errors.New("missing Date column")
	}
	if _, ok := col["Adj Close"]; !ok {
		return nil, errors.New("missing Adj Close column")
	}

	var rows []OHLC
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if isMissing(field("Adj Close")) {
			continue
		}
		ds := field("Date")
		if i := strings.IndexAny(ds, " T"); i > 0 {
			ds = ds[:i]
		}
		day, err := date.Parse(ds)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := OHLC{Date: day}
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"Open", &row.Open},
			{"High", &row.High},
			{"Low", &row.Low},
			{"Close", &row.Close},
			{"Adj Close", &row.AdjClose},
		} {
			v := field(f.name)
			if isMissing(v) {
				continue
			}
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s %q: %w", line, f.name, v, err)
			}
			*f.dst = d.InexactFloat64()
		}
		if v := field("Volume"); !isMissing(v) {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid Volume %q: %w", line, v, err)
			}
			row.Volume = d.IntPart()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isMissing(v string) bool { return v == "" || strings.EqualFold(v, "null") || strings.EqualFold(v, "nan") }

// writeCSV encodes price rows with csvHeader.
func writeCSV(w io.Writer, rows []OHLC) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Date.String(),
			formatFloat(r.Open),
			formatFloat(r.High),
			formatFloat(r.Low),
			formatFloat(r.Close),
			formatFloat(r.AdjClose),
			decimal.NewFromInt(r.Volume).String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat prints v with the shortest decimal representation, and
// non-finite values as empty cells.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).String()
}
