// Package catalog lists the constituents of the NSE indices supported by
// pstats, with their company name and sector.
//
// Lists are embedded in the binary so that the tool works offline. They can be
// overridden by files of the same name in a directory, which is how refreshed
// lists fetched from the NSE are persisted.
package catalog

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/etnz/stockstats"
)

//go:embed data/*.csv
var embedded embed.FS

// Index symbols, as used to fetch the index level itself.
const (
	Nifty50Symbol = "^NSEI"
)

// index describes a supported index.
type index struct {
	name     string // catalog name, also the file name
	nseName  string // name in the NSE API
	symbol   string // market symbol of the index level, if any
	fullName string
}

var indices = []index{
	{name: "nifty50", nseName: "NIFTY 50", symbol: Nifty50Symbol, fullName: "Nifty50"},
	{name: "niftymidcap50", nseName: "NIFTY MIDCAP 50", fullName: "Nifty Midcap 50"},
}

func lookup(name string) (index, error) {
	for _, idx := range indices {
		if idx.name == strings.ToLower(name) {
			return idx, nil
		}
	}
	return index{}, fmt.Errorf("%w: %q, use one of %s", stockstats.ErrUnknownIndex, name, strings.Join(Names(), ", "))
}

// Names returns the supported index names.
func Names() []string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = idx.name
	}
	return names
}

// Symbol returns the market symbol and display name of the index level
// itself, ok is false when the index has none.
func Symbol(name string) (symbol, fullName string, ok bool) {
	idx, err := lookup(name)
	if err != nil || idx.symbol == "" {
		return "", "", false
	}
	return idx.symbol, idx.fullName, true
}

// Catalog holds the constituents of every supported index.
type Catalog struct {
	mu        sync.RWMutex
	companies map[string][]stockstats.Company
}

// check that Catalog implements the IndexCatalog interface.
var _ stockstats.IndexCatalog = (*Catalog)(nil)

// New returns the catalog of embedded lists, overridden by the files found
// in dir when dir is not empty.
func New(dir string) (*Catalog, error) {
	c := &Catalog{companies: make(map[string][]stockstats.Company)}
	for _, idx := range indices {
		companies, err := load(dir, idx.name)
		if err != nil {
			return nil, fmt.Errorf("cannot load index %s: %w", idx.name, err)
		}
		c.companies[idx.name] = companies
	}
	return c, nil
}

// load reads dir/name.csv, falling back to the embedded list.
func load(dir, name string) ([]stockstats.Company, error) {
	if dir != "" {
		f, err := os.Open(filepath.Join(dir, name+".csv"))
		if err == nil {
			defer f.Close()
			return decode(f)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	f, err := embedded.Open("data/" + name + ".csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) ([]stockstats.Company, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty list")
	}
	var companies []stockstats.Company
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			return nil, fmt.Errorf("line %d: want 3 fields, got %d", i+2, len(rec))
		}
		companies = append(companies, stockstats.Company{Symbol: rec[0], Name: rec[1], Sector: rec[2]})
	}
	return companies, nil
}

func encode(w io.Writer, companies []stockstats.Company) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Symbol", "CompanyName", "Sector"}); err != nil {
		return err
	}
	for _, c := range companies {
		if err := cw.Write([]string{c.Symbol, c.Name, c.Sector}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Companies returns the constituents of index in list order.
func (c *Catalog) Companies(index string) ([]stockstats.Company, error) {
	idx, err := lookup(index)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.companies[idx.name]), nil
}

// Tickers returns the symbols of index, keeping only the given sectors when
// any is given. Sectors match case-insensitively.
func (c *Catalog) Tickers(index string, sectors ...string) ([]string, error) {
	companies, err := c.Companies(index)
	if err != nil {
		return nil, err
	}
	var tickers []string
	for _, co := range companies {
		if len(sectors) > 0 && !slices.ContainsFunc(sectors, func(s string) bool { return strings.EqualFold(s, co.Sector) }) {
			continue
		}
		tickers = append(tickers, co.Symbol)
	}
	return tickers, nil
}

// Metadata returns the constituents of index keyed by symbol.
func (c *Catalog) Metadata(index string) (map[string]stockstats.Company, error) {
	companies, err := c.Companies(index)
	if err != nil {
		return nil, err
	}
	meta := make(map[string]stockstats.Company, len(companies))
	for _, co := range companies {
		meta[co.Symbol] = co
	}
	return meta, nil
}

// Sectors returns the sorted distinct sectors of index.
func (c *Catalog) Sectors(index string) ([]string, error) {
	companies, err := c.Companies(index)
	if err != nil {
		return nil, err
	}
	var sectors []string
	for _, co := range companies {
		if !slices.Contains(sectors, co.Sector) {
			sectors = append(sectors, co.Sector)
		}
	}
	slices.Sort(sectors)
	return sectors, nil
}

// Replace sets the constituents of index, and persists them in dir when dir
// is not empty.
func (c *Catalog) Replace(index string, companies []stockstats.Company, dir string) error {
	idx, err := lookup(index)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		return fmt.Errorf("refusing to replace index %s with an empty list", idx.name)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		f, err := os.Create(filepath.Join(dir, idx.name+".csv"))
		if err != nil {
			return err
		}
		if err := encode(f, companies); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.companies[idx.name] = slices.Clone(companies)
	return nil
}
