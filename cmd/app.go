// Package cmd implements the pstats CLI subcommands.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/catalog"
	"github.com/etnz/stockstats/config"
	"github.com/etnz/stockstats/date"
	"github.com/etnz/stockstats/eodhd"
	"github.com/etnz/stockstats/logger"
	"github.com/etnz/stockstats/sqlstore"
	"github.com/etnz/stockstats/yahoo"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Commands lists the subcommands, main registers them.
var Commands = []subcommands.Command{
	&cagrCmd{},
	&updateCmd{},
	&statsCmd{},
	&frontierCmd{},
	&gannCmd{},
	&tickersCmd{},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "pstats.yaml", "Path to the optional YAML configuration file")
	logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the configuration")
	pretty     = flag.Bool("pretty", false, "Human readable logs instead of JSON")
	rawOutput  = flag.Bool("raw", false, "Print reports as raw markdown")
)

// app gathers what every subcommand needs.
type app struct {
	cfg   config.Config
	log   zerolog.Logger
	runID string
}

// newApp loads the configuration and builds the logger of one run.
func newApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	runID := uuid.NewString()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: *pretty}).With().Str("run", runID).Logger()
	return &app{cfg: cfg, log: log, runID: runID}, nil
}

// openStore opens the configured price store. closer releases it.
func (a *app) openStore() (store stockstats.OHLCStore, closer func() error, err error) {
	switch a.cfg.Store {
	case config.StoreSQLite:
		s, err := sqlstore.Open(a.cfg.SQLitePath, a.log.With().Str("component", "sqlstore").Logger())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
			return nil, nil, err
		}
		return stockstats.CSVStore{Dir: a.cfg.DataDir}, func() error { return nil }, nil
	}
}

// newSource returns the configured remote price source.
func (a *app) newSource() (stockstats.PriceSource, error) {
	switch a.cfg.Source {
	case config.SourceEODHD:
		return eodhd.New(a.cfg.EODHDKey, a.cfg.CacheDir(), a.log.With().Str("component", "eodhd").Logger())
	default:
		return yahoo.New(a.log.With().Str("component", "yahoo").Logger()), nil
	}
}

// newUpdater returns an Updater from the configured source into store.
func (a *app) newUpdater(store stockstats.OHLCStore) (*stockstats.Updater, error) {
	src, err := a.newSource()
	if err != nil {
		return nil, err
	}
	return &stockstats.Updater{
		Source:   src,
		Store:    store,
		Start:    a.cfg.Start(),
		Attempts: 3,
		Backoff:  2 * time.Second,
		Log:      a.log.With().Str("component", "updater").Logger(),
	}, nil
}

// openCatalog returns the index catalog, with refreshed lists from the data
// directory.
func (a *app) openCatalog() (*catalog.Catalog, error) {
	return catalog.New(a.cfg.CatalogDir())
}

// indexTickers returns the tickers of index preceded by the index symbol,
// when it has one, and the metadata of all of them.
func (a *app) indexTickers(index string, sectors ...string) ([]string, map[string]stockstats.Company, error) {
	cat, err := a.openCatalog()
	if err != nil {
		return nil, nil, err
	}
	tickers, err := cat.Tickers(index, sectors...)
	if err != nil {
		return nil, nil, err
	}
	companies, err := cat.Metadata(index)
	if err != nil {
		return nil, nil, err
	}
	if symbol, name, ok := catalog.Symbol(index); ok {
		tickers = append([]string{symbol}, tickers...)
		companies[symbol] = stockstats.Company{Symbol: symbol, Name: name, Sector: "Index"}
	}
	return tickers, companies, nil
}

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// splitList splits a comma separated flag value, ignoring blanks.
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseWeights parses a comma separated list of numbers.
func parseWeights(s string) ([]float64, error) {
	var weights []float64
	for _, v := range splitList(s) {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", v, err)
		}
		weights = append(weights, d.InexactFloat64())
	}
	return weights, nil
}

// parseRange parses optional -from and -to values.
func parseRange(from, to string) (date.Range, error) {
	var r date.Range
	var err error
	if from != "" {
		if r.From, err = date.Parse(from); err != nil {
			return r, fmt.Errorf("invalid -from: %w", err)
		}
	}
	if to != "" {
		if r.To, err = date.Parse(to); err != nil {
			return r, fmt.Errorf("invalid -to: %w", err)
		}
	}
	return r, r.Validate()
}
