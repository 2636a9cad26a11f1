package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/catalog"
	"github.com/etnz/stockstats/date"
	"github.com/etnz/stockstats/renderer"
	"github.com/google/subcommands"
)

// cagrCmd holds the flags for the 'cagr' subcommand.
type cagrCmd struct {
	index  string
	tocsv  string
	update bool
	since  int
}

func (*cagrCmd) Name() string     { return "cagr" }
func (*cagrCmd) Synopsis() string { return "compute the CAGR of every constituent of an index" }
func (*cagrCmd) Usage() string {
	return `pstats cagr -index <name> [-tocsv <file>] [-update] [-since <years>]

  Computes the compound annual growth rate, its standard deviation and the
  risk adjusted CAGR of the index level and of each of its constituents.
  Exits with a failure when any ticker could not be computed.
`
}

func (c *cagrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.index, "index", "nifty50", "Index whose constituents are measured (nifty50, niftymidcap50)")
	f.StringVar(&c.tocsv, "tocsv", "", "Write the report to this CSV file")
	f.BoolVar(&c.update, "update", false, "Fetch the latest prices before computing")
	f.IntVar(&c.since, "since", 0, "Look-back in years, defaults to the configured lookback_years")
}

func (c *cagrCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	since := c.since
	if since == 0 {
		since = a.cfg.LookbackYears
	}

	tickers, companies, err := a.indexTickers(c.index)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing index %q: %v\n", c.index, err)
		return subcommands.ExitFailure
	}

	store, closer, err := a.openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closer()

	status := subcommands.ExitSuccess
	if c.update {
		u, err := a.newUpdater(store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating price source: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := u.Update(ctx, tickers, date.Today()); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating prices: %v\n", err)
			status = subcommands.ExitFailure
		}
	}

	report, err := computeCAGR(store, tickers, since)
	if err != nil {
		a.log.Warn().Err(err).Msg("some tickers could not be computed")
		fmt.Fprintf(os.Stderr, "Error computing CAGR: %v\n", err)
		status = subcommands.ExitFailure
	}
	if errors.Is(err, stockstats.ErrConfiguration) {
		return subcommands.ExitFailure
	}

	if c.tocsv != "" {
		if err := writeCAGR(c.tocsv, tickers, companies, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.tocsv, err)
			return subcommands.ExitFailure
		}
		a.log.Info().Str("file", c.tocsv).Int("tickers", len(tickers)).Msg("cagr report written")
	}

	title := c.index
	if _, name, ok := catalog.Symbol(c.index); ok {
		title = name
	}
	printMarkdown(renderer.RenderCAGR(renderer.NewCAGRReport(title, since, a.runID, tickers, companies, report, err)))
	return status
}

// computeCAGR loads each ticker on its own, so that a missing ticker only
// removes its own row from the report.
func computeCAGR(store stockstats.PriceStore, tickers []string, since int) (stockstats.CAGRReport, error) {
	var errs error
	var series []*stockstats.PriceSeries
	for _, t := range tickers {
		s, err := store.AdjustedClose(t)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%w: %w", stockstats.ErrDataUnavailable, err))
			continue
		}
		series = append(series, s)
	}
	report, err := stockstats.CAGR(stockstats.NewPriceTable(series...), since)
	return report, errors.Join(errs, err)
}

func writeCAGR(name string, tickers []string, companies map[string]stockstats.Company, report stockstats.CAGRReport) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := stockstats.WriteCAGR(f, tickers, companies, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
