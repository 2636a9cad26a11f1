package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/catalog"
	"github.com/etnz/stockstats/httpcache"
	"github.com/etnz/stockstats/renderer"
	"github.com/google/subcommands"
)

// tickersCmd holds the flags for the 'tickers' subcommand.
type tickersCmd struct {
	index   string
	sector  string
	refresh bool
	sectors bool
}

func (*tickersCmd) Name() string     { return "tickers" }
func (*tickersCmd) Synopsis() string { return "list the constituents of an index" }
func (*tickersCmd) Usage() string {
	return `pstats tickers [-index <name>] [-sector <s1,s2>] [-refresh] [-sectors]

  Lists the constituents of an index with their company name and sector.
  -refresh pulls the current list from the NSE and keeps it in the data
  directory for later runs.
`
}

func (c *tickersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.index, "index", "nifty50", "Index to list (nifty50, niftymidcap50)")
	f.StringVar(&c.sector, "sector", "", "Comma separated sectors to keep")
	f.BoolVar(&c.refresh, "refresh", false, "Fetch the current constituents from the NSE first")
	f.BoolVar(&c.sectors, "sectors", false, "List the sectors instead of the companies")
}

func (c *tickersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	cat, err := a.openCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading index lists: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.refresh {
		nse := &catalog.NSE{Client: httpcache.NewClient(a.cfg.CacheDir(), a.log.With().Str("component", "httpcache").Logger())}
		companies, err := nse.Fetch(ctx, c.index)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching index %q: %v\n", c.index, err)
			return subcommands.ExitFailure
		}
		if err := cat.Replace(c.index, companies, a.cfg.CatalogDir()); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving index %q: %v\n", c.index, err)
			return subcommands.ExitFailure
		}
		a.log.Info().Str("index", c.index).Int("companies", len(companies)).Msg("index list refreshed")
	}

	if c.sectors {
		sectors, err := cat.Sectors(c.index)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing index %q: %v\n", c.index, err)
			return subcommands.ExitFailure
		}
		fmt.Println(strings.Join(sectors, "\n"))
		return subcommands.ExitSuccess
	}

	companies, err := listCompanies(cat, c.index, splitList(c.sector))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing index %q: %v\n", c.index, err)
		return subcommands.ExitFailure
	}
	title := c.index
	if _, name, ok := catalog.Symbol(c.index); ok {
		title = name
	}
	printMarkdown(renderer.RenderCompanies(&renderer.Companies{Title: title, Companies: companies}))
	return subcommands.ExitSuccess
}

// listCompanies returns the constituents of index grouped by sector, kept to
// sectors when any is given.
func listCompanies(cat stockstats.IndexCatalog, index string, sectors []string) ([]stockstats.Company, error) {
	tickers, err := cat.Tickers(index, sectors...)
	if err != nil {
		return nil, err
	}
	meta, err := cat.Metadata(index)
	if err != nil {
		return nil, err
	}
	companies := make([]stockstats.Company, 0, len(tickers))
	for _, t := range tickers {
		companies = append(companies, meta[t])
	}
	slices.SortStableFunc(companies, func(a, b stockstats.Company) int { return strings.Compare(a.Sector, b.Sector) })
	return companies, nil
}
