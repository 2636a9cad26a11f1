package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stockstats/date"
	"github.com/etnz/stockstats/gann"
	"github.com/etnz/stockstats/renderer"
	"github.com/google/subcommands"
)

// gannCmd holds the flags for the 'gann' subcommand.
type gannCmd struct {
	tickers string
	from    string
	to      string
	update  bool
}

func (*gannCmd) Name() string     { return "gann" }
func (*gannCmd) Synopsis() string { return "project Gann trend reversal dates" }
func (*gannCmd) Usage() string {
	return `pstats gann -tickers <t1,t2> [-from <date>] [-to <date>] [-update]

  Projects trend reversal dates from the lowest low and highest high of each
  ticker within the window. The window defaults to the last month.
`
}

func (c *gannCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "^NSEI", "Comma separated tickers")
	f.StringVar(&c.from, "from", "-1m", "First day of the window")
	f.StringVar(&c.to, "to", "0d", "Last day of the window")
	f.BoolVar(&c.update, "update", false, "Fetch the latest prices first")
}

func (c *gannCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tickers := splitList(c.tickers)
	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "-tickers is required")
		return subcommands.ExitUsageError
	}
	window, err := parseRange(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing window: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
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
		end := window.To
		if end.IsZero() {
			end = date.Today()
		}
		if err := u.Update(ctx, tickers, end); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating prices: %v\n", err)
			status = subcommands.ExitFailure
		}
	}

	projections, err := gann.Dates(store, tickers, window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error projecting dates: %v\n", err)
		status = subcommands.ExitFailure
	}
	if len(projections) > 0 {
		printMarkdown(renderer.RenderGann(projections))
	}
	return status
}
