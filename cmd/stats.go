package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/renderer"
	"github.com/google/subcommands"
)

// statsCmd holds the flags for the 'stats' subcommand.
type statsCmd struct {
	tickers string
	weights string
	from    string
	to      string
	equal   bool
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display the returns and risk of a weighted portfolio" }
func (*statsCmd) Usage() string {
	return `pstats stats -tickers <t1,t2> [-weights <w1,w2>] [-from <date>] [-to <date>] [-equal]

  Displays the annualized return of each ticker and of the portfolio, its
  variance and volatility, and the split between diversifiable and
  undiversifiable risk.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "Comma separated tickers of the portfolio")
	f.StringVar(&c.weights, "weights", "", "Comma separated weights, in ticker order")
	f.StringVar(&c.from, "from", "", "First day of the analysis window")
	f.StringVar(&c.to, "to", "", "Last day of the analysis window")
	f.BoolVar(&c.equal, "equal", false, "Use equal weights when weights are missing or do not match the tickers")
}

func (c *statsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tickers := splitList(c.tickers)
	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "-tickers is required")
		return subcommands.ExitUsageError
	}
	weights, err := parseWeights(c.weights)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing weights: %v\n", err)
		return subcommands.ExitUsageError
	}
	window, err := parseRange(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing window: %v\n", err)
		return subcommands.ExitUsageError
	}
	policy := stockstats.StrictWeights
	if c.equal {
		policy = stockstats.EqualWeightFallback
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

	e, err := stockstats.NewEngine(store, tickers, weights,
		stockstats.WithRange(window),
		stockstats.WithWeightPolicy(policy),
		stockstats.WithLogger(a.log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	s, err := e.Summary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing statistics: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderSummary(renderer.NewSummary(s, e.Prices().Len())))
	return subcommands.ExitSuccess
}
