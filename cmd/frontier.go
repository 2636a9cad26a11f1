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

// frontierCmd holds the flags for the 'frontier' subcommand.
type frontierCmd struct {
	tickers string
	from    string
	to      string
	points  int
	seed    uint64
	workers int
	tocsv   string
}

func (*frontierCmd) Name() string     { return "frontier" }
func (*frontierCmd) Synopsis() string { return "sample random portfolios to draw the efficient frontier" }
func (*frontierCmd) Usage() string {
	return `pstats frontier -tickers <t1,t2> [-points <n>] [-seed <n>] [-workers <n>] [-tocsv <file>]

  Draws random long only portfolios of the tickers and reports their
  annualized log return and volatility. The portfolios with the lowest
  volatility, the highest return and the best ratio of both are displayed.
  Without -seed the draws are seeded from the clock and the seed is logged;
  any -seed value, 0 included, reproduces the same draws.
`
}

func (c *frontierCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "Comma separated tickers")
	f.StringVar(&c.from, "from", "", "First day of the analysis window")
	f.StringVar(&c.to, "to", "", "Last day of the analysis window")
	f.IntVar(&c.points, "points", 0, "Number of portfolios, defaults to the configured frontier_points")
	f.Uint64Var(&c.seed, "seed", 0, "Seed of the random draws, seeded from the clock when unset")
	f.IntVar(&c.workers, "workers", 0, "Concurrent evaluations, defaults to the configured workers")
	f.StringVar(&c.tocsv, "tocsv", "", "Write every sample to this CSV file")
}

func (c *frontierCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	// weights play no part in the frontier.
	e, err := stockstats.NewEngine(store, tickers, nil,
		stockstats.WithRange(window),
		stockstats.WithWeightPolicy(stockstats.EqualWeightFallback),
		stockstats.WithLogger(a.log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}

	s := stockstats.Sampler{Points: c.points, Workers: c.workers}
	if s.Points == 0 {
		s.Points = a.cfg.FrontierPoints
	}
	if s.Workers == 0 {
		s.Workers = a.cfg.Workers
	}
	if flagSet(f, "seed") {
		s.Source = stockstats.NewSource(c.seed)
	}
	samples, err := e.Frontier(ctx, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sampling the frontier: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.tocsv != "" {
		if err := writeFrontier(c.tocsv, samples); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.tocsv, err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.RenderFrontier(renderer.NewFrontier(e.Portfolio().Tickers(), samples)))
	return subcommands.ExitSuccess
}

func writeFrontier(name string, samples []stockstats.FrontierSample) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := stockstats.WriteFrontier(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// flagSet reports whether name was given on the command line.
func flagSet(f *flag.FlagSet, name string) bool {
	found := false
	f.Visit(func(fl *flag.Flag) { found = found || fl.Name == name })
	return found
}
