package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/date"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	index   string
	tickers string
	every   string
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "fetch the latest daily prices into the price store"
}
func (*updateCmd) Usage() string {
	return `pstats update [-index <name> | -tickers <t1,t2>] [-every <cron spec>]

  Fetches the prices of an index level and its constituents, or of an explicit
  list of tickers, from the day after the latest stored price up to today.
  With -every (or a configured schedule) it keeps running and refreshes on
  schedule, e.g. -every "30 18 * * 1-5".
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.index, "index", "nifty50", "Index to update, ignored when -tickers is set")
	f.StringVar(&c.tickers, "tickers", "", "Comma separated tickers to update")
	f.StringVar(&c.every, "every", "", "Cron spec to keep refreshing on, overrides the configured schedule")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	tickers := splitList(c.tickers)
	if len(tickers) == 0 {
		tickers, _, err = a.indexTickers(c.index)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing index %q: %v\n", c.index, err)
			return subcommands.ExitFailure
		}
	}

	store, closer, err := a.openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closer()

	u, err := a.newUpdater(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating price source: %v\n", err)
		return subcommands.ExitFailure
	}

	schedule := c.every
	if schedule == "" {
		schedule = a.cfg.Schedule
	}
	if schedule == "" {
		if err := u.Update(ctx, tickers, date.Today()); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating prices: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if err := runScheduled(ctx, schedule, u, tickers); err != nil {
		fmt.Fprintf(os.Stderr, "Error scheduling updates: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// runScheduled updates tickers on every tick of spec until ctx is done.
// Failures are logged and the next tick tries again.
func runScheduled(ctx context.Context, spec string, u *stockstats.Updater, tickers []string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := u.Update(ctx, tickers, date.Today()); err != nil {
			u.Log.Error().Err(err).Msg("scheduled update failed")
			return
		}
		u.Log.Info().Int("tickers", len(tickers)).Msg("scheduled update done")
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	u.Log.Info().Str("schedule", spec).Msg("waiting for scheduled updates")
	c.Start()
	<-ctx.Done()
	// wait for a running update to return.
	<-c.Stop().Done()
	return nil
}
