// Command pstats computes portfolio and index statistics from daily NSE
// prices.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/stockstats/cmd"
	"github.com/google/subcommands"
)

func main() {
	// Answers shell completion requests and exits, does nothing otherwise.
	cmd.Completion().Complete("pstats")

	commander := subcommands.NewCommander(flag.CommandLine, "pstats")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
