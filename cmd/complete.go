package cmd

import (
	"flag"

	"github.com/etnz/stockstats/catalog"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the pstats command line for shell completion.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{
			"config":    predict.Files("*.yaml"),
			"log-level": predict.Set{"debug", "info", "warn", "error"},
			"pretty":    predict.Nothing,
			"raw":       predict.Nothing,
		},
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
		f.VisitAll(func(fl *flag.Flag) { sub.Flags[fl.Name] = predictFlag(fl) })
		root.Sub[c.Name()] = sub
	}
	return root
}

func predictFlag(fl *flag.Flag) complete.Predictor {
	if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch fl.Name {
	case "index":
		return predict.Set(catalog.Names())
	case "tocsv":
		return predict.Files("*.csv")
	}
	return predict.Something
}
