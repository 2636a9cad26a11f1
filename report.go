package stockstats

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// Company describes a constituent of an index.
type Company struct {
	Symbol string
	Name   string
	Sector string
}

// IndexCatalog lists the constituents of market indices.
type IndexCatalog interface {
	// Tickers returns the symbols of index, restricted to sectors when any is
	// given. Unknown indices fail with ErrUnknownIndex.
	Tickers(index string, sectors ...string) ([]string, error)
	// Metadata returns the companies of index keyed by symbol.
	Metadata(index string) (map[string]Company, error)
}

// CAGRHeader is the header row of WriteCAGR.
var CAGRHeader = []string{"Symbol", "CompanyName", "Sector", "CAGR", "STDDEV", "RiskAdj_CAGR"}

// WriteCAGR writes one row per ticker in the given order. Tickers missing from
// report, because their computation failed, get empty figures.
func WriteCAGR(w io.Writer, tickers []string, companies map[string]Company, report CAGRReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CAGRHeader); err != nil {
		return err
	}
	for _, t := range tickers {
		c := companies[t]
		rec := []string{t, c.Name, c.Sector, "", "", ""}
		if res, ok := report.Get(t); ok {
			rec[3] = formatFloat(res.CAGR)
			rec[4] = formatFloat(res.StdDev)
			rec[5] = formatFloat(res.RiskAdjusted)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FrontierHeader is the header row of WriteFrontier.
var FrontierHeader = []string{"Sample", "Weights", "Return", "Volatility"}

// WriteFrontier writes one row per sample.
func WriteFrontier(w io.Writer, samples []FrontierSample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FrontierHeader); err != nil {
		return err
	}
	for _, s := range samples {
		rec := []string{strconv.Itoa(s.ID), s.EncodeWeights(), formatFloat(s.Return), formatFloat(s.Volatility)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MinVolatility returns the sample with the lowest volatility.
func MinVolatility(samples []FrontierSample) (FrontierSample, bool) {
	return pick(samples, func(a, b FrontierSample) bool { return a.Volatility < b.Volatility })
}

// MaxReturn returns the sample with the highest return.
func MaxReturn(samples []FrontierSample) (FrontierSample, bool) {
	return pick(samples, func(a, b FrontierSample) bool { return a.Return > b.Return })
}

// MaxSharpe returns the sample with the highest return per unit of volatility.
func MaxSharpe(samples []FrontierSample) (FrontierSample, bool) {
	ratio := func(s FrontierSample) float64 {
		if s.Volatility == 0 {
			return math.Inf(1)
		}
		return s.Return / s.Volatility
	}
	return pick(samples, func(a, b FrontierSample) bool { return ratio(a) > ratio(b) })
}

func pick(samples []FrontierSample, better func(a, b FrontierSample) bool) (FrontierSample, bool) {
	if len(samples) == 0 {
		return FrontierSample{}, false
	}
	best := samples[0]
	for _, s := range samples[1:] {
		if better(s, best) {
			best = s
		}
	}
	return best, true
}
