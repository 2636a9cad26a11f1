package renderer

import (
	"errors"
	"fmt"

	"github.com/etnz/stockstats"
)

// CAGRRow is one line of the CAGR table.
type CAGRRow struct {
	Symbol string
	Name   string
	Sector string
	// Computed is false when the ticker failed, Err then tells why.
	Computed bool
	stockstats.CAGRResult
	Err string
}

// CAGRReport is the view of a CAGR computation over an index.
type CAGRReport struct {
	Title string
	Since int
	RunID string
	Rows  []CAGRRow
}

// NewCAGRReport lays out report in the order of tickers. err is the error
// returned along with report, its insufficient history details are reported
// on the matching rows.
func NewCAGRReport(title string, since int, runID string, tickers []string, companies map[string]stockstats.Company, report stockstats.CAGRReport, err error) *CAGRReport {
	failures := make(map[string]string)
	for _, e := range flatten(err) {
		var ih *stockstats.InsufficientHistoryError
		if errors.As(e, &ih) {
			failures[ih.Ticker] = fmt.Sprintf("%d of %d prices", ih.Rows, ih.Required)
		}
	}

	r := &CAGRReport{Title: title, Since: since, RunID: runID}
	for _, t := range tickers {
		c := companies[t]
		row := CAGRRow{Symbol: t, Name: c.Name, Sector: c.Sector}
		if res, ok := report.Get(t); ok {
			row.Computed = true
			row.CAGRResult = res
		} else if msg, ok := failures[t]; ok {
			row.Err = msg
		} else {
			row.Err = "n/a"
		}
		r.Rows = append(r.Rows, row)
	}
	return r
}

// flatten lists the leaves of errors built with errors.Join.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}
	return out
}

// SummaryRow is the line of one holding.
type SummaryRow struct {
	Ticker       string
	Weight       float64
	AnnualReturn float64
	HasReturn    bool
}

// Summary is the view of a stockstats.Summary.
type Summary struct {
	Window          string
	Days            int
	Rows            []SummaryRow
	TotalWeight     float64
	PortfolioReturn float64
	Risk            stockstats.RiskReport
	Warnings        []stockstats.Warning
}

// NewSummary converts s, computed over days trading days.
func NewSummary(s stockstats.Summary, days int) *Summary {
	v := &Summary{
		Window:          s.Window.String(),
		Days:            days,
		PortfolioReturn: s.PortfolioReturn,
		Risk:            s.Risk,
		Warnings:        s.Warnings,
	}
	for i, h := range s.Portfolio {
		row := SummaryRow{Ticker: h.Ticker, Weight: h.Weight}
		if i < len(s.AnnualReturns) && finite(s.AnnualReturns[i]) {
			row.AnnualReturn = s.AnnualReturns[i]
			row.HasReturn = true
		}
		v.TotalWeight += h.Weight
		v.Rows = append(v.Rows, row)
	}
	return v
}

// Pick is a remarkable portfolio of a frontier.
type Pick struct {
	Label  string
	Sample stockstats.FrontierSample
}

// Frontier is the view of a frontier sampling.
type Frontier struct {
	Tickers []string
	Points  int
	Picks   []Pick
}

// NewFrontier selects the minimum volatility, maximum return and maximum
// Sharpe ratio portfolios of samples.
func NewFrontier(tickers []string, samples []stockstats.FrontierSample) *Frontier {
	f := &Frontier{Tickers: tickers, Points: len(samples)}
	for _, p := range []struct {
		label string
		pick  func([]stockstats.FrontierSample) (stockstats.FrontierSample, bool)
	}{
		{"Minimum Volatility", stockstats.MinVolatility},
		{"Maximum Return", stockstats.MaxReturn},
		{"Maximum Sharpe Ratio", stockstats.MaxSharpe},
	} {
		if s, ok := p.pick(samples); ok {
			f.Picks = append(f.Picks, Pick{Label: p.label, Sample: s})
		}
	}
	return f
}

// Companies is the view of an index constituents list.
type Companies struct {
	Title     string
	Companies []stockstats.Company
}
