package stockstats

import (
	"errors"
	"math"
)

// CAGRResult is the growth summary of one ticker.
type CAGRResult struct {
	Ticker string
	// CAGR is (last/first)^(1/years) - 1.
	CAGR float64
	// StdDev is the annualized standard deviation of the daily simple returns
	// of the ticker in the aligned table, over the whole window.
	StdDev float64
	// RiskAdjusted is CAGR * (1 - StdDev).
	RiskAdjusted float64
	// First and Last are the prices CAGR was computed from.
	First, Last float64
}

// CAGRReport lists the results of the tickers that could be computed, in
// price table order.
type CAGRReport []CAGRResult

// Get returns the result of ticker, if present.
func (r CAGRReport) Get(ticker string) (CAGRResult, bool) {
	for _, res := range r {
		if res.Ticker == ticker {
			return res, true
		}
	}
	return CAGRResult{}, false
}

// CAGR computes the compound annual growth rate of each ticker of prices over
// the last years, counting TradingDaysPerYear valid prices per year.
//
// Each ticker is measured on its own valid prices: the start price is the one
// years*TradingDaysPerYear positions before the end of the series. Its StdDev
// comes from the table simple returns, so a day the ticker misses drops the
// returns on both sides of it, as in the risk decomposition. A ticker
// that has fewer valid prices gets an *InsufficientHistoryError and is left
// out of the report; other tickers are still computed and all failures are
// joined in the returned error.
func CAGR(prices *PriceTable, years int) (CAGRReport, error) {
	if years < 1 {
		return nil, configErrorf("look-back must be at least one year, got %d", years)
	}
	required := years * TradingDaysPerYear
	rets := SimpleReturns(prices)

	var report CAGRReport
	var errs error
	for j, ticker := range prices.tickers {
		series := prices.Valid(j)
		if len(series) < required {
			errs = errors.Join(errs, &InsufficientHistoryError{Ticker: ticker, Since: years, Rows: len(series), Required: required})
			continue
		}
		first, last := series[len(series)-required], series[len(series)-1]
		res := CAGRResult{
			Ticker: ticker,
			CAGR:   math.Pow(last/first, 1/float64(years)) - 1,
			StdDev: AnnualizedStdDev(rets.Valid(j)),
			First:  first,
			Last:   last,
		}
		res.RiskAdjusted = res.CAGR * (1 - res.StdDev)
		report = append(report, res)
	}
	return report, errs
}
