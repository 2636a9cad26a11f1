package stockstats

import (
	"math"

	"github.com/shopspring/decimal"
)

// WeightPolicy tells how a Portfolio is built when weights do not match the
// tickers.
type WeightPolicy int

const (
	// StrictWeights rejects a ticker and weight count mismatch.
	StrictWeights WeightPolicy = iota
	// EqualWeightFallback replaces missing or mismatched weights by equal
	// weights.
	EqualWeightFallback
)

func (p WeightPolicy) String() string {
	switch p {
	case StrictWeights:
		return "strict"
	case EqualWeightFallback:
		return "equal"
	}
	return "unknown"
}

// Holding is a ticker and its weight in a Portfolio.
type Holding struct {
	Ticker string
	Weight float64
}

// Portfolio is an ordered list of weighted tickers.
//
// Weights are used as given: they are not required to sum to one.
type Portfolio []Holding

// NewPortfolio pairs tickers with weights according to policy.
func NewPortfolio(tickers []string, weights []float64, policy WeightPolicy) (Portfolio, error) {
	if len(tickers) == 0 {
		return nil, configErrorf("empty ticker list")
	}
	seen := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		if t == "" {
			return nil, configErrorf("empty ticker")
		}
		if _, dup := seen[t]; dup {
			return nil, configErrorf("duplicate ticker %q", t)
		}
		seen[t] = struct{}{}
	}
	if len(weights) != len(tickers) {
		if policy != EqualWeightFallback {
			return nil, configErrorf("%d weights for %d tickers", len(weights), len(tickers))
		}
		weights = EqualWeights(len(tickers))
	}
	p := make(Portfolio, len(tickers))
	for i, t := range tickers {
		w := weights[i]
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, configErrorf("weight of %s is not finite", t)
		}
		p[i] = Holding{Ticker: t, Weight: w}
	}
	return p, nil
}

// EqualWeights returns n weights of 1/n rounded to five decimals.
func EqualWeights(n int) []float64 {
	w := decimal.NewFromInt(1).DivRound(decimal.NewFromInt(int64(n)), 5).InexactFloat64()
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = w
	}
	return weights
}

// Tickers returns the tickers in order.
func (p Portfolio) Tickers() []string {
	out := make([]string, len(p))
	for i, h := range p {
		out[i] = h.Ticker
	}
	return out
}

// Weights returns the weights in ticker order.
func (p Portfolio) Weights() []float64 {
	out := make([]float64, len(p))
	for i, h := range p {
		out[i] = h.Weight
	}
	return out
}
