package stockstats

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/etnz/stockstats/date"
	"github.com/rs/zerolog"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	window date.Range
	policy WeightPolicy
	log    zerolog.Logger
}

// WithRange restricts the analysis to the days within r. A zero bound is open.
func WithRange(r date.Range) Option { return func(o *options) { o.window = r } }

// WithWeightPolicy sets how mismatched weights are handled. The default is
// StrictWeights.
func WithWeightPolicy(p WeightPolicy) Option { return func(o *options) { o.policy = p } }

// WithLogger sets the logger used to report warnings.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// Engine computes statistics for a weighted portfolio over a window of
// prices loaded once at construction.
type Engine struct {
	portfolio Portfolio
	window    date.Range
	prices    *PriceTable
	log       zerolog.Logger
}

// NewEngine loads the adjusted close of every ticker from store and aligns
// them within the configured window.
//
// It fails with ErrConfiguration when tickers and weights are inconsistent,
// and with ErrDataUnavailable when a ticker cannot be loaded or has no price
// within the window.
func NewEngine(store PriceStore, tickers []string, weights []float64, opts ...Option) (*Engine, error) {
	o := options{policy: StrictWeights, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.window.Validate(); err != nil {
		return nil, configErrorf("%v", err)
	}
	p, err := NewPortfolio(tickers, weights, o.policy)
	if err != nil {
		return nil, err
	}

	var errs error
	series := make([]*PriceSeries, 0, len(p))
	for _, h := range p {
		s, err := store.AdjustedClose(h.Ticker)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%w: %w", ErrDataUnavailable, err))
			continue
		}
		s = s.Between(o.window)
		if s.Len() == 0 {
			errs = errors.Join(errs, dataUnavailablef("%s has no price in %s", h.Ticker, o.window))
			continue
		}
		series = append(series, s)
	}
	if errs != nil {
		return nil, errs
	}

	e := &Engine{
		portfolio: p,
		window:    o.window,
		prices:    NewPriceTable(series...),
		log:       o.log.With().Str("component", "engine").Logger(),
	}
	e.log.Debug().Strs("tickers", p.Tickers()).Stringer("window", o.window).Int("rows", e.prices.Len()).Msg("prices loaded")
	return e, nil
}

// Portfolio returns the weighted tickers.
func (e *Engine) Portfolio() Portfolio { return e.portfolio }

// Window returns the analysis window.
func (e *Engine) Window() date.Range { return e.window }

// Prices returns the aligned adjusted close table.
func (e *Engine) Prices() *PriceTable { return e.prices }

// Returns returns the daily simple returns.
func (e *Engine) Returns() *ReturnTable { return SimpleReturns(e.prices) }

// LogReturns returns the daily log returns.
func (e *Engine) LogReturns() *ReturnTable { return LogReturns(e.prices) }

// AnnualReturns returns the annualized mean simple return of each ticker, in
// portfolio order.
func (e *Engine) AnnualReturns() []float64 { return AnnualizedMean(e.Returns()) }

// PortfolioReturn returns the weighted sum of the annual returns. Tickers
// without any valid return contribute zero, with a warning.
func (e *Engine) PortfolioReturn() float64 {
	var total float64
	for i, r := range e.AnnualReturns() {
		h := e.portfolio[i]
		if math.IsNaN(r) {
			e.log.Warn().Str("ticker", h.Ticker).Msg("empty return series, return contribution set to zero")
			continue
		}
		total += h.Weight * r
	}
	return total
}

// Risk decomposes the portfolio variance. Warnings are logged and returned.
func (e *Engine) Risk() (RiskReport, []Warning, error) {
	report, warnings, err := Decompose(e.Returns(), e.portfolio.Weights())
	for _, w := range warnings {
		e.log.Warn().Str("ticker", w.Ticker).Msg(w.Message)
	}
	return report, warnings, err
}

// CAGR computes the growth of each ticker over the last since years.
func (e *Engine) CAGR(since int) (CAGRReport, error) {
	return CAGR(e.prices, since)
}

// Frontier samples random portfolios of the engine tickers. The sampler logs
// through the engine logger.
func (e *Engine) Frontier(ctx context.Context, s Sampler) ([]FrontierSample, error) {
	s.Log = e.log.With().Str("component", "frontier").Logger()
	return s.Sample(ctx, e.LogReturns())
}

// Summary gathers the portfolio level figures of an Engine.
type Summary struct {
	Window          date.Range
	Portfolio       Portfolio
	AnnualReturns   []float64 // in portfolio order
	PortfolioReturn float64
	Risk            RiskReport
	Warnings        []Warning
}

// Summary computes the annual returns and the risk decomposition at once.
func (e *Engine) Summary() (Summary, error) {
	risk, warnings, err := e.Risk()
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Window:          e.window,
		Portfolio:       e.portfolio,
		AnnualReturns:   e.AnnualReturns(),
		PortfolioReturn: e.PortfolioReturn(),
		Risk:            risk,
		Warnings:        warnings,
	}, nil
}
