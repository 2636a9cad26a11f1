package stockstats

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultFrontierPoints is the number of portfolios a Sampler draws when
// Points is not set.
const DefaultFrontierPoints = 1000

// FrontierSample is one randomly weighted portfolio.
type FrontierSample struct {
	// ID numbers samples from 1 in drawing order.
	ID int
	// Weights are non negative and sum to one, in ticker order.
	Weights []float64
	// Return is the annualized mean log return w·μ.
	Return float64
	// Volatility is sqrt(w' Σ w) over annualized log return covariance.
	Volatility float64
}

// EncodeWeights formats the weights as percentages with two decimals joined
// by "|", e.g. "33.33|50.00|16.67".
func (s FrontierSample) EncodeWeights() string {
	parts := make([]string, len(s.Weights))
	for i, w := range s.Weights {
		parts[i] = decimal.NewFromFloat(w * 100).StringFixed(2)
	}
	return strings.Join(parts, "|")
}

// NewSource returns a deterministic random source for seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}

// Sampler draws random long-only portfolios over a set of log returns.
type Sampler struct {
	// Source feeds the weight draws. When nil, a source seeded from the clock
	// is used and the seed is logged.
	Source rand.Source
	// Points is the number of samples, DefaultFrontierPoints when not positive.
	Points int
	// Workers bounds how many samples are evaluated concurrently. Weights are
	// always drawn sequentially so results only depend on Source.
	Workers int
	Log     zerolog.Logger
}

// Sample draws the portfolios for logReturns.
//
// Every ticker must have at least one valid log return.
func (s Sampler) Sample(ctx context.Context, logReturns *ReturnTable) ([]FrontierSample, error) {
	n := len(logReturns.columns)
	if n == 0 {
		return nil, configErrorf("no ticker to sample")
	}
	mu := make([]float64, n)
	for j, ticker := range logReturns.tickers {
		xs := logReturns.Valid(j)
		if len(xs) == 0 {
			return nil, dataUnavailablef("%s has no log return in the window", ticker)
		}
		mu[j] = stat.Mean(xs, nil) * TradingDaysPerYear
	}
	cov := AnnualizedCovariance(logReturns)

	points := s.Points
	if points <= 0 {
		points = DefaultFrontierPoints
	}
	src := s.Source
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		s.Log.Info().Uint64("seed", seed).Msg("frontier source seeded from clock")
		src = NewSource(seed)
	}

	uniform := distuv.Uniform{Min: 0, Max: 1, Src: src}
	samples := make([]FrontierSample, points)
	for k := range samples {
		samples[k] = FrontierSample{ID: k + 1, Weights: randomWeights(uniform, n)}
	}

	g, ctx := errgroup.WithContext(ctx)
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	} else {
		g.SetLimit(1)
	}
	mean := mat.NewVecDense(n, mu)
	for k := range samples {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w := mat.NewVecDense(n, samples[k].Weights)
			samples[k].Return = mat.Dot(w, mean)
			samples[k].Volatility = math.Sqrt(math.Max(mat.Inner(w, cov, w), 0))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.Log.Debug().Int("points", points).Int("tickers", n).Msg("frontier sampled")
	return samples, nil
}

// randomWeights draws n uniform values and normalizes them to sum to one.
func randomWeights(u distuv.Uniform, n int) []float64 {
	w := make([]float64, n)
	for {
		var sum float64
		for i := range w {
			w[i] = u.Rand()
			sum += w[i]
		}
		if sum == 0 {
			continue
		}
		for i := range w {
			w[i] /= sum
		}
		return w
	}
}
