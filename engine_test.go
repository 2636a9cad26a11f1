package stockstats

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/stockstats/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_Errors(t *testing.T) {
	store := memoryStore(t, map[string][]float64{"A": randomWalk(1, 10)})

	_, err := NewEngine(store, []string{"A"}, []float64{0.5, 0.5})
	assert.True(t, errors.Is(err, ErrConfiguration))

	_, err = NewEngine(store, []string{"A", "MISSING"}, []float64{0.5, 0.5})
	assert.True(t, errors.Is(err, ErrDataUnavailable))
	assert.True(t, errors.Is(err, ErrTickerNotFound))
	assert.ErrorContains(t, err, "MISSING")

	_, err = NewEngine(store, []string{"A"}, []float64{1}, WithRange(date.Range{From: origin.AddYears(5)}))
	assert.True(t, errors.Is(err, ErrDataUnavailable))

	_, err = NewEngine(store, []string{"A"}, []float64{1}, WithRange(date.NewRange(origin.Add(5), origin)))
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestEngine_WeightPolicy(t *testing.T) {
	store := memoryStore(t, map[string][]float64{"A": randomWalk(1, 10), "B": randomWalk(2, 10)})

	e, err := NewEngine(store, []string{"A", "B"}, nil, WithWeightPolicy(EqualWeightFallback))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, e.Portfolio().Weights())
}

func TestEngine_Window(t *testing.T) {
	store := memoryStore(t, map[string][]float64{"A": randomWalk(1, 100)})

	e, err := NewEngine(store, []string{"A"}, []float64{1}, WithRange(date.NewRange(origin.Add(10), origin.Add(19))))
	require.NoError(t, err)

	assert.Equal(t, 10, e.Prices().Len())
	assert.Equal(t, 9, e.Returns().Len())
	assert.Equal(t, 9, e.LogReturns().Len())
}

func TestEngine_TenYearScenario(t *testing.T) {
	store := memoryStore(t, map[string][]float64{
		"A": randomWalk(1, 2600),
		"B": randomWalk(2, 2600),
	})
	e, err := NewEngine(store, []string{"A", "B"}, []float64{0.5, 0.5})
	require.NoError(t, err)

	report, err := e.CAGR(10)
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "A", report[0].Ticker)
	assert.Equal(t, "B", report[1].Ticker)

	annual := e.AnnualReturns()
	assert.InDelta(t, 0.5*annual[0]+0.5*annual[1], e.PortfolioReturn(), 1e-12)

	summary, err := e.Summary()
	require.NoError(t, err)
	assert.InDelta(t, summary.Risk.Variance, summary.Risk.Diversifiable+summary.Risk.Undiversifiable, 1e-12)
	assert.Empty(t, summary.Warnings)
}

func TestEngine_SingleAsset(t *testing.T) {
	store := memoryStore(t, map[string][]float64{"A": randomWalk(3, 300)})
	e, err := NewEngine(store, []string{"A"}, []float64{1})
	require.NoError(t, err)

	risk, warnings, err := e.Risk()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.InDelta(t, risk.Variance, risk.Undiversifiable, 1e-15)
	assert.InDelta(t, 0, risk.Diversifiable, 1e-15)
}

func TestEngine_Frontier(t *testing.T) {
	store := memoryStore(t, map[string][]float64{
		"A": randomWalk(1, 300),
		"B": randomWalk(2, 300),
		"C": randomWalk(3, 300),
	})
	e, err := NewEngine(store, []string{"A", "B", "C"}, nil, WithWeightPolicy(EqualWeightFallback))
	require.NoError(t, err)

	samples, err := e.Frontier(context.Background(), Sampler{Source: NewSource(1), Points: 100})
	require.NoError(t, err)
	require.Len(t, samples, 100)
	for _, s := range samples {
		assert.Len(t, s.Weights, 3)
	}
}
