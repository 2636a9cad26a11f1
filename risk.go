package stockstats

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// RiskReport decomposes the annualized variance of a weighted portfolio.
type RiskReport struct {
	// Variance is w' Σ w where Σ is the annualized covariance of daily returns.
	Variance float64
	// Volatility is the square root of Variance.
	Volatility float64
	// Undiversifiable is Σ w_i² σ_i², the part of Variance that remains when
	// assets are uncorrelated.
	Undiversifiable float64
	// Diversifiable is Variance - Undiversifiable, the contribution of
	// covariances between assets. It may be negative.
	Diversifiable float64
}

// Warning flags a ticker whose data was partly ignored by a computation.
type Warning struct {
	Ticker  string
	Message string
}

func (w Warning) String() string { return w.Ticker + ": " + w.Message }

// Decompose computes the RiskReport of returns weighted by weights.
//
// weights must have one entry per column of returns. A ticker with fewer than
// two valid returns contributes zero to every figure and is reported in the
// returned warnings.
func Decompose(returns *ReturnTable, weights []float64) (RiskReport, []Warning, error) {
	n := len(returns.columns)
	if n == 0 {
		return RiskReport{}, nil, configErrorf("no ticker to decompose")
	}
	if len(weights) != n {
		return RiskReport{}, nil, configErrorf("%d weights for %d tickers", len(weights), n)
	}

	var report RiskReport
	var warnings []Warning
	for j := range returns.columns {
		if len(returns.Valid(j)) < 2 {
			warnings = append(warnings, Warning{Ticker: returns.tickers[j], Message: "empty return series, risk contribution set to zero"})
		}
	}

	cov := AnnualizedCovariance(returns)
	w := mat.NewVecDense(n, weights)
	report.Variance = mat.Inner(w, cov, w)
	for i, wi := range weights {
		report.Undiversifiable += wi * wi * cov.At(i, i)
	}
	report.Diversifiable = report.Variance - report.Undiversifiable
	report.Volatility = math.Sqrt(math.Max(report.Variance, 0))
	return report, warnings, nil
}

// AnnualizedCovariance returns the covariance matrix of the daily returns
// scaled by TradingDaysPerYear.
//
// Each pair of columns is computed over the rows where both are valid. A pair
// with fewer than two such rows has zero covariance.
func AnnualizedCovariance(returns *ReturnTable) *mat.SymDense {
	n := len(returns.columns)
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			x, y := pairwise(returns.columns[i], returns.columns[j])
			if len(x) < 2 {
				continue
			}
			cov.SetSym(i, j, stat.Covariance(x, y, nil)*TradingDaysPerYear)
		}
	}
	return cov
}

// pairwise returns the values of a and b on the rows where both are valid.
func pairwise(a, b []float64) (x, y []float64) {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}
