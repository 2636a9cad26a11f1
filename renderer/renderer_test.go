package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/date"
	"github.com/etnz/stockstats/gann"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// tables parses md and returns, for each table, its number of body rows.
func tables(t *testing.T, md string) []int {
	t.Helper()
	src := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))

	var rows []int
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.Table:
			rows = append(rows, 0)
		case *east.TableRow:
			rows[len(rows)-1]++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return rows
}

func TestRenderCompanies(t *testing.T) {
	got := RenderCompanies(&Companies{
		Title: "Nifty50",
		Companies: []stockstats.Company{
			{Symbol: "INFY", Name: "Infosys Ltd.", Sector: "Information Technology"},
			{Symbol: "SBIN", Name: "State Bank of India", Sector: "Financial Services"},
		},
	})
	want := "# Nifty50\n\n" +
		"| Symbol | Company | Sector |\n" +
		"|:---|:---|:---|\n" +
		"| INFY | Infosys Ltd. | Information Technology |\n" +
		"| SBIN | State Bank of India | Financial Services |\n"
	assert.Equal(t, want, got)
	assert.Equal(t, []int{2}, tables(t, got))
}

func TestRenderCAGR(t *testing.T) {
	report := stockstats.CAGRReport{
		{Ticker: "^NSEI", CAGR: 0.12, StdDev: 0.2, RiskAdjusted: 0.096, First: 5000, Last: 15734.5},
		{Ticker: "INFY", CAGR: 0.2, StdDev: 0.3, RiskAdjusted: 0.14, First: 400, Last: 1200},
	}
	err := errors.Join(&stockstats.InsufficientHistoryError{Ticker: "NEWCO", Since: 10, Rows: 800, Required: 2500})
	companies := map[string]stockstats.Company{
		"^NSEI": {Symbol: "^NSEI", Name: "Nifty50", Sector: "Index"},
		"INFY":  {Symbol: "INFY", Name: "Infosys Ltd.", Sector: "Information Technology"},
		"NEWCO": {Symbol: "NEWCO", Name: "New Co", Sector: "Services"},
	}

	v := NewCAGRReport("Nifty50", 10, "run-1", []string{"^NSEI", "INFY", "NEWCO", "GONE"}, companies, report, err)
	require.Len(t, v.Rows, 4)
	assert.True(t, v.Rows[0].Computed)
	assert.False(t, v.Rows[2].Computed)
	assert.Equal(t, "800 of 2500 prices", v.Rows[2].Err)
	assert.Equal(t, "n/a", v.Rows[3].Err)

	got := RenderCAGR(v)
	assert.Equal(t, []int{4}, tables(t, got))
	assert.Contains(t, got, "# Nifty50")
	assert.Contains(t, got, "2500 trading days")
	assert.Contains(t, got, "Run `run-1`.")
	assert.Contains(t, got, "| ^NSEI | Nifty50 | Index |")
	assert.Contains(t, got, "15,734.50")
	assert.Contains(t, got, "| 12.00% | 20.00% | 9.60% |")
	assert.Contains(t, got, "| NEWCO | New Co | Services | - | 800 of 2500 prices | | |")
}

func TestRenderSummary(t *testing.T) {
	s := stockstats.Summary{
		Window: date.NewRange(date.New(2020, 1, 1), date.New(2020, 12, 31)),
		Portfolio: stockstats.Portfolio{
			{Ticker: "INFY", Weight: 0.6},
			{Ticker: "SBIN", Weight: 0.4},
		},
		AnnualReturns:   []float64{0.25, math.NaN()},
		PortfolioReturn: 0.15,
		Risk:            stockstats.RiskReport{Variance: 0.04, Volatility: 0.2, Undiversifiable: 0.03, Diversifiable: 0.01},
		Warnings:        []stockstats.Warning{{Ticker: "SBIN", Message: "empty return series"}},
	}
	v := NewSummary(s, 248)
	assert.True(t, v.Rows[0].HasReturn)
	assert.False(t, v.Rows[1].HasReturn)
	assert.InDelta(t, 1.0, v.TotalWeight, 1e-12)

	got := RenderSummary(v)
	assert.Equal(t, []int{3, 4}, tables(t, got))
	assert.Contains(t, got, "248 trading days")
	assert.Contains(t, got, "| INFY | 60.00% | +25.00% |")
	assert.Contains(t, got, "| SBIN | 40.00% | - |")
	assert.Contains(t, got, "**+15.00%**")
	assert.Contains(t, got, "| Variance | 0.040000 |")
	assert.Contains(t, got, "| Volatility | 20.00% |")
	assert.Contains(t, got, "- SBIN: empty return series")
}

func TestRenderSummaryWithoutWarnings(t *testing.T) {
	got := RenderSummary(&Summary{Window: "2020-01-01..2020-12-31"})
	assert.NotContains(t, got, "Warnings")
	assert.NotContains(t, got, "error")
}

func TestRenderFrontier(t *testing.T) {
	samples := []stockstats.FrontierSample{
		{ID: 1, Weights: []float64{0.5, 0.5}, Return: 0.10, Volatility: 0.20},
		{ID: 2, Weights: []float64{0.9, 0.1}, Return: 0.30, Volatility: 0.50},
		{ID: 3, Weights: []float64{0.2, 0.8}, Return: 0.08, Volatility: 0.10},
	}
	v := NewFrontier([]string{"INFY", "SBIN"}, samples)
	require.Len(t, v.Picks, 3)
	assert.Equal(t, 3, v.Picks[0].Sample.ID)
	assert.Equal(t, 2, v.Picks[1].Sample.ID)
	assert.Equal(t, 3, v.Picks[2].Sample.ID)

	got := RenderFrontier(v)
	assert.Equal(t, []int{3}, tables(t, got))
	assert.Contains(t, got, "3 random portfolios of INFY, SBIN.")
	assert.Contains(t, got, "| Maximum Return | 2 | +30.00% | 50.00% | 90.00% | 10.00% |")
}

func TestRenderFrontierEmpty(t *testing.T) {
	v := NewFrontier([]string{"INFY"}, nil)
	assert.Empty(t, v.Picks)
	assert.Equal(t, []int{0}, tables(t, RenderFrontier(v)))
}

func TestRenderGann(t *testing.T) {
	p := gann.Projection{
		Ticker: "SBIN",
		Extremes: gann.Extremes{
			Low: 80, LowDate: date.New(2024, 1, 3),
			High: 120, HighDate: date.New(2024, 1, 2),
			CalendarDays: 2, TradingDays: 2,
		},
		Dates: []date.Date{date.New(2024, 1, 14), date.New(2024, 2, 1)},
	}
	empty := gann.Projection{Ticker: "INFY"}

	got := RenderGann([]gann.Projection{p, empty})
	assert.Equal(t, []int{1, 1}, tables(t, got))
	assert.Contains(t, got, "## SBIN")
	assert.Contains(t, got, "| 2024-01-03 |")
	assert.Contains(t, got, "Reversal dates: 2024-01-14, 2024-02-01.")
	assert.Contains(t, got, "No reversal date within the coming cycles.")
}

func TestPrice(t *testing.T) {
	assert.Contains(t, price(1234.567), "1,234.57")
	assert.Equal(t, "-", price(math.NaN()))
	assert.Equal(t, "-", percent(math.Inf(1)))
	assert.Equal(t, "-", signed(0))
}
