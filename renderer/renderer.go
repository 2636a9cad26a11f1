// Package renderer turns statistics into markdown reports.
//
// Each report is a main template assembling a few partials, all embedded from
// the templates directory. Render functions never fail: errors are rendered
// in place of the report.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/etnz/stockstats"
	"github.com/etnz/stockstats/gann"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

// Currency of the prices rendered in reports.
const Currency = money.INR

// RenderCAGR renders the CAGR table of an index.
func RenderCAGR(r *CAGRReport) string {
	partials := map[string]string{
		"cagr_title": "cagr_title.md",
		"cagr_table": "cagr_table.md",
	}
	return renderTemplate("cagr", "cagr.md", partials, r)
}

// RenderSummary renders the returns and risk figures of a portfolio.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_title":   "summary_title.md",
		"summary_returns": "summary_returns.md",
		"summary_risk":    "summary_risk.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// RenderFrontier renders the remarkable portfolios of a frontier.
func RenderFrontier(f *Frontier) string {
	partials := map[string]string{
		"frontier_title": "frontier_title.md",
		"frontier_picks": "frontier_picks.md",
	}
	return renderTemplate("frontier", "frontier.md", partials, f)
}

// RenderGann renders the projected reversal dates.
func RenderGann(projections []gann.Projection) string {
	return renderTemplate("gann", "gann.md", nil, projections)
}

// RenderCompanies renders the constituents of an index.
func RenderCompanies(c *Companies) string {
	return renderTemplate("companies", "companies.md", nil, c)
}

var funcs = template.FuncMap{
	"percent": percent,
	"signed":  signed,
	"price":   price,
	"number":  number,
	"join":    strings.Join,
	"mul":     func(a, b int) int { return a * b },
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func percent(ratio float64) string {
	if !finite(ratio) {
		return "-"
	}
	return stockstats.AsPercent(ratio).String()
}

func signed(ratio float64) string {
	if !finite(ratio) {
		return "-"
	}
	return stockstats.AsPercent(ratio).SignedString()
}

// price formats v in Currency, rounded to the currency fraction.
func price(v float64) string {
	if !finite(v) {
		return "-"
	}
	cur := money.GetCurrency(Currency)
	amount := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return money.New(amount.IntPart(), Currency).Display()
}

func number(v float64) string {
	if !finite(v) {
		return "-"
	}
	return decimal.NewFromFloat(v).StringFixed(6)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
