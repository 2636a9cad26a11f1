// Package stockstats computes return and risk statistics for portfolios of
// listed equities from locally stored daily adjusted closing prices.
//
// The core functionalities include:
//   - Price storage: reading and writing per-ticker daily price histories
//     through the PriceStore family of interfaces (CSV files, SQLite or memory).
//   - Returns: simple and logarithmic daily returns, annualized over
//     TradingDaysPerYear trading days.
//   - Risk: decomposition of portfolio variance into its undiversifiable and
//     diversifiable parts.
//   - CAGR: compound annual growth rate over a trailing number of years, with
//     a volatility-adjusted score.
//   - Efficient frontier: Monte Carlo sampling of random long-only weightings.
//
// The Engine ties these together for a weighted list of tickers, and is the
// entry point used by the `pstats` command-line tool.
package stockstats
