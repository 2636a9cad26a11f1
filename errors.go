package stockstats

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports invalid inputs such as mismatched tickers and
	// weights, an empty ticker list or a non positive look-back.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrTickerNotFound reports that a store holds no data for a ticker.
	ErrTickerNotFound = errors.New("ticker not found")
	// ErrDataUnavailable reports that prices could not be obtained, either
	// from the local store or from a remote source.
	ErrDataUnavailable = errors.New("price data unavailable")
	// ErrInsufficientHistory reports that a ticker has fewer valid prices than
	// a computation needs.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrUnknownIndex reports an index name that no catalog knows about.
	ErrUnknownIndex = errors.New("unknown index")
	// ErrInvalidPrice reports a price that is not finite and strictly positive.
	ErrInvalidPrice = errors.New("invalid price")
)

// InsufficientHistoryError details an ErrInsufficientHistory failure.
type InsufficientHistoryError struct {
	Ticker   string
	Since    int // requested look-back in years
	Rows     int // number of valid prices available
	Required int // number of valid prices needed
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("%s: %v for %d years: %d valid prices, need %d", e.Ticker, ErrInsufficientHistory, e.Since, e.Rows, e.Required)
}

func (e *InsufficientHistoryError) Unwrap() error { return ErrInsufficientHistory }

// configErrorf returns an error wrapping ErrConfiguration.
func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// dataUnavailablef returns an error wrapping ErrDataUnavailable.
func dataUnavailablef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataUnavailable, fmt.Sprintf(format, args...))
}
