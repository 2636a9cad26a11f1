package date

import "fmt"

// Range represents a range of dates, boundaries included.
//
// A zero From or To leaves that side of the range open.
type Range struct{ From, To Date }

// NewRange returns the range [from, to].
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// All is the range without bounds.
var All = Range{}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// IsOpen reports whether the range has no bound at all.
func (r Range) IsOpen() bool { return r.From.IsZero() && r.To.IsZero() }

// Validate returns an error if both bounds are set and From is after To.
func (r Range) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return fmt.Errorf("invalid range: %s is after %s", r.From, r.To)
	}
	return nil
}

func (r Range) String() string {
	from, to := "...", "..."
	if !r.From.IsZero() {
		from = r.From.String()
	}
	if !r.To.IsZero() {
		to = r.To.String()
	}
	return fmt.Sprintf("[%s, %s]", from, to)
}
