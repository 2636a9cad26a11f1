package stockstats

import "fmt"

// Percent is a ratio expressed in percent, e.g. Percent(12.5) is 12.5%.
type Percent float64

// AsPercent converts a ratio such as 0.125 to a Percent.
func AsPercent(ratio float64) Percent { return Percent(ratio * 100) }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString always prints the sign, and "-" for zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
