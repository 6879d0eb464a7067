package format

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Dollars renders cents as whole dollars with thousands separators, the way
// limits read on a declarations page ("$100,000").
func Dollars(cents int64) string {
	d := int64(math.Round(float64(cents) / 100))
	return "$" + humanize.Comma(d)
}

// Currency renders cents with a two-digit fraction ("$43.50"), used for the
// few coverages quoted in sub-dollar amounts.
func Currency(cents int64) string {
	d := cents / 100
	r := cents % 100
	if r < 0 {
		r = -r
	}
	return fmt.Sprintf("$%s.%02d", humanize.Comma(d), r)
}
