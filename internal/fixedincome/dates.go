// Package fixedincome ranks fixed-income offers: date/maturity arithmetic,
// the regressive withholding-tax table, the gross-up equivalence conversion
// and the four offer models built on them.
package fixedincome

import "time"

// Maturity strings arrive from aggregators in a handful of formats; anything
// else resolves to zero days rather than failing the whole ranking.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
}

// ParseDate tries the known maturity formats in order.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysToMaturity returns whole days from now until the maturity date,
// clamped at zero. Unparseable or absent dates count as already matured.
func DaysToMaturity(maturity string, now time.Time) int {
	t, ok := ParseDate(maturity)
	if !ok {
		return 0
	}
	days := int(t.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
