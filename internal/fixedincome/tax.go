package fixedincome

import "strings"

// WithholdingRate is the Brazilian regressive income-tax table for fixed
// income, keyed on days to maturity. Total over non-negative inputs.
func WithholdingRate(days int) float64 {
	switch {
	case days <= 180:
		return 0.225
	case days <= 360:
		return 0.20
	case days <= 720:
		return 0.175
	default:
		return 0.15
	}
}

var exemptTypes = map[string]bool{
	"LCI": true,
	"LCA": true,
	"CRI": true,
	"CRA": true,
}

// IsExempt reports whether a product type is income-tax exempt for
// individuals.
func IsExempt(productType string) bool {
	return exemptTypes[strings.ToUpper(productType)]
}

// GrossUp converts an exempt quoted rate to its pre-tax equivalent using
// the bracket of the given maturity. Taxed products compare at their quoted
// rate, so callers pass those through unchanged.
func GrossUp(rate float64, days int) float64 {
	bracket := WithholdingRate(days)
	if bracket >= 1 {
		return rate
	}
	return rate / (1 - bracket)
}
