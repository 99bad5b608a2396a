package engine

import (
	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/params"
)

// RiskCheck screens instruments that are structurally distressed: tickers on
// the configured blacklist and companies whose debt dwarfs their equity. The
// screen is advisory; the dispatcher applies it by default but the caller
// can opt out.
type RiskCheck struct {
	p *params.Params
}

func NewRiskCheck(p *params.Params) *RiskCheck {
	return &RiskCheck{p: p}
}

// IsHighRisk reports whether the instrument trips the screen, and why.
func (r *RiskCheck) IsHighRisk(inst contracts.Instrument) (bool, string) {
	for _, t := range r.p.RiskyTickers {
		if inst.Ticker == t {
			return true, "blacklist"
		}
	}
	if inst.DivPat != nil && *inst.DivPat > r.p.HighRiskDebtEquity {
		return true, "debt/equity"
	}
	return false, ""
}

// Filter returns the instruments that pass the screen and how many were
// removed.
func (r *RiskCheck) Filter(universe []contracts.Instrument) ([]contracts.Instrument, int) {
	kept := make([]contracts.Instrument, 0, len(universe))
	for _, inst := range universe {
		if risky, _ := r.IsHighRisk(inst); risky {
			continue
		}
		kept = append(kept, inst)
	}
	return kept, len(universe) - len(kept)
}
