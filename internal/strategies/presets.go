package strategies

import (
	"fmt"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/engine"
)

// The rank presets replicate the original screener spreadsheet one-to-one:
// no hard filters at all. An instrument with a bad or missing indicator is
// ranked badly, never removed, and illiquid names take the additive penalty
// instead of being cut. Criterion directions follow the spreadsheet
// dropdowns even where they look debatable (P/VP as "higher is better").
//
// Presets that share a name with a formula model carry a "_rank" suffix so
// both stay addressable from one registry.
var presetCriteria = map[string][]engine.Criterion{
	"magic": {
		{Column: "ev_ebit", LowerBetter: true},
		{Column: "roic"},
	},
	"magic_lucros": {
		{Column: "ev_ebit", LowerBetter: true},
		{Column: "roic"},
		{Column: "cagr_lucros"},
	},
	"baratas": {
		{Column: "queda_do_maximo"},
		{Column: "pl", LowerBetter: true},
		{Column: "pvp"},
	},
	"solidas": {
		{Column: "div_liq_patri", LowerBetter: true},
		{Column: "roe"},
		{Column: "cagr_lucros"},
	},
	"mix": {
		{Column: "pl", LowerBetter: true},
		{Column: "pvp"},
		{Column: "roe"},
		{Column: "roa"},
		{Column: "cagr_lucros"},
	},
	"dividendos_rank": {
		{Column: "dy"},
		{Column: "cagr_lucros"},
	},
	"graham_rank": {
		{Column: "pl", LowerBetter: true},
		{Column: "pvp"},
	},
	"greenblatt_rank": {
		{Column: "ev_ebit", LowerBetter: true},
		{Column: "roic"},
	},
}

// presetLib exposes the spreadsheet presets as ordinary registry models.
type presetLib struct {
	penalty float64
}

func (l *presetLib) models() map[string]modelEntry {
	out := make(map[string]modelEntry, len(presetCriteria))
	for name, criteria := range presetCriteria {
		out[name] = modelEntry{fn: l.rank(criteria)}
	}
	return out
}

func (l *presetLib) rank(criteria []engine.Criterion) modelFunc {
	return func(universe []contracts.Instrument, minLiq float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
		entries := wrap(universe)
		entries, skipped := engine.Score(entries, criteria, engine.ScoreOptions{
			MinLiquidity: minLiq,
			Penalty:      l.penalty,
		})

		var caveats []string
		for _, col := range skipped {
			caveats = append(caveats, fmt.Sprintf("Indicador sem dados úteis (tudo vazio/0): %s", col))
		}

		return entries, contracts.ScoreColumn{Key: engine.ScoreKey, Label: "Score (menor=melhor)", IsPercent: false}, caveats
	}
}
