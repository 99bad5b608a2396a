// Package strategies hosts the named investment models and the dispatcher
// that resolves them by identifier. Every model is a pure function over a
// working copy of a universe snapshot: filter, derive, rank, caveat. The
// registry is closed at construction time; there is no runtime growth.
package strategies

import (
	"sort"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/engine"
)

// modelFunc runs one strategy over a working copy of the universe. minLiq is
// only consulted by models that fold liquidity into the score itself; the
// formula models leave liquidity to the dispatcher's post-hoc filter.
type modelFunc func(universe []contracts.Instrument, minLiq float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string)

// modelEntry pairs a model with its dispatch policy. postLiquidity marks the
// formula models whose results still need the dispatcher-side liquidity cut.
type modelEntry struct {
	fn            modelFunc
	postLiquidity bool
}

// wrap turns instruments into independent result rows.
func wrap(universe []contracts.Instrument) []contracts.RankedEntry {
	entries := make([]contracts.RankedEntry, 0, len(universe))
	for _, inst := range universe {
		entries = append(entries, contracts.NewEntry(inst))
	}
	return entries
}

// sortByDerived orders entries on a derived field. Entries missing the field
// always go last, whatever the direction.
func sortByDerived(entries []contracts.RankedEntry, key string, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		vi, oki := entries[i].Get(key)
		vj, okj := entries[j].Get(key)
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		if ascending {
			return vi < vj
		}
		return vi > vj
	})
}

// sortByColumn is sortByDerived for raw instrument attributes.
func sortByColumn(entries []contracts.RankedEntry, column string, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		vi, oki := engine.Value(entries[i].Instrument, column)
		vj, okj := engine.Value(entries[j].Instrument, column)
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		if ascending {
			return vi < vj
		}
		return vi > vj
	})
}
