package engine

import (
	"sort"

	"github.com/crivelaro/garimpo/internal/contracts"
)

// Derived-field keys written by the scorer.
const (
	ScoreKey   = "_score"
	rankPrefix = "_rank_"
)

// tiebreakDivisor spreads equal rank sums by their own rank so that the
// final order is a total one without disturbing the integer-rank magnitudes.
const tiebreakDivisor = 10000.0

// Criterion is one column of a composite ranking. LowerBetter columns are
// folded through the reciprocal so that "bigger transformed value = better"
// holds for every criterion uniformly; non-positive values of a LowerBetter
// column carry no ordering information and are treated as missing.
type Criterion struct {
	Column      string
	LowerBetter bool
}

// ScoreOptions controls the cross-cutting liquidity penalty. A zero
// MinLiquidity disables it.
type ScoreOptions struct {
	MinLiquidity float64
	Penalty      float64
}

// Score ranks the entries on the sum of their per-criterion ranks, lowest
// sum first. Each criterion is ranked independently, ties share the best
// (minimum) rank, and instruments missing a value all share the rank just
// below the worst present one, so absence is never rewarded.
//
// Criteria that no instrument carries are skipped and reported back; the
// caller decides whether that deserves a caveat. Entries are mutated in
// place (rank and score derived fields) and reordered.
func Score(entries []contracts.RankedEntry, criteria []Criterion, opts ScoreOptions) ([]contracts.RankedEntry, []string) {
	var skipped []string
	scores := make([]float64, len(entries))

	for _, crit := range criteria {
		getter, ok := Column(crit.Column)
		if !ok {
			skipped = append(skipped, crit.Column)
			continue
		}

		values := make([]float64, len(entries))
		present := make([]bool, len(entries))
		nPresent := 0
		for i, e := range entries {
			v, ok := getter(e.Instrument)
			if !ok {
				continue
			}
			if crit.LowerBetter {
				if v <= 0 {
					continue
				}
				v = 1 / v
			}
			values[i] = v
			present[i] = true
			nPresent++
		}

		if nPresent == 0 {
			skipped = append(skipped, crit.Column)
			continue
		}

		ranks := rankDescending(values, present, nPresent)
		for i := range entries {
			r := ranks[i] + ranks[i]/tiebreakDivisor
			entries[i].Set(rankPrefix+crit.Column, r)
			scores[i] += r
		}
	}

	if opts.MinLiquidity > 0 {
		for i, e := range entries {
			liq := 0.0
			if v, ok := Value(e.Instrument, LiquidityColumn); ok {
				liq = v
			}
			if liq <= opts.MinLiquidity {
				scores[i] += opts.Penalty
			}
		}
	}

	for i := range entries {
		entries[i].Set(ScoreKey, scores[i])
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Derived[ScoreKey] < entries[j].Derived[ScoreKey]
	})
	return entries, skipped
}

// rankDescending assigns 1-based ranks with the highest value first. Tied
// values share the minimum rank of their group; missing values all take the
// rank one past the count of present values, which is the worst possible.
func rankDescending(values []float64, present []bool, nPresent int) []float64 {
	idx := make([]int, 0, nPresent)
	for i, ok := range present {
		if ok {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})

	ranks := make([]float64, len(values))
	for pos, i := range idx {
		if pos > 0 && values[i] == values[idx[pos-1]] {
			ranks[i] = ranks[idx[pos-1]]
		} else {
			ranks[i] = float64(pos + 1)
		}
	}

	missingRank := float64(nPresent + 1)
	for i, ok := range present {
		if !ok {
			ranks[i] = missingRank
		}
	}
	return ranks
}
