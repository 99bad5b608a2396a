package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crivelaro/garimpo/internal/contracts"
)

func entry(ticker string, set func(i *contracts.Instrument)) contracts.RankedEntry {
	inst := contracts.Instrument{Ticker: ticker}
	if set != nil {
		set(&inst)
	}
	return contracts.NewEntry(inst)
}

func TestScoreOrdersBySumOfRanks(t *testing.T) {
	entries := []contracts.RankedEntry{
		entry("MID3", func(i *contracts.Instrument) {
			i.DY = contracts.Float(8)
			i.ROE = contracts.Float(20)
		}),
		entry("TOP3", func(i *contracts.Instrument) {
			i.DY = contracts.Float(10)
			i.ROE = contracts.Float(30)
		}),
		entry("BOT3", func(i *contracts.Instrument) {
			i.ROE = contracts.Float(10) // no DY at all
		}),
	}
	criteria := []Criterion{{Column: "dy"}, {Column: "roe"}}

	ranked, skipped := Score(entries, criteria, ScoreOptions{})
	require.Empty(t, skipped)
	require.Len(t, ranked, 3)

	assert.Equal(t, "TOP3", ranked[0].Ticker)
	assert.Equal(t, "MID3", ranked[1].Ticker)
	assert.Equal(t, "BOT3", ranked[2].Ticker)

	// Ranks are 1-based plus the tiebreak fraction
	r, ok := ranked[0].Get("_rank_dy")
	require.True(t, ok)
	assert.InDelta(t, 1.0001, r, 1e-9)

	// Missing DY takes the worst-plus-one rank (2 present -> rank 3)
	r, ok = ranked[2].Get("_rank_dy")
	require.True(t, ok)
	assert.InDelta(t, 3.0003, r, 1e-9)

	score, ok := ranked[0].Get(ScoreKey)
	require.True(t, ok)
	assert.InDelta(t, 2.0002, score, 1e-9)
}

func TestScoreLowerBetterUsesReciprocal(t *testing.T) {
	entries := []contracts.RankedEntry{
		entry("CHEAP", func(i *contracts.Instrument) { i.PL = contracts.Float(5) }),
		entry("DEAR", func(i *contracts.Instrument) { i.PL = contracts.Float(10) }),
		entry("LOSS", func(i *contracts.Instrument) { i.PL = contracts.Float(-2) }),
	}

	ranked, skipped := Score(entries, []Criterion{{Column: "pl", LowerBetter: true}}, ScoreOptions{})
	require.Empty(t, skipped)

	// Lowest positive P/L wins; a negative P/L carries no ordering
	// information and ranks with the missing values at the bottom.
	assert.Equal(t, "CHEAP", ranked[0].Ticker)
	assert.Equal(t, "DEAR", ranked[1].Ticker)
	assert.Equal(t, "LOSS", ranked[2].Ticker)
}

func TestScoreTiesShareMinimumRank(t *testing.T) {
	entries := []contracts.RankedEntry{
		entry("AAA3", func(i *contracts.Instrument) { i.DY = contracts.Float(10) }),
		entry("BBB3", func(i *contracts.Instrument) { i.DY = contracts.Float(10) }),
		entry("CCC3", func(i *contracts.Instrument) { i.DY = contracts.Float(5) }),
	}

	ranked, _ := Score(entries, []Criterion{{Column: "dy"}}, ScoreOptions{})

	rA, _ := ranked[0].Get("_rank_dy")
	rB, _ := ranked[1].Get("_rank_dy")
	assert.Equal(t, rA, rB)
	assert.InDelta(t, 1.0001, rA, 1e-9)

	// The group after a 2-way tie starts at rank 3, not 2
	var rC float64
	for _, e := range ranked {
		if e.Ticker == "CCC3" {
			rC, _ = e.Get("_rank_dy")
		}
	}
	assert.InDelta(t, 3.0003, rC, 1e-9)
}

func TestScoreSkipsUnavailableCriteria(t *testing.T) {
	entries := []contracts.RankedEntry{
		entry("AAA3", func(i *contracts.Instrument) { i.DY = contracts.Float(10) }),
		entry("BBB3", func(i *contracts.Instrument) { i.DY = contracts.Float(5) }),
	}
	criteria := []Criterion{{Column: "dy"}, {Column: "cagr_lucros"}, {Column: "nope"}}

	ranked, skipped := Score(entries, criteria, ScoreOptions{})

	assert.Equal(t, []string{"cagr_lucros", "nope"}, skipped)

	// The skipped criteria contribute nothing to the score
	score, _ := ranked[0].Get(ScoreKey)
	assert.InDelta(t, 1.0001, score, 1e-9)
	_, ok := ranked[0].Get("_rank_cagr_lucros")
	assert.False(t, ok)
}

func TestScoreLiquidityPenaltyDominates(t *testing.T) {
	entries := []contracts.RankedEntry{
		entry("ILIQ3", func(i *contracts.Instrument) {
			i.DY = contracts.Float(15)
			i.Liquidez = contracts.Float(100)
		}),
		entry("LIQD3", func(i *contracts.Instrument) {
			i.DY = contracts.Float(5)
			i.Liquidez = contracts.Float(2_000_000)
		}),
		entry("NOLQ3", func(i *contracts.Instrument) {
			i.DY = contracts.Float(10) // missing liquidity counts as zero
		}),
	}
	opts := ScoreOptions{MinLiquidity: 500_000, Penalty: 1000}

	ranked, _ := Score(entries, []Criterion{{Column: "dy"}}, opts)

	// The liquid name wins despite the worst DY rank; both penalized names
	// sort after it and keep their relative DY order.
	assert.Equal(t, "LIQD3", ranked[0].Ticker)
	assert.Equal(t, "ILIQ3", ranked[1].Ticker)
	assert.Equal(t, "NOLQ3", ranked[2].Ticker)

	score, _ := ranked[1].Get(ScoreKey)
	assert.InDelta(t, 1001.0001, score, 1e-9)
}

func TestScoreIsDeterministic(t *testing.T) {
	build := func() []contracts.RankedEntry {
		return []contracts.RankedEntry{
			entry("AAA3", func(i *contracts.Instrument) { i.DY = contracts.Float(7); i.ROE = contracts.Float(12) }),
			entry("BBB3", func(i *contracts.Instrument) { i.DY = contracts.Float(7); i.ROE = contracts.Float(12) }),
			entry("CCC3", func(i *contracts.Instrument) { i.DY = contracts.Float(9); i.ROE = contracts.Float(8) }),
		}
	}
	criteria := []Criterion{{Column: "dy"}, {Column: "roe"}}

	first, _ := Score(build(), criteria, ScoreOptions{})
	second, _ := Score(build(), criteria, ScoreOptions{})

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Ticker, second[i].Ticker)
	}
}

func TestScoreEmptyUniverse(t *testing.T) {
	ranked, skipped := Score(nil, []Criterion{{Column: "dy"}}, ScoreOptions{})
	assert.Empty(t, ranked)
	assert.Equal(t, []string{"dy"}, skipped)
}
