package strategies

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/params"
	"github.com/crivelaro/garimpo/pkg/config"
	"github.com/crivelaro/garimpo/pkg/logger"
)

func testEngine() *Engine {
	log := logger.New(&config.Config{Env: "test", LogLevel: "error"})
	return NewEngine(params.Default(), log)
}

func snapshot(class contracts.AssetClass, instruments ...contracts.Instrument) *contracts.Snapshot {
	return &contracts.Snapshot{
		Class:       class,
		Version:     time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC),
		Instruments: instruments,
	}
}

func TestApplyUnknownStrategyReturnsHeadWithCaveat(t *testing.T) {
	e := testEngine()

	instruments := make([]contracts.Instrument, 50)
	for i := range instruments {
		instruments[i] = contracts.Instrument{Ticker: fmt.Sprintf("TST%d", i)}
	}
	snap := snapshot(contracts.ClassAcoes, instruments...)

	res := e.Apply(snap, "xyz", Options{TopN: 10})

	require.Len(t, res.Ranking, 10)
	// Input order preserved, no reordering on the degraded path
	assert.Equal(t, "TST0", res.Ranking[0].Ticker)
	assert.Equal(t, "TST9", res.Ranking[9].Ticker)
	assert.Equal(t, []string{"Modelo 'xyz' não encontrado."}, res.Caveats)
}

func TestApplyFaultingModelYieldsEmptyResultWithCaveat(t *testing.T) {
	e := testEngine()
	boom := modelEntry{fn: func([]contracts.Instrument, float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
		panic("bad data shape")
	}}

	ranked, scoreCol, caveats := e.run(contracts.ClassAcoes, "boom", boom, nil, 0)

	assert.Empty(t, ranked)
	assert.Equal(t, contracts.ScoreColumn{}, scoreCol)
	require.Len(t, caveats, 1)
	assert.Equal(t, "Erro ao executar modelo: bad data shape", caveats[0])
}

func TestApplyScreensHighRiskByDefault(t *testing.T) {
	e := testEngine()
	snap := snapshot(contracts.ClassAcoes,
		contracts.Instrument{
			Ticker: "OIBR3",
			DY:     contracts.Float(0.12),
			Price:  contracts.Float(1),
		},
		contracts.Instrument{
			Ticker: "TAEE11",
			DY:     contracts.Float(0.10),
			Price:  contracts.Float(35),
		},
	)

	res := e.Apply(snap, "dividendos", Options{})
	require.Equal(t, 1, res.TotalCount)
	assert.Equal(t, "TAEE11", res.Ranking[0].Ticker)

	res = e.Apply(snap, "dividendos", Options{ShowHighRisk: true})
	assert.Equal(t, 2, res.TotalCount)
}

func TestApplyReportsScreenedHighRiskCount(t *testing.T) {
	e := testEngine()
	snap := snapshot(contracts.ClassAcoes,
		contracts.Instrument{Ticker: "OIBR3", DY: contracts.Float(0.12), Price: contracts.Float(1)},
		contracts.Instrument{Ticker: "GOLL4", DY: contracts.Float(0.11), Price: contracts.Float(2)},
		contracts.Instrument{Ticker: "TAEE11", DY: contracts.Float(0.10), Price: contracts.Float(35)},
	)

	res := e.Apply(snap, "dividendos", Options{})
	assert.Contains(t, res.Caveats, "2 ativo(s) de alto risco ocultado(s). Use 'Mostrar alto risco' para incluir.")

	res = e.Apply(snap, "dividendos", Options{ShowHighRisk: true})
	for _, c := range res.Caveats {
		assert.NotContains(t, c, "alto risco")
	}
}

func TestApplyBackfillsROEPerRow(t *testing.T) {
	e := testEngine()
	snap := snapshot(contracts.ClassAcoes,
		contracts.Instrument{Ticker: "HASROE", ROE: contracts.Float(0.10), Price: contracts.Float(20)},
		// No reported ROE, but LPA/VPA imply 40%.
		contracts.Instrument{Ticker: "NOROE", LPA: contracts.Float(4), VPA: contracts.Float(10), Price: contracts.Float(12)},
	)

	res := e.Apply(snap, "rentabilidade", Options{})

	require.Equal(t, 2, res.TotalCount)
	assert.Equal(t, "NOROE", res.Ranking[0].Ticker)
	assert.Equal(t, "HASROE", res.Ranking[1].Ticker)
}

func TestApplyDropsPricelessStockRows(t *testing.T) {
	e := testEngine()
	snap := snapshot(contracts.ClassAcoes,
		contracts.Instrument{Ticker: "PRICED", PL: contracts.Float(8), PVP: contracts.Float(1.2), Price: contracts.Float(16)},
		contracts.Instrument{Ticker: "NOPX3", PL: contracts.Float(5), PVP: contracts.Float(0.9)},
		contracts.Instrument{Ticker: "ZERO3", PL: contracts.Float(5), PVP: contracts.Float(0.9), Price: contracts.Float(0)},
	)

	res := e.Apply(snap, "graham_rank", Options{})

	require.Equal(t, 1, res.TotalCount)
	assert.Equal(t, "PRICED", res.Ranking[0].Ticker)
}

func TestApplyPostLiquidityFilterOnFormulaModels(t *testing.T) {
	e := testEngine()
	liquid := contracts.Instrument{
		Ticker:   "LIQD3",
		DY:       contracts.Float(0.10),
		Price:    contracts.Float(10),
		Liquidez: contracts.Float(2_000_000),
	}
	illiquid := contracts.Instrument{
		Ticker:   "ILIQ3",
		DY:       contracts.Float(0.12),
		Price:    contracts.Float(10),
		Liquidez: contracts.Float(100),
	}
	snap := snapshot(contracts.ClassAcoes, liquid, illiquid)

	res := e.Apply(snap, "dividendos", Options{MinLiquidity: 500_000})
	require.Equal(t, 1, res.TotalCount)
	assert.Equal(t, "LIQD3", res.Ranking[0].Ticker)

	// Presets keep illiquid names, demoted by the penalty instead.
	res = e.Apply(snap, "dividendos_rank", Options{MinLiquidity: 500_000})
	require.Equal(t, 2, res.TotalCount)
	assert.Equal(t, "LIQD3", res.Ranking[0].Ticker)
	assert.Equal(t, "ILIQ3", res.Ranking[1].Ticker)
}

func TestApplyDoesNotMutateSnapshot(t *testing.T) {
	e := testEngine()
	snap := snapshot(contracts.ClassAcoes, contracts.Instrument{
		Ticker: "WEGE3",
		LPA:    contracts.Float(2),
		VPA:    contracts.Float(8),
		Price:  contracts.Float(40),
	})

	_ = e.Apply(snap, "rentabilidade", Options{})

	// ROE backfill happens on the working copy only
	assert.Nil(t, snap.Instruments[0].ROE)
}

func TestApplyIsIdempotent(t *testing.T) {
	e := testEngine()
	snap := snapshot(contracts.ClassAcoes,
		contracts.Instrument{Ticker: "AAA3", PL: contracts.Float(8), PVP: contracts.Float(1.2), LPA: contracts.Float(2), VPA: contracts.Float(10), Price: contracts.Float(16)},
		contracts.Instrument{Ticker: "BBB3", PL: contracts.Float(5), PVP: contracts.Float(0.9), LPA: contracts.Float(3), VPA: contracts.Float(15), Price: contracts.Float(15)},
	)

	first := e.Apply(snap, "graham", Options{})
	second := e.Apply(snap, "graham", Options{})

	assert.Equal(t, first, second)
}

func TestStrategiesCatalog(t *testing.T) {
	e := testEngine()
	catalog := e.Strategies()

	assert.Len(t, catalog[contracts.ClassAcoes], 17) // 9 formula models + 8 presets
	assert.Len(t, catalog[contracts.ClassFIIs], 5)
	assert.Len(t, catalog[contracts.ClassETFs], 4)

	assert.True(t, e.Has(contracts.ClassAcoes, "graham"))
	assert.True(t, e.Has(contracts.ClassAcoes, "graham_rank"))
	assert.False(t, e.Has(contracts.ClassFIIs, "graham"))
}
