package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/params"
)

func newFIILib() *fiiLib {
	return &fiiLib{p: params.Default()}
}

func fii(ticker string, dy, pvp, liq float64) contracts.Instrument {
	return contracts.Instrument{
		Ticker:   ticker,
		DY:       contracts.Float(dy),
		PVP:      contracts.Float(pvp),
		Liquidez: contracts.Float(liq),
	}
}

func TestRendaConstanteFiltersAndSorts(t *testing.T) {
	lib := newFIILib()
	universe := []contracts.Instrument{
		fii("GOOD11", 9.5, 0.95, 2e6),
		fii("ALSO11", 8.0, 1.05, 2e6),
		fii("PVPH11", 12.0, 1.40, 2e6), // P/VP outside the band
		fii("ILIQ11", 11.0, 0.90, 100_000),
	}

	ranked, scoreCol, caveats := lib.rendaConstante(universe, 0)

	require.Len(t, ranked, 2)
	assert.Equal(t, "GOOD11", ranked[0].Ticker)
	assert.Equal(t, "ALSO11", ranked[1].Ticker)
	assert.Equal(t, "_dy_display", scoreCol.Key)
	// No fund carries vacancy data, so that filter is skipped
	assert.Equal(t, []string{"Vacância Física não disponível — filtro omitido."}, caveats)
}

func TestRendaConstanteVacancyFilter(t *testing.T) {
	lib := newFIILib()
	empty := fii("VAGO11", 10, 0.95, 2e6)
	empty.Vacancia = contracts.Float(25) // 25%
	full := fii("CHEIO11", 9, 0.95, 2e6)
	full.Vacancia = contracts.Float(0.04)

	ranked, _, caveats := lib.rendaConstante([]contracts.Instrument{empty, full}, 0)

	require.Len(t, ranked, 1)
	assert.Equal(t, "CHEIO11", ranked[0].Ticker)
	assert.Empty(t, caveats)
}

func TestDescontoPatrimonial(t *testing.T) {
	lib := newFIILib()
	universe := []contracts.Instrument{
		fii("DESC11", 8.5, 0.70, 1e6),
		fii("MORE11", 7.0, 0.85, 1e6),
		fii("FAIR11", 9.0, 1.00, 1e6), // not discounted enough
		fii("LOWY11", 4.0, 0.70, 1e6), // yield too low
	}

	ranked, scoreCol, _ := lib.descontoPatrimonial(universe, 0)

	require.Len(t, ranked, 2)
	assert.Equal(t, "DESC11", ranked[0].Ticker) // lowest P/VP first
	assert.Equal(t, "pvp", scoreCol.Key)
}

func TestBazinFIIMarginOfSafety(t *testing.T) {
	lib := newFIILib()
	universe := []contracts.Instrument{
		// DY 12% at price 100: dividend 12, ceiling 12/0.08 = 150, margin +50%
		fii("KEEP11", 12, 0.9, 2e6),
		// DY 4%: ceiling 50, negative margin
		fii("DROP11", 4, 0.9, 2e6),
	}
	universe[0].Price = contracts.Float(100)
	universe[1].Price = contracts.Float(100)

	ranked, scoreCol, caveats := lib.bazinFII(universe, 0)

	require.Len(t, ranked, 1)
	assert.Equal(t, "KEEP11", ranked[0].Ticker)
	margem, _ := ranked[0].Get("_margem_seg")
	assert.InDelta(t, 50.0, margem, 1e-9)
	assert.Equal(t, "_margem_seg", scoreCol.Key)
	assert.Equal(t, []string{"Dividendo anual aproximado via DY atual × preço (sem histórico real)."}, caveats)
}

func TestMagicFIIDualRank(t *testing.T) {
	lib := newFIILib()
	universe := []contracts.Instrument{
		fii("BEST11", 11, 0.80, 1e6), // best on both criteria
		fii("MIDL11", 9, 0.95, 1e6),
		fii("WRST11", 7, 1.10, 1e6),
	}

	ranked, scoreCol, _ := lib.magicFII(universe, 0)

	require.Len(t, ranked, 3)
	assert.Equal(t, "BEST11", ranked[0].Ticker)
	assert.Equal(t, "WRST11", ranked[2].Ticker)
	assert.Equal(t, "_score", scoreCol.Key)

	score, _ := ranked[0].Get("_score")
	assert.InDelta(t, 2.0002, score, 1e-9)
}

func TestMagicFIINormalizesMixedYieldConventions(t *testing.T) {
	lib := newFIILib()
	universe := []contracts.Instrument{
		fii("FRAC11", 0.10, 0.90, 1e6), // 10% stored as fraction
		fii("PCTS11", 7, 0.90, 1e6),    // 7% stored as percent
	}

	ranked, _, _ := lib.magicFII(universe, 0)

	require.Len(t, ranked, 2)
	// 10% beats 7% regardless of upstream convention
	assert.Equal(t, "FRAC11", ranked[0].Ticker)
}

func TestQualidadePremium(t *testing.T) {
	lib := newFIILib()

	brick := fii("TIJO11", 8, 0.98, 1e6)
	brick.Segmento = "Lajes Corporativas"
	brick.QtdImoveis = contracts.Float(12)
	brick.Vacancia = contracts.Float(0.05)

	paper := fii("PAPL11", 13, 0.90, 1e6)
	paper.Segmento = "Papéis"
	paper.QtdImoveis = contracts.Float(0)
	paper.Vacancia = contracts.Float(0)

	few := fii("POUC11", 9, 0.90, 1e6)
	few.Segmento = "Shoppings"
	few.QtdImoveis = contracts.Float(2)
	few.Vacancia = contracts.Float(0.05)

	ranked, scoreCol, caveats := lib.qualidadePremium([]contracts.Instrument{brick, paper, few}, 0)

	require.Len(t, ranked, 1)
	assert.Equal(t, "TIJO11", ranked[0].Ticker)
	assert.Equal(t, "_dy_display", scoreCol.Key)
	assert.Empty(t, caveats)
}

func TestQualidadePremiumDegradesPerMissingColumn(t *testing.T) {
	lib := newFIILib()
	universe := []contracts.Instrument{fii("ANON11", 8, 0.98, 1e6)}

	ranked, _, caveats := lib.qualidadePremium(universe, 0)

	require.Len(t, ranked, 1)
	assert.Equal(t, []string{
		"Segmento não disponível — filtro de tipo de FII omitido.",
		"Qtd de Imóveis não disponível — filtro omitido.",
		"Vacância Física não disponível — filtro omitido.",
	}, caveats)
}
