package contracts

import (
	"strings"
	"time"
)

// Market identifies where an instrument trades.
type Market string

const (
	MarketDomestic Market = "domestic"
	MarketForeign  Market = "foreign"
)

// AssetClass identifies which universe an instrument belongs to.
type AssetClass string

const (
	ClassAcoes      AssetClass = "acoes"
	ClassFIIs       AssetClass = "fiis"
	ClassETFs       AssetClass = "etfs"
	ClassRendaFixa  AssetClass = "rendafixa"
)

// Instrument is a single row of the screening universe. Identity is the
// ticker; every numeric attribute is optional. A nil pointer means the
// upstream source did not supply the value, which is not the same thing as
// zero. Filters branch on availability, never on a sentinel.
//
// JSON tags match the column names the data layer and frontend already use.
type Instrument struct {
	Ticker string `json:"ticker"`
	Market Market `json:"market"`

	// Categorical attributes; empty string means unavailable.
	Setor    string `json:"setor,omitempty"`
	Segmento string `json:"segmento,omitempty"`

	// Quotes and size
	Price              *float64 `json:"price,omitempty"`
	ValorMercado       *float64 `json:"valor_mercado,omitempty"`
	PatrimonioLiquido  *float64 `json:"patrimonio_liquido,omitempty"`
	Liquidez           *float64 `json:"liquidezmediadiaria,omitempty"`

	// Valuation
	PL       *float64 `json:"pl,omitempty"`
	PVP      *float64 `json:"pvp,omitempty"`
	LPA      *float64 `json:"lpa,omitempty"`
	VPA      *float64 `json:"vpa,omitempty"`
	EVEBIT   *float64 `json:"ev_ebit,omitempty"`
	EVEBITDA *float64 `json:"ev_ebitda,omitempty"`

	// Profitability
	ROE           *float64 `json:"roe,omitempty"`
	ROIC          *float64 `json:"roic,omitempty"`
	ROA           *float64 `json:"roa,omitempty"`
	MargemLiquida *float64 `json:"margem_liquida,omitempty"`

	// Income
	DY     *float64 `json:"dy,omitempty"`
	Payout *float64 `json:"payout,omitempty"`

	// Leverage
	DivPat       *float64 `json:"div_pat,omitempty"`
	DivLiqEBITDA *float64 `json:"div_liq_ebitda,omitempty"`
	DivLiqPat    *float64 `json:"div_liq_patri,omitempty"`

	// Growth and momentum
	CAGRLucros  *float64 `json:"cagr_lucros,omitempty"`
	Retorno12M  *float64 `json:"retorno_12m,omitempty"`
	QuedaMaximo *float64 `json:"queda_do_maximo,omitempty"`

	// Funds
	TaxaAdmin    *float64 `json:"taxa_admin,omitempty"`
	Volatilidade *float64 `json:"volatilidade,omitempty"`
	Vacancia     *float64 `json:"vacancia,omitempty"`
	QtdImoveis   *float64 `json:"qtd_imoveis,omitempty"`
}

// NormalizeTicker uppercases and strips exchange suffixes so the identity
// field is stable across data sources ("petr4.sa" -> "PETR4").
func NormalizeTicker(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	return strings.TrimSuffix(t, ".SA")
}

// Float is a convenience for building sparse instruments in tests and
// scrapers.
func Float(v float64) *float64 {
	return &v
}

// Snapshot is an immutable, versioned view of one asset-class universe.
// The ingestion layer builds it, the engine only reads it; concurrent
// strategy runs over the same snapshot need no locking.
type Snapshot struct {
	Class       AssetClass   `json:"class"`
	Version     time.Time    `json:"version"`
	Instruments []Instrument `json:"instruments"`
}

// Count returns the number of instruments in the snapshot
func (s *Snapshot) Count() int {
	return len(s.Instruments)
}

// Find returns the instrument with the given ticker, if present.
func (s *Snapshot) Find(ticker string) (Instrument, bool) {
	want := NormalizeTicker(ticker)
	for _, inst := range s.Instruments {
		if inst.Ticker == want {
			return inst, true
		}
	}
	return Instrument{}, false
}
