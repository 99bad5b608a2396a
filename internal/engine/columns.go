package engine

import "github.com/crivelaro/garimpo/internal/contracts"

// LiquidityColumn is the shared column the scorer penalty and the post-hoc
// liquidity filters key on.
const LiquidityColumn = "liquidezmediadiaria"

// Getter extracts one numeric attribute from an instrument. The boolean is
// the availability flag; a zero with ok=true is a real zero.
type Getter func(contracts.Instrument) (float64, bool)

func opt(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// getters maps the wire column names onto the sparse instrument fields.
// SSOT: every place that addresses an attribute by name goes through here.
var getters = map[string]Getter{
	"price":               func(i contracts.Instrument) (float64, bool) { return opt(i.Price) },
	"valor_mercado":       func(i contracts.Instrument) (float64, bool) { return opt(i.ValorMercado) },
	"patrimonio_liquido":  func(i contracts.Instrument) (float64, bool) { return opt(i.PatrimonioLiquido) },
	"liquidezmediadiaria": func(i contracts.Instrument) (float64, bool) { return opt(i.Liquidez) },
	"pl":                  func(i contracts.Instrument) (float64, bool) { return opt(i.PL) },
	"pvp":                 func(i contracts.Instrument) (float64, bool) { return opt(i.PVP) },
	"lpa":                 func(i contracts.Instrument) (float64, bool) { return opt(i.LPA) },
	"vpa":                 func(i contracts.Instrument) (float64, bool) { return opt(i.VPA) },
	"ev_ebit":             func(i contracts.Instrument) (float64, bool) { return opt(i.EVEBIT) },
	"ev_ebitda":           func(i contracts.Instrument) (float64, bool) { return opt(i.EVEBITDA) },
	"roe":                 func(i contracts.Instrument) (float64, bool) { return opt(i.ROE) },
	"roic":                func(i contracts.Instrument) (float64, bool) { return opt(i.ROIC) },
	"roa":                 func(i contracts.Instrument) (float64, bool) { return opt(i.ROA) },
	"margem_liquida":      func(i contracts.Instrument) (float64, bool) { return opt(i.MargemLiquida) },
	"dy":                  func(i contracts.Instrument) (float64, bool) { return opt(i.DY) },
	"payout":              func(i contracts.Instrument) (float64, bool) { return opt(i.Payout) },
	"div_pat":             func(i contracts.Instrument) (float64, bool) { return opt(i.DivPat) },
	"div_liq_ebitda":      func(i contracts.Instrument) (float64, bool) { return opt(i.DivLiqEBITDA) },
	"div_liq_patri":       func(i contracts.Instrument) (float64, bool) { return opt(i.DivLiqPat) },
	"cagr_lucros":         func(i contracts.Instrument) (float64, bool) { return opt(i.CAGRLucros) },
	"retorno_12m":         func(i contracts.Instrument) (float64, bool) { return opt(i.Retorno12M) },
	"queda_do_maximo":     func(i contracts.Instrument) (float64, bool) { return opt(i.QuedaMaximo) },
	"taxa_admin":          func(i contracts.Instrument) (float64, bool) { return opt(i.TaxaAdmin) },
	"volatilidade":        func(i contracts.Instrument) (float64, bool) { return opt(i.Volatilidade) },
	"vacancia":            func(i contracts.Instrument) (float64, bool) { return opt(i.Vacancia) },
	"qtd_imoveis":         func(i contracts.Instrument) (float64, bool) { return opt(i.QtdImoveis) },
}

// Column returns the getter for a column name.
func Column(name string) (Getter, bool) {
	g, ok := getters[name]
	return g, ok
}

// Value reads one attribute by column name.
func Value(inst contracts.Instrument, name string) (float64, bool) {
	g, ok := getters[name]
	if !ok {
		return 0, false
	}
	return g(inst)
}

// Available reports whether at least one instrument in the universe carries
// the column. Strategies use it to decide between the exact formulation and
// a documented proxy.
func Available(universe []contracts.Instrument, name string) bool {
	g, ok := getters[name]
	if !ok {
		return false
	}
	for _, inst := range universe {
		if _, present := g(inst); present {
			return true
		}
	}
	return false
}

// AvailableStr is the categorical twin of Available: true when any
// instrument has a non-empty value for the given string attribute.
func AvailableStr(universe []contracts.Instrument, get func(contracts.Instrument) string) bool {
	for _, inst := range universe {
		if get(inst) != "" {
			return true
		}
	}
	return false
}
