package strategies

import (
	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/engine"
	"github.com/crivelaro/garimpo/internal/params"
)

// etfLib holds the four ETF models. ETF coverage from the upstream sources
// is patchy, so each model carries an explicit liquidity-sorted fallback.
type etfLib struct {
	p *params.Params
}

func (l *etfLib) models() map[string]modelEntry {
	return map[string]modelEntry{
		"boglehead": {fn: l.boglehead},
		"sharpe":    {fn: l.sharpe},
		"momentum":  {fn: l.momentum},
		"renda_etf": {fn: l.rendaETF},
	}
}

var liquidityScoreCol = contracts.ScoreColumn{Key: engine.LiquidityColumn, Label: "Liquidez Diária", IsPercent: false}

// filterNetAssets keeps funds above the net-asset floor, or the whole pool
// with a caveat when the attribute is absent.
func (l *etfLib) filterNetAssets(universe, pool []contracts.Instrument, caveats []string) ([]contracts.Instrument, []string) {
	if !engine.Available(universe, "patrimonio_liquido") {
		return pool, append(caveats, "Patrimônio Líquido não disponível — filtro PL > 50M omitido.")
	}
	kept := make([]contracts.Instrument, 0, len(pool))
	for _, inst := range pool {
		pl, ok := engine.Value(inst, "patrimonio_liquido")
		if ok && pl > l.p.ETFMinNetAssets {
			kept = append(kept, inst)
		}
	}
	return kept, caveats
}

// liquidityFallback wraps every instrument with positive liquidity, sorted
// most liquid first.
func liquidityFallback(pool []contracts.Instrument) []contracts.RankedEntry {
	var out []contracts.RankedEntry
	for _, inst := range pool {
		liq := 0.0
		if v, ok := engine.Value(inst, engine.LiquidityColumn); ok {
			liq = v
		}
		if liq <= 0 {
			continue
		}
		out = append(out, contracts.NewEntry(inst))
	}
	sortByColumn(out, engine.LiquidityColumn, false)
	return out
}

// boglehead: cost efficiency. Big, liquid funds sorted by the lowest admin
// fee.
func (l *etfLib) boglehead(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string
	pool, caveats := l.filterNetAssets(universe, universe, caveats)

	liquid := make([]contracts.Instrument, 0, len(pool))
	for _, inst := range pool {
		liq := 0.0
		if v, ok := engine.Value(inst, engine.LiquidityColumn); ok {
			liq = v
		}
		if liq > l.p.ETFMinLiquidity {
			liquid = append(liquid, inst)
		}
	}

	if !engine.Available(universe, "taxa_admin") {
		caveats = append(caveats, "Taxa de Administração não disponível — ordenando por liquidez como proxy.")
		out := wrap(liquid)
		sortByColumn(out, engine.LiquidityColumn, false)
		return out, liquidityScoreCol, caveats
	}

	var out []contracts.RankedEntry
	for _, inst := range liquid {
		fee, ok := engine.Value(inst, "taxa_admin")
		if !ok || fee <= 0 {
			continue
		}
		out = append(out, contracts.NewEntry(inst))
	}
	sortByColumn(out, "taxa_admin", true)

	return out, contracts.ScoreColumn{Key: "taxa_admin", Label: "Taxa Admin (%)", IsPercent: false}, caveats
}

// sharpe: risk-adjusted return against the reference rate, or the liquidity
// fallback when return/volatility data is missing.
func (l *etfLib) sharpe(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	hasData := engine.Available(universe, "retorno_12m") && engine.Available(universe, "volatilidade")
	if !hasData {
		caveats := []string{
			"Retorno e/ou Volatilidade não disponíveis — ordenando por liquidez como proxy.",
			"Para o Índice Sharpe ideal, são necessários dados de retorno anualizado e volatilidade.",
		}
		return liquidityFallback(universe), liquidityScoreCol, caveats
	}

	var out []contracts.RankedEntry
	for _, inst := range universe {
		ret := engine.AsFraction(inst.Retorno12M, engine.PercentThreshold)
		vol := engine.AsFraction(inst.Volatilidade, engine.PercentThreshold)
		if ret == nil || vol == nil || *vol == 0 {
			continue
		}
		e := contracts.NewEntry(inst)
		e.Set("_sharpe", (*ret-l.p.ReferenceRate) / *vol)
		out = append(out, e)
	}
	sortByDerived(out, "_sharpe", false)

	return out, contracts.ScoreColumn{Key: "_sharpe", Label: "Índice Sharpe", IsPercent: false}, nil
}

// momentum: trailing 12-month performance among funds above the net-asset
// floor.
func (l *etfLib) momentum(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string
	pool, caveats := l.filterNetAssets(universe, universe, caveats)

	if !engine.Available(universe, "retorno_12m") {
		caveats = append(caveats, "Retorno 12 meses não disponível — ordenando por liquidez como proxy.")
		return liquidityFallback(pool), liquidityScoreCol, caveats
	}

	var out []contracts.RankedEntry
	for _, inst := range pool {
		ret, ok := engine.Value(inst, "retorno_12m")
		if !ok {
			continue
		}
		e := contracts.NewEntry(inst)
		e.Set("_ret_display", ret)
		out = append(out, e)
	}
	sortByDerived(out, "_ret_display", false)

	return out, contracts.ScoreColumn{Key: "_ret_display", Label: "Retorno 12m (%)", IsPercent: false}, caveats
}

// rendaETF: distribution focus, dividend-paying funds sorted by yield.
func (l *etfLib) rendaETF(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	if !engine.Available(universe, "dy") {
		caveats := []string{"Dividend Yield não disponível para ETFs — modelo sem dados suficientes."}
		return wrap(universe), contracts.ScoreColumn{Key: "price", Label: "Preço", IsPercent: false}, caveats
	}

	var caveats []string
	var out []contracts.RankedEntry
	for _, inst := range universe {
		dy := engine.AsPercent(inst.DY)
		if dy == nil || *dy <= 0 {
			continue
		}
		e := contracts.NewEntry(inst)
		e.Set("_dy_display", *dy)
		out = append(out, e)
	}
	if len(out) == 0 {
		caveats = append(caveats, "Nenhum ETF com histórico de dividendos encontrado.")
	}
	sortByDerived(out, "_dy_display", false)

	return out, contracts.ScoreColumn{Key: "_dy_display", Label: "DY 12m (%)", IsPercent: false}, caveats
}
