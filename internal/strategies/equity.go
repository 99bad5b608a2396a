package strategies

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/engine"
	"github.com/crivelaro/garimpo/internal/params"
)

// equityLib holds the nine absolute-formula equity models. Unlike the rank
// presets these apply hard filters and literature formulas: intrinsic
// values, price ceilings and composite quality screens.
type equityLib struct {
	p *params.Params
}

func (l *equityLib) models() map[string]modelEntry {
	return map[string]modelEntry{
		"graham":        {fn: l.graham, postLiquidity: true},
		"bazin":         {fn: l.bazin, postLiquidity: true},
		"greenblatt":    {fn: l.greenblatt, postLiquidity: true},
		"dividendos":    {fn: l.dividendos, postLiquidity: true},
		"valor":         {fn: l.valor, postLiquidity: true},
		"crescimento":   {fn: l.crescimento, postLiquidity: true},
		"rentabilidade": {fn: l.rentabilidade, postLiquidity: true},
		"gordon":        {fn: l.gordon, postLiquidity: true},
		"small_caps":    {fn: l.smallCaps, postLiquidity: true},
	}
}

// graham: 0 < P/L <= 15, 0 < P/VP <= 1.5, intrinsic value
// VI = sqrt(22.5 x LPA x VPA), ranked by upside against the current price.
func (l *equityLib) graham(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var out []contracts.RankedEntry
	for _, inst := range universe {
		pl, ok := engine.Value(inst, "pl")
		if !ok || pl <= 0 || pl > 15 {
			continue
		}
		pvp, ok := engine.Value(inst, "pvp")
		if !ok || pvp <= 0 || pvp > 1.5 {
			continue
		}
		lpa, okL := engine.Value(inst, "lpa")
		vpa, okV := engine.Value(inst, "vpa")
		if !okL || !okV {
			continue
		}
		term := 22.5 * lpa * vpa
		if term <= 0 {
			continue
		}
		price, ok := engine.Value(inst, "price")
		if !ok || price <= 0 {
			continue
		}
		vi := math.Sqrt(term)
		e := contracts.NewEntry(inst)
		e.Set("_vi", vi)
		e.Set("_upside", vi/price-1)
		out = append(out, e)
	}
	sortByDerived(out, "_upside", false)

	return out, contracts.ScoreColumn{Key: "_upside", Label: "Upside Graham", IsPercent: true}, nil
}

// bazin: leverage below the ceiling, price target = annual dividend / yield
// floor, annual dividend approximated from the current yield.
func (l *equityLib) bazin(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string

	pool := universe
	if engine.Available(universe, "div_pat") {
		pool = nil
		for _, inst := range universe {
			dp, ok := engine.Value(inst, "div_pat")
			if ok && dp < l.p.MaxDebtEquity {
				pool = append(pool, inst)
			}
		}
	} else {
		caveats = append(caveats, "Dívida/Patrimônio não disponível — filtro omitido.")
	}

	var out []contracts.RankedEntry
	for _, inst := range pool {
		dy := engine.AsFraction(inst.DY, engine.PercentThreshold)
		if dy == nil {
			continue
		}
		price, ok := engine.Value(inst, "price")
		if !ok || price <= 0 {
			continue
		}
		teto := (*dy * price) / l.p.BazinYield
		upside := teto/price - 1
		if upside <= 0 {
			continue
		}
		e := contracts.NewEntry(inst)
		e.Set("_preco_teto", teto)
		e.Set("_upside", upside)
		out = append(out, e)
	}
	sortByDerived(out, "_upside", false)

	caveats = append(caveats, "Preço Teto aproximado via DY atual (sem histórico de dividendos).")
	return out, contracts.ScoreColumn{Key: "_upside", Label: "Upside Bazin", IsPercent: true}, caveats
}

// greenblatt: the original magic formula. Financial names are excluded,
// then earnings yield and ROIC ranks are summed, lowest sum first.
func (l *equityLib) greenblatt(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string

	pool := universe
	if engine.AvailableStr(universe, func(i contracts.Instrument) string { return i.Setor }) {
		pool = nil
		for _, inst := range universe {
			if !l.p.IsFinancialSector(inst.Setor) {
				pool = append(pool, inst)
			}
		}
	} else {
		caveats = append(caveats, "Coluna 'setor' não disponível — filtro financeiro omitido.")
	}

	var entries []contracts.RankedEntry
	for _, inst := range pool {
		ev, okE := engine.Value(inst, "ev_ebit")
		roic, okR := engine.Value(inst, "roic")
		if !okE || !okR || ev <= 0 || roic <= 0 {
			continue
		}
		entries = append(entries, contracts.NewEntry(inst))
	}

	criteria := []engine.Criterion{
		{Column: "ev_ebit", LowerBetter: true},
		{Column: "roic"},
	}
	entries, _ = engine.Score(entries, criteria, engine.ScoreOptions{})

	return entries, contracts.ScoreColumn{Key: engine.ScoreKey, Label: "Score (menor=melhor)", IsPercent: false}, caveats
}

// dividendos: yield above the floor, payout inside the sustainable band when
// the attribute exists.
func (l *equityLib) dividendos(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string

	var out []contracts.RankedEntry
	for _, inst := range universe {
		dy := engine.AsFraction(inst.DY, engine.PercentThreshold)
		if dy == nil || *dy <= l.p.MinDividendYield {
			continue
		}
		e := contracts.NewEntry(inst)
		e.Set("_dy_norm", *dy)
		out = append(out, e)
	}

	if engine.Available(universe, "payout") {
		kept := out[:0]
		for _, e := range out {
			raw, ok := engine.Value(e.Instrument, "payout")
			if !ok || raw <= 0 {
				continue
			}
			payout := engine.AsFraction(contracts.Float(raw), engine.PercentThreshold)
			if *payout >= l.p.PayoutMin && *payout <= l.p.PayoutMax {
				kept = append(kept, e)
			}
		}
		out = kept
	} else {
		caveats = append(caveats, "Filtro de Payout (30-80%) omitido — dado não disponível.")
	}

	sortByDerived(out, "_dy_norm", false)
	return out, contracts.ScoreColumn{Key: "_dy_norm", Label: "Dividend Yield", IsPercent: true}, caveats
}

// valor: deep value on the EV multiple, falling back from EV/EBITDA to
// EV/EBIT, composite-ranked together with P/VP.
func (l *equityLib) valor(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string

	evCol := "ev_ebitda"
	if !engine.Available(universe, evCol) {
		evCol = "ev_ebit"
		caveats = append(caveats, "EV/EBITDA não disponível — usando EV/EBIT como proxy.")
	}

	var entries []contracts.RankedEntry
	for _, inst := range universe {
		ev, ok := engine.Value(inst, evCol)
		if !ok || ev <= 0 {
			continue
		}
		entries = append(entries, contracts.NewEntry(inst))
	}

	criteria := []engine.Criterion{
		{Column: evCol, LowerBetter: true},
		{Column: "pvp", LowerBetter: true},
	}
	entries, _ = engine.Score(entries, criteria, engine.ScoreOptions{})

	return entries, contracts.ScoreColumn{Key: evCol, Label: "EV/EBITDA", IsPercent: false}, caveats
}

// crescimento: PEG ratio. The model has no proxy; without earnings CAGR it
// degrades to an empty result with one caveat.
func (l *equityLib) crescimento(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	scoreCol := contracts.ScoreColumn{Key: "_peg", Label: "PEG Ratio", IsPercent: false}

	if !engine.Available(universe, "cagr_lucros") {
		return nil, scoreCol, []string{"CAGR de Lucros não disponível — modelo sem dados suficientes."}
	}

	var out []contracts.RankedEntry
	for _, inst := range universe {
		pl, okP := engine.Value(inst, "pl")
		cagr, okC := engine.Value(inst, "cagr_lucros")
		if !okP || !okC || pl <= 0 || cagr <= 0 {
			continue
		}
		// CAGR at or below 1 is read as a fraction, above 1 as a percent
		// already.
		cagrPct := cagr
		if cagrPct <= 1 {
			cagrPct *= 100
		}
		e := contracts.NewEntry(inst)
		e.Set("_peg", pl/cagrPct)
		out = append(out, e)
	}
	sortByDerived(out, "_peg", true)

	return out, scoreCol, nil
}

// rentabilidade: quality screen. Margin and leverage filters each degrade
// through a documented proxy before being omitted; survivors are ranked by
// ROE plus ROIC.
func (l *equityLib) rentabilidade(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string
	pool := universe

	switch {
	case engine.Available(universe, "margem_liquida"):
		kept := make([]contracts.Instrument, 0, len(pool))
		for _, inst := range pool {
			ml := engine.AsFraction(inst.MargemLiquida, engine.PercentThreshold)
			if ml != nil && *ml > l.p.NetMarginMin {
				kept = append(kept, inst)
			}
		}
		pool = kept
	case engine.Available(universe, "roic"):
		kept := make([]contracts.Instrument, 0, len(pool))
		for _, inst := range pool {
			roic, ok := engine.Value(inst, "roic")
			if ok && roic > l.p.ROICProxyMin {
				kept = append(kept, inst)
			}
		}
		pool = kept
		caveats = append(caveats, "Margem Líquida indisponível nesta atualização — usando ROIC > 10% como proxy.")
	default:
		caveats = append(caveats, "Filtro de Margem Líquida omitido — dado não disponível.")
	}

	switch {
	case engine.Available(universe, "div_liq_ebitda"):
		kept := make([]contracts.Instrument, 0, len(pool))
		for _, inst := range pool {
			lev, ok := engine.Value(inst, "div_liq_ebitda")
			if ok && lev < l.p.LeverageMax {
				kept = append(kept, inst)
			}
		}
		pool = kept
	case engine.Available(universe, "div_pat"):
		kept := make([]contracts.Instrument, 0, len(pool))
		for _, inst := range pool {
			lev, ok := engine.Value(inst, "div_pat")
			if ok && lev < l.p.DebtEquityProxyMax {
				kept = append(kept, inst)
			}
		}
		pool = kept
		caveats = append(caveats, "Dív.Líq/EBITDA indisponível nesta atualização — usando Dív/Patrim. como proxy.")
	default:
		caveats = append(caveats, "Filtro de Dív.Líq/EBITDA omitido — dado não disponível.")
	}

	entries := wrap(pool)
	criteria := []engine.Criterion{
		{Column: "roe"},
		{Column: "roic"},
	}
	entries, _ = engine.Score(entries, criteria, engine.ScoreOptions{})

	return entries, contracts.ScoreColumn{Key: "roe", Label: "ROE", IsPercent: true}, caveats
}

// gordon: perpetual dividend discount with fixed k and g, projecting the
// dividend from the current yield.
func (l *equityLib) gordon(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	caveats := []string{"Dividendo projetado aproximado via DY × preço corrente."}

	var out []contracts.RankedEntry
	for _, inst := range universe {
		dy := engine.AsFraction(inst.DY, engine.PercentThreshold)
		if dy == nil {
			continue
		}
		price, ok := engine.Value(inst, "price")
		if !ok || price <= 0 {
			continue
		}
		fair := (*dy * price) / (l.p.GordonK - l.p.GordonG)
		upside := fair/price - 1
		if upside <= 0 {
			continue
		}
		e := contracts.NewEntry(inst)
		e.Set("_gordon", fair)
		e.Set("_upside", upside)
		out = append(out, e)
	}
	sortByDerived(out, "_upside", false)

	return out, contracts.ScoreColumn{Key: "_upside", Label: "Upside Gordon", IsPercent: true}, caveats
}

// smallCaps: market cap below the ceiling (liquidity percentile as a proxy
// when market cap is absent), minimum liquidity, positive P/L ascending.
func (l *equityLib) smallCaps(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string

	hasMarketCap := false
	for _, inst := range universe {
		if vm, ok := engine.Value(inst, "valor_mercado"); ok && vm > 0 {
			hasMarketCap = true
			break
		}
	}

	var pool []contracts.Instrument
	if hasMarketCap {
		for _, inst := range universe {
			vm, ok := engine.Value(inst, "valor_mercado")
			if ok && vm > 0 && vm < l.p.SmallCapMarketCapMax {
				pool = append(pool, inst)
			}
		}
	} else {
		var liqs []float64
		for _, inst := range universe {
			if liq, ok := engine.Value(inst, engine.LiquidityColumn); ok {
				liqs = append(liqs, liq)
			}
		}
		if len(liqs) > 0 {
			sort.Float64s(liqs)
			liqMax := stat.Quantile(l.p.SmallCapLiqPercentile, stat.LinInterp, liqs, nil)
			for _, inst := range universe {
				liq, ok := engine.Value(inst, engine.LiquidityColumn)
				if ok && liq <= liqMax {
					pool = append(pool, inst)
				}
			}
		}
		caveats = append(caveats, "Valor de Mercado não disponível ainda — proxy: liquidez < percentil 75.")
	}

	var out []contracts.RankedEntry
	for _, inst := range pool {
		liq, ok := engine.Value(inst, engine.LiquidityColumn)
		if !ok || liq < l.p.SmallCapMinLiquidity {
			continue
		}
		pl, ok := engine.Value(inst, "pl")
		if !ok || pl <= 0 {
			continue
		}
		out = append(out, contracts.NewEntry(inst))
	}
	sortByColumn(out, "pl", true)

	return out, contracts.ScoreColumn{Key: "pl", Label: "P/L", IsPercent: false}, caveats
}
