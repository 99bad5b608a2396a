package strategies

import (
	"strings"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/engine"
	"github.com/crivelaro/garimpo/internal/params"
)

// fiiLib holds the five real-estate-fund models. The attribute set is
// narrower than equities: yield, price/book, vacancy, segment and property
// count carry most of the signal.
type fiiLib struct {
	p *params.Params
}

func (l *fiiLib) models() map[string]modelEntry {
	return map[string]modelEntry{
		"renda_constante":      {fn: l.rendaConstante},
		"desconto_patrimonial": {fn: l.descontoPatrimonial},
		"bazin_fii":            {fn: l.bazinFII},
		"magic_fii":            {fn: l.magicFII},
		"qualidade_premium":    {fn: l.qualidadePremium},
	}
}

// dyDisplay normalizes a fund yield to percentage points for display and
// threshold checks.
func dyDisplay(inst contracts.Instrument) *float64 {
	return engine.AsPercent(inst.DY)
}

// rendaConstante: liquid funds trading near book with tolerable vacancy,
// sorted by yield.
func (l *fiiLib) rendaConstante(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string

	var pool []contracts.Instrument
	for _, inst := range universe {
		liq := 0.0
		if v, ok := engine.Value(inst, engine.LiquidityColumn); ok {
			liq = v
		}
		if liq <= l.p.FIIMinLiquidity {
			continue
		}
		pvp, ok := engine.Value(inst, "pvp")
		if !ok || pvp < l.p.FIIYieldPVPMin || pvp > l.p.FIIYieldPVPMax {
			continue
		}
		pool = append(pool, inst)
	}

	if engine.Available(universe, "vacancia") {
		kept := pool[:0]
		for _, inst := range pool {
			vac := engine.AsFraction(inst.Vacancia, engine.FractionThreshold)
			if vac != nil && *vac < l.p.FIIVacancyMax {
				kept = append(kept, inst)
			}
		}
		pool = kept
	} else {
		caveats = append(caveats, "Vacância Física não disponível — filtro omitido.")
	}

	var out []contracts.RankedEntry
	for _, inst := range pool {
		dy := dyDisplay(inst)
		if dy == nil || *dy <= 0 {
			continue
		}
		e := contracts.NewEntry(inst)
		e.Set("_dy_display", *dy)
		out = append(out, e)
	}
	sortByDerived(out, "_dy_display", false)

	return out, contracts.ScoreColumn{Key: "_dy_display", Label: "DY 12m (%)", IsPercent: false}, caveats
}

// descontoPatrimonial: deep discount to book with a real yield, most
// discounted first.
func (l *fiiLib) descontoPatrimonial(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var out []contracts.RankedEntry
	for _, inst := range universe {
		dy := dyDisplay(inst)
		if dy == nil || *dy <= 6 {
			continue
		}
		pvp, ok := engine.Value(inst, "pvp")
		if !ok || pvp <= l.p.FIIDiscountPVPMin || pvp >= l.p.FIIDiscountPVPMax {
			continue
		}
		e := contracts.NewEntry(inst)
		e.Set("_dy_display", *dy)
		out = append(out, e)
	}
	sortByColumn(out, "pvp", true)

	return out, contracts.ScoreColumn{Key: "pvp", Label: "P/VP", IsPercent: false}, nil
}

// bazinFII: price ceiling from the annualized distribution at the fund
// yield floor, ranked by margin of safety in percentage points.
func (l *fiiLib) bazinFII(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var out []contracts.RankedEntry
	for _, inst := range universe {
		liq := 0.0
		if v, ok := engine.Value(inst, engine.LiquidityColumn); ok {
			liq = v
		}
		if liq <= l.p.FIIMinLiquidity {
			continue
		}
		dy := engine.AsFraction(inst.DY, engine.FractionThreshold)
		if dy == nil {
			continue
		}
		price, ok := engine.Value(inst, "price")
		if !ok || price <= 0 {
			continue
		}
		teto := (*dy * price) / l.p.BazinFIIYield
		margem := (teto/price - 1) * 100
		if margem <= 0 {
			continue
		}
		e := contracts.NewEntry(inst)
		e.Set("_preco_teto", teto)
		e.Set("_margem_seg", margem)
		if disp := dyDisplay(inst); disp != nil {
			e.Set("_dy_display", *disp)
		}
		out = append(out, e)
	}
	sortByDerived(out, "_margem_seg", false)

	caveats := []string{"Dividendo anual aproximado via DY atual × preço (sem histórico real)."}
	return out, contracts.ScoreColumn{Key: "_margem_seg", Label: "Margem Seg. (%)", IsPercent: false}, caveats
}

// magicFII: hybrid dual rank, yield descending plus price/book ascending,
// lowest sum wins.
func (l *fiiLib) magicFII(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var entries []contracts.RankedEntry
	for _, inst := range universe {
		dy := dyDisplay(inst)
		if dy == nil || *dy <= 0 {
			continue
		}
		pvp, ok := engine.Value(inst, "pvp")
		if !ok || pvp <= 0 {
			continue
		}
		e := contracts.NewEntry(inst)
		// Rank on the normalized yield so mixed upstream conventions
		// cannot reorder the criterion.
		e.Instrument.DY = contracts.Float(*dy)
		e.Set("_dy_display", *dy)
		entries = append(entries, e)
	}

	criteria := []engine.Criterion{
		{Column: "dy"},
		{Column: "pvp", LowerBetter: true},
	}
	entries, _ = engine.Score(entries, criteria, engine.ScoreOptions{})

	return entries, contracts.ScoreColumn{Key: engine.ScoreKey, Label: "Score (menor=melhor)", IsPercent: false}, nil
}

// qualidadePremium: brick-and-mortar quality screen on segment, portfolio
// size, vacancy and price/book, sorted by yield.
func (l *fiiLib) qualidadePremium(universe []contracts.Instrument, _ float64) ([]contracts.RankedEntry, contracts.ScoreColumn, []string) {
	var caveats []string
	pool := universe

	if engine.AvailableStr(universe, func(i contracts.Instrument) string { return i.Segmento }) {
		kept := make([]contracts.Instrument, 0, len(pool))
		for _, inst := range pool {
			if segmentAllowed(inst.Segmento, l.p.FIIAllowedSegments) {
				kept = append(kept, inst)
			}
		}
		pool = kept
	} else {
		caveats = append(caveats, "Segmento não disponível — filtro de tipo de FII omitido.")
	}

	if engine.Available(universe, "qtd_imoveis") {
		kept := make([]contracts.Instrument, 0, len(pool))
		for _, inst := range pool {
			qtd, ok := engine.Value(inst, "qtd_imoveis")
			if ok && qtd > l.p.FIIMinProperties {
				kept = append(kept, inst)
			}
		}
		pool = kept
	} else {
		caveats = append(caveats, "Qtd de Imóveis não disponível — filtro omitido.")
	}

	if engine.Available(universe, "vacancia") {
		kept := make([]contracts.Instrument, 0, len(pool))
		for _, inst := range pool {
			vac := engine.AsFraction(inst.Vacancia, engine.FractionThreshold)
			if vac != nil && *vac < l.p.FIIPremiumVacancy {
				kept = append(kept, inst)
			}
		}
		pool = kept
	} else {
		caveats = append(caveats, "Vacância Física não disponível — filtro omitido.")
	}

	var out []contracts.RankedEntry
	for _, inst := range pool {
		pvp, ok := engine.Value(inst, "pvp")
		if !ok || pvp >= l.p.FIIPremiumPVPMax {
			continue
		}
		e := contracts.NewEntry(inst)
		if dy := dyDisplay(inst); dy != nil {
			e.Set("_dy_display", *dy)
		}
		out = append(out, e)
	}
	sortByDerived(out, "_dy_display", false)

	return out, contracts.ScoreColumn{Key: "_dy_display", Label: "DY 12m (%)", IsPercent: false}, caveats
}

// segmentAllowed reports whether a fund segment label matches any entry of
// the allow-list by substring, case-insensitively.
func segmentAllowed(segment string, allowed []string) bool {
	s := strings.ToLower(segment)
	for _, a := range allowed {
		if strings.Contains(s, a) {
			return true
		}
	}
	return false
}
