package strategies

import (
	"fmt"
	"sort"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/engine"
	"github.com/crivelaro/garimpo/internal/params"
	"github.com/crivelaro/garimpo/pkg/logger"
)

// DefaultTopN bounds a ranking when the caller does not ask for a size.
const DefaultTopN = 100

// Options are the per-invocation knobs of a strategy run.
type Options struct {
	// MinLiquidity feeds the post-hoc cut of the formula models and the
	// additive penalty of the rank presets. Zero disables both.
	MinLiquidity float64
	// TopN bounds the ranking; <= 0 means DefaultTopN.
	TopN int
	// ShowHighRisk skips the distressed-instrument screen.
	ShowHighRisk bool
}

// Engine resolves strategy names and runs the model behind them. A bad name
// or a faulting model never escapes as an error: the caller always gets a
// well-formed result, differentiated only by total_count and caveats.
type Engine struct {
	p      *params.Params
	log    *logger.Logger
	risk   *engine.RiskCheck
	models map[contracts.AssetClass]map[string]modelEntry
}

// NewEngine builds the closed registry. All model names are fixed here;
// nothing is registered at runtime.
func NewEngine(p *params.Params, log *logger.Logger) *Engine {
	acoes := (&equityLib{p: p}).models()
	for name, m := range (&presetLib{penalty: p.LiquidityPenalty}).models() {
		acoes[name] = m
	}

	return &Engine{
		p:    p,
		log:  log,
		risk: engine.NewRiskCheck(p),
		models: map[contracts.AssetClass]map[string]modelEntry{
			contracts.ClassAcoes: acoes,
			contracts.ClassFIIs:  (&fiiLib{p: p}).models(),
			contracts.ClassETFs:  (&etfLib{p: p}).models(),
		},
	}
}

// Strategies lists the registered model names per asset class, sorted.
func (e *Engine) Strategies() map[contracts.AssetClass][]string {
	out := make(map[contracts.AssetClass][]string, len(e.models))
	for class, models := range e.models {
		names := make([]string, 0, len(models))
		for name := range models {
			names = append(names, name)
		}
		sort.Strings(names)
		out[class] = names
	}
	return out
}

// Has reports whether a strategy is registered for the class.
func (e *Engine) Has(class contracts.AssetClass, strategy string) bool {
	_, ok := e.models[class][strategy]
	return ok
}

// Apply runs one strategy over the snapshot and packages the bounded
// result. The snapshot is read-only; models work on independent copies.
func (e *Engine) Apply(snap *contracts.Snapshot, strategy string, opts Options) contracts.Result {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	entry, ok := e.models[snap.Class][strategy]
	if !ok {
		e.log.Warnf("[%s] unknown model '%s'", snap.Class, strategy)
		ranking := wrap(snap.Instruments)
		if len(ranking) > topN {
			ranking = ranking[:topN]
		}
		return contracts.Result{
			Ranking:    ranking,
			Caveats:    []string{fmt.Sprintf("Modelo '%s' não encontrado.", strategy)},
			TotalCount: len(ranking),
		}
	}

	universe := e.workingCopy(snap)

	var removed int
	if !opts.ShowHighRisk && (snap.Class == contracts.ClassAcoes || snap.Class == contracts.ClassFIIs) {
		universe, removed = e.risk.Filter(universe)
		if removed > 0 {
			e.log.Debugf("[%s] %s: %d high-risk instruments screened out", snap.Class, strategy, removed)
		}
	}

	ranked, scoreCol, caveats := e.run(snap.Class, strategy, entry, universe, opts.MinLiquidity)

	if removed > 0 {
		caveats = append(caveats, fmt.Sprintf("%d ativo(s) de alto risco ocultado(s). Use 'Mostrar alto risco' para incluir.", removed))
	}

	if entry.postLiquidity && opts.MinLiquidity > 0 {
		kept := ranked[:0]
		for _, r := range ranked {
			liq := 0.0
			if v, ok := engine.Value(r.Instrument, engine.LiquidityColumn); ok {
				liq = v
			}
			if liq >= opts.MinLiquidity {
				kept = append(kept, r)
			}
		}
		ranked = kept
	}

	total := len(ranked)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	return contracts.Result{
		Ranking:     ranked,
		ScoreColumn: scoreCol,
		Caveats:     caveats,
		TotalCount:  total,
	}
}

// run invokes the model behind a recovery boundary. A faulting model yields
// an empty ranking plus a caveat; the fault never crosses the dispatcher.
func (e *Engine) run(class contracts.AssetClass, strategy string, entry modelEntry, universe []contracts.Instrument, minLiq float64) (ranked []contracts.RankedEntry, scoreCol contracts.ScoreColumn, caveats []string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("[%s] model '%s' failed: %v", class, strategy, r)
			ranked = nil
			scoreCol = contracts.ScoreColumn{}
			caveats = []string{fmt.Sprintf("Erro ao executar modelo: %v", r)}
		}
	}()

	ranked, scoreCol, caveats = entry.fn(universe, minLiq)
	return ranked, scoreCol, caveats
}

// workingCopy clones the snapshot rows so models can patch attributes
// without touching the shared universe. For stocks it also applies the
// universe prep: rows missing ROE get the LPA/VPA proxy, and rows without
// a positive price never enter a ranking.
func (e *Engine) workingCopy(snap *contracts.Snapshot) []contracts.Instrument {
	universe := append([]contracts.Instrument(nil), snap.Instruments...)

	if snap.Class != contracts.ClassAcoes {
		return universe
	}

	for i := range universe {
		if universe[i].ROE != nil {
			continue
		}
		lpa, okL := engine.Value(universe[i], "lpa")
		vpa, okV := engine.Value(universe[i], "vpa")
		if okL && okV && vpa != 0 {
			universe[i].ROE = contracts.Float(lpa / vpa)
		}
	}

	kept := universe[:0]
	for _, inst := range universe {
		if price, ok := engine.Value(inst, "price"); ok && price > 0 {
			kept = append(kept, inst)
		}
	}
	return kept
}
