package fixedincome

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/pkg/logger"
)

type offerModel func(offers []contracts.Offer, now time.Time) ([]contracts.RankedOffer, contracts.ScoreColumn, []string)

// Engine resolves the fixed-income models by name. Offers come as a short
// curated list, so there is no top-N bound here; the whole filtered set is
// returned. The dispatcher contract matches the tabular engine: unknown
// names and model faults degrade, they never propagate.
type Engine struct {
	log    *logger.Logger
	now    func() time.Time
	models map[string]offerModel
}

func NewEngine(log *logger.Logger) *Engine {
	e := &Engine{log: log, now: time.Now}
	e.models = map[string]offerModel{
		"reserva_emergencia": reservaEmergencia,
		"ganho_real":         ganhoReal,
		"trava_preco":        travaPreco,
		"duelo_tributario":   dueloTributario,
	}
	return e
}

// Strategies lists the registered model names, sorted.
func (e *Engine) Strategies() []string {
	names := make([]string, 0, len(e.models))
	for name := range e.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply runs one fixed-income model over the offer list.
func (e *Engine) Apply(offers []contracts.Offer, strategy string) contracts.OfferResult {
	model, ok := e.models[strategy]
	if !ok {
		e.log.Warnf("[rendafixa] unknown model '%s'", strategy)
		return contracts.OfferResult{
			Ranking:    wrapOffers(offers),
			Caveats:    []string{fmt.Sprintf("Modelo '%s' não encontrado.", strategy)},
			TotalCount: len(offers),
		}
	}

	ranking, scoreCol, caveats := e.run(strategy, model, offers)
	return contracts.OfferResult{
		Ranking:     ranking,
		ScoreColumn: scoreCol,
		Caveats:     caveats,
		TotalCount:  len(ranking),
	}
}

func (e *Engine) run(strategy string, model offerModel, offers []contracts.Offer) (ranking []contracts.RankedOffer, scoreCol contracts.ScoreColumn, caveats []string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("[rendafixa] model '%s' failed: %v", strategy, r)
			ranking = nil
			scoreCol = contracts.ScoreColumn{}
			caveats = []string{fmt.Sprintf("Erro ao executar modelo: %v", r)}
		}
	}()

	ranking, scoreCol, caveats = model(offers, e.now())
	return ranking, scoreCol, caveats
}

func wrapOffers(offers []contracts.Offer) []contracts.RankedOffer {
	out := make([]contracts.RankedOffer, 0, len(offers))
	for _, o := range offers {
		out = append(out, contracts.RankedOffer{Offer: o})
	}
	return out
}

func sortByRate(offers []contracts.RankedOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].RateVal > offers[j].RateVal
	})
}

// reservaEmergencia: daily liquidity, FGC or treasury backing, at least six
// months of runway, highest %CDI first.
func reservaEmergencia(offers []contracts.Offer, now time.Time) ([]contracts.RankedOffer, contracts.ScoreColumn, []string) {
	var out []contracts.RankedOffer
	for _, o := range offers {
		liq := strings.ToLower(o.Liquidity)
		if !strings.Contains(liq, "diária") && !strings.Contains(liq, "diaria") &&
			!strings.Contains(liq, "d+0") && !strings.Contains(liq, "d+1") {
			continue
		}
		safety := strings.ToLower(o.SafetyRating)
		if !strings.Contains(safety, "fgc") && !strings.Contains(safety, "tesouro") {
			continue
		}
		if DaysToMaturity(o.Maturity, now) < 180 {
			continue
		}
		out = append(out, contracts.RankedOffer{Offer: o})
	}
	sortByRate(out)

	return out, contracts.ScoreColumn{Key: "rate_val", Label: "% do CDI", IsPercent: false}, nil
}

// ganhoReal: inflation-indexed offers maturing beyond three years, highest
// real spread first.
func ganhoReal(offers []contracts.Offer, now time.Time) ([]contracts.RankedOffer, contracts.ScoreColumn, []string) {
	var out []contracts.RankedOffer
	for _, o := range offers {
		rateType := strings.ToLower(o.RateType)
		if !strings.Contains(rateType, "ipca") && !strings.Contains(rateType, "inflação") {
			continue
		}
		if DaysToMaturity(o.Maturity, now) < 1095 {
			continue
		}
		out = append(out, contracts.RankedOffer{Offer: o})
	}
	sortByRate(out)

	var caveats []string
	if len(out) == 0 {
		caveats = append(caveats, "Nenhum título IPCA+ com vencimento > 3 anos encontrado nos dados atuais.")
	}
	return out, contracts.ScoreColumn{Key: "rate_val", Label: "Spread IPCA+ (%)", IsPercent: false}, caveats
}

// travaPreco: pre-fixed offers locking a rate for one to five years.
func travaPreco(offers []contracts.Offer, now time.Time) ([]contracts.RankedOffer, contracts.ScoreColumn, []string) {
	var out []contracts.RankedOffer
	for _, o := range offers {
		rateType := strings.ToLower(o.RateType)
		if !strings.Contains(rateType, "pré") && !strings.Contains(rateType, "pre") {
			continue
		}
		days := DaysToMaturity(o.Maturity, now)
		if days < 365 || days > 1825 {
			continue
		}
		out = append(out, contracts.RankedOffer{Offer: o})
	}
	sortByRate(out)

	var caveats []string
	if len(out) == 0 {
		caveats = append(caveats, "Nenhum título Pré-fixado com vencimento entre 1-5 anos encontrado.")
	}
	return out, contracts.ScoreColumn{Key: "rate_val", Label: "Taxa Anual (%)", IsPercent: false}, caveats
}

// dueloTributario: gross-up equivalence. Exempt offers are converted to
// their pre-tax equivalent; everything is kept and compared on that basis.
func dueloTributario(offers []contracts.Offer, now time.Time) ([]contracts.RankedOffer, contracts.ScoreColumn, []string) {
	out := make([]contracts.RankedOffer, 0, len(offers))
	for _, o := range offers {
		days := DaysToMaturity(o.Maturity, now)
		entry := contracts.RankedOffer{
			Offer:  o,
			IRRate: WithholdingRate(days) * 100,
		}
		if IsExempt(o.Type) {
			entry.Exempt = true
			entry.GrossRate = GrossUp(o.RateVal, days)
		} else {
			entry.GrossRate = o.RateVal
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GrossRate > out[j].GrossRate
	})

	return out, contracts.ScoreColumn{Key: "_taxa_bruta_equiv", Label: "Taxa Bruta Equiv. (%)", IsPercent: false}, nil
}

// ScoreOpportunities attaches the simple rate-over-risk heuristic used by
// the curated opportunity list: exemption is boosted by the approximate tax
// advantage, pre-fixed annual rates are rescaled to the %CDI axis, and the
// result is divided by a risk factor. Highest score first.
func ScoreOpportunities(offers []contracts.Offer) []contracts.RankedOffer {
	out := wrapOffers(offers)
	for i := range out {
		rate := out[i].RateVal
		switch out[i].RateType {
		case "Isento":
			rate *= 1.225
		case "Pré-fixado":
			rate = out[i].RateVal * 8.5
		}
		risk := float64(out[i].RiskScore)*0.5 + 0.5
		out[i].Score = math.Round(rate/risk*10) / 10
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
