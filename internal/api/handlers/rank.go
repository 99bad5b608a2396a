package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/strategies"
	"github.com/crivelaro/garimpo/pkg/config"
	"github.com/crivelaro/garimpo/pkg/logger"
)

// snapshotProvider yields the current universe of an asset class.
type snapshotProvider interface {
	Snapshot(ctx context.Context, class contracts.AssetClass) (*contracts.Snapshot, error)
}

// RankHandler serves the listed-asset ranking endpoints.
type RankHandler struct {
	provider snapshotProvider
	engine   *strategies.Engine
	// fixedIncome carries the fixed-income strategy names so the catalog
	// endpoint covers every class.
	fixedIncome []string
	defaults    config.EngineConfig
	log         *logger.Logger
}

func NewRankHandler(provider snapshotProvider, engine *strategies.Engine, fixedIncome []string, defaults config.EngineConfig, log *logger.Logger) *RankHandler {
	return &RankHandler{
		provider:    provider,
		engine:      engine,
		fixedIncome: fixedIncome,
		defaults:    defaults,
		log:         log,
	}
}

var pathClasses = map[string]contracts.AssetClass{
	"acoes": contracts.ClassAcoes,
	"fiis":  contracts.ClassFIIs,
	"etfs":  contracts.ClassETFs,
}

// GetRanking runs one strategy over the current universe of a class.
// GET /api/{class}/rank/{strategy}?min_liq=500000&top_n=50&show_high_risk=true
func (h *RankHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	class, ok := pathClasses[vars["class"]]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown asset class: "+vars["class"])
		return
	}
	strategy := vars["strategy"]

	opts := h.options(r)

	snap, err := h.provider.Snapshot(ctx, class)
	if err != nil {
		h.log.WithError(err).Errorf("Failed to load %s universe", class)
		respondError(w, http.StatusInternalServerError, "universe unavailable")
		return
	}

	result := h.engine.Apply(snap, strategy, opts)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"class":        string(class),
			"strategy":     strategy,
			"version":      snap.Version,
			"total_count":  result.TotalCount,
			"score_column": result.ScoreColumn,
			"caveats":      result.Caveats,
			"ranking":      result.Ranking,
		},
	})
}

// GetStrategies lists every strategy name per asset class.
// GET /api/strategies
func (h *RankHandler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	catalog := make(map[string][]string)
	for class, names := range h.engine.Strategies() {
		catalog[string(class)] = names
	}
	catalog[string(contracts.ClassRendaFixa)] = h.fixedIncome

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    catalog,
	})
}

// options reads the per-request knobs, falling back to the configured
// defaults.
func (h *RankHandler) options(r *http.Request) strategies.Options {
	q := r.URL.Query()

	opts := strategies.Options{
		MinLiquidity: h.defaults.MinLiquidity,
		TopN:         h.defaults.TopN,
	}

	if raw := q.Get("min_liq"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			opts.MinLiquidity = v
		}
	}
	if raw := q.Get("top_n"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			opts.TopN = v
		}
	}
	if raw := q.Get("show_high_risk"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			opts.ShowHighRisk = v
		}
	}

	return opts
}
