package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/crivelaro/garimpo/internal/contracts"
	"github.com/crivelaro/garimpo/internal/fixedincome"
	"github.com/crivelaro/garimpo/pkg/logger"
)

// offerLister yields the active fixed-income offers.
type offerLister interface {
	ListOffers(ctx context.Context) ([]contracts.Offer, error)
}

// FixedIncomeHandler serves the fixed-income ranking endpoints.
type FixedIncomeHandler struct {
	offers offerLister
	engine *fixedincome.Engine
	log    *logger.Logger
}

func NewFixedIncomeHandler(offers offerLister, engine *fixedincome.Engine, log *logger.Logger) *FixedIncomeHandler {
	return &FixedIncomeHandler{
		offers: offers,
		engine: engine,
		log:    log,
	}
}

// GetRanking runs one fixed-income strategy over the active offers.
// GET /api/rendafixa/rank/{strategy}
func (h *FixedIncomeHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	strategy := mux.Vars(r)["strategy"]

	offers, err := h.offers.ListOffers(ctx)
	if err != nil {
		h.log.WithError(err).Error("Failed to load fixed-income offers")
		respondError(w, http.StatusInternalServerError, "offers unavailable")
		return
	}

	result := h.engine.Apply(offers, strategy)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"class":        string(contracts.ClassRendaFixa),
			"strategy":     strategy,
			"total_count":  result.TotalCount,
			"score_column": result.ScoreColumn,
			"caveats":      result.Caveats,
			"ranking":      result.Ranking,
		},
	})
}

// GetOpportunities scores every active offer on the opportunity heuristic.
// GET /api/rendafixa/oportunidades
func (h *FixedIncomeHandler) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offers, err := h.offers.ListOffers(ctx)
	if err != nil {
		h.log.WithError(err).Error("Failed to load fixed-income offers")
		respondError(w, http.StatusInternalServerError, "offers unavailable")
		return
	}

	scored := fixedincome.ScoreOpportunities(offers)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"class":   string(contracts.ClassRendaFixa),
			"count":   len(scored),
			"ranking": scored,
		},
	})
}
