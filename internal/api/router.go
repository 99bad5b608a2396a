// Package api wires the HTTP surface of the ranking service.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/crivelaro/garimpo/internal/api/handlers"
	"github.com/crivelaro/garimpo/pkg/logger"
)

// NewRouter configures every route of the service.
// SSOT: routing lives in this function and nowhere else.
func NewRouter(rank *handlers.RankHandler, fixedIncome *handlers.FixedIncomeHandler, admin *handlers.AdminHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/strategies", rank.GetStrategies).Methods("GET")

	// Fixed income first: its class segment would otherwise be swallowed
	// by the generic {class} route.
	api.HandleFunc("/rendafixa/rank/{strategy}", fixedIncome.GetRanking).Methods("GET")
	api.HandleFunc("/rendafixa/oportunidades", fixedIncome.GetOpportunities).Methods("GET")

	api.HandleFunc("/{class:acoes|fiis|etfs}/rank/{strategy}", rank.GetRanking).Methods("GET")

	if admin != nil {
		api.HandleFunc("/admin/refresh", admin.Refresh).Methods("POST")
		api.HandleFunc("/admin/jobs", admin.Jobs).Methods("GET")
	}

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "garimpo-api",
	})
}

func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
