package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/shestoi/rivalsyndicate/internal/catalog"
	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// Banner обрабатывает GET /api/
func (h *Handler) Banner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "The Rival Syndicate API",
		"status":  "online",
	})
}

// ListServices обрабатывает GET /api/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Services())
}

// ListCharacters обрабатывает GET /api/characters
func (h *Handler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Characters())
}

// ListCharactersByClass обрабатывает GET /api/characters/{class}
func (h *Handler) ListCharactersByClass(w http.ResponseWriter, r *http.Request) {
	class, err := repository.ParseCharacterClass(chi.URLParam(r, "class"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, catalog.ByClass(class))
}

// GetStats обрабатывает GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		OrdersCompleted: stats.OrdersCompleted,
		DiscordMembers:  stats.DiscordMembers,
		OnlineMembers:   stats.OnlineMembers,
		ActiveBoosters:  stats.ActiveBoosters,
	})
}

// ListVouches обрабатывает GET /api/vouches?limit=
func (h *Handler) ListVouches(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid query parameter limit: %v", err))
		return
	}

	n := 0
	if limit != nil {
		n = *limit
	}
	vouches, err := h.stats.Vouches(r.Context(), n)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVouchResponses(vouches))
}

// GetRates обрабатывает GET /api/rates
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRatesResponse(h.rates.Get(r.Context())))
}
