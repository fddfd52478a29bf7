package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/discord"
	"github.com/shestoi/rivalsyndicate/internal/interaction"
	"github.com/shestoi/rivalsyndicate/internal/repository"
	"github.com/shestoi/rivalsyndicate/internal/service"
	"github.com/shestoi/rivalsyndicate/internal/ticket"
	platformobservability "github.com/shestoi/rivalsyndicate/platform/observability"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError переводит доменную ошибку в HTTP статус; неизвестные ошибки логируются и скрываются
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *discord.APIError

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, service.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, ticket.ErrTicketNotFound):
		writeDetail(w, http.StatusNotFound, "Ticket not found")
	case errors.Is(err, repository.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidTransition):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrTicketAlreadySet):
		writeDetail(w, http.StatusConflict, err.Error())
	case errors.Is(err, ticket.ErrNotConfigured), errors.Is(err, interaction.ErrNotConfigured):
		writeDetail(w, http.StatusServiceUnavailable, "Discord integration is not configured")
	case errors.Is(err, service.ErrUpstream), errors.As(err, &apiErr):
		platformobservability.L(r.Context(), h.logger).Warn("upstream request failed", zap.Error(err))
		writeDetail(w, http.StatusBadGateway, "Upstream service unavailable")
	default:
		platformobservability.L(r.Context(), h.logger).Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
