package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/service"
	platformobservability "github.com/shestoi/rivalsyndicate/platform/observability"
)

// ListAllOrders обрабатывает GET /api/admin/orders?status=&page=&limit=
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var input service.ListOrdersInput
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "status", query, &input.Status); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid query parameter status: %v", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &input.Page); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid query parameter page: %v", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &input.Limit); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid query parameter limit: %v", err))
		return
	}

	page, err := h.orders.ListAll(r.Context(), s.User, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderPage(page))
}

// ListBoosters обрабатывает GET /api/admin/boosters
func (h *Handler) ListBoosters(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	staff, err := h.orders.ListStaff(r.Context(), s.User)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoosterResponses(staff))
}

// ListUsers обрабатывает GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	users, err := h.users.List(r.Context(), s.User)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponses(users))
}

// UpdateUserRole обрабатывает PATCH /api/users/{id}/role
// Роль принимается из query (?role=booster) или из тела {"role": "booster"}
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var role *string
	if err := runtime.BindQueryParameter("form", true, false, "role", r.URL.Query(), &role); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid query parameter role: %v", err))
		return
	}
	if role == nil {
		var req UpdateRoleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		role = &req.Role
	}

	user, err := h.users.UpdateRole(r.Context(), s.User, chi.URLParam(r, "id"), *role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		MessageResponse
		User UserResponse `json:"user"`
	}{
		MessageResponse: MessageResponse{Success: true, Message: "User role updated to " + string(user.Role)},
		User:            toUserResponse(*user),
	})
}

// CloseTicket обрабатывает POST /api/tickets/{channel_id}/close
// Удаление канала откладывается; ответ не ждёт его завершения
func (h *Handler) CloseTicket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !s.User.Role.CanManageOrders() {
		h.writeError(w, r, service.ErrForbidden)
		return
	}

	channelID := chi.URLParam(r, "channel_id")
	if _, err := h.tickets.Close(r.Context(), channelID, s.User.Username); err != nil {
		h.writeError(w, r, err)
		return
	}

	platformobservability.L(r.Context(), h.logger).Info("ticket close requested",
		zap.String("channel_id", channelID),
		zap.String("closed_by", s.User.ID),
	)
	writeJSON(w, http.StatusAccepted, MessageResponse{Success: true, Message: "Ticket will be closed shortly"})
}

// RegisterCommands обрабатывает POST /api/discord/commands/register
func (h *Handler) RegisterCommands(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !s.User.Role.CanAdminister() {
		h.writeError(w, r, service.ErrForbidden)
		return
	}

	names, err := h.commands.Register(r.Context())
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", service.ErrUpstream, err))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success  bool     `json:"success"`
		Commands []string `json:"commands"`
	}{Success: true, Commands: names})
}
