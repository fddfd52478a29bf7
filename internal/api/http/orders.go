package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/service"
	platformobservability "github.com/shestoi/rivalsyndicate/platform/observability"
)

// CreateOrder обрабатывает POST /api/orders
// Заказ создаётся даже если тикет в Discord открыть не удалось
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := service.CreateOrderInput{
		ServiceType:    req.ServiceType,
		CharacterID:    req.CharacterID,
		CharacterName:  req.CharacterName,
		CharacterClass: req.CharacterClass,
		Price:          req.Price,
		PaymentMethod:  req.PaymentMethod,
	}
	if req.CharacterIcon != nil {
		input.CharacterIcon = *req.CharacterIcon
	}

	order, err := h.orders.Create(r.Context(), s.User, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	platformobservability.L(r.Context(), h.logger).Info("order created via http",
		zap.String("order_id", order.ID),
		zap.Bool("ticket", order.HasTicket()),
	)
	writeJSON(w, http.StatusCreated, toOrderResponse(*order))
}

// ListMyOrders обрабатывает GET /api/orders
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.GetForUser(r.Context(), s.User)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

// GetOrder обрабатывает GET /api/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetByID(r.Context(), s.User, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// UpdateOrder обрабатывает PATCH /api/orders/{id}
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.orders.Update(r.Context(), s.User, chi.URLParam(r, "id"), service.UpdateOrderInput{
		Status:    req.Status,
		Progress:  req.Progress,
		Notes:     req.Notes,
		ETA:       req.ETA,
		BoosterID: req.BoosterID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}
