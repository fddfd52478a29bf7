package interaction

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/discord"
	"github.com/shestoi/rivalsyndicate/internal/metrics"
)

const (
	HeaderSignature = "X-Signature-Ed25519"
	HeaderTimestamp = "X-Signature-Timestamp"

	maxBodySize = 1 << 20
)

const (
	msgPermissionDenied = "❌ You don't have permission to use this command."
	msgClosing          = "🔒 Closing ticket..."
	msgCloseFailed      = "❌ Failed to close ticket."
	msgCompleting       = "✅ Order marked as complete. Ticket will close shortly."
)

// Commands - slash-команды, которые регистрируются в гильдии
var Commands = []discord.Command{
	{Name: "close", Description: "Close this ticket channel", Type: 1},
	{Name: "complete", Description: "Mark the order as complete and close the ticket", Type: 1},
}

// Config задаёт проверку подписи и роли персонала
type Config struct {
	// PublicKey - hex-кодированный Ed25519 ключ приложения
	PublicKey string
	// Insecure отключает проверку подписи, если ключ не задан
	Insecure     bool
	StaffRoleIDs []string
}

// Handler принимает interaction webhooks Discord
// Каждый запрос проходит unverified -> verified; payload не читается до проверки подписи
type Handler struct {
	logger    *zap.Logger
	metrics   *metrics.Metrics
	publicKey ed25519.PublicKey
	insecure  bool
	staff     map[string]struct{}
	tickets   TicketActions
	orders    OrderCompleter

	background sync.WaitGroup
}

// NewHandler создаёт обработчик; неверный ключ - ошибка конфигурации
func NewHandler(logger *zap.Logger, m *metrics.Metrics, cfg Config, tickets TicketActions, orders OrderCompleter) (*Handler, error) {
	h := &Handler{
		logger:   logger,
		metrics:  m,
		insecure: cfg.Insecure,
		staff:    make(map[string]struct{}, len(cfg.StaffRoleIDs)),
		tickets:  tickets,
		orders:   orders,
	}
	for _, id := range cfg.StaffRoleIDs {
		if id != "" {
			h.staff[id] = struct{}{}
		}
	}

	if cfg.PublicKey != "" {
		key, err := hex.DecodeString(cfg.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("decode interactions public key: %w", err)
		}
		if len(key) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("interactions public key must be %d bytes, got %d", ed25519.PublicKeySize, len(key))
		}
		h.publicKey = ed25519.PublicKey(key)
	}

	switch {
	case h.publicKey == nil && h.insecure:
		logger.Warn("interaction signature verification is disabled")
	case h.publicKey == nil:
		logger.Error("interactions public key is not configured, all interactions will be rejected")
	}

	return h, nil
}

// ServeHTTP обрабатывает POST /discord/interactions
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Подпись считается по сырому телу, поэтому читаем его целиком
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		h.logger.Error("failed to read interaction body", zap.Error(err))
		writeDetail(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) > maxBodySize {
		writeDetail(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}

	if err := h.verify(r.Header, body); err != nil {
		h.metrics.Interaction("unverified", "rejected")
		h.logger.Warn("interaction signature rejected",
			zap.Error(err),
			zap.String("remote_addr", r.RemoteAddr),
		)
		writeDetail(w, http.StatusUnauthorized, "invalid request signature")
		return
	}

	var in Interaction
	if err := json.Unmarshal(body, &in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid interaction payload")
		return
	}

	writeJSON(w, h.dispatch(r.Context(), in))
}

var (
	errMissingKey       = errors.New("public key not configured")
	errMissingSignature = errors.New("missing signature headers")
	errBadSignature     = errors.New("signature mismatch")
)

// verify проверяет Ed25519 подпись над timestamp || body
func (h *Handler) verify(header http.Header, body []byte) error {
	if h.publicKey == nil {
		if h.insecure {
			h.logger.Warn("accepting interaction without signature verification")
			return nil
		}
		return errMissingKey
	}

	sigHex := header.Get(HeaderSignature)
	ts := header.Get(HeaderTimestamp)
	if sigHex == "" || ts == "" {
		return errMissingSignature
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return errBadSignature
	}

	msg := make([]byte, 0, len(ts)+len(body))
	msg = append(msg, ts...)
	msg = append(msg, body...)
	if !ed25519.Verify(h.publicKey, msg, sig) {
		return errBadSignature
	}
	return nil
}

func (h *Handler) dispatch(ctx context.Context, in Interaction) Response {
	switch in.Type {
	case TypePing:
		h.metrics.Interaction("ping", "ok")
		return pong()
	case TypeApplicationCommand:
		return h.handleCommand(ctx, in)
	default:
		h.metrics.Interaction("unknown", "ignored")
		return pong()
	}
}

func (h *Handler) handleCommand(ctx context.Context, in Interaction) Response {
	if in.Member == nil || !h.isStaff(in.Member.Roles) {
		h.metrics.Interaction("command", "forbidden")
		return ephemeral(msgPermissionDenied)
	}
	if in.Data == nil {
		return pong()
	}

	invoker := in.Member.User.Username
	logger := h.logger.With(
		zap.String("command", in.Data.Name),
		zap.String("channel_id", in.ChannelID),
		zap.String("invoker", invoker),
	)

	switch in.Data.Name {
	case "close":
		if _, err := h.tickets.Close(ctx, in.ChannelID, invoker); err != nil {
			h.metrics.Interaction("close", "error")
			logger.Error("failed to close ticket", zap.Error(err))
			return ephemeral(msgCloseFailed)
		}
		h.metrics.Interaction("close", "ok")
		logger.Info("ticket close requested")
		return ephemeral(msgClosing)

	case "complete":
		h.metrics.Interaction("complete", "ok")
		h.completeInBackground(context.WithoutCancel(ctx), in.ChannelID, invoker, logger)
		return ephemeral(msgCompleting)

	default:
		h.metrics.Interaction("command", "unknown")
		return pong()
	}
}

// completeInBackground завершает заказ и запускает закрытие тикета после ответа Discord
func (h *Handler) completeInBackground(ctx context.Context, channelID, invoker string, logger *zap.Logger) {
	h.background.Add(1)
	go func() {
		defer h.background.Done()

		if err := h.orders.CompleteByTicket(ctx, channelID, invoker); err != nil {
			logger.Warn("failed to complete order linked to ticket", zap.Error(err))
		}

		if _, err := h.tickets.Complete(ctx, channelID, invoker); err != nil {
			logger.Error("failed to complete ticket", zap.Error(err))
			return
		}
		logger.Info("ticket completion scheduled")
	}()
}

// Drain ждёт фоновые продолжения команд
func (h *Handler) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) isStaff(roles []string) bool {
	for _, r := range roles {
		if _, ok := h.staff[r]; ok {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
