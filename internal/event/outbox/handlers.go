package outbox

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/event"
	"github.com/shestoi/rivalsyndicate/internal/repository"
	"github.com/shestoi/rivalsyndicate/internal/ticket"
)

// StatusNotifier публикует уведомление о смене статуса в канал-тикет
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, channelID string, upd ticket.StatusUpdate) error
}

// TicketNotifier доставляет ticket.status_changed в Discord
type TicketNotifier struct {
	logger   *zap.Logger
	notifier StatusNotifier
}

// NewTicketNotifier создаёт обработчик уведомлений тикета
func NewTicketNotifier(logger *zap.Logger, notifier StatusNotifier) *TicketNotifier {
	return &TicketNotifier{
		logger:   logger,
		notifier: notifier,
	}
}

// Handle публикует уведомление; удалённый канал или отсутствие настроек не повторяются
func (n *TicketNotifier) Handle(ctx context.Context, e repository.OutboxEvent) error {
	var data event.TicketStatusChanged
	if _, err := event.Decode(e.Payload, &data); err != nil {
		// Битый payload не исправится повтором
		n.logger.Error("dropping malformed ticket event", zap.Error(err), zap.String("event_id", e.EventID))
		return nil
	}

	status, err := repository.ParseOrderStatus(data.Status)
	if err != nil {
		n.logger.Error("dropping ticket event with unknown status", zap.Error(err), zap.String("event_id", e.EventID))
		return nil
	}

	err = n.notifier.NotifyStatusChange(ctx, data.ChannelID, ticket.StatusUpdate{
		Status:   status,
		Progress: data.Progress,
		Notes:    data.Notes,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ticket.ErrTicketNotFound), errors.Is(err, ticket.ErrNotConfigured):
		n.logger.Warn("ticket notification skipped",
			zap.Error(err),
			zap.String("order_id", data.OrderID),
			zap.String("channel_id", data.ChannelID),
		)
		return nil
	default:
		return fmt.Errorf("notify ticket %s: %w", data.ChannelID, err)
	}
}

// LogHandler только пишет событие в лог; используется, когда Kafka выключена
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler создаёт обработчик-заглушку
func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// Handle логирует событие
func (h *LogHandler) Handle(ctx context.Context, e repository.OutboxEvent) error {
	h.logger.Info("integration event",
		zap.String("event_id", e.EventID),
		zap.String("topic", e.Topic),
		zap.String("aggregate_id", e.AggregateID),
		zap.ByteString("payload", e.Payload),
	)
	return nil
}
