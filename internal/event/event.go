package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// Топики outbox событий
const (
	TopicOrderCreated        = "order.created"
	TopicOrderStatusChanged  = "order.status_changed"
	TopicTicketStatusChanged = "ticket.status_changed"
)

// Version - текущая версия схемы событий
const Version = 1

// Envelope - общая обёртка события в outbox и Kafka
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Data         json.RawMessage `json:"data"`
}

// OrderCreated публикуется после сохранения нового заказа
type OrderCreated struct {
	OrderID       string `json:"order_id"`
	UserID        string `json:"user_id"`
	ServiceType   string `json:"service_type"`
	CharacterID   string `json:"character_id"`
	CharacterName string `json:"character_name"`
	Price         string `json:"price"`
	PaymentMethod string `json:"payment_method"`
}

// OrderStatusChanged публикуется при фактической смене статуса заказа
type OrderStatusChanged struct {
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Progress  int    `json:"progress"`
	Source    string `json:"source"`
	ChangedBy string `json:"changed_by,omitempty"`
}

// TicketStatusChanged - уведомление в канал-тикет о новом статусе
type TicketStatusChanged struct {
	OrderID   string `json:"order_id"`
	ChannelID string `json:"channel_id"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	Notes     string `json:"notes,omitempty"`
}

// New заворачивает данные в Envelope и возвращает outbox событие
func New(topic, aggregateID string, data any, now time.Time) (repository.OutboxEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return repository.OutboxEvent{}, fmt.Errorf("marshal %s data: %w", topic, err)
	}

	id := uuid.NewString()
	payload, err := json.Marshal(Envelope{
		EventID:      id,
		EventType:    topic,
		EventVersion: Version,
		OccurredAt:   now.UTC(),
		Data:         raw,
	})
	if err != nil {
		return repository.OutboxEvent{}, fmt.Errorf("marshal %s envelope: %w", topic, err)
	}

	return repository.OutboxEvent{
		EventID:     id,
		AggregateID: aggregateID,
		Topic:       topic,
		Payload:     payload,
		Status:      repository.OutboxStatusPending,
		CreatedAt:   now,
	}, nil
}

// Decode разбирает Envelope и его данные в out
func Decode(payload []byte, out any) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return Envelope{}, fmt.Errorf("unmarshal %s data: %w", env.EventType, err)
		}
	}
	return env, nil
}
