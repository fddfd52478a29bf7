package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/repository"
	platformkafka "github.com/shestoi/rivalsyndicate/platform/kafka"
	"github.com/shestoi/rivalsyndicate/platform/observability"
)

// MessageWriter - часть kafka.Writer, нужная публикатору
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEventPublisher публикует события заказов из outbox в Kafka
// Ключ сообщения - order_id, поэтому события одного заказа попадают в одну партицию
type OrderEventPublisher struct {
	logger *zap.Logger
	writer MessageWriter
	topic  string
}

// NewOrderEventPublisher создаёт publisher с kafka.Writer на брокеры из конфигурации
func NewOrderEventPublisher(logger *zap.Logger, cfg platformkafka.Config) *OrderEventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.OrderEventsTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newOrderEventPublisher(logger, writer, cfg.OrderEventsTopic)
}

func newOrderEventPublisher(logger *zap.Logger, writer MessageWriter, topic string) *OrderEventPublisher {
	return &OrderEventPublisher{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

// Handle публикует одно outbox событие; тип события передаётся в заголовке
func (p *OrderEventPublisher) Handle(ctx context.Context, e repository.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(e.AggregateID),
		Value: e.Payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(e.EventID)},
			{Key: "event_type", Value: []byte(e.Topic)},
		},
	}
	otel.GetTextMapPropagator().Inject(ctx, observability.NewKafkaHeaderCarrier(&msg.Headers))

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish order event",
			zap.Error(err),
			zap.String("topic", p.topic),
			zap.String("event_type", e.Topic),
			zap.String("order_id", e.AggregateID),
		)
		return fmt.Errorf("publish %s: %w", e.Topic, err)
	}

	p.logger.Info("order event published",
		zap.String("topic", p.topic),
		zap.String("event_type", e.Topic),
		zap.String("order_id", e.AggregateID),
	)
	return nil
}

// Close закрывает Kafka writer
func (p *OrderEventPublisher) Close() error {
	p.logger.Info("closing kafka order event publisher")
	return p.writer.Close()
}
