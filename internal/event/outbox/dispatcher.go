package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/metrics"
	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// ErrNoHandler - для топика не зарегистрирован обработчик
var ErrNoHandler = errors.New("no handler for topic")

// Handler доставляет одно событие; ошибка означает повторную попытку
type Handler interface {
	Handle(ctx context.Context, event repository.OutboxEvent) error
}

// HandlerFunc позволяет использовать функцию как Handler
type HandlerFunc func(ctx context.Context, event repository.OutboxEvent) error

// Handle вызывает f(ctx, event)
func (f HandlerFunc) Handle(ctx context.Context, event repository.OutboxEvent) error {
	return f(ctx, event)
}

// Config задаёт параметры обработки outbox
type Config struct {
	BatchSize  int
	Interval   time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// Dispatcher читает pending события из outbox и передаёт их обработчикам по топику
type Dispatcher struct {
	logger   *zap.Logger
	repo     repository.OutboxRepository
	metrics  *metrics.Metrics
	handlers map[string][]Handler
	cfg      Config
}

// NewDispatcher создаёт новый outbox dispatcher
func NewDispatcher(logger *zap.Logger, repo repository.OutboxRepository, m *metrics.Metrics, cfg Config) *Dispatcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}

	return &Dispatcher{
		logger:   logger,
		repo:     repo,
		metrics:  m,
		handlers: make(map[string][]Handler),
		cfg:      cfg,
	}
}

// Register добавляет обработчик для топика
// Событие считается доставленным, когда все обработчики топика отработали без ошибки
func (d *Dispatcher) Register(topic string, h Handler) {
	d.handlers[topic] = append(d.handlers[topic], h)
}

// Start обрабатывает outbox до отмены контекста
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info("starting outbox dispatcher",
		zap.Int("batch_size", d.cfg.BatchSize),
		zap.Duration("interval", d.cfg.Interval),
		zap.Int("max_retries", d.cfg.MaxRetries),
	)

	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	// Обрабатываем сразу при старте
	if err := d.processBatch(ctx); err != nil && ctx.Err() == nil {
		d.logger.Error("failed to process initial batch", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher context cancelled, stopping")
			return nil
		case <-ticker.C:
			if err := d.processBatch(ctx); err != nil && ctx.Err() == nil {
				d.logger.Error("failed to process batch", zap.Error(err))
			}
		}
	}
}

// processBatch обрабатывает батч pending событий
func (d *Dispatcher) processBatch(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	events, err := d.repo.GetPendingOutboxEvents(ctx, d.cfg.BatchSize)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to get pending events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	d.logger.Debug("processing outbox batch", zap.Int("count", len(events)))

	for _, event := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := d.processEvent(ctx, event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.logger.Error("failed to process event",
				zap.Error(err),
				zap.String("event_id", event.EventID),
				zap.String("topic", event.Topic),
			)
			// Продолжаем со следующими событиями
		}
	}

	return nil
}

// processEvent доставляет одно событие с retry и линейным backoff
func (d *Dispatcher) processEvent(ctx context.Context, event repository.OutboxEvent) error {
	handlers := d.handlers[event.Topic]
	if len(handlers) == 0 {
		// Повторять бессмысленно: событие остаётся failed
		d.metrics.OutboxDelivery(event.Topic, ErrNoHandler)
		if err := d.repo.MarkOutboxEventFailed(ctx, event.EventID, ErrNoHandler.Error()); err != nil {
			return err
		}
		return fmt.Errorf("%w %s", ErrNoHandler, event.Topic)
	}

	var lastErr error
	for attempt := 1; attempt <= d.cfg.MaxRetries; attempt++ {
		err := deliver(ctx, handlers, event)
		d.metrics.OutboxDelivery(event.Topic, err)
		if err == nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if markErr := d.repo.MarkOutboxEventSent(ctx, event.EventID); markErr != nil {
				d.logger.Error("failed to mark event as sent",
					zap.Error(markErr),
					zap.String("event_id", event.EventID),
				)
				return markErr
			}

			d.logger.Info("outbox event delivered",
				zap.String("event_id", event.EventID),
				zap.String("topic", event.Topic),
				zap.String("aggregate_id", event.AggregateID),
				zap.Int("attempt", attempt),
			)
			return nil
		}

		lastErr = err
		d.logger.Warn("failed to deliver outbox event",
			zap.Error(err),
			zap.String("event_id", event.EventID),
			zap.String("topic", event.Topic),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", d.cfg.MaxRetries),
		)

		if attempt < d.cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d.cfg.Backoff * time.Duration(attempt)):
			}
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	errMsg := fmt.Sprintf("failed after %d attempts: %v", d.cfg.MaxRetries, lastErr)
	if markErr := d.repo.MarkOutboxEventFailed(ctx, event.EventID, errMsg); markErr != nil {
		d.logger.Error("failed to mark event as failed",
			zap.Error(markErr),
			zap.String("event_id", event.EventID),
		)
		return markErr
	}

	// Возвращаем в pending для следующего цикла
	if resetErr := d.repo.ResetOutboxEventPending(ctx, event.EventID); resetErr != nil {
		d.logger.Error("failed to reset event to pending",
			zap.Error(resetErr),
			zap.String("event_id", event.EventID),
		)
	}

	return fmt.Errorf("failed to deliver event after %d attempts: %w", d.cfg.MaxRetries, lastErr)
}

func deliver(ctx context.Context, handlers []Handler, event repository.OutboxEvent) error {
	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
