package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

func insertOutboxEvents(ctx context.Context, tx pgx.Tx, events []repository.OutboxEvent) error {
	for _, e := range events {
		if e.EventID == "" {
			e.EventID = uuid.NewString()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO outbox_events (event_id, aggregate_id, topic, payload, status)
			 VALUES ($1, $2, $3, $4, 'pending')`,
			e.EventID, e.AggregateID, e.Topic, e.Payload)
		if err != nil {
			return fmt.Errorf("insert outbox event %s: %w", e.Topic, err)
		}
	}
	return nil
}

// GetPendingOutboxEvents возвращает pending события в порядке создания
func (r *Repository) GetPendingOutboxEvents(ctx context.Context, limit int) ([]repository.OutboxEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT event_id::text, aggregate_id, topic, payload, status, attempts, coalesce(last_error, ''), created_at
		 FROM outbox_events
		 WHERE status = 'pending'
		 ORDER BY created_at
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]repository.OutboxEvent, 0)
	for rows.Next() {
		var e repository.OutboxEvent
		var status string
		if err := rows.Scan(&e.EventID, &e.AggregateID, &e.Topic, &e.Payload, &status, &e.Attempts, &e.LastError, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Status = repository.OutboxStatus(status)
		events = append(events, e)
	}
	return events, rows.Err()
}

// MarkOutboxEventSent отмечает событие доставленным
func (r *Repository) MarkOutboxEventSent(ctx context.Context, eventID string) error {
	return r.execOutbox(ctx,
		`UPDATE outbox_events SET status = 'sent', sent_at = now() WHERE event_id::text = $1`, eventID)
}

// MarkOutboxEventFailed отмечает событие неуспешным и увеличивает счётчик попыток
func (r *Repository) MarkOutboxEventFailed(ctx context.Context, eventID string, errMsg string) error {
	return r.execOutbox(ctx,
		`UPDATE outbox_events SET status = 'failed', attempts = attempts + 1, last_error = $2 WHERE event_id::text = $1`,
		eventID, errMsg)
}

// ResetOutboxEventPending возвращает событие в очередь
func (r *Repository) ResetOutboxEventPending(ctx context.Context, eventID string) error {
	return r.execOutbox(ctx,
		`UPDATE outbox_events SET status = 'pending' WHERE event_id::text = $1`, eventID)
}

func (r *Repository) execOutbox(ctx context.Context, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
