package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// GetPendingOutboxEvents возвращает pending события в порядке создания
func (r *Repository) GetPendingOutboxEvents(ctx context.Context, limit int) ([]repository.OutboxEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := r.outbox.Find(ctx, bson.M{"status": string(repository.OutboxStatusPending)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := make([]repository.OutboxEvent, 0)
	for cur.Next(ctx) {
		var doc OutboxDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		events = append(events, repository.OutboxEvent{
			EventID:     doc.EventID,
			AggregateID: doc.AggregateID,
			Topic:       doc.Topic,
			Payload:     doc.Payload,
			Status:      repository.OutboxStatus(doc.Status),
			Attempts:    doc.Attempts,
			LastError:   doc.LastError,
			CreatedAt:   doc.CreatedAt,
		})
	}
	return events, cur.Err()
}

// MarkOutboxEventSent отмечает событие доставленным
func (r *Repository) MarkOutboxEventSent(ctx context.Context, eventID string) error {
	return r.updateEvent(ctx, eventID, bson.M{"$set": bson.M{"status": string(repository.OutboxStatusSent)}})
}

// MarkOutboxEventFailed отмечает событие неуспешным и увеличивает счётчик попыток
func (r *Repository) MarkOutboxEventFailed(ctx context.Context, eventID string, errMsg string) error {
	return r.updateEvent(ctx, eventID, bson.M{
		"$set": bson.M{"status": string(repository.OutboxStatusFailed), "last_error": errMsg},
		"$inc": bson.M{"attempts": 1},
	})
}

// ResetOutboxEventPending возвращает событие в очередь
func (r *Repository) ResetOutboxEventPending(ctx context.Context, eventID string) error {
	return r.updateEvent(ctx, eventID, bson.M{"$set": bson.M{"status": string(repository.OutboxStatusPending)}})
}

func (r *Repository) updateEvent(ctx context.Context, eventID string, update bson.M) error {
	res, err := r.outbox.UpdateOne(ctx, bson.M{"_id": eventID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
