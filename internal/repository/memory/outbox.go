package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// GetPendingOutboxEvents возвращает pending события в порядке создания
func (r *MemoryRepository) GetPendingOutboxEvents(ctx context.Context, limit int) ([]repository.OutboxEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.OutboxEvent, 0)
	for _, e := range r.outbox {
		if e.Status != repository.OutboxStatusPending {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MarkOutboxEventSent отмечает событие доставленным
func (r *MemoryRepository) MarkOutboxEventSent(ctx context.Context, eventID string) error {
	return r.updateEvent(eventID, func(e *repository.OutboxEvent) {
		e.Status = repository.OutboxStatusSent
	})
}

// MarkOutboxEventFailed отмечает событие неуспешным и увеличивает счётчик попыток
func (r *MemoryRepository) MarkOutboxEventFailed(ctx context.Context, eventID string, errMsg string) error {
	return r.updateEvent(eventID, func(e *repository.OutboxEvent) {
		e.Status = repository.OutboxStatusFailed
		e.Attempts++
		e.LastError = errMsg
	})
}

// ResetOutboxEventPending возвращает событие в очередь
func (r *MemoryRepository) ResetOutboxEventPending(ctx context.Context, eventID string) error {
	return r.updateEvent(eventID, func(e *repository.OutboxEvent) {
		e.Status = repository.OutboxStatusPending
	})
}

// OutboxEvents возвращает копию всех событий (для тестов и отладки)
func (r *MemoryRepository) OutboxEvents() []repository.OutboxEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.OutboxEvent, len(r.outbox))
	copy(out, r.outbox)
	return out
}

func (r *MemoryRepository) updateEvent(eventID string, fn func(e *repository.OutboxEvent)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.outbox {
		if r.outbox[i].EventID == eventID {
			fn(&r.outbox[i])
			return nil
		}
	}
	return repository.ErrNotFound
}

// RevocationStore хранит отозванные jti в памяти до истечения срока
type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewRevocationStore создаёт in-memory список отзыва
func NewRevocationStore() *RevocationStore {
	return &RevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke отзывает jti до момента until
func (s *RevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[jti] = until
	return nil
}

// IsRevoked проверяет jti; просроченные записи удаляются
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}
