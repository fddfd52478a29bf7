package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// MemoryRepository реализует OrderRepository и OutboxRepository в памяти
// Используется для локальной разработки (STORAGE_DRIVER=memory) и тестов
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]repository.Order
	outbox []repository.OutboxEvent
	now    func() time.Time
}

// NewMemoryRepository создаёт новый in-memory репозиторий
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders: make(map[string]repository.Order),
		now:    time.Now,
	}
}

// Create сохраняет заказ и события
func (r *MemoryRepository) Create(ctx context.Context, order repository.Order, events []repository.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return repository.ErrConflict
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.now().UTC()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	r.orders[order.ID] = order
	r.appendEvents(events)
	return nil
}

// Update перезаписывает изменяемые поля заказа; ссылка на тикет не трогается
func (r *MemoryRepository) Update(ctx context.Context, order repository.Order, expected repository.OrderStatus, events []repository.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.orders[order.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if existing.Status != expected {
		return repository.ErrConflict
	}
	existing.Status = order.Status
	existing.Progress = order.Progress
	existing.Notes = order.Notes
	existing.ETA = order.ETA
	existing.BoosterID = order.BoosterID
	existing.BoosterUsername = order.BoosterUsername
	existing.UpdatedAt = order.UpdatedAt
	if existing.UpdatedAt.IsZero() {
		existing.UpdatedAt = r.now().UTC()
	}
	r.orders[order.ID] = existing
	r.appendEvents(events)
	return nil
}

func (r *MemoryRepository) appendEvents(events []repository.OutboxEvent) {
	for _, e := range events {
		if e.EventID == "" {
			e.EventID = uuid.NewString()
		}
		e.Status = repository.OutboxStatusPending
		if e.CreatedAt.IsZero() {
			e.CreatedAt = r.now().UTC()
		}
		r.outbox = append(r.outbox, e)
	}
}

// GetByID получает заказ по ID
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (repository.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[id]
	if !exists {
		return repository.Order{}, repository.ErrNotFound
	}
	return order, nil
}

// GetByTicketChannel ищет заказ по каналу-тикету
func (r *MemoryRepository) GetByTicketChannel(ctx context.Context, channelID string) (repository.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.TicketChannelID != nil && *o.TicketChannelID == channelID {
			return o, nil
		}
	}
	return repository.Order{}, repository.ErrNotFound
}

// SetTicket привязывает канал к заказу не более одного раза
func (r *MemoryRepository) SetTicket(ctx context.Context, orderID, channelID, channelName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	if order.HasTicket() {
		return repository.ErrTicketAlreadySet
	}
	order.TicketChannelID = &channelID
	order.TicketChannelName = &channelName
	order.UpdatedAt = r.now().UTC()
	r.orders[orderID] = order
	return nil
}

// ListByUser возвращает заказы пользователя
func (r *MemoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]repository.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// List возвращает страницу заказов и общее количество
func (r *MemoryRepository) List(ctx context.Context, filter repository.OrderFilter) ([]repository.Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]repository.Order, 0)
	for _, o := range r.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		matched = append(matched, o)
	}
	sortNewestFirst(matched)

	total := len(matched)
	if filter.Offset >= total {
		return []repository.Order{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < total {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

// CountCompletedByBooster считает завершённые заказы по исполнителю
func (r *MemoryRepository) CountCompletedByBooster(ctx context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, o := range r.orders {
		if o.Status == repository.StatusCompleted && o.BoosterID != nil {
			counts[*o.BoosterID]++
		}
	}
	return counts, nil
}

// CountByStatus считает заказы в статусе
func (r *MemoryRepository) CountByStatus(ctx context.Context, status repository.OrderStatus) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, o := range r.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func sortNewestFirst(orders []repository.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
