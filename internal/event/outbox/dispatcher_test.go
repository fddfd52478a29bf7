package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/event"
	"github.com/shestoi/rivalsyndicate/internal/repository"
	"github.com/shestoi/rivalsyndicate/internal/repository/memory"
	"github.com/shestoi/rivalsyndicate/internal/ticket"
)

var testCfg = Config{BatchSize: 10, Interval: time.Millisecond, MaxRetries: 3, Backoff: time.Millisecond}

func seed(t *testing.T, repo *memory.MemoryRepository, events ...repository.OutboxEvent) {
	t.Helper()
	order := repository.Order{ID: "order-1", UserID: "user-1", Status: repository.StatusPending}
	require.NoError(t, repo.Create(context.Background(), order, events))
}

func newEvent(t *testing.T, topic string, data any) repository.OutboxEvent {
	t.Helper()
	e, err := event.New(topic, "order-1", data, time.Now())
	require.NoError(t, err)
	return e
}

func statusOf(repo *memory.MemoryRepository, id string) repository.OutboxEvent {
	for _, e := range repo.OutboxEvents() {
		if e.EventID == id {
			return e
		}
	}
	return repository.OutboxEvent{}
}

func TestDispatcher_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by topic and marks sent", func(t *testing.T) {
		repo := memory.NewMemoryRepository()
		created := newEvent(t, event.TopicOrderCreated, event.OrderCreated{OrderID: "order-1"})
		changed := newEvent(t, event.TopicOrderStatusChanged, event.OrderStatusChanged{OrderID: "order-1"})
		seed(t, repo, created, changed)

		var got []string
		d := NewDispatcher(zap.NewNop(), repo, nil, testCfg)
		record := HandlerFunc(func(ctx context.Context, e repository.OutboxEvent) error {
			got = append(got, e.Topic)
			return nil
		})
		d.Register(event.TopicOrderCreated, record)
		d.Register(event.TopicOrderStatusChanged, record)

		require.NoError(t, d.processBatch(ctx))
		require.Equal(t, []string{event.TopicOrderCreated, event.TopicOrderStatusChanged}, got)

		pending, err := repo.GetPendingOutboxEvents(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, pending)
		require.Equal(t, repository.OutboxStatusSent, statusOf(repo, created.EventID).Status)
	})

	t.Run("retries then succeeds", func(t *testing.T) {
		repo := memory.NewMemoryRepository()
		e := newEvent(t, event.TopicOrderCreated, event.OrderCreated{OrderID: "order-1"})
		seed(t, repo, e)

		calls := 0
		d := NewDispatcher(zap.NewNop(), repo, nil, testCfg)
		d.Register(event.TopicOrderCreated, HandlerFunc(func(ctx context.Context, e repository.OutboxEvent) error {
			calls++
			if calls < 3 {
				return errors.New("broker unavailable")
			}
			return nil
		}))

		require.NoError(t, d.processBatch(ctx))
		require.Equal(t, 3, calls)
		require.Equal(t, repository.OutboxStatusSent, statusOf(repo, e.EventID).Status)
	})

	t.Run("exhausted retries return event to pending", func(t *testing.T) {
		repo := memory.NewMemoryRepository()
		e := newEvent(t, event.TopicOrderCreated, event.OrderCreated{OrderID: "order-1"})
		seed(t, repo, e)

		d := NewDispatcher(zap.NewNop(), repo, nil, testCfg)
		d.Register(event.TopicOrderCreated, HandlerFunc(func(ctx context.Context, e repository.OutboxEvent) error {
			return errors.New("broker unavailable")
		}))

		require.NoError(t, d.processBatch(ctx))

		stored := statusOf(repo, e.EventID)
		require.Equal(t, repository.OutboxStatusPending, stored.Status)
		require.Equal(t, 1, stored.Attempts)
		require.Contains(t, stored.LastError, "failed after 3 attempts")
	})

	t.Run("unknown topic is marked failed", func(t *testing.T) {
		repo := memory.NewMemoryRepository()
		e := newEvent(t, "order.refunded", map[string]string{"order_id": "order-1"})
		seed(t, repo, e)

		d := NewDispatcher(zap.NewNop(), repo, nil, testCfg)
		require.NoError(t, d.processBatch(ctx))

		stored := statusOf(repo, e.EventID)
		require.Equal(t, repository.OutboxStatusFailed, stored.Status)
		require.Equal(t, ErrNoHandler.Error(), stored.LastError)
	})
}

func TestDispatcher_StartStopsOnCancel(t *testing.T) {
	repo := memory.NewMemoryRepository()
	e := newEvent(t, event.TopicOrderCreated, event.OrderCreated{OrderID: "order-1"})
	seed(t, repo, e)

	delivered := make(chan struct{}, 1)
	d := NewDispatcher(zap.NewNop(), repo, nil, testCfg)
	d.Register(event.TopicOrderCreated, HandlerFunc(func(ctx context.Context, e repository.OutboxEvent) error {
		delivered <- struct{}{}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	updates []ticket.StatusUpdate
	err     error
}

func (n *recordingNotifier) NotifyStatusChange(ctx context.Context, channelID string, upd ticket.StatusUpdate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, upd)
	return n.err
}

func TestTicketNotifier_Handle(t *testing.T) {
	ctx := context.Background()
	payload := event.TicketStatusChanged{OrderID: "order-1", ChannelID: "chan-1", Status: "in_progress", Progress: 40, Notes: "started"}

	tests := []struct {
		name      string
		event     repository.OutboxEvent
		notifyErr error
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "delivers update",
			event:     newEvent(t, event.TopicTicketStatusChanged, payload),
			wantCalls: 1,
		},
		{
			name:      "deleted channel is not retried",
			event:     newEvent(t, event.TopicTicketStatusChanged, payload),
			notifyErr: ticket.ErrTicketNotFound,
			wantCalls: 1,
		},
		{
			name:      "upstream failure is retried",
			event:     newEvent(t, event.TopicTicketStatusChanged, payload),
			notifyErr: errors.New("discord API status 502"),
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:  "malformed payload is dropped",
			event: repository.OutboxEvent{EventID: "e1", Topic: event.TopicTicketStatusChanged, Payload: []byte(`not json`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &recordingNotifier{err: tt.notifyErr}
			h := NewTicketNotifier(zap.NewNop(), n)

			err := h.Handle(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Len(t, n.updates, tt.wantCalls)
			if tt.wantCalls > 0 {
				require.Equal(t, ticket.StatusUpdate{Status: repository.StatusInProgress, Progress: 40, Notes: "started"}, n.updates[0])
			}
		})
	}
}
