package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

func newOrder(id, userID string, status repository.OrderStatus, createdAt time.Time) repository.Order {
	return repository.Order{
		ID:            id,
		UserID:        userID,
		ServiceType:   repository.ServiceLordBoosting,
		CharacterName: "Hela",
		Status:        status,
		Price:         decimal.NewFromInt(35),
		PaymentMethod: "paypal",
		ETA:           "TBD",
		CreatedAt:     createdAt,
	}
}

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	order := newOrder("order-1", "user-1", repository.StatusPending, time.Time{})
	err := repo.Create(ctx, order, []repository.OutboxEvent{{AggregateID: "order-1", Topic: "order.created", Payload: []byte(`{}`)}})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", got.UserID)
	require.False(t, got.CreatedAt.IsZero())
	require.True(t, got.Price.Equal(decimal.NewFromInt(35)))

	events := repo.OutboxEvents()
	require.Len(t, events, 1)
	require.NotEmpty(t, events[0].EventID)
	require.Equal(t, repository.OutboxStatusPending, events[0].Status)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Create(ctx, order, nil)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestMemoryRepository_SetTicketOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.Create(ctx, newOrder("order-1", "user-1", repository.StatusPending, time.Time{}), nil))

	require.NoError(t, repo.SetTicket(ctx, "order-1", "chan-1", "ticket-alice-order-1"))
	err := repo.SetTicket(ctx, "order-1", "chan-2", "ticket-alice-order-1")
	require.ErrorIs(t, err, repository.ErrTicketAlreadySet)

	got, err := repo.GetByTicketChannel(ctx, "chan-1")
	require.NoError(t, err)
	require.Equal(t, "order-1", got.ID)

	_, err = repo.GetByTicketChannel(ctx, "chan-2")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.SetTicket(ctx, "missing", "c", "n"), repository.ErrNotFound)
}

func TestMemoryRepository_UpdateKeepsTicket(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.Create(ctx, newOrder("order-1", "user-1", repository.StatusPending, time.Time{}), nil))
	require.NoError(t, repo.SetTicket(ctx, "order-1", "chan-1", "ticket"))

	upd, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	upd.Status = repository.StatusInProgress
	upd.Progress = 40
	upd.TicketChannelID = nil
	require.NoError(t, repo.Update(ctx, upd, repository.StatusPending, nil))

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	require.Equal(t, repository.StatusInProgress, got.Status)
	require.Equal(t, 40, got.Progress)
	require.True(t, got.HasTicket())

	require.ErrorIs(t, repo.Update(ctx, newOrder("missing", "u", repository.StatusPending, time.Time{}), repository.StatusPending, nil), repository.ErrNotFound)
}

func TestMemoryRepository_UpdateRejectsStaleStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.Create(ctx, newOrder("order-1", "user-1", repository.StatusPending, time.Time{}), nil))

	staff, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)

	// /complete успевает раньше правки персонала
	done := staff
	done.Status = repository.StatusCompleted
	done.Progress = 100
	require.NoError(t, repo.Update(ctx, done, repository.StatusPending, nil))

	staff.Status = repository.StatusInProgress
	err = repo.Update(ctx, staff, repository.StatusPending, []repository.OutboxEvent{{EventID: "e-1", Topic: "ticket.status_changed"}})
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	require.Equal(t, repository.StatusCompleted, got.Status)
	require.Equal(t, 100, got.Progress)
	require.Empty(t, repo.OutboxEvents())
}

func TestMemoryRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 120; i++ {
		status := repository.StatusPending
		if i%2 == 0 {
			status = repository.StatusCompleted
		}
		o := newOrder(fmt.Sprintf("order-%03d", i), "user-1", status, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(ctx, o, nil))
	}

	page1, total, err := repo.List(ctx, repository.OrderFilter{Offset: 0, Limit: 50})
	require.NoError(t, err)
	require.Equal(t, 120, total)
	require.Len(t, page1, 50)
	require.Equal(t, "order-119", page1[0].ID)

	page2, _, err := repo.List(ctx, repository.OrderFilter{Offset: 50, Limit: 50})
	require.NoError(t, err)
	require.Len(t, page2, 50)
	require.True(t, page1[49].CreatedAt.After(page2[0].CreatedAt))

	page3, _, err := repo.List(ctx, repository.OrderFilter{Offset: 100, Limit: 50})
	require.NoError(t, err)
	require.Len(t, page3, 20)

	empty, _, err := repo.List(ctx, repository.OrderFilter{Offset: 200, Limit: 50})
	require.NoError(t, err)
	require.Empty(t, empty)

	completed := repository.StatusCompleted
	_, total, err = repo.List(ctx, repository.OrderFilter{Status: &completed, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 60, total)

	n, err := repo.CountByStatus(ctx, repository.StatusPending)
	require.NoError(t, err)
	require.Equal(t, 60, n)

	mine, err := repo.ListByUser(ctx, "user-1", 100)
	require.NoError(t, err)
	require.Len(t, mine, 100)
}

func TestMemoryRepository_CountCompletedByBooster(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	booster := "booster-1"

	o1 := newOrder("o1", "u", repository.StatusCompleted, time.Time{})
	o1.BoosterID = &booster
	o2 := newOrder("o2", "u", repository.StatusInProgress, time.Time{})
	o2.BoosterID = &booster
	o3 := newOrder("o3", "u", repository.StatusCompleted, time.Time{})
	o3.BoosterID = &booster
	for _, o := range []repository.Order{o1, o2, o3} {
		require.NoError(t, repo.Create(ctx, o, nil))
	}

	counts, err := repo.CountCompletedByBooster(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, counts[booster])
}

func TestMemoryRepository_Outbox(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.Create(ctx, newOrder("o1", "u", repository.StatusPending, time.Time{}), []repository.OutboxEvent{
		{EventID: "e1", AggregateID: "o1", Topic: "a"},
		{EventID: "e2", AggregateID: "o1", Topic: "b"},
	}))

	pending, err := repo.GetPendingOutboxEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, repo.MarkOutboxEventSent(ctx, "e1"))
	require.NoError(t, repo.MarkOutboxEventFailed(ctx, "e2", "boom"))

	pending, err = repo.GetPendingOutboxEvents(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.NoError(t, repo.ResetOutboxEventPending(ctx, "e2"))
	pending, err = repo.GetPendingOutboxEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, 1, pending[0].Attempts)
	require.Equal(t, "boom", pending[0].LastError)

	require.ErrorIs(t, repo.MarkOutboxEventSent(ctx, "missing"), repository.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u, err := repo.Upsert(ctx, repository.User{DiscordID: "111", Username: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, repository.RoleClient, u.Role)

	_, err = repo.UpdateRole(ctx, u.ID, repository.RoleBooster)
	require.NoError(t, err)

	again, err := repo.Upsert(ctx, repository.User{DiscordID: "111", Username: "alice2", Role: repository.RoleClient})
	require.NoError(t, err)
	require.Equal(t, u.ID, again.ID)
	require.Equal(t, "alice2", again.Username)
	require.Equal(t, repository.RoleBooster, again.Role)

	_, err = repo.Upsert(ctx, repository.User{DiscordID: "222", Username: "bob"})
	require.NoError(t, err)

	staff, err := repo.ListByRoles(ctx, repository.StaffRoles()...)
	require.NoError(t, err)
	require.Len(t, staff, 1)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.UpdateRole(ctx, "missing", repository.RoleAdmin)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRevocationStore(t *testing.T) {
	ctx := context.Background()
	store := NewRevocationStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
}
