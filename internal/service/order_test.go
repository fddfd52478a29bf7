package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/event"
	"github.com/shestoi/rivalsyndicate/internal/repository"
	repoMocks "github.com/shestoi/rivalsyndicate/internal/repository/mocks"
	"github.com/shestoi/rivalsyndicate/internal/service/mocks"
	"github.com/shestoi/rivalsyndicate/internal/ticket"
)

var (
	testNow = time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)

	client  = repository.User{ID: "user-1", DiscordID: "111", Username: "alice", Role: repository.RoleClient}
	booster = repository.User{ID: "booster-1", DiscordID: "222", Username: "bob", Role: repository.RoleBooster}
	admin   = repository.User{ID: "admin-1", DiscordID: "333", Username: "carol", Role: repository.RoleAdmin}
)

func newOrderService(t *testing.T) (*OrderService, *repoMocks.OrderRepository, *repoMocks.UserRepository, *mocks.TicketCreator) {
	t.Helper()
	orders := repoMocks.NewOrderRepository(t)
	users := repoMocks.NewUserRepository(t)
	tickets := mocks.NewTicketCreator(t)

	svc := NewOrderService(zap.NewNop(), orders, users, tickets, nil)
	svc.now = func() time.Time { return testNow }
	return svc, orders, users, tickets
}

func topics(events []repository.OutboxEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Topic)
	}
	return out
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func storedOrder(status repository.OrderStatus, withTicket bool) repository.Order {
	o := repository.Order{
		ID:              "order-1",
		UserID:          client.ID,
		DiscordUsername: client.Username,
		ServiceType:     repository.ServiceLordBoosting,
		CharacterID:     "hela",
		CharacterName:   "Hela",
		CharacterClass:  repository.ClassDuelist,
		Status:          status,
		Price:           decimal.NewFromInt(35),
		PaymentMethod:   "paypal",
		ETA:             "TBD",
	}
	if withTicket {
		o.TicketChannelID = strPtr("chan-1")
		o.TicketChannelName = strPtr("ticket-alice-order-1")
	}
	return o
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	validInput := CreateOrderInput{
		ServiceType:    "lord-boosting",
		CharacterID:    "hela",
		CharacterName:  "Hela",
		CharacterClass: "duelist",
		Price:          decimal.RequireFromString("35.00"),
		PaymentMethod:  "paypal",
	}

	tests := []struct {
		name          string
		input         CreateOrderInput
		expectSave    bool
		saveErr       error
		ticket        *ticket.Ticket
		ticketErr     error
		expectLink    bool
		linkErr       error
		expectedErr   error
		errorContains string
		wantTicket    bool
	}{
		{
			name:       "success: ticket created and linked",
			input:      validInput,
			expectSave: true,
			ticket:     &ticket.Ticket{ChannelID: "chan-1", ChannelName: "ticket-alice-abcdef12"},
			expectLink: true,
			wantTicket: true,
		},
		{
			name:       "success: ticket failure does not fail the order",
			input:      validInput,
			expectSave: true,
			ticketErr:  errors.New("discord API status 500: internal"),
		},
		{
			name:       "success: discord not configured",
			input:      validInput,
			expectSave: true,
			ticketErr:  ticket.ErrNotConfigured,
		},
		{
			name:       "success: ticket already linked is logged",
			input:      validInput,
			expectSave: true,
			ticket:     &ticket.Ticket{ChannelID: "chan-1", ChannelName: "ticket-alice-abcdef12"},
			expectLink: true,
			linkErr:    repository.ErrTicketAlreadySet,
		},
		{
			name: "error: unknown service type",
			input: func() CreateOrderInput {
				in := validInput
				in.ServiceType = "carry"
				return in
			}(),
			expectedErr: ErrValidation,
		},
		{
			name: "error: unknown character class",
			input: func() CreateOrderInput {
				in := validInput
				in.CharacterClass = "tank"
				return in
			}(),
			expectedErr: ErrValidation,
		},
		{
			name: "error: zero price",
			input: func() CreateOrderInput {
				in := validInput
				in.Price = decimal.Zero
				return in
			}(),
			expectedErr: ErrValidation,
		},
		{
			name: "error: missing payment method",
			input: func() CreateOrderInput {
				in := validInput
				in.PaymentMethod = ""
				return in
			}(),
			expectedErr: ErrValidation,
		},
		{
			name:          "error: repository fails",
			input:         validInput,
			expectSave:    true,
			saveErr:       errors.New("database error"),
			errorContains: "failed to save order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			svc, orders, _, tickets := newOrderService(t)

			var savedID string
			if tt.expectSave {
				orders.On("Create", ctx, mock.MatchedBy(func(o repository.Order) bool {
					savedID = o.ID
					return o.UserID == client.ID &&
						o.DiscordUsername == client.Username &&
						o.Status == repository.StatusPending &&
						o.Progress == 0 &&
						o.ETA == "TBD" &&
						o.Notes == "" &&
						o.CreatedAt.Equal(testNow)
				}), mock.MatchedBy(func(events []repository.OutboxEvent) bool {
					if len(events) != 1 || events[0].Topic != event.TopicOrderCreated {
						return false
					}
					var data event.OrderCreated
					env, err := event.Decode(events[0].Payload, &data)
					return err == nil && env.EventVersion == event.Version &&
						data.Price == "35.00" && data.OrderID == events[0].AggregateID
				})).Return(tt.saveErr).Once()
			}

			if tt.expectSave && tt.saveErr == nil {
				tickets.On("Create", ctx, mock.MatchedBy(func(req ticket.Request) bool {
					return req.OrderID == savedID &&
						req.Username == client.Username &&
						req.DiscordID == client.DiscordID &&
						req.ServiceType == repository.ServiceLordBoosting
				})).Return(tt.ticket, tt.ticketErr).Once()
			}

			if tt.expectLink {
				orders.On("SetTicket", ctx, mock.AnythingOfType("string"), tt.ticket.ChannelID, tt.ticket.ChannelName).
					Return(tt.linkErr).Once()
			}

			// Act
			result, err := svc.Create(ctx, client, tt.input)

			// Assert
			if tt.expectedErr != nil || tt.errorContains != "" {
				require.Error(t, err)
				if tt.expectedErr != nil {
					require.ErrorIs(t, err, tt.expectedErr)
				}
				if tt.errorContains != "" {
					require.Contains(t, err.Error(), tt.errorContains)
				}
				require.Nil(t, result)
				tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			require.Equal(t, savedID, result.ID)
			require.Equal(t, repository.StatusPending, result.Status)
			require.Equal(t, tt.wantTicket, result.HasTicket())
			if !tt.expectLink {
				orders.AssertNotCalled(t, "SetTicket", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrderService_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		actor       repository.User
		stored      *repository.Order
		getErr      error
		input       UpdateOrderInput
		setupUsers  func(users *repoMocks.UserRepository)
		expectSave  bool
		wantTopics  []string
		expectedErr error
		check       func(t *testing.T, o repository.Order)
	}{
		{
			name:        "error: client cannot update",
			actor:       client,
			input:       UpdateOrderInput{Status: strPtr("in_progress")},
			expectedErr: ErrForbidden,
		},
		{
			name:        "error: order not found",
			actor:       booster,
			getErr:      repository.ErrNotFound,
			input:       UpdateOrderInput{Status: strPtr("in_progress")},
			expectedErr: repository.ErrNotFound,
		},
		{
			name: "error: backward transition",
			actor: admin,
			stored: func() *repository.Order {
				o := storedOrder(repository.StatusCompleted, true)
				return &o
			}(),
			input:       UpdateOrderInput{Status: strPtr("pending")},
			expectedErr: ErrInvalidTransition,
		},
		{
			name: "error: unknown status",
			actor: booster,
			stored: func() *repository.Order {
				o := storedOrder(repository.StatusPending, false)
				return &o
			}(),
			input:       UpdateOrderInput{Status: strPtr("cancelled")},
			expectedErr: ErrValidation,
		},
		{
			name: "error: progress out of range",
			actor: booster,
			stored: func() *repository.Order {
				o := storedOrder(repository.StatusPending, false)
				return &o
			}(),
			input:       UpdateOrderInput{Progress: intPtr(101)},
			expectedErr: ErrValidation,
		},
		{
			name: "success: status change with ticket queues notification",
			actor: booster,
			stored: func() *repository.Order {
				o := storedOrder(repository.StatusPending, true)
				return &o
			}(),
			input:      UpdateOrderInput{Status: strPtr("in_progress"), Progress: intPtr(40), Notes: strPtr("started")},
			expectSave: true,
			wantTopics: []string{event.TopicTicketStatusChanged, event.TopicOrderStatusChanged},
			check: func(t *testing.T, o repository.Order) {
				require.Equal(t, repository.StatusInProgress, o.Status)
				require.Equal(t, 40, o.Progress)
				require.Equal(t, "started", o.Notes)
			},
		},
		{
			name: "success: status change without ticket",
			actor: admin,
			stored: func() *repository.Order {
				o := storedOrder(repository.StatusInProgress, false)
				return &o
			}(),
			input:      UpdateOrderInput{Status: strPtr("completed")},
			expectSave: true,
			wantTopics: []string{event.TopicOrderStatusChanged},
		},
		{
			name: "success: same status queues nothing",
			actor: booster,
			stored: func() *repository.Order {
				o := storedOrder(repository.StatusInProgress, true)
				return &o
			}(),
			input:      UpdateOrderInput{Status: strPtr("in_progress"), ETA: strPtr("2 days")},
			expectSave: true,
			wantTopics: []string{},
			check: func(t *testing.T, o repository.Order) {
				require.Equal(t, "2 days", o.ETA)
			},
		},
		{
			name: "success: booster assigned",
			actor: admin,
			stored: func() *repository.Order {
				o := storedOrder(repository.StatusPending, false)
				return &o
			}(),
			input: UpdateOrderInput{BoosterID: strPtr(booster.ID)},
			setupUsers: func(users *repoMocks.UserRepository) {
				users.On("GetByID", ctx, booster.ID).Return(booster, nil).Once()
			},
			expectSave: true,
			wantTopics: []string{},
			check: func(t *testing.T, o repository.Order) {
				require.Equal(t, booster.ID, *o.BoosterID)
				require.Equal(t, booster.Username, *o.BoosterUsername)
			},
		},
		{
			name: "error: booster must be staff",
			actor: admin,
			stored: func() *repository.Order {
				o := storedOrder(repository.StatusPending, false)
				return &o
			}(),
			input: UpdateOrderInput{BoosterID: strPtr(client.ID)},
			setupUsers: func(users *repoMocks.UserRepository) {
				users.On("GetByID", ctx, client.ID).Return(client, nil).Once()
			},
			expectedErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			svc, orders, users, _ := newOrderService(t)

			if tt.stored != nil {
				orders.On("GetByID", ctx, tt.stored.ID).Return(*tt.stored, nil).Once()
			} else if tt.getErr != nil {
				orders.On("GetByID", ctx, "order-1").Return(repository.Order{}, tt.getErr).Once()
			}
			if tt.setupUsers != nil {
				tt.setupUsers(users)
			}

			var saved repository.Order
			if tt.expectSave {
				orders.On("Update", ctx, mock.AnythingOfType("repository.Order"), tt.stored.Status, mock.MatchedBy(func(events []repository.OutboxEvent) bool {
					return len(events) == len(tt.wantTopics) && (len(events) == 0 || equalTopics(topics(events), tt.wantTopics))
				})).Run(func(args mock.Arguments) {
					saved = args.Get(1).(repository.Order)
				}).Return(nil).Once()
			}

			// Act
			result, err := svc.Update(ctx, tt.actor, "order-1", tt.input)

			// Assert
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				require.Nil(t, result)
				orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			require.Equal(t, saved, *result)
			require.True(t, result.UpdatedAt.Equal(testNow))
			if tt.check != nil {
				tt.check(t, *result)
			}
		})
	}
}

func TestOrderService_Update_StatusChangedConcurrently(t *testing.T) {
	ctx := context.Background()
	svc, orders, _, _ := newOrderService(t)

	// Заказ прочитан как in_progress, но к моменту записи его уже завершили
	orders.On("GetByID", ctx, "order-1").Return(storedOrder(repository.StatusInProgress, true), nil).Once()
	orders.On("Update", ctx, mock.Anything, repository.StatusInProgress, mock.Anything).Return(repository.ErrConflict).Once()

	progress := 50
	result, err := svc.Update(ctx, booster, "order-1", UpdateOrderInput{Progress: &progress})
	require.ErrorIs(t, err, repository.ErrConflict)
	require.Nil(t, result)
}

func equalTopics(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestOrderService_GetByID(t *testing.T) {
	ctx := context.Background()
	stranger := repository.User{ID: "user-2", Role: repository.RoleClient}

	tests := []struct {
		name        string
		actor       repository.User
		expectedErr error
	}{
		{name: "owner", actor: client},
		{name: "booster", actor: booster},
		{name: "admin", actor: admin},
		{name: "other client", actor: stranger, expectedErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orders, _, _ := newOrderService(t)
			orders.On("GetByID", ctx, "order-1").Return(storedOrder(repository.StatusPending, false), nil).Once()

			got, err := svc.GetByID(ctx, tt.actor, "order-1")
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "order-1", got.ID)
		})
	}

	t.Run("missing order", func(t *testing.T) {
		svc, orders, _, _ := newOrderService(t)
		orders.On("GetByID", ctx, "missing").Return(repository.Order{}, repository.ErrNotFound).Once()

		_, err := svc.GetByID(ctx, admin, "missing")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOrderService_GetForUser(t *testing.T) {
	ctx := context.Background()
	svc, orders, _, _ := newOrderService(t)
	orders.On("ListByUser", ctx, client.ID, 100).Return([]repository.Order{storedOrder(repository.StatusPending, false)}, nil).Once()

	got, err := svc.GetForUser(ctx, client)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestOrderService_ListAll(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		actor       repository.User
		input       ListOrdersInput
		total       int
		wantFilter  repository.OrderFilter
		wantPages   int
		expectedErr error
	}{
		{
			name:       "defaults",
			actor:      booster,
			total:      120,
			wantFilter: repository.OrderFilter{Offset: 0, Limit: 50},
			wantPages:  3,
		},
		{
			name:       "page 2 with filter",
			actor:      admin,
			input:      ListOrdersInput{Status: strPtr("completed"), Page: intPtr(2), Limit: intPtr(50)},
			total:      60,
			wantFilter: repository.OrderFilter{Offset: 50, Limit: 50},
			wantPages:  2,
		},
		{
			name:       "exact multiple",
			actor:      admin,
			input:      ListOrdersInput{Limit: intPtr(10)},
			total:      100,
			wantFilter: repository.OrderFilter{Offset: 0, Limit: 10},
			wantPages:  10,
		},
		{
			name:       "empty",
			actor:      admin,
			total:      0,
			wantFilter: repository.OrderFilter{Offset: 0, Limit: 50},
			wantPages:  0,
		},
		{name: "client forbidden", actor: client, expectedErr: ErrForbidden},
		{name: "page zero", actor: admin, input: ListOrdersInput{Page: intPtr(0)}, expectedErr: ErrValidation},
		{name: "limit too large", actor: admin, input: ListOrdersInput{Limit: intPtr(101)}, expectedErr: ErrValidation},
		{name: "limit zero", actor: admin, input: ListOrdersInput{Limit: intPtr(0)}, expectedErr: ErrValidation},
		{name: "unknown status", actor: admin, input: ListOrdersInput{Status: strPtr("lost")}, expectedErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orders, _, _ := newOrderService(t)

			if tt.expectedErr == nil {
				orders.On("List", ctx, mock.MatchedBy(func(f repository.OrderFilter) bool {
					if f.Offset != tt.wantFilter.Offset || f.Limit != tt.wantFilter.Limit {
						return false
					}
					if tt.input.Status != nil {
						return f.Status != nil && string(*f.Status) == *tt.input.Status
					}
					return f.Status == nil
				})).Return([]repository.Order{}, tt.total, nil).Once()
			}

			out, err := svc.ListAll(ctx, tt.actor, tt.input)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.total, out.Total)
			require.Equal(t, tt.wantPages, out.Pages)
			require.Equal(t, tt.wantFilter.Limit, out.Limit)
		})
	}
}

func TestOrderService_ListStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("counts completed orders per booster", func(t *testing.T) {
		svc, orders, users, _ := newOrderService(t)
		users.On("ListByRoles", ctx, repository.RoleBooster, repository.RoleAdmin).Return([]repository.User{booster, admin}, nil).Once()
		orders.On("CountCompletedByBooster", ctx).Return(map[string]int{booster.ID: 7}, nil).Once()

		staff, err := svc.ListStaff(ctx, admin)
		require.NoError(t, err)
		require.Len(t, staff, 2)
		require.Equal(t, 7, staff[0].CompletedOrders)
		require.Equal(t, 0, staff[1].CompletedOrders)
	})

	t.Run("client forbidden", func(t *testing.T) {
		svc, _, _, _ := newOrderService(t)
		_, err := svc.ListStaff(ctx, client)
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestOrderService_CompleteByTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("completes linked order without ticket notification", func(t *testing.T) {
		svc, orders, _, _ := newOrderService(t)
		orders.On("GetByTicketChannel", ctx, "chan-1").Return(storedOrder(repository.StatusInProgress, true), nil).Once()
		orders.On("Update", ctx, mock.MatchedBy(func(o repository.Order) bool {
			return o.Status == repository.StatusCompleted && o.Progress == 100
		}), repository.StatusInProgress, mock.MatchedBy(func(events []repository.OutboxEvent) bool {
			if !equalTopics(topics(events), []string{event.TopicOrderStatusChanged}) {
				return false
			}
			var data event.OrderStatusChanged
			_, err := event.Decode(events[0].Payload, &data)
			return err == nil && data.Source == SourceTicket && data.OldStatus == "in_progress" && data.ChangedBy == "bob"
		})).Return(nil).Once()

		require.NoError(t, svc.CompleteByTicket(ctx, "chan-1", "bob"))
	})

	t.Run("already completed is a no-op", func(t *testing.T) {
		svc, orders, _, _ := newOrderService(t)
		orders.On("GetByTicketChannel", ctx, "chan-1").Return(storedOrder(repository.StatusCompleted, true), nil).Once()

		require.NoError(t, svc.CompleteByTicket(ctx, "chan-1", "bob"))
		orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rereads order changed concurrently", func(t *testing.T) {
		svc, orders, _, _ := newOrderService(t)
		orders.On("GetByTicketChannel", ctx, "chan-1").Return(storedOrder(repository.StatusPending, true), nil).Once()
		orders.On("Update", ctx, mock.Anything, repository.StatusPending, mock.Anything).Return(repository.ErrConflict).Once()
		orders.On("GetByTicketChannel", ctx, "chan-1").Return(storedOrder(repository.StatusInProgress, true), nil).Once()
		orders.On("Update", ctx, mock.MatchedBy(func(o repository.Order) bool {
			return o.Status == repository.StatusCompleted
		}), repository.StatusInProgress, mock.Anything).Return(nil).Once()

		require.NoError(t, svc.CompleteByTicket(ctx, "chan-1", "bob"))
	})

	t.Run("gives up after repeated conflicts", func(t *testing.T) {
		svc, orders, _, _ := newOrderService(t)
		orders.On("GetByTicketChannel", ctx, "chan-1").Return(storedOrder(repository.StatusPending, true), nil).Times(completeAttempts)
		orders.On("Update", ctx, mock.Anything, repository.StatusPending, mock.Anything).Return(repository.ErrConflict).Times(completeAttempts)

		require.ErrorIs(t, svc.CompleteByTicket(ctx, "chan-1", "bob"), repository.ErrConflict)
	})

	t.Run("no linked order", func(t *testing.T) {
		svc, orders, _, _ := newOrderService(t)
		orders.On("GetByTicketChannel", ctx, "chan-9").Return(repository.Order{}, repository.ErrNotFound).Once()

		err := svc.CompleteByTicket(ctx, "chan-9", "bob")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}
