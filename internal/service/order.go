package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/event"
	"github.com/shestoi/rivalsyndicate/internal/metrics"
	"github.com/shestoi/rivalsyndicate/internal/repository"
	"github.com/shestoi/rivalsyndicate/internal/ticket"
)

const (
	defaultETA       = "TBD"
	myOrdersLimit    = 100
	defaultPageLimit = 50
	maxPageLimit     = 100
	completeAttempts = 3
)

// Источники смены статуса для событий и метрик
const (
	SourceStaff  = "staff"
	SourceTicket = "ticket"
)

// OrderService содержит бизнес-логику заказов
// Зависит от интерфейсов, а не от конкретных хранилищ и клиентов Discord
type OrderService struct {
	logger  *zap.Logger
	orders  repository.OrderRepository
	users   repository.UserRepository
	tickets TicketCreator
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewOrderService создаёт новый экземпляр OrderService
func NewOrderService(
	logger *zap.Logger,
	orders repository.OrderRepository,
	users repository.UserRepository,
	tickets TicketCreator,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		logger:  logger,
		orders:  orders,
		users:   users,
		tickets: tickets,
		metrics: m,
		now:     time.Now,
	}
}

// CreateOrderInput содержит входные данные для создания заказа
type CreateOrderInput struct {
	ServiceType    string
	CharacterID    string
	CharacterName  string
	CharacterClass string
	CharacterIcon  string
	Price          decimal.Decimal
	PaymentMethod  string
}

// Create сохраняет заказ и синхронно пытается открыть для него тикет
// Ошибка Discord логируется и не влияет на результат: заказ уже сохранён
func (s *OrderService) Create(ctx context.Context, actor repository.User, input CreateOrderInput) (*repository.Order, error) {
	start := time.Now()

	serviceType, err := repository.ParseServiceType(input.ServiceType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	class, err := repository.ParseCharacterClass(input.CharacterClass)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if input.CharacterID == "" || input.CharacterName == "" {
		return nil, fmt.Errorf("%w: character is required", ErrValidation)
	}
	if !input.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if input.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}

	now := s.now().UTC()
	order := repository.Order{
		ID:              uuid.NewString(),
		UserID:          actor.ID,
		DiscordUsername: actor.Username,
		ServiceType:     serviceType,
		CharacterID:     input.CharacterID,
		CharacterName:   input.CharacterName,
		CharacterClass:  class,
		CharacterIcon:   input.CharacterIcon,
		Status:          repository.StatusPending,
		Progress:        0,
		Price:           input.Price,
		PaymentMethod:   input.PaymentMethod,
		ETA:             defaultETA,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := event.New(event.TopicOrderCreated, order.ID, event.OrderCreated{
		OrderID:       order.ID,
		UserID:        order.UserID,
		ServiceType:   string(order.ServiceType),
		CharacterID:   order.CharacterID,
		CharacterName: order.CharacterName,
		Price:         order.Price.StringFixed(2),
		PaymentMethod: order.PaymentMethod,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order, []repository.OutboxEvent{created}); err != nil {
		s.logger.Error("failed to save order", zap.Error(err), zap.String("user_id", actor.ID))
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", actor.ID),
		zap.String("service_type", string(order.ServiceType)),
	)

	withTicket := s.attachTicket(ctx, actor, &order)
	s.metrics.OrderCreated(string(order.ServiceType), withTicket, time.Since(start))

	return &order, nil
}

// attachTicket открывает тикет и привязывает его к заказу; сбои только логируются
func (s *OrderService) attachTicket(ctx context.Context, actor repository.User, order *repository.Order) bool {
	t, err := s.tickets.Create(ctx, ticket.Request{
		OrderID:       order.ID,
		Username:      actor.Username,
		DiscordID:     actor.DiscordID,
		CharacterName: order.CharacterName,
		ServiceType:   order.ServiceType,
		Price:         order.Price,
	})
	if err != nil {
		s.logger.Error("failed to create discord ticket",
			zap.Error(err),
			zap.String("order_id", order.ID),
		)
		return false
	}

	if err := s.orders.SetTicket(ctx, order.ID, t.ChannelID, t.ChannelName); err != nil {
		s.logger.Error("failed to link ticket to order",
			zap.Error(err),
			zap.String("order_id", order.ID),
			zap.String("channel_id", t.ChannelID),
		)
		return false
	}

	order.TicketChannelID = &t.ChannelID
	order.TicketChannelName = &t.ChannelName
	s.logger.Info("discord ticket created",
		zap.String("order_id", order.ID),
		zap.String("channel_name", t.ChannelName),
	)
	return true
}

// UpdateOrderInput - частичное обновление; nil означает "не менять"
type UpdateOrderInput struct {
	Status    *string
	Progress  *int
	Notes     *string
	ETA       *string
	BoosterID *string
}

// Update применяет изменения персонала к заказу
// При фактической смене статуса в той же транзакции пишутся события для тикета и интеграций
func (s *OrderService) Update(ctx context.Context, actor repository.User, orderID string, input UpdateOrderInput) (*repository.Order, error) {
	if !actor.Role.CanManageOrders() {
		return nil, ErrForbidden
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	prev := order.Status

	if input.Status != nil {
		next, err := repository.ParseOrderStatus(*input.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if !prev.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, next)
		}
		order.Status = next
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
		}
		order.Progress = *input.Progress
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}
	if input.ETA != nil {
		order.ETA = *input.ETA
	}
	if input.BoosterID != nil {
		if err := s.assignBooster(ctx, &order, *input.BoosterID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	order.UpdatedAt = now

	var events []repository.OutboxEvent
	if order.Status != prev {
		events, err = s.statusEvents(order, prev, SourceStaff, actor.Username, true, now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.orders.Update(ctx, order, prev, events); err != nil {
		s.logger.Error("failed to update order", zap.Error(err), zap.String("order_id", orderID))
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if order.Status != prev {
		s.metrics.StatusChanged(string(order.Status), SourceStaff)
		s.logger.Info("order status changed",
			zap.String("order_id", order.ID),
			zap.String("from", string(prev)),
			zap.String("to", string(order.Status)),
			zap.String("by", actor.ID),
		)
	}

	return &order, nil
}

func (s *OrderService) assignBooster(ctx context.Context, order *repository.Order, boosterID string) error {
	if boosterID == "" {
		order.BoosterID = nil
		order.BoosterUsername = nil
		return nil
	}

	booster, err := s.users.GetByID(ctx, boosterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: booster %s not found", ErrValidation, boosterID)
		}
		return fmt.Errorf("failed to get booster: %w", err)
	}
	if !booster.Role.CanManageOrders() {
		return fmt.Errorf("%w: user %s is not staff", ErrValidation, boosterID)
	}

	order.BoosterID = &booster.ID
	order.BoosterUsername = &booster.Username
	return nil
}

// statusEvents формирует события смены статуса
// Уведомление в тикет ставится только если тикет привязан и notifyTicket == true
func (s *OrderService) statusEvents(order repository.Order, prev repository.OrderStatus, source, by string, notifyTicket bool, now time.Time) ([]repository.OutboxEvent, error) {
	events := make([]repository.OutboxEvent, 0, 2)

	if notifyTicket && order.HasTicket() {
		e, err := event.New(event.TopicTicketStatusChanged, order.ID, event.TicketStatusChanged{
			OrderID:   order.ID,
			ChannelID: *order.TicketChannelID,
			Status:    string(order.Status),
			Progress:  order.Progress,
			Notes:     order.Notes,
		}, now)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	e, err := event.New(event.TopicOrderStatusChanged, order.ID, event.OrderStatusChanged{
		OrderID:   order.ID,
		UserID:    order.UserID,
		OldStatus: string(prev),
		NewStatus: string(order.Status),
		Progress:  order.Progress,
		Source:    source,
		ChangedBy: by,
	}, now)
	if err != nil {
		return nil, err
	}
	return append(events, e), nil
}

// GetForUser возвращает заказы пользователя, новые первыми
func (s *OrderService) GetForUser(ctx context.Context, actor repository.User) ([]repository.Order, error) {
	orders, err := s.orders.ListByUser(ctx, actor.ID, myOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID возвращает заказ владельцу или персоналу
func (s *OrderService) GetByID(ctx context.Context, actor repository.User, orderID string) (*repository.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order.UserID != actor.ID && !actor.Role.CanManageOrders() {
		return nil, ErrForbidden
	}
	return &order, nil
}

// ListOrdersInput - фильтр и пагинация; nil означает значение по умолчанию
type ListOrdersInput struct {
	Status *string
	Page   *int
	Limit  *int
}

// ListOrdersOutput - страница заказов с метаданными
type ListOrdersOutput struct {
	Orders []repository.Order
	Total  int
	Page   int
	Limit  int
	Pages  int
}

// ListAll возвращает все заказы постранично (только персонал)
func (s *OrderService) ListAll(ctx context.Context, actor repository.User, input ListOrdersInput) (*ListOrdersOutput, error) {
	if !actor.Role.CanManageOrders() {
		return nil, ErrForbidden
	}

	page, limit := 1, defaultPageLimit
	if input.Page != nil {
		if *input.Page < 1 {
			return nil, fmt.Errorf("%w: page must be >= 1", ErrValidation)
		}
		page = *input.Page
	}
	if input.Limit != nil {
		if *input.Limit < 1 || *input.Limit > maxPageLimit {
			return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, maxPageLimit)
		}
		limit = *input.Limit
	}

	filter := repository.OrderFilter{
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	if input.Status != nil && *input.Status != "" {
		status, err := repository.ParseOrderStatus(*input.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		filter.Status = &status
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &ListOrdersOutput{
		Orders: orders,
		Total:  total,
		Page:   page,
		Limit:  limit,
		Pages:  (total + limit - 1) / limit,
	}, nil
}

// ListStaff возвращает бустеров и админов с количеством завершённых заказов
func (s *OrderService) ListStaff(ctx context.Context, actor repository.User) ([]repository.StaffMember, error) {
	if !actor.Role.CanManageOrders() {
		return nil, ErrForbidden
	}

	staff, err := s.users.ListByRoles(ctx, repository.StaffRoles()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	counts, err := s.orders.CountCompletedByBooster(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}

	result := make([]repository.StaffMember, 0, len(staff))
	for _, u := range staff {
		result = append(result, repository.StaffMember{
			User:            u,
			CompletedOrders: counts[u.ID],
		})
	}
	return result, nil
}

// CompleteByTicket завершает заказ, привязанный к каналу-тикету
// Вызывается командой /complete; уведомление в тикет не ставится, его публикует сам тикет
func (s *OrderService) CompleteByTicket(ctx context.Context, channelID, completedBy string) error {
	// Параллельная правка персонала меняет статус между чтением и записью; перечитываем
	for attempt := 1; ; attempt++ {
		err := s.completeByTicket(ctx, channelID, completedBy)
		if !errors.Is(err, repository.ErrConflict) || attempt == completeAttempts {
			return err
		}
		s.logger.Warn("order changed concurrently, retrying completion",
			zap.String("channel_id", channelID),
			zap.Int("attempt", attempt),
		)
	}
}

func (s *OrderService) completeByTicket(ctx context.Context, channelID, completedBy string) error {
	order, err := s.orders.GetByTicketChannel(ctx, channelID)
	if err != nil {
		return fmt.Errorf("failed to get order by ticket: %w", err)
	}

	prev := order.Status
	if prev == repository.StatusCompleted {
		return nil
	}

	now := s.now().UTC()
	order.Status = repository.StatusCompleted
	order.Progress = 100
	order.UpdatedAt = now

	events, err := s.statusEvents(order, prev, SourceTicket, completedBy, false, now)
	if err != nil {
		return err
	}
	if err := s.orders.Update(ctx, order, prev, events); err != nil {
		return fmt.Errorf("failed to complete order: %w", err)
	}

	s.metrics.StatusChanged(string(order.Status), SourceTicket)
	s.logger.Info("order completed from ticket",
		zap.String("order_id", order.ID),
		zap.String("channel_id", channelID),
		zap.String("completed_by", completedBy),
	)
	return nil
}
