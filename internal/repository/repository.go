package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Order представляет доменную модель заказа
// Это бизнес-сущность, не привязанная к HTTP или БД
type Order struct {
	ID              string
	UserID          string
	DiscordUsername string
	ServiceType     ServiceType
	CharacterID     string
	CharacterName   string
	CharacterClass  CharacterClass
	CharacterIcon   string
	Status          OrderStatus
	BoosterID       *string
	BoosterUsername *string
	Progress        int
	Price           decimal.Decimal
	PaymentMethod   string
	Notes           string
	ETA             string

	// Ссылка на тикет заполняется один раз, после успешного создания канала
	TicketChannelID   *string
	TicketChannelName *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTicket сообщает, привязан ли к заказу канал-тикет
func (o Order) HasTicket() bool {
	return o.TicketChannelID != nil && *o.TicketChannelID != ""
}

// User представляет пользователя, вошедшего через Discord
type User struct {
	ID        string
	DiscordID string
	Username  string
	Avatar    *string
	Email     *string
	Role      Role
	CreatedAt time.Time
}

// StaffMember - пользователь с ролью booster/admin и количеством завершённых заказов
type StaffMember struct {
	User            User
	CompletedOrders int
}

// OrderFilter задаёт фильтр и пагинацию для выборки всех заказов
type OrderFilter struct {
	Status *OrderStatus
	Offset int
	Limit  int
}

// OutboxStatus - состояние события в outbox
type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// OutboxEvent представляет событие, ожидающее доставки
// Пишется в той же транзакции, что и изменение заказа
type OutboxEvent struct {
	EventID     string
	AggregateID string
	Topic       string
	Payload     []byte
	Status      OutboxStatus
	Attempts    int
	LastError   string
	CreatedAt   time.Time
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=OrderRepository --dir=. --output=./mocks --outpkg=mocks

// OrderRepository определяет интерфейс для работы с хранилищем заказов
// Service слой зависит от этого интерфейса, а не от конкретной реализации
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с outbox событиями атомарно
	Create(ctx context.Context, order Order, events []OutboxEvent) error

	// Update перезаписывает изменяемые поля заказа и добавляет outbox события атомарно
	// Запись применяется, только если текущий статус равен expected
	// Возвращает ErrNotFound, если заказ не найден, и ErrConflict, если статус уже изменён
	Update(ctx context.Context, order Order, expected OrderStatus, events []OutboxEvent) error

	// GetByID получает заказ по ID
	// Возвращает ErrNotFound, если заказ не найден
	GetByID(ctx context.Context, id string) (Order, error)

	// GetByTicketChannel получает заказ по ID канала-тикета
	GetByTicketChannel(ctx context.Context, channelID string) (Order, error)

	// SetTicket привязывает канал к заказу
	// Возвращает ErrTicketAlreadySet, если канал уже привязан
	SetTicket(ctx context.Context, orderID, channelID, channelName string) error

	// ListByUser возвращает заказы пользователя, новые первыми
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)

	// List возвращает страницу заказов (новые первыми) и общее количество по фильтру
	List(ctx context.Context, filter OrderFilter) ([]Order, int, error)

	// CountCompletedByBooster возвращает количество завершённых заказов по booster_id
	CountCompletedByBooster(ctx context.Context) (map[string]int, error)

	// CountByStatus возвращает количество заказов с указанным статусом
	CountByStatus(ctx context.Context, status OrderStatus) (int, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserRepository --dir=. --output=./mocks --outpkg=mocks

// UserRepository определяет интерфейс для работы с пользователями
type UserRepository interface {
	// Upsert создаёт пользователя по discord_id или обновляет профиль существующего
	// Роль существующего пользователя не меняется
	Upsert(ctx context.Context, user User) (User, error)

	// GetByID получает пользователя по ID
	GetByID(ctx context.Context, id string) (User, error)

	// UpdateRole меняет роль пользователя
	UpdateRole(ctx context.Context, id string, role Role) (User, error)

	// List возвращает всех пользователей
	List(ctx context.Context) ([]User, error)

	// ListByRoles возвращает пользователей с одной из указанных ролей
	ListByRoles(ctx context.Context, roles ...Role) ([]User, error)
}

// OutboxRepository определяет интерфейс для доставки outbox событий
type OutboxRepository interface {
	GetPendingOutboxEvents(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkOutboxEventSent(ctx context.Context, eventID string) error
	MarkOutboxEventFailed(ctx context.Context, eventID string, errMsg string) error
	ResetOutboxEventPending(ctx context.Context, eventID string) error
}

// RevocationStore хранит отозванные идентификаторы сессионных токенов
type RevocationStore interface {
	// Revoke помечает jti отозванным до момента until
	Revoke(ctx context.Context, jti string, until time.Time) error

	// IsRevoked проверяет, отозван ли jti
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

var (
	// ErrNotFound возвращается, когда запись не найдена в хранилище
	ErrNotFound = errors.New("not found")

	// ErrTicketAlreadySet возвращается при повторной привязке тикета к заказу
	ErrTicketAlreadySet = errors.New("ticket already set")

	// ErrConflict возвращается при нарушении уникальности или если статус заказа уже изменён
	ErrConflict = errors.New("conflict")
)
