package httpapi

import (
	"context"

	"github.com/shestoi/rivalsyndicate/internal/rates"
	"github.com/shestoi/rivalsyndicate/internal/repository"
	"github.com/shestoi/rivalsyndicate/internal/service"
	"github.com/shestoi/rivalsyndicate/internal/ticket"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=OrderService --dir=. --output=./mocks --outpkg=mocks

// OrderService - операции с заказами, доступные через HTTP
type OrderService interface {
	Create(ctx context.Context, actor repository.User, input service.CreateOrderInput) (*repository.Order, error)
	Update(ctx context.Context, actor repository.User, orderID string, input service.UpdateOrderInput) (*repository.Order, error)
	GetForUser(ctx context.Context, actor repository.User) ([]repository.Order, error)
	GetByID(ctx context.Context, actor repository.User, orderID string) (*repository.Order, error)
	ListAll(ctx context.Context, actor repository.User, input service.ListOrdersInput) (*service.ListOrdersOutput, error)
	ListStaff(ctx context.Context, actor repository.User) ([]repository.StaffMember, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=AuthService --dir=. --output=./mocks --outpkg=mocks

// AuthService - вход через Discord и завершение сессии
type AuthService interface {
	LoginURL(state string) string
	Login(ctx context.Context, code string) (*service.LoginOutput, error)
	Logout(ctx context.Context, session service.Session) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserService --dir=. --output=./mocks --outpkg=mocks

// UserService - администрирование пользователей
type UserService interface {
	UpdateRole(ctx context.Context, actor repository.User, userID, role string) (*repository.User, error)
	List(ctx context.Context, actor repository.User) ([]repository.User, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=StatsService --dir=. --output=./mocks --outpkg=mocks

// StatsService - публичная статистика и отзывы
type StatsService interface {
	Stats(ctx context.Context) (*service.Stats, error)
	Vouches(ctx context.Context, limit int) ([]service.Vouch, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=RatesSource --dir=. --output=./mocks --outpkg=mocks

// RatesSource отдаёт курсы валют (кэш с фолбэком, без ошибок)
type RatesSource interface {
	Get(ctx context.Context) rates.Rates
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=TicketCloser --dir=. --output=./mocks --outpkg=mocks

// TicketCloser закрывает канал-тикет по запросу персонала
type TicketCloser interface {
	Close(ctx context.Context, channelID, closedBy string) (*ticket.Closure, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=CommandRegistrar --dir=. --output=./mocks --outpkg=mocks

// CommandRegistrar регистрирует slash-команды в гильдии
type CommandRegistrar interface {
	Register(ctx context.Context) ([]string, error)
}
