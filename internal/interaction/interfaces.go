package interaction

import (
	"context"

	"github.com/shestoi/rivalsyndicate/internal/discord"
	"github.com/shestoi/rivalsyndicate/internal/ticket"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=TicketActions --dir=. --output=./mocks --outpkg=mocks

// TicketActions - действия с тикетом, доступные из slash-команд
type TicketActions interface {
	Close(ctx context.Context, channelID, closedBy string) (*ticket.Closure, error)
	Complete(ctx context.Context, channelID, completedBy string) (*ticket.Closure, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=OrderCompleter --dir=. --output=./mocks --outpkg=mocks

// OrderCompleter переводит заказ, привязанный к тикету, в completed
type OrderCompleter interface {
	CompleteByTicket(ctx context.Context, channelID, completedBy string) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=CommandWriter --dir=. --output=./mocks --outpkg=mocks

// CommandWriter перезаписывает набор slash-команд гильдии
type CommandWriter interface {
	BulkOverwriteGuildCommands(ctx context.Context, applicationID, guildID string, commands []discord.Command) error
}
