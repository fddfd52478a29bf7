package service

import (
	"context"

	"github.com/shestoi/rivalsyndicate/internal/discord"
	"github.com/shestoi/rivalsyndicate/internal/identity"
	"github.com/shestoi/rivalsyndicate/internal/ticket"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=TicketCreator --dir=. --output=./mocks --outpkg=mocks

// TicketCreator создаёт канал-тикет для нового заказа
// Реализуется ticket.Manager; ошибка не должна отменять заказ
type TicketCreator interface {
	Create(ctx context.Context, req ticket.Request) (*ticket.Ticket, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=OAuthProvider --dir=. --output=./mocks --outpkg=mocks

// OAuthProvider обменивает код авторизации на профиль пользователя Discord
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (identity.DiscordUser, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=TokenIssuer --dir=. --output=./mocks --outpkg=mocks

// TokenIssuer выпускает и проверяет сессионные токены
type TokenIssuer interface {
	Issue(userID, discordID string) (string, identity.Claims, error)
	Parse(token string) (identity.Claims, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=GuildReader --dir=. --output=./mocks --outpkg=mocks

// GuildReader читает публичные данные гильдии для статистики и отзывов
type GuildReader interface {
	Configured() bool
	GetGuild(ctx context.Context, guildID string) (discord.Guild, error)
	ListGuildMembers(ctx context.Context, guildID string) ([]discord.Member, error)
	ListChannelMessages(ctx context.Context, channelID string, limit, maxPages int) ([]discord.Message, error)
}
