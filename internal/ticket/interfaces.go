package ticket

import (
	"context"
	"time"

	"github.com/shestoi/rivalsyndicate/internal/discord"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=ChatClient --dir=. --output=./mocks --outpkg=mocks

// ChatClient - операции Discord API, нужные менеджеру тикетов
type ChatClient interface {
	Configured() bool
	CreateGuildChannel(ctx context.Context, guildID string, params discord.CreateChannelParams) (discord.Channel, error)
	CreateMessage(ctx context.Context, channelID string, params discord.MessageParams) (discord.Message, error)
	DeleteChannel(ctx context.Context, channelID string) error
}

// Timer - отменяемое отложенное действие
type Timer interface {
	Stop() bool
}

// Scheduler откладывает выполнение функции, не блокируя вызывающего
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler использует time.AfterFunc
type RealScheduler struct{}

// AfterFunc запускает f в отдельной горутине через d
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
