package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/discord"
	"github.com/shestoi/rivalsyndicate/internal/metrics"
	"github.com/shestoi/rivalsyndicate/internal/repository"
)

var (
	// ErrNotConfigured - не заданы токен бота, гильдия или категория тикетов
	ErrNotConfigured = errors.New("discord tickets are not configured")

	// ErrTicketNotFound - канал тикета уже удалён или не существует
	ErrTicketNotFound = errors.New("ticket channel not found")
)

const (
	handleMaxLen  = 20
	deleteTimeout = 15 * time.Second
)

// Config задаёт параметры тикетов
type Config struct {
	GuildID       string
	CategoryID    string
	CloseDelay    time.Duration
	CompleteDelay time.Duration
}

// Request содержит данные заказа для создания тикета
type Request struct {
	OrderID       string
	Username      string
	DiscordID     string
	CharacterName string
	ServiceType   repository.ServiceType
	Price         decimal.Decimal
}

// Ticket - созданный канал-тикет
type Ticket struct {
	ChannelID   string
	ChannelName string
}

// StatusUpdate - данные для уведомления о смене статуса
type StatusUpdate struct {
	Status   repository.OrderStatus
	Progress int
	Notes    string
}

// Manager управляет жизненным циклом тикетов: создание, уведомления, закрытие
// Ошибки Discord возвращаются вызывающему; решение проглотить их принимает он
type Manager struct {
	logger    *zap.Logger
	client    ChatClient
	metrics   *metrics.Metrics
	cfg       Config
	scheduler Scheduler
	now       func() time.Time

	pending sync.WaitGroup

	// closing - каналы, удаление которых уже запланировано
	mu      sync.Mutex
	closing map[string]struct{}
}

// NewManager создаёт менеджер тикетов; scheduler == nil означает RealScheduler
func NewManager(logger *zap.Logger, client ChatClient, m *metrics.Metrics, cfg Config, scheduler Scheduler) *Manager {
	if cfg.CloseDelay <= 0 {
		cfg.CloseDelay = 5 * time.Second
	}
	if cfg.CompleteDelay <= 0 {
		cfg.CompleteDelay = 10 * time.Second
	}
	if scheduler == nil {
		scheduler = RealScheduler{}
	}

	return &Manager{
		logger:    logger,
		client:    client,
		metrics:   m,
		cfg:       cfg,
		scheduler: scheduler,
		now:       time.Now,
		closing:   make(map[string]struct{}),
	}
}

// Configured сообщает, хватает ли настроек для создания тикетов
func (m *Manager) Configured() bool {
	return m.client.Configured() && m.cfg.GuildID != "" && m.cfg.CategoryID != ""
}

// Create создаёт приватный канал для заказа и публикует в нём сводку
// Сбой публикации сводки не отменяет созданный тикет
func (m *Manager) Create(ctx context.Context, req Request) (*Ticket, error) {
	if !m.Configured() {
		m.logger.Error("discord ticket settings are not configured",
			zap.String("order_id", req.OrderID),
		)
		return nil, ErrNotConfigured
	}

	name := ChannelName(req.Username, req.OrderID)

	overwrites := []discord.PermissionOverwrite{
		// @everyone имеет тот же id, что и гильдия
		{ID: m.cfg.GuildID, Type: discord.OverwriteTypeRole, Deny: discord.PermissionViewChannel},
	}
	if req.DiscordID != "" {
		overwrites = append(overwrites, discord.PermissionOverwrite{
			ID:    req.DiscordID,
			Type:  discord.OverwriteTypeMember,
			Allow: discord.PermissionViewChannel,
		})
	}

	ch, err := m.client.CreateGuildChannel(ctx, m.cfg.GuildID, discord.CreateChannelParams{
		Name:                 name,
		Type:                 discord.ChannelTypeText,
		ParentID:             m.cfg.CategoryID,
		Topic:                fmt.Sprintf("Order #%s | %s | %s", shortID(req.OrderID), req.CharacterName, req.ServiceType.DisplayName()),
		PermissionOverwrites: overwrites,
	})
	m.metrics.TicketOperation("create", err)
	if err != nil {
		return nil, fmt.Errorf("create ticket channel: %w", err)
	}

	if _, err := m.client.CreateMessage(ctx, ch.ID, orderSummary(req, m.now())); err != nil {
		m.logger.Warn("failed to post order summary into ticket",
			zap.Error(err),
			zap.String("order_id", req.OrderID),
			zap.String("channel_id", ch.ID),
		)
	}

	m.logger.Info("ticket channel created",
		zap.String("order_id", req.OrderID),
		zap.String("channel_id", ch.ID),
		zap.String("channel_name", name),
	)

	return &Ticket{ChannelID: ch.ID, ChannelName: name}, nil
}

// NotifyStatusChange публикует в тикете сообщение о новом статусе заказа
func (m *Manager) NotifyStatusChange(ctx context.Context, channelID string, upd StatusUpdate) error {
	_, err := m.client.CreateMessage(ctx, channelID, statusUpdate(upd, m.now()))
	m.metrics.TicketOperation("notify", err)
	if err != nil {
		if discord.IsNotFound(err) {
			return fmt.Errorf("notify %s: %w", channelID, ErrTicketNotFound)
		}
		return fmt.Errorf("notify status change: %w", err)
	}
	return nil
}

// Close публикует уведомление о закрытии и откладывает удаление канала на CloseDelay
// Возвращает Closure, по которому можно дождаться результата удаления
// Повторный вызов до удаления канала возвращает ErrTicketNotFound
func (m *Manager) Close(ctx context.Context, channelID, closedBy string) (*Closure, error) {
	if !m.claim(channelID) {
		return nil, ErrTicketNotFound
	}
	closure := newClosure()
	if err := m.close(ctx, channelID, closedBy, closure); err != nil {
		m.release(channelID)
		return nil, err
	}
	return closure, nil
}

// claim помечает канал закрываемым; false - закрытие уже идёт
func (m *Manager) claim(channelID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.closing[channelID]; ok {
		return false
	}
	m.closing[channelID] = struct{}{}
	return true
}

func (m *Manager) release(channelID string) {
	m.mu.Lock()
	delete(m.closing, channelID)
	m.mu.Unlock()
}

func (m *Manager) close(ctx context.Context, channelID, closedBy string, closure *Closure) error {
	if !m.client.Configured() {
		return ErrNotConfigured
	}

	notice, err := closeNotice(closedBy, m.cfg.CloseDelay, m.now())
	if err != nil {
		return err
	}
	if _, err := m.client.CreateMessage(ctx, channelID, notice); err != nil {
		m.metrics.TicketOperation("close", err)
		if discord.IsNotFound(err) {
			return ErrTicketNotFound
		}
		return fmt.Errorf("post close notice: %w", err)
	}

	// Запрос может завершиться раньше удаления
	bg := context.WithoutCancel(ctx)
	m.schedule(m.cfg.CloseDelay, func() {
		delCtx, cancel := context.WithTimeout(bg, deleteTimeout)
		defer cancel()

		err := m.client.DeleteChannel(delCtx, channelID)
		m.release(channelID)
		m.metrics.TicketOperation("close", err)
		if err != nil {
			m.logger.Error("failed to delete ticket channel",
				zap.Error(err),
				zap.String("channel_id", channelID),
			)
			if discord.IsNotFound(err) {
				err = ErrTicketNotFound
			}
			closure.resolve(err)
			return
		}

		m.logger.Info("ticket channel deleted",
			zap.String("channel_id", channelID),
			zap.String("closed_by", closedBy),
		)
		closure.resolve(nil)
	})

	return nil
}

// Complete публикует уведомление о завершении и закрывает тикет через CompleteDelay
func (m *Manager) Complete(ctx context.Context, channelID, completedBy string) (*Closure, error) {
	if !m.client.Configured() {
		return nil, ErrNotConfigured
	}
	if !m.claim(channelID) {
		return nil, ErrTicketNotFound
	}

	notice, err := completeNotice(completedBy, m.cfg.CompleteDelay, m.now())
	if err != nil {
		m.release(channelID)
		return nil, err
	}
	if _, err := m.client.CreateMessage(ctx, channelID, notice); err != nil {
		m.release(channelID)
		m.metrics.TicketOperation("complete", err)
		if discord.IsNotFound(err) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("post completion notice: %w", err)
	}
	m.metrics.TicketOperation("complete", nil)

	closure := newClosure()
	bg := context.WithoutCancel(ctx)
	m.schedule(m.cfg.CompleteDelay, func() {
		if err := m.close(bg, channelID, completedBy, closure); err != nil {
			m.release(channelID)
			m.logger.Error("failed to close completed ticket",
				zap.Error(err),
				zap.String("channel_id", channelID),
			)
			closure.resolve(err)
		}
	})

	return closure, nil
}

// Drain ждёт завершения отложенных удалений (используется при остановке)
func (m *Manager) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) schedule(d time.Duration, f func()) {
	m.pending.Add(1)
	m.scheduler.AfterFunc(d, func() {
		defer m.pending.Done()
		f()
	})
}

// Closure - результат отложенного удаления канала
type Closure struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newClosure() *Closure {
	return &Closure{done: make(chan struct{})}
}

func (c *Closure) resolve(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Wait блокируется до удаления канала или отмены ctx
func (c *Closure) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ChannelName строит имя канала: ticket-{ник}-{id[:8]}, только [a-z0-9-]
// Коллизии допустимы
func ChannelName(username, orderID string) string {
	handle := strings.ReplaceAll(strings.ToLower(username), "#", "-")
	if r := []rune(handle); len(r) > handleMaxLen {
		handle = string(r[:handleMaxLen])
	}

	raw := strings.ToLower("ticket-" + handle + "-" + shortID(orderID))

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func shortID(id string) string {
	if r := []rune(id); len(r) > 8 {
		return string(r[:8])
	}
	return id
}
