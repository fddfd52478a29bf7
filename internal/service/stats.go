package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

const (
	ordersChannelPages   = 5
	messagesPageSize     = 100
	defaultVouchLimit    = 50
	maxVouchContentRunes = 500
	maxVouchAttachments  = 3
)

// StatsConfig - каналы и роли Discord, из которых собирается публичная статистика
type StatsConfig struct {
	GuildID         string
	OrdersChannelID string
	VouchChannelID  string
	BoosterRoleID   string
}

// StatsService собирает публичную статистику и отзывы
// Без настроек Discord используются значения из базы
type StatsService struct {
	logger *zap.Logger
	guild  GuildReader
	orders repository.OrderRepository
	users  repository.UserRepository
	cfg    StatsConfig
}

// NewStatsService создаёт новый экземпляр StatsService
func NewStatsService(
	logger *zap.Logger,
	guild GuildReader,
	orders repository.OrderRepository,
	users repository.UserRepository,
	cfg StatsConfig,
) *StatsService {
	return &StatsService{
		logger: logger,
		guild:  guild,
		orders: orders,
		users:  users,
		cfg:    cfg,
	}
}

// Stats - публичные показатели сервиса
type Stats struct {
	OrdersCompleted int
	DiscordMembers  int
	OnlineMembers   int
	ActiveBoosters  int
}

// Stats собирает показатели; сбой Discord заменяется данными из базы
func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	discordOn := s.guild.Configured()

	completed, ok := 0, false
	if discordOn && s.cfg.OrdersChannelID != "" {
		msgs, err := s.guild.ListChannelMessages(ctx, s.cfg.OrdersChannelID, messagesPageSize, ordersChannelPages)
		if err != nil {
			s.logger.Error("failed to count orders channel messages", zap.Error(err))
		} else {
			completed, ok = len(msgs), true
		}
	}
	if !ok {
		n, err := s.orders.CountByStatus(ctx, repository.StatusCompleted)
		if err != nil {
			return nil, fmt.Errorf("failed to count completed orders: %w", err)
		}
		completed = n
	}
	st.OrdersCompleted = completed

	if discordOn && s.cfg.GuildID != "" {
		g, err := s.guild.GetGuild(ctx, s.cfg.GuildID)
		if err != nil {
			s.logger.Error("failed to fetch guild info", zap.Error(err))
		} else {
			st.DiscordMembers = g.ApproximateMemberCount
			st.OnlineMembers = g.ApproximatePresenceCount
		}
	}

	boosters, ok := 0, false
	if discordOn && s.cfg.GuildID != "" && s.cfg.BoosterRoleID != "" {
		members, err := s.guild.ListGuildMembers(ctx, s.cfg.GuildID)
		if err != nil {
			s.logger.Error("failed to list guild members", zap.Error(err))
		} else {
			for _, m := range members {
				if m.HasRole(s.cfg.BoosterRoleID) {
					boosters++
				}
			}
			ok = true
		}
	}
	if !ok {
		staff, err := s.users.ListByRoles(ctx, repository.StaffRoles()...)
		if err != nil {
			return nil, fmt.Errorf("failed to list staff: %w", err)
		}
		boosters = len(staff)
	}
	st.ActiveBoosters = boosters

	return &st, nil
}

// VouchAuthor - автор отзыва
type VouchAuthor struct {
	ID       string
	Username string
	Avatar   *string
}

// Vouch - отзыв клиента из канала Discord
type Vouch struct {
	ID          string
	Content     string
	Author      VouchAuthor
	Timestamp   string
	Attachments []string
}

// Vouches возвращает последние отзывы; без настроек или при сбое Discord - пустой список
func (s *StatsService) Vouches(ctx context.Context, limit int) ([]Vouch, error) {
	if limit <= 0 {
		limit = defaultVouchLimit
	}
	if limit > messagesPageSize {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, messagesPageSize)
	}

	vouches := make([]Vouch, 0)
	if !s.guild.Configured() || s.cfg.VouchChannelID == "" {
		s.logger.Error("discord vouch channel is not configured")
		return vouches, nil
	}

	msgs, err := s.guild.ListChannelMessages(ctx, s.cfg.VouchChannelID, limit, 1)
	if err != nil {
		s.logger.Error("failed to fetch vouches", zap.Error(err))
		return vouches, nil
	}

	for _, m := range msgs {
		if m.Author.Bot || m.Content == "" {
			continue
		}

		v := Vouch{
			ID:        m.ID,
			Content:   truncateRunes(m.Content, maxVouchContentRunes),
			Timestamp: m.Timestamp,
			Author: VouchAuthor{
				ID:       m.Author.ID,
				Username: m.Author.Username,
			},
			Attachments: make([]string, 0, maxVouchAttachments),
		}
		if v.Author.Username == "" {
			v.Author.Username = "Unknown"
		}
		if avatar := m.Author.AvatarURL(); avatar != "" {
			v.Author.Avatar = &avatar
		}
		for i, a := range m.Attachments {
			if i == maxVouchAttachments {
				break
			}
			v.Attachments = append(v.Attachments, a.URL)
		}
		vouches = append(vouches, v)
	}

	return vouches, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
