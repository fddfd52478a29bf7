package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/identity"
	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// AuthService связывает вход через Discord с локальными пользователями и сессиями
type AuthService struct {
	logger          *zap.Logger
	oauth           OAuthProvider
	tokens          TokenIssuer
	users           repository.UserRepository
	revoked         repository.RevocationStore
	bootstrapAdmins map[string]struct{}
}

// NewAuthService создаёт новый экземпляр AuthService
// bootstrapAdmins - discord_id пользователей, получающих роль admin при входе
func NewAuthService(
	logger *zap.Logger,
	oauth OAuthProvider,
	tokens TokenIssuer,
	users repository.UserRepository,
	revoked repository.RevocationStore,
	bootstrapAdmins []string,
) *AuthService {
	admins := make(map[string]struct{}, len(bootstrapAdmins))
	for _, id := range bootstrapAdmins {
		if id != "" {
			admins[id] = struct{}{}
		}
	}

	return &AuthService{
		logger:          logger,
		oauth:           oauth,
		tokens:          tokens,
		users:           users,
		revoked:         revoked,
		bootstrapAdmins: admins,
	}
}

// LoginURL возвращает адрес страницы авторизации Discord
func (s *AuthService) LoginURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// LoginOutput содержит выпущенный токен и пользователя
type LoginOutput struct {
	Token string
	User  repository.User
}

// Login обменивает код авторизации на профиль, сохраняет пользователя и выпускает токен
func (s *AuthService) Login(ctx context.Context, code string) (*LoginOutput, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}

	du, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("discord oauth exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	candidate := repository.User{
		DiscordID: du.ID,
		Username:  du.Username,
		Role:      repository.RoleClient,
	}
	if avatar := du.AvatarURL(); avatar != "" {
		candidate.Avatar = &avatar
	}
	if du.Email != "" {
		email := du.Email
		candidate.Email = &email
	}
	_, bootstrap := s.bootstrapAdmins[du.ID]
	if bootstrap {
		candidate.Role = repository.RoleAdmin
	}

	user, err := s.users.Upsert(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	// Upsert не меняет роль существующего пользователя
	if bootstrap && user.Role != repository.RoleAdmin {
		user, err = s.users.UpdateRole(ctx, user.ID, repository.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to promote bootstrap admin: %w", err)
		}
	}

	token, _, err := s.tokens.Issue(user.ID, user.DiscordID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("discord_id", user.DiscordID),
		zap.String("role", string(user.Role)),
	)

	return &LoginOutput{Token: token, User: user}, nil
}

// Session - проверенная сессия запроса
type Session struct {
	User   repository.User
	Claims identity.Claims
}

// Authenticate проверяет токен, список отзыва и загружает пользователя
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: session revoked", ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &Session{User: user, Claims: claims}, nil
}

// Logout отзывает сессию до истечения срока её токена
func (s *AuthService) Logout(ctx context.Context, session Session) error {
	until := time.Now()
	if session.Claims.ExpiresAt != nil {
		until = session.Claims.ExpiresAt.Time
	}

	if err := s.revoked.Revoke(ctx, session.Claims.ID, until); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.logger.Info("user logged out", zap.String("user_id", session.User.ID))
	return nil
}
