package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/identity"
	"github.com/shestoi/rivalsyndicate/internal/repository"
	"github.com/shestoi/rivalsyndicate/internal/repository/memory"
	repoMocks "github.com/shestoi/rivalsyndicate/internal/repository/mocks"
	"github.com/shestoi/rivalsyndicate/internal/service/mocks"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	discordUser := identity.DiscordUser{ID: "111", Username: "alice", Avatar: "abc", Email: "alice@example.com"}

	tests := []struct {
		name        string
		code        string
		admins      []string
		exchangeErr error
		upserted    repository.User
		expectPromo bool
		expectedErr error
		wantRole    repository.Role
	}{
		{
			name:     "new client",
			code:     "code-1",
			upserted: repository.User{ID: "user-1", DiscordID: "111", Username: "alice", Role: repository.RoleClient},
			wantRole: repository.RoleClient,
		},
		{
			name:     "bootstrap admin on first login",
			code:     "code-1",
			admins:   []string{"111"},
			upserted: repository.User{ID: "user-1", DiscordID: "111", Username: "alice", Role: repository.RoleAdmin},
			wantRole: repository.RoleAdmin,
		},
		{
			name:        "existing client listed as bootstrap admin is promoted",
			code:        "code-1",
			admins:      []string{"111"},
			upserted:    repository.User{ID: "user-1", DiscordID: "111", Username: "alice", Role: repository.RoleClient},
			expectPromo: true,
			wantRole:    repository.RoleAdmin,
		},
		{
			name:        "missing code",
			code:        "",
			expectedErr: ErrValidation,
		},
		{
			name:        "exchange failure",
			code:        "bad",
			exchangeErr: identity.ErrOAuthFailed,
			expectedErr: ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			oauth := mocks.NewOAuthProvider(t)
			tokens := mocks.NewTokenIssuer(t)
			users := repoMocks.NewUserRepository(t)
			svc := NewAuthService(zap.NewNop(), oauth, tokens, users, memory.NewRevocationStore(), tt.admins)

			if tt.code != "" {
				oauth.On("Exchange", ctx, tt.code).Return(discordUser, tt.exchangeErr).Once()
			}
			if tt.exchangeErr == nil && tt.code != "" {
				users.On("Upsert", ctx, mock.MatchedBy(func(u repository.User) bool {
					wantRole := repository.RoleClient
					if len(tt.admins) > 0 {
						wantRole = repository.RoleAdmin
					}
					return u.DiscordID == "111" && u.Username == "alice" && u.Role == wantRole &&
						u.Avatar != nil && *u.Avatar == "https://cdn.discordapp.com/avatars/111/abc.png" &&
						u.Email != nil && *u.Email == "alice@example.com"
				})).Return(tt.upserted, nil).Once()

				final := tt.upserted
				if tt.expectPromo {
					final.Role = repository.RoleAdmin
					users.On("UpdateRole", ctx, "user-1", repository.RoleAdmin).Return(final, nil).Once()
				}
				tokens.On("Issue", "user-1", "111").Return("signed-token", identity.Claims{UserID: "user-1"}, nil).Once()
			}

			// Act
			out, err := svc.Login(ctx, tt.code)

			// Assert
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				require.Nil(t, out)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "signed-token", out.Token)
			require.Equal(t, tt.wantRole, out.User.Role)
		})
	}
}

func TestAuthService_AuthenticateAndLogout(t *testing.T) {
	ctx := context.Background()
	issuer := identity.NewTokenIssuer("test-secret", time.Hour)
	users := memory.NewUserRepository()
	revoked := memory.NewRevocationStore()

	user, err := users.Upsert(ctx, repository.User{DiscordID: "111", Username: "alice"})
	require.NoError(t, err)

	svc := NewAuthService(zap.NewNop(), nil, issuer, users, revoked, nil)

	token, _, err := issuer.Issue(user.ID, user.DiscordID)
	require.NoError(t, err)

	session, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, session.User.ID)
	require.NotEmpty(t, session.Claims.ID)

	require.NoError(t, svc.Logout(ctx, *session))

	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)

	// Новый вход выпускает новый jti и не затронут отзывом
	fresh, _, err := issuer.Issue(user.ID, user.DiscordID)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, fresh)
	require.NoError(t, err)
}

func TestAuthService_AuthenticateRejects(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		setup   func(tokens *mocks.TokenIssuer, users *repoMocks.UserRepository)
		wantErr error
	}{
		{
			name:    "empty token",
			token:   "",
			wantErr: ErrUnauthorized,
		},
		{
			name:  "invalid token",
			token: "garbage",
			setup: func(tokens *mocks.TokenIssuer, users *repoMocks.UserRepository) {
				tokens.On("Parse", "garbage").Return(identity.Claims{}, identity.ErrInvalidToken).Once()
			},
			wantErr: ErrUnauthorized,
		},
		{
			name:  "deleted user",
			token: "valid",
			setup: func(tokens *mocks.TokenIssuer, users *repoMocks.UserRepository) {
				tokens.On("Parse", "valid").Return(identity.Claims{
					UserID:           "gone",
					RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"},
				}, nil).Once()
				users.On("GetByID", ctx, "gone").Return(repository.User{}, repository.ErrNotFound).Once()
			},
			wantErr: ErrUnauthorized,
		},
		{
			name:  "storage failure is not unauthorized",
			token: "valid",
			setup: func(tokens *mocks.TokenIssuer, users *repoMocks.UserRepository) {
				tokens.On("Parse", "valid").Return(identity.Claims{
					UserID:           "user-1",
					RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"},
				}, nil).Once()
				users.On("GetByID", ctx, "user-1").Return(repository.User{}, errors.New("db down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mocks.NewTokenIssuer(t)
			users := repoMocks.NewUserRepository(t)
			if tt.setup != nil {
				tt.setup(tokens, users)
			}
			svc := NewAuthService(zap.NewNop(), nil, tokens, users, memory.NewRevocationStore(), nil)

			_, err := svc.Authenticate(ctx, tt.token)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NotErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}
