package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/repository"
	repoMocks "github.com/shestoi/rivalsyndicate/internal/repository/mocks"
)

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		actor       repository.User
		role        string
		repoErr     error
		expectCall  bool
		expectedErr error
	}{
		{name: "admin promotes to booster", actor: admin, role: "booster", expectCall: true},
		{name: "booster cannot change roles", actor: booster, role: "admin", expectedErr: ErrForbidden},
		{name: "client cannot change roles", actor: client, role: "admin", expectedErr: ErrForbidden},
		{name: "unknown role", actor: admin, role: "owner", expectedErr: ErrValidation},
		{name: "missing user", actor: admin, role: "booster", expectCall: true, repoErr: repository.ErrNotFound, expectedErr: repository.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := repoMocks.NewUserRepository(t)
			svc := NewUserService(zap.NewNop(), users)

			if tt.expectCall {
				updated := client
				updated.Role = repository.Role(tt.role)
				users.On("UpdateRole", ctx, client.ID, repository.Role(tt.role)).Return(updated, tt.repoErr).Once()
			}

			got, err := svc.UpdateRole(ctx, tt.actor, client.ID, tt.role)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, repository.RoleBooster, got.Role)
		})
	}
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()

	users := repoMocks.NewUserRepository(t)
	svc := NewUserService(zap.NewNop(), users)
	users.On("List", ctx).Return([]repository.User{client, booster, admin}, nil).Once()

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = svc.List(ctx, booster)
	require.ErrorIs(t, err, ErrForbidden)
}
