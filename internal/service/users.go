package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// UserService - администрирование пользователей
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

// NewUserService создаёт новый экземпляр UserService
func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

// UpdateRole меняет роль пользователя (только admin)
func (s *UserService) UpdateRole(ctx context.Context, actor repository.User, userID, role string) (*repository.User, error) {
	if !actor.Role.CanAdminister() {
		return nil, ErrForbidden
	}

	r, err := repository.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	u, err := s.users.UpdateRole(ctx, userID, r)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.logger.Info("user role updated",
		zap.String("user_id", userID),
		zap.String("role", string(r)),
		zap.String("by", actor.ID),
	)
	return &u, nil
}

// List возвращает всех пользователей (только admin)
func (s *UserService) List(ctx context.Context, actor repository.User) ([]repository.User, error) {
	if !actor.Role.CanAdminister() {
		return nil, ErrForbidden
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
