package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// UserRepository реализует repository.UserRepository в памяти
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]repository.User
}

// NewUserRepository создаёт in-memory хранилище пользователей
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]repository.User),
	}
}

// Upsert создаёт пользователя или обновляет профиль по discord_id
func (r *UserRepository) Upsert(ctx context.Context, user repository.User) (repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.users {
		if existing.DiscordID != user.DiscordID {
			continue
		}
		existing.Username = user.Username
		existing.Avatar = user.Avatar
		existing.Email = user.Email
		r.users[id] = existing
		return existing, nil
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = repository.RoleClient
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = user
	return user, nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

// UpdateRole меняет роль пользователя
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role repository.Role) (repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	u.Role = role
	r.users[id] = u
	return u, nil
}

// List возвращает всех пользователей, новые первыми
func (r *UserRepository) List(ctx context.Context) ([]repository.User, error) {
	return r.ListByRoles(ctx)
}

// ListByRoles возвращает пользователей с одной из ролей; без ролей - всех
func (r *UserRepository) ListByRoles(ctx context.Context, roles ...repository.Role) ([]repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.User, 0, len(r.users))
	for _, u := range r.users {
		if len(roles) > 0 && !hasRole(roles, u.Role) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func hasRole(roles []repository.Role, role repository.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
