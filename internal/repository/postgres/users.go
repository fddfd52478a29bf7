package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

const userColumns = `id::text, discord_id, username, avatar, email, role, created_at`

// UserRepository реализует repository.UserRepository используя PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository создаёт новый PostgreSQL репозиторий пользователей
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Upsert вставляет пользователя или обновляет профиль по discord_id; роль не перезаписывается
func (r *UserRepository) Upsert(ctx context.Context, user repository.User) (repository.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = repository.RoleClient
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, discord_id, username, avatar, email, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (discord_id) DO UPDATE SET
		   username = EXCLUDED.username,
		   avatar = EXCLUDED.avatar,
		   email = EXCLUDED.email
		 RETURNING `+userColumns,
		user.ID, user.DiscordID, user.Username, user.Avatar, user.Email, string(user.Role), user.CreatedAt)
	return scanUser(row)
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (repository.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id::text = $1`, id)
	return scanUser(row)
}

// UpdateRole меняет роль пользователя
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role repository.Role) (repository.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET role = $2 WHERE id::text = $1 RETURNING `+userColumns, id, string(role))
	return scanUser(row)
}

// List возвращает всех пользователей, новые первыми
func (r *UserRepository) List(ctx context.Context) ([]repository.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ListByRoles возвращает пользователей с одной из ролей
func (r *UserRepository) ListByRoles(ctx context.Context, roles ...repository.Role) ([]repository.User, error) {
	if len(roles) == 0 {
		return r.List(ctx)
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = ANY($1) ORDER BY created_at DESC, id`, names)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func scanUser(row pgx.Row) (repository.User, error) {
	var u repository.User
	var role string
	err := row.Scan(&u.ID, &u.DiscordID, &u.Username, &u.Avatar, &u.Email, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.User{}, repository.ErrNotFound
		}
		return repository.User{}, err
	}
	u.Role = repository.Role(role)
	return u, nil
}

func collectUsers(rows pgx.Rows) ([]repository.User, error) {
	defer rows.Close()

	users := make([]repository.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
