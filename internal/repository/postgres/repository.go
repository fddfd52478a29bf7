package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// uniqueViolation - код ошибки PostgreSQL при нарушении уникального индекса
const uniqueViolation = "23505"

const orderColumns = `id::text, user_id::text, discord_username, service_type, character_id, character_name,
	character_class, character_icon, status, booster_id::text, booster_username, progress, price::text,
	payment_method, notes, eta, ticket_channel_id, ticket_channel_name, created_at, updated_at`

// Repository реализует OrderRepository и OutboxRepository используя PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт новый PostgreSQL репозиторий
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
	}
}

// Create сохраняет заказ и outbox события в одной транзакции
func (r *Repository) Create(ctx context.Context, order repository.Order, events []repository.OutboxEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	// Гарантируем откат транзакции в случае ошибки
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, discord_username, service_type, character_id, character_name,
			character_class, character_icon, status, booster_id, booster_username, progress, price,
			payment_method, notes, eta, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::numeric, $14, $15, $16, $17, $18)`,
		order.ID, order.UserID, order.DiscordUsername, string(order.ServiceType), order.CharacterID, order.CharacterName,
		string(order.CharacterClass), order.CharacterIcon, string(order.Status), order.BoosterID, order.BoosterUsername,
		order.Progress, order.Price.String(), order.PaymentMethod, order.Notes, order.ETA, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update обновляет изменяемые поля заказа и пишет outbox события в одной транзакции
func (r *Repository) Update(ctx context.Context, order repository.Order, expected repository.OrderStatus, events []repository.OutboxEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now().UTC()
	}

	tag, err := tx.Exec(ctx,
		`UPDATE orders
		 SET status = $2, progress = $3, notes = $4, eta = $5, booster_id = $6, booster_username = $7, updated_at = $8
		 WHERE id::text = $1 AND status = $9`,
		order.ID, string(order.Status), order.Progress, order.Notes, order.ETA,
		order.BoosterID, order.BoosterUsername, order.UpdatedAt, string(expected))
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id::text = $1)`, order.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check order: %w", err)
		}
		if exists {
			return repository.ErrConflict
		}
		return repository.ErrNotFound
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID получает заказ по ID
func (r *Repository) GetByID(ctx context.Context, id string) (repository.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id::text = $1`, id)
	return scanOrder(row)
}

// GetByTicketChannel получает заказ по каналу-тикету
func (r *Repository) GetByTicketChannel(ctx context.Context, channelID string) (repository.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE ticket_channel_id = $1`, channelID)
	return scanOrder(row)
}

// SetTicket привязывает канал к заказу; условие IS NULL гарантирует однократность
func (r *Repository) SetTicket(ctx context.Context, orderID, channelID, channelName string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders
		 SET ticket_channel_id = $2, ticket_channel_name = $3, updated_at = now()
		 WHERE id::text = $1 AND ticket_channel_id IS NULL`,
		orderID, channelID, channelName)
	if err != nil {
		return fmt.Errorf("set ticket: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Различаем "нет заказа" и "тикет уже привязан"
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id::text = $1)`, orderID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrTicketAlreadySet
}

// ListByUser возвращает заказы пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]repository.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id::text = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// List возвращает страницу заказов и общее количество по фильтру
func (r *Repository) List(ctx context.Context, filter repository.OrderFilter) ([]repository.Order, int, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE ($1::text IS NULL OR status = $1)`, status).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE ($1::text IS NULL OR status = $1)
		 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`,
		status, filter.Offset, filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CountCompletedByBooster считает завершённые заказы по исполнителю
func (r *Repository) CountCompletedByBooster(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT booster_id::text, count(*) FROM orders
		 WHERE status = 'completed' AND booster_id IS NOT NULL
		 GROUP BY booster_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// CountByStatus считает заказы в статусе
func (r *Repository) CountByStatus(ctx context.Context, status repository.OrderStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

func scanOrder(row pgx.Row) (repository.Order, error) {
	var (
		o                  repository.Order
		serviceType, class string
		status, price      string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.DiscordUsername, &serviceType, &o.CharacterID, &o.CharacterName,
		&class, &o.CharacterIcon, &status, &o.BoosterID, &o.BoosterUsername, &o.Progress, &price,
		&o.PaymentMethod, &o.Notes, &o.ETA, &o.TicketChannelID, &o.TicketChannelName, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Order{}, repository.ErrNotFound
		}
		return repository.Order{}, err
	}

	o.ServiceType = repository.ServiceType(serviceType)
	o.CharacterClass = repository.CharacterClass(class)
	o.Status = repository.OrderStatus(status)
	o.Price, err = decimal.NewFromString(price)
	if err != nil {
		return repository.Order{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]repository.Order, error) {
	defer rows.Close()

	orders := make([]repository.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
