package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// OrderDocument представляет документ заказа в коллекции MongoDB
type OrderDocument struct {
	ID                string    `bson:"_id"`
	UserID            string    `bson:"user_id"`
	DiscordUsername   string    `bson:"discord_username"`
	ServiceType       string    `bson:"service_type"`
	CharacterID       string    `bson:"character_id"`
	CharacterName     string    `bson:"character_name"`
	CharacterClass    string    `bson:"character_class"`
	CharacterIcon     string    `bson:"character_icon"`
	Status            string    `bson:"status"`
	BoosterID         *string   `bson:"booster_id,omitempty"`
	BoosterUsername   *string   `bson:"booster_username,omitempty"`
	Progress          int       `bson:"progress"`
	Price             string    `bson:"price"`
	PaymentMethod     string    `bson:"payment_method"`
	Notes             string    `bson:"notes"`
	ETA               string    `bson:"eta"`
	TicketChannelID   *string   `bson:"ticket_channel_id,omitempty"`
	TicketChannelName *string   `bson:"ticket_channel_name,omitempty"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

// OutboxDocument представляет outbox событие в MongoDB
type OutboxDocument struct {
	EventID     string    `bson:"_id"`
	AggregateID string    `bson:"aggregate_id"`
	Topic       string    `bson:"topic"`
	Payload     []byte    `bson:"payload"`
	Status      string    `bson:"status"`
	Attempts    int       `bson:"attempts"`
	LastError   string    `bson:"last_error,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

// Repository реализует OrderRepository и OutboxRepository используя MongoDB
// Без replica set транзакции недоступны: заказ пишется первым, события следом
type Repository struct {
	orders *mongo.Collection
	outbox *mongo.Collection
}

// NewRepository создаёт новый MongoDB репозиторий
// Создаёт индексы при инициализации
func NewRepository(client *mongo.Client, dbName string) *Repository {
	db := client.Database(dbName)
	r := &Repository{
		orders: db.Collection("orders"),
		outbox: db.Collection("outbox_events"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Создаём индексы (если уже существуют - игнорируем ошибку)
	_, _ = r.orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "ticket_channel_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	_, _ = r.outbox.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
	})

	return r
}

// Create сохраняет заказ, затем события
func (r *Repository) Create(ctx context.Context, order repository.Order, events []repository.OutboxEvent) error {
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	if _, err := r.orders.InsertOne(ctx, toDocument(order)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertEvents(ctx, events)
}

// Update обновляет изменяемые поля заказа, затем пишет события
func (r *Repository) Update(ctx context.Context, order repository.Order, expected repository.OrderStatus, events []repository.OutboxEvent) error {
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now().UTC()
	}
	set := bson.M{
		"status":           string(order.Status),
		"progress":         order.Progress,
		"notes":            order.Notes,
		"eta":              order.ETA,
		"booster_id":       order.BoosterID,
		"booster_username": order.BoosterUsername,
		"updated_at":       order.UpdatedAt,
	}
	res, err := r.orders.UpdateOne(ctx, bson.M{"_id": order.ID, "status": string(expected)}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.orders.CountDocuments(ctx, bson.M{"_id": order.ID})
		if err != nil {
			return fmt.Errorf("check order: %w", err)
		}
		if n > 0 {
			return repository.ErrConflict
		}
		return repository.ErrNotFound
	}
	return r.insertEvents(ctx, events)
}

// GetByID получает заказ по ID
func (r *Repository) GetByID(ctx context.Context, id string) (repository.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByTicketChannel получает заказ по каналу-тикету
func (r *Repository) GetByTicketChannel(ctx context.Context, channelID string) (repository.Order, error) {
	return r.findOne(ctx, bson.M{"ticket_channel_id": channelID})
}

// SetTicket атомарно привязывает канал, только если он ещё не привязан
func (r *Repository) SetTicket(ctx context.Context, orderID, channelID, channelName string) error {
	filter := bson.M{
		"_id":               orderID,
		"ticket_channel_id": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"ticket_channel_id":   channelID,
		"ticket_channel_name": channelName,
		"updated_at":          time.Now().UTC(),
	}}

	res, err := r.orders.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("set ticket: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.orders.CountDocuments(ctx, bson.M{"_id": orderID})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrTicketAlreadySet
}

// ListByUser возвращает заказы пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]repository.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

// List возвращает страницу заказов и общее количество
func (r *Repository) List(ctx context.Context, filter repository.OrderFilter) ([]repository.Order, int, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}

	total, err := r.orders.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))
	orders, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, int(total), nil
}

// CountCompletedByBooster считает завершённые заказы по исполнителю через aggregation
func (r *Repository) CountCompletedByBooster(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": string(repository.StatusCompleted), "booster_id": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": "$booster_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}

// CountByStatus считает заказы в статусе
func (r *Repository) CountByStatus(ctx context.Context, status repository.OrderStatus) (int, error) {
	n, err := r.orders.CountDocuments(ctx, bson.M{"status": string(status)})
	return int(n), err
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (repository.Order, error) {
	var doc OrderDocument
	err := r.orders.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.Order{}, repository.ErrNotFound
		}
		return repository.Order{}, err
	}
	return fromDocument(doc)
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]repository.Order, error) {
	cur, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := make([]repository.Order, 0)
	for cur.Next(ctx) {
		var doc OrderDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		o, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, cur.Err()
}

func (r *Repository) insertEvents(ctx context.Context, events []repository.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(events))
	for _, e := range events {
		if e.EventID == "" {
			e.EventID = uuid.NewString()
		}
		docs = append(docs, OutboxDocument{
			EventID:     e.EventID,
			AggregateID: e.AggregateID,
			Topic:       e.Topic,
			Payload:     e.Payload,
			Status:      string(repository.OutboxStatusPending),
			CreatedAt:   time.Now().UTC(),
		})
	}
	if _, err := r.outbox.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert outbox events: %w", err)
	}
	return nil
}

func toDocument(o repository.Order) OrderDocument {
	return OrderDocument{
		ID:                o.ID,
		UserID:            o.UserID,
		DiscordUsername:   o.DiscordUsername,
		ServiceType:       string(o.ServiceType),
		CharacterID:       o.CharacterID,
		CharacterName:     o.CharacterName,
		CharacterClass:    string(o.CharacterClass),
		CharacterIcon:     o.CharacterIcon,
		Status:            string(o.Status),
		BoosterID:         o.BoosterID,
		BoosterUsername:   o.BoosterUsername,
		Progress:          o.Progress,
		Price:             o.Price.String(),
		PaymentMethod:     o.PaymentMethod,
		Notes:             o.Notes,
		ETA:               o.ETA,
		TicketChannelID:   o.TicketChannelID,
		TicketChannelName: o.TicketChannelName,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func fromDocument(d OrderDocument) (repository.Order, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return repository.Order{}, fmt.Errorf("parse price %q: %w", d.Price, err)
	}
	return repository.Order{
		ID:                d.ID,
		UserID:            d.UserID,
		DiscordUsername:   d.DiscordUsername,
		ServiceType:       repository.ServiceType(d.ServiceType),
		CharacterID:       d.CharacterID,
		CharacterName:     d.CharacterName,
		CharacterClass:    repository.CharacterClass(d.CharacterClass),
		CharacterIcon:     d.CharacterIcon,
		Status:            repository.OrderStatus(d.Status),
		BoosterID:         d.BoosterID,
		BoosterUsername:   d.BoosterUsername,
		Progress:          d.Progress,
		Price:             price,
		PaymentMethod:     d.PaymentMethod,
		Notes:             d.Notes,
		ETA:               d.ETA,
		TicketChannelID:   d.TicketChannelID,
		TicketChannelName: d.TicketChannelName,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}
