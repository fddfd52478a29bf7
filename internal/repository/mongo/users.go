package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

// UserDocument представляет пользователя в MongoDB
type UserDocument struct {
	ID        string    `bson:"_id"`
	DiscordID string    `bson:"discord_id"`
	Username  string    `bson:"username"`
	Avatar    *string   `bson:"avatar,omitempty"`
	Email     *string   `bson:"email,omitempty"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
}

// UserRepository реализует repository.UserRepository используя MongoDB
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository создаёт репозиторий пользователей с уникальным индексом на discord_id
func NewUserRepository(client *mongo.Client, dbName string) *UserRepository {
	col := client.Database(dbName).Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "discord_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &UserRepository{col: col}
}

// Upsert создаёт пользователя или обновляет профиль; роль и id задаются только при вставке
func (r *UserRepository) Upsert(ctx context.Context, user repository.User) (repository.User, error) {
	if user.Role == "" {
		user.Role = repository.RoleClient
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	filter := bson.M{"discord_id": user.DiscordID}
	update := bson.M{
		"$set": bson.M{
			"username": user.Username,
			"avatar":   user.Avatar,
			"email":    user.Email,
		},
		"$setOnInsert": bson.M{
			"_id":        user.ID,
			"role":       string(user.Role),
			"created_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc UserDocument
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return repository.User{}, err
	}
	return fromUserDocument(doc), nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (repository.User, error) {
	var doc UserDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.User{}, repository.ErrNotFound
		}
		return repository.User{}, err
	}
	return fromUserDocument(doc), nil
}

// UpdateRole меняет роль пользователя
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role repository.Role) (repository.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc UserDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": string(role)}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.User{}, repository.ErrNotFound
		}
		return repository.User{}, err
	}
	return fromUserDocument(doc), nil
}

// List возвращает всех пользователей, новые первыми
func (r *UserRepository) List(ctx context.Context) ([]repository.User, error) {
	return r.find(ctx, bson.M{})
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
	return r.find(ctx, bson.M{"role": bson.M{"$in": names}})
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]repository.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := make([]repository.User, 0)
	for cur.Next(ctx) {
		var doc UserDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, fromUserDocument(doc))
	}
	return users, cur.Err()
}

func fromUserDocument(d UserDocument) repository.User {
	return repository.User{
		ID:        d.ID,
		DiscordID: d.DiscordID,
		Username:  d.Username,
		Avatar:    d.Avatar,
		Email:     d.Email,
		Role:      repository.Role(d.Role),
		CreatedAt: d.CreatedAt,
	}
}
