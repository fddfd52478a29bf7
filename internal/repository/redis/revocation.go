package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RevocationStore хранит отозванные jti сессионных токенов в Redis
// Ключ живёт ровно до истечения токена, после этого Redis удаляет его сам
type RevocationStore struct {
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewRevocationStore создаёт Redis список отзыва
func NewRevocationStore(client *redis.Client, logger *zap.Logger) *RevocationStore {
	return &RevocationStore{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

func revokedKey(jti string) string {
	return fmt.Sprintf("session:revoked:%s", jti)
}

// Revoke помечает jti отозванным до момента until
func (s *RevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		// Токен уже истёк, отзывать нечего
		return nil
	}

	if err := s.client.Set(ctx, revokedKey(jti), s.now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		s.logger.Error("failed to store revoked session in redis",
			zap.Error(err),
			zap.String("jti", jti),
		)
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.logger.Info("session revoked",
		zap.String("jti", jti),
		zap.Duration("ttl", ttl),
	)
	return nil
}

// IsRevoked проверяет наличие jti в списке отзыва
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		s.logger.Error("failed to check revoked session in redis",
			zap.Error(err),
			zap.String("jti", jti),
		)
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}
