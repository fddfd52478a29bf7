package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" //драйвер pgx для goose миграций
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/config"
	"github.com/shestoi/rivalsyndicate/internal/repository"
	"github.com/shestoi/rivalsyndicate/internal/repository/memory"
	mongorepo "github.com/shestoi/rivalsyndicate/internal/repository/mongo"
	"github.com/shestoi/rivalsyndicate/internal/repository/postgres"
	redisrepo "github.com/shestoi/rivalsyndicate/internal/repository/redis"
	"github.com/shestoi/rivalsyndicate/migrations"
	platformhealth "github.com/shestoi/rivalsyndicate/platform/health/http"
	platformshutdown "github.com/shestoi/rivalsyndicate/platform/shutdown"
)

const connectTimeout = 5 * time.Second

// storage - репозитории выбранного драйвера и их проверки готовности
type storage struct {
	orders  repository.OrderRepository
	outbox  repository.OutboxRepository
	users   repository.UserRepository
	revoked repository.RevocationStore
	checks  map[string]platformhealth.Check
}

// openStorage подключается к хранилищам и регистрирует их закрытие в shutdownMgr
func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger, shutdownMgr *platformshutdown.Manager) (*storage, error) {
	s := &storage{checks: make(map[string]platformhealth.Check)}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := openPostgres(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		shutdownMgr.Add("postgres_pool", platformshutdown.ClosePool(pool))

		repo := postgres.NewRepository(pool)
		s.orders, s.outbox = repo, repo
		s.users = postgres.NewUserRepository(pool)
		s.checks["postgres"] = pool.Ping

	case config.StorageMongo:
		client, err := openMongo(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, err
		}
		shutdownMgr.Add("mongo_client", platformshutdown.DisconnectMongo(client))

		repo := mongorepo.NewRepository(client, cfg.MongoDatabase)
		s.orders, s.outbox = repo, repo
		s.users = mongorepo.NewUserRepository(client, cfg.MongoDatabase)
		s.checks["mongo"] = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}

	default:
		logger.Warn("Using in-memory storage, data is lost on restart")
		repo := memory.NewMemoryRepository()
		s.orders, s.outbox = repo, repo
		s.users = memory.NewUserRepository()
	}

	if cfg.RedisAddr == "" {
		s.revoked = memory.NewRevocationStore()
		return s, nil
	}

	logger.Info("Connecting to Redis", zap.String("addr", cfg.RedisAddr))
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("Redis connection established")

	shutdownMgr.Add("redis_client", platformshutdown.CloseCloser(redisClient))
	s.revoked = redisrepo.NewRevocationStore(redisClient, logger)
	s.checks["redis"] = func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}
	return s, nil
}

func openPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	logger.Info("Connecting to PostgreSQL")
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	logger.Info("PostgreSQL connection established")

	logger.Info("Applying database migrations")
	if err := migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("Database migrations applied successfully")

	return pool, nil
}

// migrate применяет встроенные в бинарник миграции goose
func migrate(ctx context.Context, dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migrations db: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func openMongo(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	logger.Info("Connecting to MongoDB")
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("MongoDB connection established")

	return client, nil
}
