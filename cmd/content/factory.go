package content

import (
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/redis/go-redis/v9"

	"github.com/Taichi-iskw/contentrepo/internal/config"
	"github.com/Taichi-iskw/contentrepo/internal/events"
	"github.com/Taichi-iskw/contentrepo/internal/log"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
)

// configuredPageSize is the page size from configuration, set once the factory loaded it
var configuredPageSize int

// RepositoryFactory creates content repository instances
type RepositoryFactory struct{}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

// CreateRepository connects to the database and, when configured, to redis for events
func (f *RepositoryFactory) CreateRepository(ctx context.Context) (contentRepo.Repository, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load configuration")
	}

	configuredPageSize = cfg.PageSize

	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return nil, nil, errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to database")
	}

	sinks := events.MultiSink{events.NewLogSink(log.Logger.Named("events"))}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = events.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			dbPool.Close()
			return nil, nil, errors.Wrap(err, "failed to connect to redis")
		}
		sinks = append(sinks, events.NewRedisSink(redisClient, cfg.EventChannel))
	}

	repo := contentRepo.NewRepository(dbPool, contentRepo.WithSink(sinks))

	cleanup := func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Logger.Warn("close redis client", zap.Error(err))
			}
		}
		dbPool.Close()
	}

	return repo, cleanup, nil
}
