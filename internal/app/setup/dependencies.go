package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/config"
	"github.com/LavaJover/shvark-country-service/internal/domain"
	publisher "github.com/LavaJover/shvark-country-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/summary"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.CountryConfig
	Logger       *zap.Logger
	DB           *gorm.DB
	Redis        *redis.Client
	Publisher    *publisher.DefaultKafkaPublisher
	Metrics      *metrics.CountryMetrics
	Gatherer     prometheus.Gatherer
	SummaryStore domain.SummaryStore
	Repositories *Repositories
}

type Repositories struct {
	CountryRepo    *repository.DefaultCountryRepository
	RefreshRunRepo domain.RefreshRunRepository
}

func InitializeDependencies(cfg *config.CountryConfig, log *zap.Logger) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)

	if cfg.CountryDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.CountryDB.MigrationsPath, log); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	deps := &Dependencies{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Metrics:  metrics.NewCountryMetrics(prometheus.DefaultRegisterer),
		Gatherer: prometheus.DefaultGatherer,
		Repositories: &Repositories{
			CountryRepo:    repository.NewDefaultCountryRepository(db),
			RefreshRunRepo: logger.NewPGRefreshRunLogger(db),
		},
	}

	store, err := initSummaryStore(deps)
	if err != nil {
		return nil, fmt.Errorf("summary store: %w", err)
	}
	deps.SummaryStore = store

	if cfg.Kafka.Enabled {
		deps.Publisher = publisher.NewDefaultKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("kafka publisher enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	return deps, nil
}

func initSummaryStore(deps *Dependencies) (domain.SummaryStore, error) {
	cfg := deps.Config
	switch cfg.Summary.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		deps.Redis = client
		return summary.NewRedisStore(client, cfg.Summary.RedisKey), nil
	case "memory":
		return summary.NewMemoryStore(), nil
	default:
		return summary.NewDiskStore(cfg.Summary.Path), nil
	}
}

// Close releases connections opened by InitializeDependencies.
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Warn("failed to close kafka publisher", zap.Error(err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			d.Logger.Warn("failed to close database", zap.Error(err))
		}
	}
}
