package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prperemyshlev/videotube/internal/config"
	"github.com/prperemyshlev/videotube/internal/migrations"
	"github.com/prperemyshlev/videotube/internal/service"
	"github.com/prperemyshlev/videotube/pkg/database"
	"github.com/prperemyshlev/videotube/pkg/observability"
	"github.com/prperemyshlev/videotube/pkg/storage"
	"go.uber.org/zap"
)

const serviceName = "videotube"

// MediaStore is the object storage behind uploads.
type MediaStore interface {
	service.MediaStorage
	Ping(ctx context.Context) error
}

type Infrastructure interface {
	Postgres() *database.Postgres
	Redis() *database.Redis
	Storage() MediaStore
	Logger() *zap.Logger
	MetricsHandler() http.Handler
	AuthMetrics() *observability.AuthMetrics

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	postgres    *database.Postgres
	redis       *database.Redis
	storage     *storage.S3
	logger      *zap.Logger
	telemetry   *observability.Telemetry
	authMetrics *observability.AuthMetrics
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	postgres, err := database.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	i.postgres = postgres

	if cfg.Postgres.Migrate {
		if err := migrations.Up(postgres.DB); err != nil {
			_ = i.postgres.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		logger.Info("Database migrations applied")
	}

	redis, err := database.NewRedis(ctx, database.RedisOptions{
		Addr:     cfg.Redis.Address(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		_ = i.postgres.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	i.redis = redis

	s3, err := storage.NewS3(ctx, storage.Options{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		i.closeStores()
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}
	i.storage = s3

	telemetry, err := observability.InitTelemetry(serviceName)
	if err != nil {
		i.closeStores()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.telemetry = telemetry

	authMetrics, err := observability.NewAuthMetrics(telemetry.MeterProvider)
	if err != nil {
		i.closeStores()
		_ = telemetry.Shutdown(ctx)
		return nil, fmt.Errorf("failed to register auth metrics: %w", err)
	}
	i.authMetrics = authMetrics

	return i, nil
}

func (i *infrastructure) closeStores() {
	_ = i.postgres.Close()
	_ = i.redis.Close()
}

func (i *infrastructure) Postgres() *database.Postgres {
	return i.postgres
}

func (i *infrastructure) Redis() *database.Redis {
	return i.redis
}

func (i *infrastructure) Storage() MediaStore {
	return i.storage
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) MetricsHandler() http.Handler {
	return i.telemetry.Handler
}

func (i *infrastructure) AuthMetrics() *observability.AuthMetrics {
	return i.authMetrics
}

func (i *infrastructure) Shutdown(ctx context.Context) error {
	errs := make(chan error, 3)

	go func() { errs <- i.postgres.Close() }()
	go func() { errs <- i.redis.Close() }()
	go func() { errs <- i.telemetry.Shutdown(ctx) }()

	err := errors.Join(<-errs, <-errs, <-errs)
	_ = i.logger.Sync()
	return err
}
