// Package bootstrap brings up the process-wide dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"travelog/internal/cache"
	"travelog/internal/config"
	"travelog/internal/database"
	"travelog/internal/middleware"
	"travelog/internal/models"
	"travelog/internal/observability"
	"travelog/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData fills an empty development database with generated content.
	SeedDemoData bool
	// Version is reported as the tracing service version.
	Version string
}

// Runtime is what InitRuntime connected. Redis may be nil.
type Runtime struct {
	DB              *gorm.DB
	Redis           *redis.Client
	ShutdownTracing func(context.Context) error
}

// InitRuntime configures logging and tracing, connects to DB and Redis and
// optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.Logger = middleware.NewLogger(cfg.Env)
	slog.SetDefault(middleware.Logger)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    observability.ServiceName,
		ServiceVersion: opts.Version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)

	rt := &Runtime{DB: db, Redis: cache.GetClient(), ShutdownTracing: shutdownTracing}

	if opts.SeedDemoData && cfg.Env == "development" {
		if err := seedIfEmpty(db); err != nil {
			return nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return rt, nil
}

func seedIfEmpty(db *gorm.DB) error {
	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}
	middleware.Logger.Info("empty database, seeding demo data")
	return seed.NewSeeder(db, seed.Options{NumUsers: 10, NumPosts: 40}).Run()
}
