// Package bootstrap wires process-level dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"nutritrack/internal/cache"
	"nutritrack/internal/config"
	"nutritrack/internal/database"
	"nutritrack/internal/middleware"
	"nutritrack/internal/nutriscan"
	"nutritrack/internal/observability"
	"nutritrack/internal/repository"
	"nutritrack/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ServiceName labels traces and logs emitted by the API process.
const ServiceName = "nutritrack-api"

// Options control runtime initialization behavior.
type Options struct {
	SeedCatalog bool
	// RequireRedis fails initialization instead of continuing without cache.
	RequireRedis bool
}

// Runtime holds the connections opened by Init.
type Runtime struct {
	DB            *gorm.DB
	Redis         *redis.Client
	ShutdownTrace func(context.Context) error
}

// Close releases the connections and flushes traces.
func (r *Runtime) Close(ctx context.Context) {
	if r.ShutdownTrace != nil {
		if err := r.ShutdownTrace(ctx); err != nil {
			middleware.Logger.Error("trace shutdown failed", slog.String("error", err.Error()))
		}
	}
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if r.DB != nil {
		_ = database.Close(r.DB)
	}
}

// Init sets up logging and tracing, connects to the database and Redis, and
// optionally loads the reference catalog.
func Init(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.SetLogger(middleware.NewLogger(os.Stdout, cfg.Env))
	observability.SetLogger(middleware.Logger)

	shutdownTrace, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	rt := &Runtime{ShutdownTrace: shutdownTrace}

	db, err := database.Connect(cfg)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt.DB = db

	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	switch {
	case err != nil && opts.RequireRedis:
		rt.Close(ctx)
		return nil, fmt.Errorf("redis connection failed: %w", err)
	case err != nil:
		middleware.Logger.Warn("redis unavailable, continuing without cache",
			slog.String("addr", cfg.RedisURL),
			slog.String("error", err.Error()),
		)
	default:
		rt.Redis = rdb
	}

	if opts.SeedCatalog {
		catalog, err := nutriscan.DefaultCatalog()
		if err != nil {
			rt.Close(ctx)
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		res, err := seed.Catalog(ctx, repository.NewStore(db), catalog)
		if err != nil {
			rt.Close(ctx)
			return nil, err
		}
		// Reseeded rows must not be shadowed by cached lists.
		if err := cache.New(rt.Redis).Invalidate(ctx, cache.CatalogKeys(res.ExerciseTypes...)...); err != nil {
			middleware.Logger.Warn("catalog cache invalidation failed", slog.String("error", err.Error()))
		}
	}

	return rt, nil
}
