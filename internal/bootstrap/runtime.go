// Package bootstrap wires the process-wide runtime shared by the commands:
// logging, tracing, the database and Redis.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"meetup/internal/cache"
	"meetup/internal/config"
	"meetup/internal/database"
	"meetup/internal/middleware"
	"meetup/internal/observability"
	"meetup/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedPreset names a seed preset applied to an empty development database.
	SeedPreset string
	// SkipRedis leaves the cache and event bus disabled.
	SkipRedis bool
}

// Runtime holds the connections a command needs.
type Runtime struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime configures logging and tracing, then connects to the database
// and Redis. A Redis failure is logged and leaves Redis nil.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.ConfigureLogger(cfg.Env)

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "meetup-api",
		ServiceVersion: "1.0.0",
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
		_ = shutdown(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rt := &Runtime{Config: cfg, DB: db, shutdownTracing: shutdown}
	if !opts.SkipRedis {
		rt.Redis = cache.InitRedis(cfg.RedisURL)
	}

	if opts.SeedPreset != "" {
		if err := seedIfEmpty(ctx, cfg, db, opts.SeedPreset); err != nil {
			_ = rt.Close(ctx)
			return nil, err
		}
	}

	return rt, nil
}

// seedIfEmpty applies preset in development when no posts exist yet.
func seedIfEmpty(ctx context.Context, cfg *config.Config, db *gorm.DB, preset string) error {
	if cfg.Env != "development" {
		middleware.Logger.WarnContext(ctx, "seed preset ignored outside development",
			slog.String("env", cfg.Env))
		return nil
	}

	var posts int64
	if err := db.WithContext(ctx).Table("posts").Count(&posts).Error; err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if posts > 0 {
		return nil
	}

	catalog, err := seed.LoadCatalog()
	if err != nil {
		return err
	}
	p, err := catalog.Preset(preset)
	if err != nil {
		return err
	}
	if _, err := seed.NewSeeder(db, catalog).Run(ctx, seed.Options{Preset: p, Seed: 1, SkipBcrypt: true}); err != nil {
		return fmt.Errorf("seed preset %s: %w", preset, err)
	}
	return nil
}

// Close releases the connections and flushes pending spans.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if sqlDB, err := r.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	if r.shutdownTracing != nil {
		errs = append(errs, r.shutdownTracing(ctx))
	}
	return errors.Join(errs...)
}
