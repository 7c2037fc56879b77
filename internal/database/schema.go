package database

import (
	"context"
	"fmt"
	"log/slog"

	"meetup/internal/config"
	"meetup/internal/middleware"

	"gorm.io/gorm"
)

// SchemaStatus reports which managed tables exist and whether startup will
// run AutoMigrate.
type SchemaStatus struct {
	Driver             string
	Environment        string
	WillRunAutoMigrate bool
	Tables             map[string]bool
}

// shouldAutoMigrate runs AutoMigrate everywhere except production, where it
// needs an explicit DB_AUTO_MIGRATE=true.
func shouldAutoMigrate(cfg *config.Config) bool {
	if cfg.IsProduction() {
		return cfg.DBAutoMigrate
	}
	return true
}

// AutoMigrate creates or updates every managed table.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(PersistentModels()...)
}

// ApplySchema runs AutoMigrate when the schema policy allows it.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if !shouldAutoMigrate(cfg) {
		middleware.Logger.Info("Skipping AutoMigrate", slog.String("env", cfg.Env))
		return nil
	}

	middleware.Logger.Info("Running GORM AutoMigrate", slog.String("env", cfg.Env), slog.String("driver", cfg.DBDriver))
	if err := AutoMigrate(ctx, db); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// GetSchemaStatus inspects the live database for the managed tables.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	status := &SchemaStatus{
		Driver:             cfg.DBDriver,
		Environment:        cfg.Env,
		WillRunAutoMigrate: shouldAutoMigrate(cfg),
		Tables:             make(map[string]bool),
	}

	migrator := db.WithContext(ctx).Migrator()
	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
		status.Tables[stmt.Table] = migrator.HasTable(model)
	}
	return status, nil
}
