package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"firewatch/internal/bootstrap/config"
	"firewatch/internal/bootstrap/database"
	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/actionplan"
	"firewatch/internal/errs"
	"firewatch/internal/infrastructure/persistence/schema"
	"firewatch/internal/infrastructure/persistence/sqlite/model"
)

type App struct {
	Config  config.Config
	DB      *gorm.DB
	Catalog *actionplan.Catalog
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	tables := append(model.All(), &schema.Meta{})
	if err := a.DB.WithContext(ctx).AutoMigrate(tables...); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	meta := schema.Meta{Key: schema.VersionKey, Value: schema.Version}
	if err := a.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error; err != nil {
		return errs.Wrap(err, "record schema version")
	}

	logging.Info(logCtx, "schema migration completed", slog.String("schema_version", schema.Version))
	return nil
}

// SchemaVersion returns the recorded schema version, empty when init-db never ran.
func (a *App) SchemaVersion(ctx context.Context) (string, error) {
	if !a.DB.WithContext(ctx).Migrator().HasTable(&schema.Meta{}) {
		return "", nil
	}
	var meta schema.Meta
	if err := a.DB.WithContext(ctx).Where("key = ?", schema.VersionKey).Take(&meta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", errs.Wrap(err, "query schema version")
	}
	return meta.Value, nil
}

func (a *App) Close(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	return database.Close(ctx, a.DB)
}
