package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/zoobzio/clockz"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"firewatch/internal/bootstrap/config"
	"firewatch/internal/bootstrap/database"
	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/actionplan"
	"firewatch/internal/errs"
	cacheinfra "firewatch/internal/infrastructure/cache"
	sqliterepo "firewatch/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "firewatch/internal/infrastructure/persistence/sqlite/uow"
	"firewatch/internal/ports"
	"firewatch/internal/usecase/inspection"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideClock),
	fx.Provide(provideCatalog),
	fx.Provide(provideCache),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewTenantRepository,
			fx.As(new(ports.TenantRepository)),
		),
		fx.Annotate(
			sqliterepo.NewAssetRepository,
			fx.As(new(ports.AssetRepository)),
		),
		fx.Annotate(
			sqliterepo.NewServiceRecordRepository,
			fx.As(new(ports.ServiceRecordRepository)),
		),
		fx.Annotate(
			sqliterepo.NewAuditRepository,
			fx.As(new(ports.AuditRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideInspectionService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return database.Close(logCtx, db)
		},
	})

	return db, nil
}

func provideClock() clockz.Clock {
	return clockz.RealClock
}

// provideCatalog starts from the built-in keyword tables and applies the configured override file, if any.
func provideCatalog(ctx context.Context, cfg config.Config) (*actionplan.Catalog, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	path := strings.TrimSpace(cfg.ActionPlan.TablesFile)
	if path == "" {
		return actionplan.NewCatalog()
	}

	tables, err := actionplan.LoadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, "load action plan tables %s", path)
	}
	logging.Info(logCtx, "action plan tables loaded", slog.String("file", path), slog.Int("tables", len(tables)))
	return actionplan.NewCatalog(tables...)
}

func provideCache(lc fx.Lifecycle, ctx context.Context, cfg config.Config, db *gorm.DB, clock clockz.Clock) (ports.Cache, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	switch strings.ToLower(strings.TrimSpace(cfg.Cache.Driver)) {
	case "", "sqlite":
		return cacheinfra.NewSQLiteCache(db, cfg.Cache.TTL).WithClock(clock), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				if err := client.Ping(startCtx).Err(); err != nil {
					return errs.Wrapf(err, "ping redis %s", cfg.Redis.Addr)
				}
				logging.Info(logCtx, "redis cache connected", slog.String("addr", cfg.Redis.Addr))
				return nil
			},
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		return cacheinfra.NewRedisCache(client, cfg.Redis.KeyPrefix, cfg.Cache.TTL), nil
	case "none":
		return cacheinfra.NoopCache{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}
}

func provideApp(cfg config.Config, db *gorm.DB, catalog *actionplan.Catalog) *App {
	return &App{
		Config:  cfg,
		DB:      db,
		Catalog: catalog,
	}
}

type inspectionParams struct {
	fx.In

	Tenants ports.TenantRepository
	Assets  ports.AssetRepository
	Records ports.ServiceRecordRepository
	Audit   ports.AuditRepository
	UoW     ports.UnitOfWork
	Cache   ports.Cache
	Catalog *actionplan.Catalog
	Clock   clockz.Clock
}

func provideInspectionService(p inspectionParams) *inspection.Service {
	return inspection.NewService(inspection.Deps{
		Tenants: p.Tenants,
		Assets:  p.Assets,
		Records: p.Records,
		Audit:   p.Audit,
		UoW:     p.UoW,
		Cache:   p.Cache,
		Catalog: p.Catalog,
		Clock:   p.Clock,
	})
}
