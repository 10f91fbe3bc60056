package uow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"firewatch/internal/infrastructure/persistence/sqlite/model"
	"firewatch/internal/infrastructure/persistence/sqlite/repository"
	"firewatch/internal/ports"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "uow.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := setupDB(t)
	tenants := repository.NewTenantRepository(db)
	unit := NewUnitOfWork(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := unit.WithTx(ctx, func(txCtx context.Context) error {
		if ports.TxFromContext(txCtx) == nil {
			t.Fatalf("WithTx() did not attach tx to context")
		}
		if _, err := tenants.CreateTenant(txCtx, ports.Tenant{TenantID: "acme", Name: "Acme", Plan: "basic", CreatedAt: "2024-01-01T00:00:00Z"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	if _, err := tenants.GetTenant(ctx, "acme"); !errors.Is(err, ports.ErrTenantNotFound) {
		t.Fatalf("GetTenant() error = %v, want ErrTenantNotFound", err)
	}
}

func TestWithTxCommits(t *testing.T) {
	db := setupDB(t)
	tenants := repository.NewTenantRepository(db)
	unit := NewUnitOfWork(db)
	ctx := context.Background()

	err := unit.WithTx(ctx, func(txCtx context.Context) error {
		return unit.WithTx(txCtx, func(inner context.Context) error {
			_, err := tenants.CreateTenant(inner, ports.Tenant{TenantID: "acme", Name: "Acme", Plan: "basic", CreatedAt: "2024-01-01T00:00:00Z"})
			return err
		})
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	got, err := tenants.GetTenant(ctx, "acme")
	if err != nil {
		t.Fatalf("GetTenant() error = %v", err)
	}
	if got.Name != "Acme" {
		t.Fatalf("GetTenant() name = %q", got.Name)
	}
}
