package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReadsFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `app:
  env: test
database:
  dsn: /tmp/fw-test.sqlite
cache:
  driver: none
schedule:
  due_horizon_days: 45
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Name != "firewatch" || cfg.App.Env != "test" {
		t.Fatalf("app = %#v", cfg.App)
	}
	if cfg.Database.DSN != "/tmp/fw-test.sqlite" || cfg.Cache.Driver != "none" {
		t.Fatalf("database/cache = %#v %#v", cfg.Database, cfg.Cache)
	}
	if cfg.Schedule.DueHorizonDays != 45 {
		t.Fatalf("due horizon = %d", cfg.Schedule.DueHorizonDays)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.Cache.TTL != 10*time.Minute {
		t.Fatalf("defaults lost: %#v %#v", cfg.HTTP, cfg.Cache)
	}
}

func TestValidateRejectsRedisWithoutAddr(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{DSN: "x.sqlite"},
		Cache:    CacheConfig{Driver: "redis"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() expected error")
	}

	cfg.Redis.Addr = "localhost:6379"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg.Cache.Driver = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() expected error for memcached")
	}
}
