package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestWithAttrsOverridesByKey(t *testing.T) {
	ctx := WithAttrs(context.Background(), slog.String("component", "a"), slog.String("tenant", "unit-1"))
	ctx = WithAttrs(ctx, slog.String("component", "b"))

	attrs := Attrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("Attrs() len = %d", len(attrs))
	}
	if attrs[0].Key != "component" || attrs[0].Value.String() != "b" {
		t.Fatalf("Attrs()[0] = %v", attrs[0])
	}
}

func TestJSONLoggerCarriesContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "debug", "json"))
	ctx = WithTenant(ctx, " unit-9 ")
	ctx = WithRequestID(ctx, "req-1")

	Debug(ctx, "consolidated", slog.Int("records", 3))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["tenant"] != "unit-9" || line["request_id"] != "req-1" || line["msg"] != "consolidated" {
		t.Fatalf("log line = %#v", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "warn", "text"))

	Info(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered, got %q", buf.String())
	}
	Warn(ctx, "shown")
	if buf.Len() == 0 {
		t.Fatalf("warn should be written")
	}
	if ParseLevel("bogus") != slog.LevelInfo {
		t.Fatalf("ParseLevel(bogus) != info")
	}
}
