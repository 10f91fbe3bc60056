package errs

import (
	"errors"
	"log/slog"
	"testing"
)

var errRoot = errors.New("root")

func TestWrapKeepsChain(t *testing.T) {
	err := Wrapf(Wrap(errRoot, "load asset"), "tenant %s", "unit-1")
	if !errors.Is(err, errRoot) {
		t.Fatalf("errors.Is() = false for %v", err)
	}
	if err.Error() != "tenant unit-1: load asset: root" {
		t.Fatalf("Error() = %q", err.Error())
	}

	chain := Chain(err)
	if len(chain) != 3 || chain[2] != "root" {
		t.Fatalf("Chain() = %#v", chain)
	}
	if Wrap(nil, "x") != nil || Wrapf(nil, "x %d", 1) != nil {
		t.Fatalf("wrapping nil should return nil")
	}
}

func TestWithStackCapturesOnce(t *testing.T) {
	first := WithStack(errRoot)
	second := WithStack(Wrap(first, "outer"))

	var se *StackError
	if !errors.As(second, &se) || len(se.Stack()) == 0 {
		t.Fatalf("stack missing: %v", second)
	}
	if !errors.Is(second, errRoot) {
		t.Fatalf("errors.Is() = false")
	}
}

func TestLoggableGroup(t *testing.T) {
	value := Loggable(Wrap(errRoot, "outer")).LogValue()
	if value.Kind() != slog.KindGroup {
		t.Fatalf("kind = %v", value.Kind())
	}
	if len(value.Group()) != 2 {
		t.Fatalf("group = %#v", value.Group())
	}
	if !IsAny(Wrap(errRoot, "x"), errors.New("other"), errRoot) {
		t.Fatalf("IsAny() = false")
	}
}
