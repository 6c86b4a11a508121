package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet(t *testing.T) {
	first := Get()
	if first == nil {
		t.Fatal("Get() = nil")
	}
	if second := Get(); first != second {
		t.Error("Get() returned a different instance on the second call")
	}
}

func TestSetLevel(t *testing.T) {
	if err := SetLevel("not-a-level"); err == nil {
		t.Error("SetLevel(invalid) error = nil, want error")
	}
}

func TestFromCtx(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithCtx(context.Background(), zap.New(core).Sugar())

	FromCtx(ctx, "command", "add").Infow("stored entry", "id", "abc")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["command"] != "add" || fields["id"] != "abc" {
		t.Errorf("fields = %v, want command=add and id=abc", fields)
	}
}

func TestWithCtxSameLogger(t *testing.T) {
	l := Nop()
	ctx := WithCtx(context.Background(), l)
	if again := WithCtx(ctx, l); again != ctx {
		t.Error("WithCtx() with the stored logger should return ctx unchanged")
	}
}

func TestFromCtxFallsBackToShared(t *testing.T) {
	if FromCtx(context.Background()) == nil {
		t.Error("FromCtx(background) = nil, want shared logger")
	}
}
