package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger_Envs(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker", "test"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l == nil {
				t.Fatal("expected logger")
			}
		})
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging-7"); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("dev", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if _, err := NewLogger("dev", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestContext_RoundTrip(t *testing.T) {
	base := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), base)

	if FromContext(ctx) != base {
		t.Error("expected stored logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("expected nop logger, got nil")
	}

	fallback := zap.NewNop()
	if FromContextOr(context.Background(), fallback) != fallback {
		t.Error("expected fallback logger")
	}
	if FromContextOr(ctx, fallback) != base {
		t.Error("context logger must win over fallback")
	}
}
