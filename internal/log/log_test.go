package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentLedger, Output: &buf})
	l.Info("posted", FieldOwner, "u1")
	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "owner=u1") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestStructuredLoggerError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf}), func(error) string { return "conflict_error" })
	sl.LogError(context.Background(), "post failed", errors.New("busy"), ComponentLedger, OpPost, NewFields().WithOwner("u1"))
	out := buf.String()
	for _, want := range []string{"error=busy", "error_type=conflict_error", "operation=post", "component=ledger"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}

func TestFromContext(t *testing.T) {
	l := New(Config{Component: ComponentHTTP})
	if got := FromContext(WithLogger(context.Background(), l)); got != l {
		t.Fatal("expected the stored logger")
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %s", got.Component())
	}

	r := httptest.NewRequest("GET", "/api/accounts", nil)
	if got := FromContext(r.Context()); got == nil {
		t.Fatal("expected a logger")
	}
}
