package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCriticalLevelRendered(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "json")

	log.Critical("app: init failed", "component", "db")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "CRITICAL" {
		t.Fatalf("expected CRITICAL level, got %v", entry["level"])
	}
	if entry["component"] != "db" {
		t.Fatalf("expected component attr, got %v", entry["component"])
	}
}

func TestBusinessErrorSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "text")

	log.BusinessError("invites.accept: expired", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged, got %q", buf.String())
	}

	log.BusinessError("invites.accept: expired", errors.New("invite expired"), "token", "t")
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "invite expired") {
		t.Fatalf("expected warn with error, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		value string
		env   string
		want  slog.Level
	}{
		{"", "development", slog.LevelDebug},
		{"", "production", slog.LevelInfo},
		{"WARN", "production", slog.LevelWarn},
		{"fatal", "production", LevelCritical},
		{"bogus", "production", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.value, tc.env); got != tc.want {
			t.Fatalf("parseLevel(%q, %q) = %v, want %v", tc.value, tc.env, got, tc.want)
		}
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	fallback := New(&buf, slog.LevelInfo, "text")

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback logger")
	}

	ctx := IntoContext(context.Background(), fallback.With("request_id", "req-1"))
	FromContext(ctx, Nop()).Info("otp.send: sent")
	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Fatalf("expected request attrs, got %q", buf.String())
	}
}

func TestMaskPhone(t *testing.T) {
	cases := map[string]string{
		"01012345678": "*******5678",
		"1234":        "****",
		"":            "",
	}
	for in, want := range cases {
		if got := MaskPhone(in); got != want {
			t.Fatalf("MaskPhone(%q) = %q, want %q", in, got, want)
		}
	}
}
