package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupTracing_Disabled(t *testing.T) {
	tp, err := SetupTracing(false, "test", nil)
	if err != nil {
		t.Fatalf("SetupTracing failed: %v", err)
	}
	defer tp.Shutdown(context.Background())

	// Spans are no-ops but must not panic.
	_, span := Tracer("test").Start(context.Background(), "noop")
	span.End()
}

func TestSetupTracing_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := SetupTracing(true, "test", &buf)
	if err != nil {
		t.Fatalf("SetupTracing failed: %v", err)
	}

	_, span := Tracer("test").Start(context.Background(), "test-span")
	span.End()

	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if !strings.Contains(buf.String(), "test-span") {
		t.Error("expected exported span in output")
	}
}
