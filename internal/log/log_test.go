package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	setup(&buf, slog.LevelInfo, true)

	Info("camera run started", "mode", "pursuit")
	Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"msg":"camera run started"`) {
		t.Errorf("Expected JSON message, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug line should be filtered at info level: %q", out)
	}
}
