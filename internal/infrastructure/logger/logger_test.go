package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "ms_kyc_core", "info", "production")

	log.Debug("hidden")
	log.Info("document extracted", "country", "EC")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q", lines[0])
	}
	if entry["app"] != "ms_kyc_core" {
		t.Errorf("expected app attribute, got %v", entry["app"])
	}
	if entry["country"] != "EC" {
		t.Errorf("expected country attribute, got %v", entry["country"])
	}
	if _, ok := entry["source"]; !ok {
		t.Error("expected source attribute")
	}
}

func TestNewWithWriter_TextForDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "ms_kyc_core", "debug", "local")

	log.Debug("ocr finished", "blocks", 12)

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "blocks=12") {
		t.Errorf("expected text output, got %q", out)
	}
	if strings.Contains(out, colorReset) {
		t.Error("expected no colors when not writing to a terminal")
	}
}

func TestColorWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := &colorWriter{writer: &buf, enabled: true}

	input := []byte("time=now level=WARN msg=slow\n")
	n, err := cw.Write(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(input) {
		t.Errorf("expected %d bytes reported, got %d", len(input), n)
	}
	if !strings.Contains(buf.String(), colorYellow+"level=WARN"+colorReset) {
		t.Errorf("expected colored level, got %q", buf.String())
	}
}
