package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		{"DEBUG", LevelDebug},
		{"WARNING", LevelWarn},
		{"dEbUg", LevelDebug},
		{" error ", LevelError},

		// Empty and unrecognized default to Info
		{"", LevelInfo},
		{"trace", LevelInfo},
		{"fatal", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseFormat(tt.input)
			if result != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Debug("profile loaded", slog.String("profile", "default"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "profile loaded" {
		t.Errorf("msg = %v, want %q", record["msg"], "profile loaded")
	}
	if record["profile"] != "default" {
		t.Errorf("profile = %v, want %q", record["profile"], "default")
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %s", buf.String())
	}

	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn record missing: %s", buf.String())
	}
}

func TestNew_Mirror(t *testing.T) {
	var out, mirror bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &out, Mirror: &mirror})

	logger.With(slog.String("component", "cli")).Info("substituted", slog.Int("count", 3))

	if !strings.Contains(out.String(), "msg=substituted") {
		t.Errorf("text output missing record: %s", out.String())
	}

	var record map[string]any
	if err := json.Unmarshal(mirror.Bytes(), &record); err != nil {
		t.Fatalf("mirror output is not JSON: %v\n%s", err, mirror.String())
	}
	if record["component"] != "cli" {
		t.Errorf("component = %v, want cli", record["component"])
	}
	if record["count"] != float64(3) {
		t.Errorf("count = %v, want 3", record["count"])
	}
}

func TestTee_EnabledIfAnyHandlerIs(t *testing.T) {
	var buf bytes.Buffer
	quiet := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelError})
	loud := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelDebug})

	tee := NewTee(quiet, loud)
	if !tee.Enabled(context.Background(), LevelDebug) {
		t.Error("tee should be enabled at debug when one handler is")
	}
	if NewTee(quiet).Enabled(context.Background(), LevelInfo) {
		t.Error("tee should be disabled when no handler is enabled")
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	if logger.Enabled(context.Background(), LevelError) {
		t.Error("Nop logger should not be enabled at any level")
	}
	logger.Error("dropped")
}
