package logger

import (
	"bytes"
	"errors"
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
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if err != nil {
			t.Errorf("ParseLevel(%q) returned unexpected error: %v", tt.input, err)
		}

		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := ParseLevel("verbose"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("ParseLevel(verbose) error = %v, want ErrUnknownLevel", err)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	log := NewLoggerWithWriter(&buf, "warn")
	log.Info("hidden")
	log.Warn("skipping invalid entry", "key", "7")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}

	if !strings.Contains(out, "key=7") {
		t.Errorf("warn record missing attributes: %s", out)
	}

	buf.Reset()
	log.SetLevel("debug")
	log.With("run_id", "abc").Debug("fetched")

	if !strings.Contains(buf.String(), "run_id=abc") {
		t.Errorf("child logger lost attributes: %s", buf.String())
	}
}

func TestLogger_NilIsSafe(t *testing.T) {
	var log *Logger

	log.Info("ignored")
	log.SetLevel("debug")

	if log.With("a", 1) != nil {
		t.Error("With on nil logger should return nil")
	}
}
