package loghandler

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestHandleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, slog.LevelInfo))

	logger.Info("game started", "tag", "bot", "game", "g1")

	line := buf.String()
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("expected trailing newline, got %q", line)
	}
	if !strings.Contains(line, " INFO [bot] game started game=g1\n") {
		t.Errorf("unexpected line %q", line)
	}
	if strings.Contains(line, "tag=") {
		t.Errorf("tag should not be repeated as key=value: %q", line)
	}
}

func TestEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, slog.LevelWarn))

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "WARN shown") {
		t.Errorf("expected warn record, got %q", out)
	}
}

func TestWithAttrsDefaultTag(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, slog.LevelInfo)).With("tag", "ws", "conn", 3)

	logger.Info("connected")
	logger.Info("override", "tag", "storage")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[ws] connected conn=3") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[storage] override conn=3") {
		t.Errorf("unexpected second line %q", lines[1])
	}
}

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, LevelTrace))
	logger.Log(context.Background(), LevelTrace, "board")
	if !strings.Contains(buf.String(), "TRACE board") {
		t.Errorf("expected TRACE record, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"error", slog.LevelError, false},
		{"WARN", slog.LevelWarn, false},
		{"Info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"trace", LevelTrace, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
