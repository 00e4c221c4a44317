package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/raysh454/nbdata/internal/logging"
)

type entry struct {
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component"`
	Fields    map[string]any `json:"fields"`
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []entry {
	t.Helper()
	var out []entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("line is not JSON: %q: %v", line, err)
		}
		out = append(out, e)
	}
	return out
}

func TestStdoutLogger_WritesOneJSONLinePerCall(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewLogger(&buf, "test")

	l.Info("hello", logging.Field{Key: "n", Value: 1})
	l.Warn("careful")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Level != "info" || lines[0].Msg != "hello" || lines[0].Component != "test" {
		t.Errorf("unexpected first entry: %+v", lines[0])
	}
	if lines[0].Fields["n"] != float64(1) {
		t.Errorf("expected field n=1, got %v", lines[0].Fields["n"])
	}
	if lines[1].Level != "warn" {
		t.Errorf("expected warn, got %s", lines[1].Level)
	}
}

func TestStdoutLogger_ErrorFieldsAreStrings(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewLogger(&buf, "")

	l.Error("boom", logging.Field{Key: "error", Value: errors.New("disk full")})

	lines := decodeLines(t, &buf)
	if got := lines[0].Fields["error"]; got != "disk full" {
		t.Errorf("expected error string, got %v", got)
	}
}

func TestStdoutLogger_WithKeepsFieldsAndComponent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	parent := logging.NewLogger(&buf, "root")
	child := parent.With(
		logging.Field{Key: "component", Value: "fetcher"},
		logging.Field{Key: "backend", Value: "nethttp"},
	)

	child.Debug("sending")
	parent.Debug("parent")

	lines := decodeLines(t, &buf)
	if lines[0].Component != "fetcher" {
		t.Errorf("expected component fetcher, got %q", lines[0].Component)
	}
	if lines[0].Fields["backend"] != "nethttp" {
		t.Errorf("expected persistent backend field, got %v", lines[0].Fields)
	}
	if _, ok := lines[1].Fields["backend"]; ok {
		t.Error("child fields leaked into parent")
	}
}

func TestNop_DiscardsEverything(t *testing.T) {
	t.Parallel()
	l := logging.Nop()
	l.Info("ignored")
	if l.With(logging.Field{Key: "k", Value: "v"}) == nil {
		t.Fatal("With returned nil")
	}
}

func TestLeveledLogger_DropsBelowLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewLeveledLogger(&buf, "cli", logging.LevelWarn)

	l.Debug("noise")
	l.Info("progress")
	l.With(logging.Field{Key: "component", Value: "fetcher"}).Info("child progress")
	l.Warn("get request failed")
	l.Error("run failed")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0].Level != "warn" || lines[1].Level != "error" {
		t.Errorf("unexpected levels: %s, %s", lines[0].Level, lines[1].Level)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    logging.Level
		wantErr bool
	}{
		{in: "debug", want: logging.LevelDebug},
		{in: "INFO", want: logging.LevelInfo},
		{in: " warning ", want: logging.LevelWarn},
		{in: "error", want: logging.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
