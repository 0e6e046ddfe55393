package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "warn")
	l.Info().Msg("hidden")
	l.Warn().Str("room", "101").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("want 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["message"] != "shown" || rec["room"] != "101" || rec["service"] != "hotel-backoffice" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNewLogger_BadLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "loud")
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("output: %q", buf.String())
	}
}

func TestNewLogger_DevIsConsole(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "dev", "")
	l.Info().Msg("hello")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("want console output, got %q", buf.String())
	}
}
