package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigureJSONWithService(t *testing.T) {
	defer Configure(Config{Level: "info", Format: TextFormat})

	var buf bytes.Buffer
	lgr := Configure(Config{Level: "info", Format: JSONFormat, Output: &buf})
	svc := ForService(lgr, "course")
	svc.Info().Msg("hello")
	Debug().Msg("suppressed")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "course" || entry["message"] != "hello" {
		t.Errorf("unexpected entry %v", entry)
	}
}
