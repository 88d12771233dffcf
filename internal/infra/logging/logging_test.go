package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	var jsonBuf bytes.Buffer

	New(&jsonBuf, slog.LevelInfo, "json").Info("settled", "user_id", 7)

	var rec map[string]any

	err := json.Unmarshal(jsonBuf.Bytes(), &rec)
	if err != nil {
		t.Fatalf("json output not decodable: %v (%q)", err, jsonBuf.String())
	}
	if rec["msg"] != "settled" {
		t.Fatalf("msg: want settled, got %v", rec["msg"])
	}

	var textBuf bytes.Buffer

	New(&textBuf, slog.LevelInfo, "TEXT").Info("settled", "user_id", 7)

	if !strings.Contains(textBuf.String(), "user_id=7") {
		t.Fatalf("text output missing attr: %q", textBuf.String())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := New(&buf, slog.LevelWarn, "json")
	l.Info("dropped")
	l.Debug("dropped")

	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
}
