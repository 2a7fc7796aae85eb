package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", "json", &buf)
	l.Info("dropped")
	l.Warn("kept", "sentence", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "kept" || rec["sentence"] != float64(3) {
		t.Errorf("record = %v", rec)
	}

	buf.Reset()
	New("nonsense", "text", &buf).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("unknown level logged debug: %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	Setup("info", "text", &buf)

	ctx := WithRequestID(context.Background(), "req-42")
	if RequestID(ctx) != "req-42" {
		t.Errorf("RequestID = %q", RequestID(ctx))
	}
	FromContext(ctx).Info("handled")
	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("log line = %q", buf.String())
	}

	buf.Reset()
	FromContext(context.Background()).Info("plain")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("log line = %q", buf.String())
	}
}
