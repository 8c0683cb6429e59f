package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo)

	logger.Info("round resolved",
		"league_id", "lg-1",
		"round", 3,
		"error", errors.New("boom"),
		"spent", decimal.RequireFromString("480.50"),
	)
	_ = logger.Sync()

	out := buf.String()
	for _, want := range []string{`"msg":"round resolved"`, `"league_id":"lg-1"`, `"round":3`, `"error":"boom"`, `"spent":"480.5"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output, got %s", want, out)
		}
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered, got %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn record missing, got %s", out)
	}
}

func TestSetMirror_ReceivesInheritedFields(t *testing.T) {
	type record struct {
		level Level
		msg   string
		args  []any
	}
	var got []record
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, record{level: level, msg: msg, args: args})
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger := NewNop().With("component", "auction")
	logger.WarnContext(context.Background(), "stalled team", "team_id", "t-1")

	if len(got) != 1 {
		t.Fatalf("expected one mirrored record, got %d", len(got))
	}
	if got[0].level != LevelWarn || got[0].msg != "stalled team" {
		t.Fatalf("unexpected mirrored record: %+v", got[0])
	}
	if len(got[0].args) != 4 || got[0].args[0] != "component" || got[0].args[3] != "t-1" {
		t.Fatalf("unexpected mirrored args: %+v", got[0].args)
	}
}

func TestZapFields_OddArgs(t *testing.T) {
	fields := zapFields([]any{"a", 1, "dangling"})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[1].Key != "dangling" {
		t.Fatalf("unexpected key %q", fields[1].Key)
	}
}
