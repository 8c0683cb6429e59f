package observability

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog("http_request", []any{"http_path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if !shouldSkipUptraceLog("http_request", []any{"http_method", "GET", "http_path", "/docs"}) {
		t.Fatalf("expected docs log to be skipped")
	}
	if shouldSkipUptraceLog("http_request", []any{"http_path", "/v1/leagues"}) {
		t.Fatalf("did not expect non-health log to be skipped")
	}
	if shouldSkipUptraceLog("round resolved", []any{"http_path", "/healthz"}) {
		t.Fatalf("did not expect non-http_request event to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{
		"league_id", "lg-1",
		"round", 2,
		"price", decimal.RequireFromString("120.50"),
		"invite_code", "AB12CD34",
		"error", errors.New("boom"),
		"dangling",
	})
	if len(attrs) != 6 {
		t.Fatalf("expected 6 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "league_id" || attrs[0].Value.AsString() != "lg-1" {
		t.Fatalf("unexpected league_id attribute")
	}
	if attrs[1].Key != "round" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected round attribute")
	}
	if attrs[2].Value.AsString() != "120.5" {
		t.Fatalf("expected decimal as text, got %q", attrs[2].Value.AsString())
	}
	if attrs[3].Value.AsString() != redactedValue {
		t.Fatalf("invite code should be redacted, got %q", attrs[3].Value.AsString())
	}
	if attrs[4].Value.AsString() != "boom" {
		t.Fatalf("unexpected error attribute")
	}
	if attrs[5].Key != "dangling" || attrs[5].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute")
	}
}

func TestToOTelLogValue_MapAndSlice(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"awarded":     3,
		"finished":    true,
		"invite_code": "SECRET",
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	items := v.AsMap()
	if len(items) != 3 {
		t.Fatalf("expected 3 map items, got %d", len(items))
	}
	if items[2].Key != "invite_code" || items[2].Value.AsString() != redactedValue {
		t.Fatalf("expected nested invite code redacted, got %+v", items[2])
	}

	s := toOTelLogValue([]string{"t1", "t2"}, 0)
	if s.Kind() != otellog.KindSlice || len(s.AsSlice()) != 2 {
		t.Fatalf("expected slice of 2, got %s", s.Kind())
	}
	if u := toOTelLogValue(uint8(7), 0); u.AsInt64() != 7 {
		t.Fatalf("expected uint8 as int64")
	}
}
