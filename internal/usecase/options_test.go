package usecase

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestApplyOptions(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC))

	if got := applyOptions([]Option{WithClock(fake)}).clock; got != fake {
		t.Fatalf("expected injected clock")
	}
	if got := applyOptions([]Option{WithClock(nil)}).clock; got == nil {
		t.Fatalf("nil clock must fall back to the real clock")
	}
	if got := applyOptions(nil).clock; got == nil {
		t.Fatalf("expected default clock")
	}
}
