package lifecycle

import (
	"sync/atomic"
	"testing"
	"time"
)

func newTestScope() (*Scope, *FakeClock) {
	clock := NewFakeClock(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
	return NewScope(clock), clock
}

func TestAfterFiresOnce(t *testing.T) {
	scope, clock := newTestScope()
	var n int
	scope.After(time.Second, func() { n++ })

	clock.Advance(999 * time.Millisecond)
	if n != 0 {
		t.Fatalf("fired early: n=%d", n)
	}
	clock.Advance(time.Millisecond)
	if n != 1 {
		t.Fatalf("expected 1 fire, got %d", n)
	}
	clock.Advance(time.Hour)
	if n != 1 {
		t.Errorf("single-shot fired again: n=%d", n)
	}
	if scope.Active() != 0 {
		t.Errorf("expected no active timers, got %d", scope.Active())
	}
}

func TestEveryRepeats(t *testing.T) {
	scope, clock := newTestScope()
	var n int
	scope.Every(5*time.Second, func() { n++ })

	clock.Advance(25 * time.Second)
	if n != 5 {
		t.Errorf("expected 5 ticks, got %d", n)
	}
}

func TestCloseCancelsTimers(t *testing.T) {
	scope, clock := newTestScope()
	var n int
	scope.After(time.Second, func() { n++ })
	scope.Every(time.Second, func() { n++ })

	scope.Close()
	clock.Advance(10 * time.Second)

	if n != 0 {
		t.Errorf("callbacks ran after close: n=%d", n)
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no pending clock timers, got %d", clock.Pending())
	}
	if scope.Active() != 0 {
		t.Errorf("active timers after close = %d, want 0", scope.Active())
	}
}

func TestRegisterAfterCloseIsNoop(t *testing.T) {
	scope, clock := newTestScope()
	scope.Close()

	var n int
	h := scope.After(time.Millisecond, func() { n++ })
	clock.Advance(time.Second)

	if n != 0 {
		t.Errorf("callback ran on closed scope")
	}
	if h.Stop() {
		t.Error("Stop on a never-armed handle should report false")
	}
}

func TestHandleStop(t *testing.T) {
	scope, clock := newTestScope()
	var n int
	h := scope.Every(time.Second, func() { n++ })

	clock.Advance(2 * time.Second)
	if !h.Stop() {
		t.Error("Stop should report the timer was pending")
	}
	clock.Advance(5 * time.Second)
	if n != 2 {
		t.Errorf("expected 2 ticks before stop, got %d", n)
	}
	if h.Stop() {
		t.Error("second Stop should report false")
	}
}

func TestCallbackCanSchedule(t *testing.T) {
	scope, clock := newTestScope()
	var order []string
	scope.After(time.Second, func() {
		order = append(order, "first")
		scope.After(time.Second, func() { order = append(order, "second") })
	})

	clock.Advance(3 * time.Second)
	if len(order) != 2 || order[1] != "second" {
		t.Errorf("order = %v", order)
	}
}

func TestRealClockScope(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Close()

	done := make(chan struct{})
	var fired atomic.Bool
	scope.After(5*time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
	if !fired.Load() {
		t.Error("expected callback to run")
	}
}
