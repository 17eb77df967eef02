// Package lifecycle ties timers to the mount/unmount lifecycle of a view.
//
// A Scope is created when a view mounts and closed when it unmounts. Timers
// registered on a scope are cancelled by Close, and no callback runs after
// Close returns. Callbacks of one scope never run concurrently with each
// other.
package lifecycle

import (
	"sync"
	"time"
)

// Scope owns the timers of one mounted view.
type Scope struct {
	clock Clock

	// runMu serialises callbacks and Close.
	runMu sync.Mutex

	mu      sync.Mutex
	closed  bool
	handles map[*Handle]struct{}
}

// Handle is a timer registered on a scope.
type Handle struct {
	scope   *Scope
	timer   Timer
	stopped bool
}

// NewScope returns an open scope scheduling on clock. A nil clock means
// RealClock.
func NewScope(clock Clock) *Scope {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scope{clock: clock, handles: make(map[*Handle]struct{})}
}

// After runs fn once after d. On a closed scope it does nothing.
func (s *Scope) After(d time.Duration, fn func()) *Handle {
	return s.schedule(d, 0, fn)
}

// Every runs fn every d until the handle is stopped or the scope closes.
func (s *Scope) Every(d time.Duration, fn func()) *Handle {
	return s.schedule(d, d, fn)
}

func (s *Scope) schedule(d, every time.Duration, fn func()) *Handle {
	h := &Handle{scope: s}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		h.stopped = true
		return h
	}
	s.handles[h] = struct{}{}
	h.timer = s.clock.AfterFunc(d, func() { s.fire(h, every, fn) })
	return h
}

func (s *Scope) fire(h *Handle, every time.Duration, fn func()) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if s.closed || h.stopped {
		s.mu.Unlock()
		return
	}
	if every > 0 {
		h.timer = s.clock.AfterFunc(every, func() { s.fire(h, every, fn) })
	} else {
		h.stopped = true
		delete(s.handles, h)
	}
	s.mu.Unlock()

	fn()
}

// Close cancels every timer of the scope. It waits for a running callback
// to return and must not be called from inside one.
func (s *Scope) Close() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for h := range s.handles {
		h.stopped = true
		if h.timer != nil {
			h.timer.Stop()
		}
	}
	s.handles = nil
}

// Active returns the number of live timers.
func (s *Scope) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (h *Handle) Stop() bool {
	s := h.scope
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.stopped {
		return false
	}
	h.stopped = true
	delete(s.handles, h)
	if h.timer != nil {
		h.timer.Stop()
	}
	return true
}
