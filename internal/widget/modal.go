// Package widget implements the interactive pieces of the site's views: the
// promotional modal, the player counter, the copy button and the newsletter
// signup. Each widget keeps its own state and is mounted on a lifecycle
// scope that owns its timers.
package widget

import (
	"sync"
	"time"

	"github.com/jotunheim-mc/website/internal/lifecycle"
)

// ModalState is what a view needs to render the promo modal.
type ModalState struct {
	Visible bool `json:"visible"`
	Offset  int  `json:"offset"`
}

// Modal is the promotional overlay. It starts hidden, becomes visible once
// after a delay, and is hidden for good by Close or by a drag whose net
// horizontal displacement exceeds the threshold. A drag of exactly the
// threshold does not dismiss.
type Modal struct {
	delay     time.Duration
	threshold int
	onChange  func(ModalState)

	mu        sync.Mutex
	visible   bool
	dismissed bool
	dragging  bool
	startX    int
	offset    int
}

// NewModal returns a hidden modal. onChange, if set, is called after every
// visibility change and after a drag ends.
func NewModal(delay time.Duration, threshold int, onChange func(ModalState)) *Modal {
	return &Modal{delay: delay, threshold: threshold, onChange: onChange}
}

// Mount arms the reveal timer on scope. Closing the scope before the delay
// elapses keeps the modal hidden.
func (m *Modal) Mount(scope *lifecycle.Scope) {
	scope.After(m.delay, m.show)
}

func (m *Modal) show() {
	m.mu.Lock()
	if m.visible || m.dismissed {
		m.mu.Unlock()
		return
	}
	m.visible = true
	st := m.stateLocked()
	m.mu.Unlock()
	m.notify(st)
}

// State returns the current modal state.
func (m *Modal) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Modal) stateLocked() ModalState {
	return ModalState{Visible: m.visible, Offset: m.offset}
}

// Close hides the modal.
func (m *Modal) Close() {
	m.mu.Lock()
	if !m.visible {
		m.dismissed = true
		m.mu.Unlock()
		return
	}
	m.hideLocked()
	st := m.stateLocked()
	m.mu.Unlock()
	m.notify(st)
}

func (m *Modal) hideLocked() {
	m.visible = false
	m.dismissed = true
	m.dragging = false
	m.offset = 0
}

// DragStart begins tracking a horizontal drag at x.
func (m *Modal) DragStart(x int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.visible {
		return
	}
	m.dragging = true
	m.startX = x
	m.offset = 0
}

// DragMove updates the drag offset and returns it.
func (m *Modal) DragMove(x int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.visible || !m.dragging {
		return 0
	}
	m.offset = x - m.startX
	return m.offset
}

// DragEnd finishes the drag. It dismisses the modal if the net offset
// magnitude exceeds the threshold, otherwise snaps back to zero offset.
// It reports whether the modal was dismissed.
func (m *Modal) DragEnd() bool {
	m.mu.Lock()
	if !m.visible || !m.dragging {
		m.mu.Unlock()
		return false
	}
	dismissed := abs(m.offset) > m.threshold
	if dismissed {
		m.hideLocked()
	} else {
		m.dragging = false
		m.offset = 0
	}
	st := m.stateLocked()
	m.mu.Unlock()

	m.notify(st)
	return dismissed
}

func (m *Modal) notify(st ModalState) {
	if m.onChange != nil {
		m.onChange(st)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
