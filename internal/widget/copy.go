package widget

import (
	"sync"
	"time"

	"github.com/jotunheim-mc/website/internal/lifecycle"
)

// Labels shown on the copy button.
const (
	CopyLabel   = "Kopier"
	CopiedLabel = "Kopiert!"
)

// CopyButton tracks the label of the "copy server address" button. The
// clipboard write itself happens in the browser; Copied is called after it
// succeeds.
type CopyButton struct {
	text     string
	revert   time.Duration
	onChange func(string)

	mu     sync.Mutex
	scope  *lifecycle.Scope
	label  string
	handle *lifecycle.Handle
	gen    uint64
}

// NewCopyButton returns a button that copies text and reverts its label
// after revert.
func NewCopyButton(text string, revert time.Duration, onChange func(string)) *CopyButton {
	return &CopyButton{text: text, revert: revert, onChange: onChange, label: CopyLabel}
}

// Mount binds the button's revert timer to scope.
func (b *CopyButton) Mount(scope *lifecycle.Scope) {
	b.mu.Lock()
	b.scope = scope
	b.mu.Unlock()
}

// Text returns the string the button copies.
func (b *CopyButton) Text() string { return b.text }

// Label returns the current label.
func (b *CopyButton) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

// Copied shows the confirmation label and re-arms the revert timer.
func (b *CopyButton) Copied() {
	b.mu.Lock()
	if b.handle != nil {
		b.handle.Stop()
		b.handle = nil
	}
	b.label = CopiedLabel
	b.gen++
	gen := b.gen
	if b.scope != nil {
		b.handle = b.scope.After(b.revert, func() { b.reset(gen) })
	}
	b.mu.Unlock()

	b.notify(CopiedLabel)
}

// reset reverts the label unless a later Copied re-armed the timer.
func (b *CopyButton) reset(gen uint64) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.label = CopyLabel
	b.handle = nil
	b.mu.Unlock()

	b.notify(CopyLabel)
}

func (b *CopyButton) notify(label string) {
	if b.onChange != nil {
		b.onChange(label)
	}
}
