package widget

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jotunheim-mc/website/internal/lifecycle"
)

// MaxPlayers is the exclusive upper bound of the displayed player count.
const MaxPlayers = 100

// PlayerCounter shows a decorative online-player number that is replaced by
// a new random value on every tick. It is not backed by a server query.
type PlayerCounter struct {
	interval time.Duration
	intn     func(int) int
	onChange func(int)

	mu    sync.Mutex
	value int
}

// NewPlayerCounter returns a counter starting at zero. intn draws a value in
// [0,n); nil means math/rand/v2.
func NewPlayerCounter(interval time.Duration, intn func(int) int, onChange func(int)) *PlayerCounter {
	if intn == nil {
		intn = rand.IntN
	}
	return &PlayerCounter{interval: interval, intn: intn, onChange: onChange}
}

// Mount starts ticking on scope until the scope closes.
func (c *PlayerCounter) Mount(scope *lifecycle.Scope) {
	scope.Every(c.interval, c.tick)
}

func (c *PlayerCounter) tick() {
	v := c.intn(MaxPlayers)
	if v < 0 || v >= MaxPlayers {
		v = 0
	}
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(v)
	}
}

// Value returns the displayed count.
func (c *PlayerCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
