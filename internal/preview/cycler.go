package preview

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rmitchellscott/bannermaster/internal/pollers"
)

// CycleInterval is the default delay between two cycled strings.
const CycleInterval = 1200 * time.Millisecond

// State of one animated text block.
type State int

const (
	Static State = iota
	Cycling
)

func (s State) String() string {
	if s == Cycling {
		return "cycling"
	}
	return "static"
}

// Cycler shows either a static string or cycles through a list on a
// repeating task. Each started task is bound to the generation it was
// started for, so a tick from a replaced task never advances the new list.
type Cycler struct {
	name     string
	interval time.Duration
	onTick   func()

	// lifecycle serializes Configure and Close so a task is never started
	// after teardown.
	lifecycle sync.Mutex

	mu     sync.Mutex
	state  State
	static string
	list   []string
	index  int
	gen    uint64
	task   *pollers.BasePoller
	closed bool
}

// NewCycler returns a Static cycler. onTick is called after every advance,
// outside the cycler's lock.
func NewCycler(name string, interval time.Duration, onTick func()) *Cycler {
	if interval <= 0 {
		interval = CycleInterval
	}
	return &Cycler{name: name, interval: interval, onTick: onTick}
}

// Configure applies a new flag/list/static text. The timer restarts only
// when the cycling flag or the list changes; disabling reverts the display
// to the static text before Configure returns.
func (c *Cycler) Configure(static string, enabled bool, list []string) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.static = static

	want := enabled && len(list) > 0
	if want && c.state == Cycling && slices.Equal(c.list, list) {
		c.mu.Unlock()
		return
	}
	if !want && c.state == Static {
		c.mu.Unlock()
		return
	}

	old := c.task
	c.task = nil
	c.gen++
	if want {
		c.state = Cycling
		c.list = slices.Clone(list)
		c.index = 0
		c.task = c.newTask(c.gen)
	} else {
		c.state = Static
		c.list = nil
		c.index = 0
	}
	next := c.task
	c.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	if next != nil {
		next.Start(context.Background())
	}
}

func (c *Cycler) newTask(gen uint64) *pollers.BasePoller {
	return pollers.NewBasePoller(pollers.TickerConfig(c.name+"-cycler", c.interval), func(ctx context.Context) error {
		c.advance(gen)
		return nil
	})
}

// Advance moves a cycling block to its next entry, wrapping at the end of
// the list. It is the body of every timer tick.
func (c *Cycler) Advance() {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	c.advance(gen)
}

func (c *Cycler) advance(gen uint64) {
	c.mu.Lock()
	if c.closed || c.gen != gen || c.state != Cycling {
		c.mu.Unlock()
		return
	}
	c.index = (c.index + 1) % len(c.list)
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick()
	}
}

// Display returns the string currently shown.
func (c *Cycler) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Cycling {
		return c.list[c.index]
	}
	return c.static
}

// State returns the current state.
func (c *Cycler) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Running reports whether a timer is active.
func (c *Cycler) Running() bool {
	c.mu.Lock()
	task := c.task
	c.mu.Unlock()
	return task != nil && task.IsRunning()
}

// Close cancels the timer and waits for it. The last state is kept; no
// transitions happen afterwards.
func (c *Cycler) Close() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	task := c.task
	c.task = nil
	c.mu.Unlock()

	if task != nil {
		task.Stop()
	}
}
