package preview

import (
	"sync"
	"time"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/logging"
)

// Frame is one rendered state of the preview.
type Frame struct {
	Heading string `json:"heading"`
	SubText string `json:"subText"`
	HTML    string `json:"html"`
}

// Component is a mounted preview: the current settings plus the heading and
// subtext cyclers. Every settings change and every tick produces a new frame.
type Component struct {
	// lifecycle serializes Update and Close.
	lifecycle sync.Mutex

	mu       sync.RWMutex
	settings banner.Settings
	closed   bool

	heading *Cycler
	subtext *Cycler

	emitMu  sync.Mutex
	onFrame func(Frame)
}

// NewComponent mounts a preview for s. onFrame may be nil.
func NewComponent(s banner.Settings, interval time.Duration, onFrame func(Frame)) *Component {
	c := &Component{settings: s.Clone(), onFrame: onFrame}
	c.heading = NewCycler("heading", interval, c.emit)
	c.subtext = NewCycler("subtext", interval, c.emit)
	c.configure(c.settings)
	return c
}

// Update replaces the settings and emits a frame. Cyclers restart only when
// their flag or list changed.
func (c *Component) Update(s banner.Settings) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.settings = s.Clone()
	snapshot := c.settings
	c.mu.Unlock()

	c.configure(snapshot)
	c.emit()
}

func (c *Component) configure(s banner.Settings) {
	c.heading.Configure(s.HeadingDisplay(), s.IsHeadingAnimated, s.HeadingCycleTexts())
	c.subtext.Configure(s.SubTextDisplay(), s.IsSubTextAnimated, s.SubTextCycleTexts())
}

// Settings returns the settings the preview currently shows.
func (c *Component) Settings() banner.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Clone()
}

// Heading returns the heading text currently displayed.
func (c *Component) Heading() string {
	return c.heading.Display()
}

// SubText returns the subtext currently displayed.
func (c *Component) SubText() string {
	return c.subtext.Display()
}

// Frame renders the current state.
func (c *Component) Frame() Frame {
	s := c.Settings()
	heading, subtext := c.heading.Display(), c.subtext.Display()
	out, err := RenderString(s, heading, subtext)
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentPreview, "Failed to render preview", "error", err)
	}
	return Frame{Heading: heading, SubText: subtext, HTML: out}
}

func (c *Component) emit() {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed || c.onFrame == nil {
		return
	}

	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	c.onFrame(c.Frame())
}

// Close tears both cyclers down and waits for their timers.
func (c *Component) Close() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.heading.Close()
	c.subtext.Close()
}
