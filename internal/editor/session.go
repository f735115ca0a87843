// Package editor owns the banner being edited. A Session holds the single
// Settings value; every edit replaces it and fans the new value out to the
// live preview, whose frames are published to connected clients.
package editor

import (
	"sync"
	"time"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/document"
	"github.com/rmitchellscott/bannermaster/internal/preview"
)

// Session is one open editor.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	settings banner.Settings
	lastSeen time.Time
	closed   bool

	component *preview.Component
}

// Settings returns the current settings value.
func (s *Session) Settings() banner.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Frame returns the preview as it is displayed right now.
func (s *Session) Frame() preview.Frame {
	return s.component.Frame()
}

// Document generates the export document for the current settings.
func (s *Session) Document() string {
	return document.Generate(s.Settings())
}

// LastSeen returns the time of the last access.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// update applies fn to the current settings and, on success, replaces the
// value and re-renders the preview.
func (s *Session) update(now time.Time, fn func(banner.Settings) (banner.Settings, error)) (banner.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return banner.Settings{}, ErrSessionNotFound
	}

	next, err := fn(s.settings)
	if err != nil {
		return s.settings.Clone(), err
	}
	s.settings = next
	s.lastSeen = now
	s.component.Update(next)
	return next.Clone(), nil
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.component.Close()
}
