package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/logging"
	"github.com/rmitchellscott/bannermaster/internal/preview"
)

// ErrSessionNotFound is returned for unknown or discarded sessions.
var ErrSessionNotFound = errors.New("editor session not found")

// EventFrame is the event type of published preview frames.
const EventFrame = "frame"

// Publisher delivers session events to connected clients.
type Publisher interface {
	Publish(sessionID, eventType string, data interface{})
	CloseSession(sessionID string)
}

// Manager tracks open editor sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	publisher Publisher
	projects  *ProjectStore
	interval  time.Duration
	ttl       time.Duration
	now       func() time.Time
}

// Options configures a Manager.
type Options struct {
	// Publisher receives preview frames. Nil disables publishing.
	Publisher Publisher
	// Projects backs Save and Load. Nil disables them.
	Projects *ProjectStore
	// CycleInterval is the text cycling period of every preview.
	CycleInterval time.Duration
	// SessionTTL is the idle time after which Sweep discards a session.
	SessionTTL time.Duration
}

// NewManager creates an empty session manager
func NewManager(opts Options) *Manager {
	if opts.CycleInterval <= 0 {
		opts.CycleInterval = preview.CycleInterval
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		publisher: opts.Publisher,
		projects:  opts.Projects,
		interval:  opts.CycleInterval,
		ttl:       opts.SessionTTL,
		now:       time.Now,
	}
}

// Create opens a session. A nil initial starts from the editor defaults.
func (m *Manager) Create(initial *banner.Settings) *Session {
	settings := banner.Defaults()
	if initial != nil {
		settings = initial.Clamp().Clone()
	}

	now := m.now()
	session := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		settings:  settings,
		lastSeen:  now,
	}
	session.component = preview.NewComponent(settings, m.interval, m.frameSink(session.ID))

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	logging.InfoWithComponent(logging.ComponentEditor, "Opened editor session", "session_id", session.ID)
	return session
}

func (m *Manager) frameSink(sessionID string) func(preview.Frame) {
	if m.publisher == nil {
		return nil
	}
	return func(f preview.Frame) {
		m.publisher.Publish(sessionID, EventFrame, f)
	}
}

// Get returns a session and marks it as seen.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	session.touch(m.now())
	return session, nil
}

// Delete discards a session, stopping its cycling timers and disconnecting
// its clients.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	session.close()
	if m.publisher != nil {
		m.publisher.CloseSession(id)
	}
	logging.InfoWithComponent(logging.ComponentEditor, "Closed editor session", "session_id", id)
	return nil
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) update(id string, fn func(banner.Settings) (banner.Settings, error)) (banner.Settings, error) {
	session, err := m.Get(id)
	if err != nil {
		return banner.Settings{}, err
	}
	next, err := session.update(m.now(), fn)
	if errors.Is(err, ErrSessionNotFound) {
		return banner.Settings{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return next, err
}

// Apply shallow-merges a JSON patch into the session settings.
func (m *Manager) Apply(id string, patch []byte) (banner.Settings, error) {
	return m.update(id, func(current banner.Settings) (banner.Settings, error) {
		return banner.Merge(current, patch)
	})
}

// Replace swaps the whole settings value.
func (m *Manager) Replace(id string, s banner.Settings) (banner.Settings, error) {
	return m.update(id, func(banner.Settings) (banner.Settings, error) {
		return s.Clamp().Clone(), nil
	})
}

// AddBrandColor appends a swatch to the session's brand colors.
func (m *Manager) AddBrandColor(id, color string) (banner.Settings, error) {
	return m.update(id, func(current banner.Settings) (banner.Settings, error) {
		return current.AddBrandColor(color)
	})
}

// RemoveBrandColor drops a swatch from the session's brand colors.
func (m *Manager) RemoveBrandColor(id, color string) (banner.Settings, error) {
	return m.update(id, func(current banner.Settings) (banner.Settings, error) {
		return current.RemoveBrandColor(color), nil
	})
}

// Sweep discards sessions idle for longer than the TTL and returns how many
// were closed. A zero TTL keeps sessions forever.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.RLock()
	var expired []string
	for id, session := range m.sessions {
		if session.LastSeen().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	closed := 0
	for _, id := range expired {
		if err := m.Delete(id); err == nil {
			closed++
		}
	}
	if closed > 0 {
		logging.InfoWithComponent(logging.ComponentEditor, "Swept idle editor sessions", "count", closed)
	}
	return closed
}

// Close discards every session.
func (m *Manager) Close() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.Delete(id)
	}
}
