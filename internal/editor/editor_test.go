package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/preview"
	"github.com/rmitchellscott/bannermaster/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingPublisher struct {
	mu     sync.Mutex
	frames map[string][]preview.Frame
	closed []string
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{frames: make(map[string][]preview.Frame)}
}

func (p *recordingPublisher) Publish(sessionID, eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := data.(preview.Frame); ok && eventType == EventFrame {
		p.frames[sessionID] = append(p.frames[sessionID], f)
	}
}

func (p *recordingPublisher) CloseSession(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, sessionID)
}

func (p *recordingPublisher) last(sessionID string) (preview.Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	frames := p.frames[sessionID]
	if len(frames) == 0 {
		return preview.Frame{}, false
	}
	return frames[len(frames)-1], true
}

func newTestManager(t *testing.T, pub Publisher) *Manager {
	t.Helper()
	m := NewManager(Options{
		Publisher:     pub,
		Projects:      NewProjectStore(storage.NewFilesystemBackend(t.TempDir())),
		CycleInterval: time.Hour,
		SessionTTL:    time.Hour,
	})
	t.Cleanup(m.Close)
	return m
}

func TestCreateStartsFromDefaults(t *testing.T) {
	m := newTestManager(t, nil)
	session := m.Create(nil)

	assert.Equal(t, banner.Defaults(), session.Settings())
	got, err := m.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, 1, m.Count())
}

func TestCreateWithInitialSettingsClamps(t *testing.T) {
	m := newTestManager(t, nil)
	initial := banner.Defaults()
	initial.Width = 0
	initial.HeadingText = "Hello"

	session := m.Create(&initial)
	assert.Equal(t, 1, session.Settings().Width)
	assert.Equal(t, "Hello", session.Settings().HeadingText)
}

func TestApplyPublishesFrame(t *testing.T) {
	pub := newRecordingPublisher()
	m := newTestManager(t, pub)
	session := m.Create(nil)

	next, err := m.Apply(session.ID, []byte(`{"headingText":"Flash sale","showCta":false}`))
	require.NoError(t, err)
	assert.Equal(t, "Flash sale", next.HeadingText)
	assert.False(t, next.ShowCta)
	assert.Equal(t, banner.Defaults().SubText, next.SubText, "absent keys keep their value")

	frame, ok := pub.last(session.ID)
	require.True(t, ok)
	assert.Equal(t, "Flash sale", frame.Heading)
	assert.Contains(t, frame.HTML, ">Flash sale</h1>")
	assert.NotContains(t, frame.HTML, "banner-cta")

	assert.Contains(t, session.Document(), ">Flash sale</h1>")
}

func TestApplyRejectsInvalidPatch(t *testing.T) {
	m := newTestManager(t, nil)
	session := m.Create(nil)

	_, err := m.Apply(session.ID, []byte(`"nope"`))
	assert.True(t, errors.Is(err, banner.ErrInvalidPatch))
	assert.Equal(t, banner.Defaults(), session.Settings(), "state untouched on error")
}

func TestBrandColors(t *testing.T) {
	m := newTestManager(t, nil)
	session := m.Create(nil)
	defaults := banner.Defaults().BrandColors

	s, err := m.AddBrandColor(session.ID, "#123ABC")
	require.NoError(t, err)
	s, err = m.AddBrandColor(session.ID, "#123abc")
	require.NoError(t, err)
	assert.Equal(t, append(append([]string{}, defaults...), "#123ABC"), s.BrandColors)

	_, err = m.AddBrandColor(session.ID, "red")
	assert.True(t, errors.Is(err, banner.ErrInvalidColor))

	s, err = m.RemoveBrandColor(session.ID, "#ed2d26")
	require.NoError(t, err)
	assert.NotContains(t, s.BrandColors, "#ED2D26")
	assert.Len(t, s.BrandColors, len(defaults))
}

func TestUnknownSession(t *testing.T) {
	m := newTestManager(t, nil)

	_, err := m.Get("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = m.Apply("missing", []byte(`{}`))
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.True(t, errors.Is(m.Delete("missing"), ErrSessionNotFound))
}

func TestDeleteStopsCyclingAndDisconnects(t *testing.T) {
	pub := newRecordingPublisher()
	m := NewManager(Options{Publisher: pub, CycleInterval: 2 * time.Millisecond})

	initial := banner.Defaults()
	initial.IsHeadingAnimated = true
	initial.HeadingAnimationTexts = []string{"A", "B", "C"}
	session := m.Create(&initial)

	assert.Eventually(t, func() bool {
		f, ok := pub.last(session.ID)
		return ok && f.Heading != "A"
	}, time.Second, time.Millisecond, "cycler ticks publish frames")

	require.NoError(t, m.Delete(session.ID))
	assert.Equal(t, []string{session.ID}, pub.closed)

	_, err := m.Apply(session.ID, []byte(`{}`))
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestSaveAndLoadProject(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	first := m.Create(nil)
	_, err := m.Load(ctx, first.ID)
	assert.True(t, errors.Is(err, ErrNoSavedProject))

	_, err = m.Apply(first.ID, []byte(`{"headingText":"Saved","brandColors":["#123456"]}`))
	require.NoError(t, err)
	_, err = m.Save(ctx, first.ID)
	require.NoError(t, err)

	second := m.Create(nil)
	loaded, err := m.Load(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Saved", loaded.HeadingText)
	assert.Equal(t, []string{"#123456"}, second.Settings().BrandColors)
	assert.Equal(t, "Saved", second.Frame().Heading)
}

func TestProjectStoreFillsMissingFieldsWithDefaults(t *testing.T) {
	backend := storage.NewFilesystemBackend(t.TempDir())
	ctx := context.Background()
	require.NoError(t, backend.Put(ctx, "projects/"+ProjectKey+".json", strings.NewReader(`{"width":728,"height":90}`)))

	s, err := NewProjectStore(backend).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 728, s.Width)
	assert.Equal(t, banner.Defaults().HeadingFont, s.HeadingFont)
}

func TestSaveWithoutProjectStore(t *testing.T) {
	m := NewManager(Options{})
	defer m.Close()
	session := m.Create(nil)

	_, err := m.Save(context.Background(), session.ID)
	assert.True(t, errors.Is(err, ErrProjectsDisabled))
}

func TestSweepDiscardsIdleSessions(t *testing.T) {
	pub := newRecordingPublisher()
	m := newTestManager(t, pub)

	now := time.Date(2025, 10, 18, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	idle := m.Create(nil)
	now = now.Add(45 * time.Minute)
	active := m.Create(nil)

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, err := m.Get(idle.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = m.Get(active.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{idle.ID}, pub.closed)
}

func TestSweeperRunsOnTicks(t *testing.T) {
	m := NewManager(Options{SessionTTL: time.Nanosecond})
	defer m.Close()
	m.Create(nil)

	sweeper := m.Sweeper(2 * time.Millisecond)
	require.NoError(t, sweeper.Start(context.Background()))
	defer sweeper.Stop()

	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, time.Millisecond)
}
