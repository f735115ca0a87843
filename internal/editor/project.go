package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/logging"
	"github.com/rmitchellscott/bannermaster/internal/storage"
)

// ProjectKey is the fixed name the current project is saved under.
const ProjectKey = "bannerProject"

var (
	// ErrNoSavedProject is returned by Load when nothing was saved yet.
	ErrNoSavedProject = errors.New("no saved project")
	// ErrProjectsDisabled is returned when the manager has no project store.
	ErrProjectsDisabled = errors.New("project storage is not configured")
)

// ProjectStore keeps the locally saved project. Saving again overwrites
// the previous value.
type ProjectStore struct {
	backend storage.StorageBackendWithInfo
}

// NewProjectStore creates a project store on backend
func NewProjectStore(backend storage.StorageBackendWithInfo) *ProjectStore {
	return &ProjectStore{backend: backend}
}

func projectPath(key string) string {
	return "projects/" + key + ".json"
}

// Save writes s under ProjectKey.
func (p *ProjectStore) Save(ctx context.Context, s banner.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := p.backend.Put(ctx, projectPath(ProjectKey), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// Load reads the saved project. Fields missing from the stored value take
// the editor defaults.
func (p *ProjectStore) Load(ctx context.Context) (banner.Settings, error) {
	rc, err := p.backend.Get(ctx, projectPath(ProjectKey))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return banner.Settings{}, ErrNoSavedProject
	}
	if err != nil {
		return banner.Settings{}, fmt.Errorf("failed to open project: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return banner.Settings{}, fmt.Errorf("failed to read project: %w", err)
	}
	settings, err := banner.Merge(banner.Defaults(), data)
	if err != nil {
		return banner.Settings{}, fmt.Errorf("saved project is corrupt: %w", err)
	}
	return settings, nil
}

// Save stores the session's settings as the local project.
func (m *Manager) Save(ctx context.Context, id string) (banner.Settings, error) {
	if m.projects == nil {
		return banner.Settings{}, ErrProjectsDisabled
	}
	session, err := m.Get(id)
	if err != nil {
		return banner.Settings{}, err
	}

	settings := session.Settings()
	if err := m.projects.Save(ctx, settings); err != nil {
		return banner.Settings{}, err
	}
	logging.InfoWithComponent(logging.ComponentEditor, "Saved project", "session_id", id, "key", ProjectKey)
	return settings, nil
}

// Load replaces the session's settings with the saved project.
func (m *Manager) Load(ctx context.Context, id string) (banner.Settings, error) {
	if m.projects == nil {
		return banner.Settings{}, ErrProjectsDisabled
	}
	if _, err := m.Get(id); err != nil {
		return banner.Settings{}, err
	}

	settings, err := m.projects.Load(ctx)
	if err != nil {
		return banner.Settings{}, err
	}
	logging.InfoWithComponent(logging.ComponentEditor, "Loaded project", "session_id", id, "key", ProjectKey)
	return m.Replace(id, settings)
}
