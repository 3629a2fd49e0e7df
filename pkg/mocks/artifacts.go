package mocks

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/user/plantscan/pkg/pipeline"
	"github.com/user/plantscan/pkg/ports"
)

// ArtifactStore is an in-memory implementation of ports.ArtifactStore.
type ArtifactStore struct {
	mu sync.Mutex

	Uploads   map[string][]byte
	Artifacts map[string]ports.Artifact

	SaveUploadFunc func(runID string, r io.Reader) (string, error)
	StatFunc       func(path string) (ports.Artifact, error)
}

// NewArtifactStore creates a new mock ArtifactStore.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		Uploads:   make(map[string][]byte),
		Artifacts: make(map[string]ports.Artifact),
	}
}

func (m *ArtifactStore) SaveUpload(runID string, r io.Reader) (string, error) {
	if m.SaveUploadFunc != nil {
		return m.SaveUploadFunc(runID, r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "uploads/input_" + runID + ".mp4"
	m.mu.Lock()
	m.Uploads[path] = data
	m.mu.Unlock()
	return path, nil
}

func (m *ArtifactStore) OutputPath(runID string) string {
	return "processed_videos/processed_" + runID + ".mp4"
}

// Put registers an artifact as if a run had written it.
func (m *ArtifactStore) Put(path string, size int64, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Artifacts[path] = ports.Artifact{Path: path, Name: path, Size: size, ModTime: modTime}
}

func (m *ArtifactStore) Stat(path string) (ports.Artifact, error) {
	if m.StatFunc != nil {
		return m.StatFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Artifacts[path]
	if !ok {
		return ports.Artifact{}, fmt.Errorf("%s: %w", path, pipeline.ErrPersistenceVerification)
	}
	return a, nil
}

func (m *ArtifactStore) Latest() (ports.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest ports.Artifact
	found := false
	for _, a := range m.Artifacts {
		if !found || a.ModTime.After(latest.ModTime) {
			latest = a
			found = true
		}
	}
	if !found {
		return ports.Artifact{}, pipeline.ErrNotFound
	}
	return latest, nil
}

var _ ports.ArtifactStore = (*ArtifactStore)(nil)
