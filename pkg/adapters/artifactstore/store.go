// Package artifactstore keeps uploaded and processed videos in two folders.
package artifactstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/plantscan/pkg/pipeline"
	"github.com/user/plantscan/pkg/ports"
)

const (
	uploadPrefix    = "input_"
	processedPrefix = "processed_"
	videoExt        = ".mp4"
)

// Store implements ports.ArtifactStore on a ports.FileSystem.
type Store struct {
	fs           ports.FileSystem
	uploadsDir   string
	processedDir string
	now          func() time.Time
}

// New creates both folders and returns a store over them.
func New(filesystem ports.FileSystem, uploadsDir, processedDir string) (*Store, error) {
	for _, dir := range []string{uploadsDir, processedDir} {
		if err := filesystem.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &Store{
		fs:           filesystem,
		uploadsDir:   filepath.Clean(uploadsDir),
		processedDir: filepath.Clean(processedDir),
		now:          time.Now,
	}, nil
}

// ProcessedDir returns the folder holding processed videos.
func (s *Store) ProcessedDir() string {
	return s.processedDir
}

// SaveUpload streams r to uploads/input_<unix>_<id>.mp4.
func (s *Store) SaveUpload(runID string, r io.Reader) (string, error) {
	path := filepath.Join(s.uploadsDir, s.fileName(uploadPrefix, runID))

	w, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	n, copyErr := io.Copy(w, r)
	closeErr := w.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		s.fs.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}
	if n == 0 {
		s.fs.Remove(path)
		return "", fmt.Errorf("%w: empty upload", pipeline.ErrInputMissing)
	}

	return path, nil
}

// OutputPath returns processed_videos/processed_<unix>_<id>.mp4.
func (s *Store) OutputPath(runID string) string {
	return filepath.Join(s.processedDir, s.fileName(processedPrefix, runID))
}

func (s *Store) fileName(prefix, runID string) string {
	id := runID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s%d_%s%s", prefix, s.now().Unix(), id, videoExt)
}

// Stat confirms that a run actually wrote a non-empty file at path.
func (s *Store) Stat(path string) (ports.Artifact, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return ports.Artifact{}, fmt.Errorf("%w: %w", pipeline.ErrPersistenceVerification, err)
	}
	if info.IsDir || info.Size == 0 {
		return ports.Artifact{}, fmt.Errorf("%w: %s is empty", pipeline.ErrPersistenceVerification, path)
	}
	return toArtifact(info), nil
}

// Latest returns the processed video with the newest modification time.
// Ties are broken by name so the result is stable.
func (s *Store) Latest() (ports.Artifact, error) {
	entries, err := s.fs.List(s.processedDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ports.Artifact{}, pipeline.ErrNotFound
		}
		return ports.Artifact{}, fmt.Errorf("list %s: %w", s.processedDir, err)
	}

	var latest *ports.FileInfo
	for i := range entries {
		e := &entries[i]
		if e.IsDir || e.Size == 0 || strings.HasPrefix(e.Name, ".") {
			continue
		}
		if latest == nil ||
			e.ModTime.After(latest.ModTime) ||
			(e.ModTime.Equal(latest.ModTime) && e.Name > latest.Name) {
			latest = e
		}
	}

	if latest == nil {
		return ports.Artifact{}, pipeline.ErrNotFound
	}
	return toArtifact(*latest), nil
}

func toArtifact(info ports.FileInfo) ports.Artifact {
	return ports.Artifact{
		Path:    info.Path,
		Name:    info.Name,
		Size:    info.Size,
		ModTime: info.ModTime,
	}
}

// Ensure Store implements ports.ArtifactStore
var _ ports.ArtifactStore = (*Store)(nil)
