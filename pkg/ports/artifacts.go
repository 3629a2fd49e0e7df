package ports

import (
	"io"
	"time"
)

// Artifact is a processed video on disk.
type Artifact struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// ArtifactStore manages uploaded inputs and processed outputs.
type ArtifactStore interface {
	// SaveUpload stores an uploaded video and returns its path.
	SaveUpload(runID string, r io.Reader) (string, error)

	// OutputPath returns the path a run should write its processed video to.
	OutputPath(runID string) string

	// Stat returns the artifact at path, or an error if it is absent or empty.
	Stat(path string) (Artifact, error)

	// Latest returns the most recently written processed video.
	Latest() (Artifact, error)
}
