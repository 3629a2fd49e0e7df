package ports

import (
	"io"
	"time"
)

// FileInfo describes a file returned by Stat or List.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte) error

	// Create opens a file for streaming writes, truncating any existing content.
	// Parent directories are created as needed.
	Create(path string) (io.WriteCloser, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Stat returns information about a single file.
	Stat(path string) (FileInfo, error)

	// List returns the entries of a directory. Order is unspecified.
	List(dir string) ([]FileInfo, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error
}
