// Package osfilesystem provides a filesystem implementation using the os package.
package osfilesystem

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/user/plantscan/pkg/ports"
)

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// ReadFile reads the entire contents of a file.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating parent directories if necessary.
func (f *FileSystem) WriteFile(path string, data []byte) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Create opens path for writing, creating parent directories if necessary.
func (f *FileSystem) Create(path string) (io.WriteCloser, error) {
	if err := ensureParent(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// MkdirAll creates a directory and all parent directories.
func (f *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Exists checks if a file or directory exists.
func (f *FileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Stat returns information about the file at path.
func (f *FileSystem) Stat(path string) (ports.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ports.FileInfo{}, err
	}
	return toFileInfo(path, info), nil
}

// List returns the entries of dir. Entries that vanish while listing are skipped.
func (f *FileSystem) List(dir string) ([]ports.FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	result := make([]ports.FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		result = append(result, toFileInfo(filepath.Join(dir, e.Name()), info))
	}
	return result, nil
}

// Remove deletes a file or empty directory.
func (f *FileSystem) Remove(path string) error {
	return os.Remove(path)
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func toFileInfo(path string, info fs.FileInfo) ports.FileInfo {
	return ports.FileInfo{
		Name:    info.Name(),
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}
}

var _ ports.FileSystem = (*FileSystem)(nil)
