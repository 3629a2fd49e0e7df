package mocks

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/plantscan/pkg/ports"
)

// FileSystem is an in-memory implementation of ports.FileSystem.
type FileSystem struct {
	mu       sync.RWMutex
	files    map[string][]byte
	modTimes map[string]time.Time
	dirs     map[string]bool

	// Now supplies modification times for new files. Defaults to time.Now.
	Now func() time.Time

	ReadFileFunc  func(path string) ([]byte, error)
	WriteFileFunc func(path string, data []byte) error
	CreateFunc    func(path string) (io.WriteCloser, error)
	MkdirAllFunc  func(path string) error
	ListFunc      func(dir string) ([]ports.FileInfo, error)
	RemoveFunc    func(path string) error
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:    make(map[string][]byte),
		modTimes: make(map[string]time.Time),
		dirs:     make(map[string]bool),
		Now:      time.Now,
	}
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s: %w", path, fs.ErrNotExist)
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.put(path, data)
	return nil
}

func (m *FileSystem) Create(path string) (io.WriteCloser, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(path)
	}
	return &memFile{fs: m, path: path}, nil
}

func (m *FileSystem) MkdirAll(path string) error {
	if m.MkdirAllFunc != nil {
		return m.MkdirAllFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

func (m *FileSystem) Exists(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[path]; ok {
		return true, nil
	}
	if _, ok := m.dirs[path]; ok {
		return true, nil
	}
	return false, nil
}

func (m *FileSystem) Stat(path string) (ports.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return m.info(path, data), nil
	}
	if m.dirs[path] {
		return ports.FileInfo{Name: filepath.Base(path), Path: path, IsDir: true}, nil
	}
	return ports.FileInfo{}, fmt.Errorf("stat %s: %w", path, fs.ErrNotExist)
}

func (m *FileSystem) List(dir string) ([]ports.FileInfo, error) {
	if m.ListFunc != nil {
		return m.ListFunc(dir)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []ports.FileInfo
	for path, data := range m.files {
		if filepath.Dir(path) == filepath.Clean(dir) {
			result = append(result, m.info(path, data))
		}
	}
	return result, nil
}

func (m *FileSystem) Remove(path string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	delete(m.modTimes, path)
	delete(m.dirs, path)
	return nil
}

// SetModTime overrides the modification time of an existing file.
func (m *FileSystem) SetModTime(path string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modTimes[path] = t
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

func (m *FileSystem) put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	m.modTimes[path] = m.Now()
}

func (m *FileSystem) info(path string, data []byte) ports.FileInfo {
	return ports.FileInfo{
		Name:    filepath.Base(path),
		Path:    path,
		Size:    int64(len(data)),
		ModTime: m.modTimes[path],
	}
}

// memFile buffers writes and stores them in the FileSystem on Close.
type memFile struct {
	fs   *FileSystem
	path string
	buf  bytes.Buffer
}

func (f *memFile) Write(p []byte) (int, error) { return f.buf.Write(p) }

func (f *memFile) Close() error {
	f.fs.put(f.path, f.buf.Bytes())
	return nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
