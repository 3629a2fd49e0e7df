// Package ffmpegbin locates the ffmpeg and ffprobe executables.
package ffmpegbin

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// ErrNotFound is returned when an executable cannot be located.
var ErrNotFound = errors.New("ffmpegbin: executable not found")

var (
	mu          sync.RWMutex
	customPaths = map[string]string{}
)

// SetPath pins the location of name ("ffmpeg" or "ffprobe").
// An empty path removes the override.
func SetPath(name, path string) {
	mu.Lock()
	defer mu.Unlock()
	if path == "" {
		delete(customPaths, name)
		return
	}
	customPaths[name] = path
}

// Available reports whether name can be located.
func Available(name string) bool {
	_, err := Find(name)
	return err == nil
}

// Find searches for the executable name.
// Priority: 1) SetPath override, 2) <NAME>_PATH env, 3) PATH, 4) common locations
func Find(name string) (string, error) {
	mu.RLock()
	custom := customPaths[name]
	mu.RUnlock()

	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s for %s", ErrNotFound, custom, name)
	}

	envName := strings.ToUpper(name) + "_PATH"
	if envPath := os.Getenv(envName); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: %s %s", ErrNotFound, envName, envPath)
	}

	execName := name
	if runtime.GOOS == "windows" {
		execName += ".exe"
	}

	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, dir := range commonDirs() {
		p := filepath.Join(dir, execName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

func commonDirs() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\ffmpeg\bin`,
			`C:\Program Files\ffmpeg\bin`,
			`C:\Program Files (x86)\ffmpeg\bin`,
		}
	case "darwin":
		return []string{"/opt/homebrew/bin", "/usr/local/bin", "/usr/bin"}
	default:
		return []string{"/usr/bin", "/usr/local/bin", "/opt/homebrew/bin", "/snap/bin"}
	}
}
