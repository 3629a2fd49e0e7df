package ffmpegbin

import (
	"strings"
	"sync"
)

// DefaultTail bounds how much child process output is kept for messages.
const DefaultTail = 2048

// Tail is an io.Writer that keeps the last bytes written to it.
// It may be used as exec.Cmd.Stderr and read while the process runs.
type Tail struct {
	mu  sync.Mutex
	max int
	buf []byte
}

// NewTail returns a Tail keeping at most max bytes.
func NewTail(max int) *Tail {
	if max <= 0 {
		max = DefaultTail
	}
	return &Tail{max: max}
}

func (t *Tail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

// String returns the kept output with surrounding whitespace removed.
func (t *Tail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}

// Suffix formats the kept output for appending to an error message.
func (t *Tail) Suffix() string {
	s := t.String()
	if s == "" {
		return ""
	}
	return "\nstderr: " + s
}
