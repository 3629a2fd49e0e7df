// Package logger provides logging implementations.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/plantscan/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// ConsoleLogger logs messages to the console with color support.
// Warn and Error go to the error stream, everything else to the output stream.
type ConsoleLogger struct {
	level      ports.LogLevel
	component  string
	color      bool
	timestamps bool

	mu     *sync.Mutex
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

// NewConsole creates a new console logger with the specified level.
// Color output is automatically enabled when stdout is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	l := NewWriter(level, os.Stdout, os.Stderr)
	l.color = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return l
}

// NewWriter creates a console logger writing to the given streams without color.
func NewWriter(level ports.LogLevel, out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		level:  level,
		mu:     &sync.Mutex{},
		out:    out,
		errOut: errOut,
		now:    time.Now,
	}
}

// WithTimestamps prefixes every line with an RFC 3339 timestamp.
// The server enables this; the CLI does not.
func (l *ConsoleLogger) WithTimestamps() *ConsoleLogger {
	c := *l
	c.timestamps = true
	return &c
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.log(ports.LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.log(ports.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.log(ports.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(ports.LevelError, msg, args...)
}

// WithComponent returns a new logger with the specified component name.
// The returned logger shares the output streams of its parent.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	c := *l
	c.component = component
	return &c
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args ...interface{}) {
	if level < l.level {
		return
	}

	// Callers usually pass text already built with l10n.F; formatting it
	// again would mangle any % it carries.
	translated := l10n.T(msg)
	if len(args) > 0 {
		translated = l10n.F(msg, args...)
	}

	var output string
	if l.component != "" {
		if l.color {
			output = fmt.Sprintf("%s[%s]%s %s", colorCyan, l.component, colorReset, translated)
		} else {
			output = fmt.Sprintf("[%s] %s", l.component, translated)
		}
	} else {
		output = translated
	}

	if l.color {
		switch level {
		case ports.LevelDebug:
			output = colorGray + output + colorReset
		case ports.LevelWarn:
			output = colorYellow + output + colorReset
		case ports.LevelError:
			output = colorRed + output + colorReset
		}
	}

	if l.timestamps {
		output = l.now().Format(time.RFC3339) + " " + output
	}

	w := l.out
	if level >= ports.LevelWarn {
		w = l.errOut
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(w, output)
}

var _ ports.Logger = (*ConsoleLogger)(nil)
