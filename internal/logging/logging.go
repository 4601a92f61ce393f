package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
)

// ParseLevel maps a config level name to a pterm level, defaulting to info
func ParseLevel(lvl string) pterm.LogLevel {
	switch strings.ToLower(lvl) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// plainWriter strips terminal styling before writing to the log file
type plainWriter struct {
	w io.Writer
}

func (p plainWriter) Write(b []byte) (int, error) {
	if _, err := io.WriteString(p.w, pterm.RemoveColorFromString(string(b))); err != nil {
		return 0, err
	}
	return len(b), nil
}

// New creates a logger writing to console and, when filePath is set, to filePath.
// The returned closer releases the log file.
func New(console io.Writer, level, filePath string) (*pterm.Logger, io.Closer, error) {
	writers := []io.Writer{}
	if console != nil {
		writers = append(writers, console)
	}

	var closer io.Closer = nopCloser{}
	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, plainWriter{w: f})
		closer = f
	}

	logger := pterm.DefaultLogger.
		WithLevel(ParseLevel(level)).
		WithTime(true).
		WithWriter(io.MultiWriter(writers...))
	return logger, closer, nil
}

// Discard returns a logger that drops everything
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled).WithWriter(io.Discard)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
