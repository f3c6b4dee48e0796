// Package logging builds the application logger. The terminal belongs to the
// TUI, so all log output goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options controls where and how much is logged
type Options struct {
	Level string // debug, info, warn, error
	File  string // log file path; empty discards output
	JSON  bool
}

// New creates a logger writing to opts.File. The returned closer releases the file.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	logger.SetLevel(level)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}

	if opts.File == "" {
		logger.SetOutput(io.Discard)
		return logger, nopCloser{}, nil
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f, nil
}

// ParseLevel maps a config level name to a logrus level; empty means info
func ParseLevel(name string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return logrus.InfoLevel, nil
	case "warning":
		return logrus.WarnLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Component returns an entry tagged with the component name
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithField("component", name)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
