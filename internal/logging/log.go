// Package logging wraps logrus with kkconf's defaults: stderr output, warn
// level, and an environment override for the level.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

// EnvLevel selects the log level (debug, info, warn, error).
const EnvLevel = "KKSHELL_LOG_LEVEL"

// Fields is re-exported so callers need not import logrus for WithFields.
type Fields = logrus.Fields

var (
	std  *Logger
	once sync.Once
)

// Logger is a logrus logger carrying kkconf's formatting.
type Logger struct {
	*logrus.Logger
}

// New builds a logger writing to w at the named level.
func New(w io.Writer, level string) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(ParseLevel(level))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{Logger: l}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, "error")
}

// Default returns the process logger, initialized from KKSHELL_LOG_LEVEL on
// first use.
func Default() *Logger {
	once.Do(func() {
		std = New(os.Stderr, os.Getenv(EnvLevel))
		std.WithField("level", std.GetLevel()).Debug("logging enabled")
	})
	return std
}

// ParseLevel maps a level name to logrus. Unknown names select warn.
func ParseLevel(name string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

// ToFile redirects output to path (appending), creating parent directories.
// Callers close the returned file on shutdown.
func (l *Logger) ToFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, oops.In("logging").With("path", path).Wrapf(err, "create log dir")
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, oops.In("logging").With("path", path).Wrapf(err, "open log file")
	}
	l.SetOutput(file)
	return file, nil
}
