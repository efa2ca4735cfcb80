package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// New returns a named application logger at the given level.
// If logFile is empty, output goes to w (stderr when w is nil).
func New(name, level, logFile string, w io.Writer) (*logrus.Entry, io.Closer, error) {
	l := logrus.New()
	l.SetFormatter(&LineFormatter{})
	l.SetLevel(ParseLevel(level))

	var closer io.Closer = nopCloser{}
	switch {
	case logFile != "":
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		l.SetOutput(f)
		closer = f
	case w != nil:
		l.SetOutput(w)
	default:
		l.SetOutput(os.Stderr)
	}

	return l.WithField("logger", name), closer, nil
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
// "WARNING" is accepted as an alias for warn.
func ParseLevel(level string) logrus.Level {
	if level == "WARNING" || level == "warning" {
		return logrus.WarnLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
