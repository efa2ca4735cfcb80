package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Default base names for the per-run log files.
const (
	DefaultProcessLogName = "process_log"
	DefaultErrorLogName   = "error_log"
)

// TimestampLayout prefixes every log file name (YYYYMMDD-HHMMSS).
const TimestampLayout = "20060102-150405"

// lineTimeLayout matches "2025-11-14 10:30:45,123".
const lineTimeLayout = "2006-01-02 15:04:05,000"

// Options configures Setup.
type Options struct {
	// ProcessLogName is the process log base name (default: process_log).
	ProcessLogName string

	// ErrorLogName is the error log base name (default: error_log).
	ErrorLogName string

	// Now overrides the clock used for the file timestamp.
	Now func() time.Time
}

// FileLoggers holds the process and error loggers created by Setup.
type FileLoggers struct {
	// Process receives info-level and above.
	Process *logrus.Logger

	// Error receives error-level and above.
	Error *logrus.Logger

	// ProcessPath and ErrorPath are the files backing each logger.
	ProcessPath string
	ErrorPath   string

	files []*os.File
}

// Setup creates dir if needed and opens two timestamped log files in it:
// <ts>_process_log and <ts>_error_log.
func Setup(dir string, opts Options) (*FileLoggers, error) {
	if opts.ProcessLogName == "" {
		opts.ProcessLogName = DefaultProcessLogName
	}
	if opts.ErrorLogName == "" {
		opts.ErrorLogName = DefaultErrorLogName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	ts := opts.Now().Format(TimestampLayout)
	fl := &FileLoggers{
		ProcessPath: filepath.Join(dir, ts+"_"+opts.ProcessLogName),
		ErrorPath:   filepath.Join(dir, ts+"_"+opts.ErrorLogName),
	}

	var err error
	fl.Error, err = fl.open(fl.ErrorPath, logrus.ErrorLevel)
	if err != nil {
		return nil, err
	}
	fl.Process, err = fl.open(fl.ProcessPath, logrus.InfoLevel)
	if err != nil {
		_ = fl.Close()
		return nil, err
	}

	return fl, nil
}

func (fl *FileLoggers) open(path string, level logrus.Level) (*logrus.Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	fl.files = append(fl.files, f)

	l := logrus.New()
	l.SetOutput(f)
	l.SetLevel(level)
	l.SetFormatter(&LineFormatter{})
	return l, nil
}

// Close closes both log files.
func (fl *FileLoggers) Close() error {
	var first error
	for _, f := range fl.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	fl.files = nil
	return first
}

// LineFormatter renders "<timestamp> - <LEVEL> - <message>" lines.
// Fields, when present, are appended as key=value pairs.
type LineFormatter struct{}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(e.Time.Format(lineTimeLayout))
	b.WriteString(" - ")
	b.WriteString(strings.ToUpper(e.Level.String()))
	b.WriteString(" - ")
	b.WriteString(e.Message)

	if len(e.Data) > 0 {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
		}
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}
