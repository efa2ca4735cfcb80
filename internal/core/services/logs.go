package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure LogService implements the interface.
var _ driving.LogService = (*LogService)(nil)

// LogFiles locates the per-run log files.
type LogFiles struct {
	// Dir holds the files.
	Dir string

	// ProcessName and ErrorName are the base names that follow the
	// timestamp prefix.
	ProcessName string
	ErrorName   string
}

// LogService reads the most recent run's log files.
type LogService struct {
	files LogFiles
}

// NewLogService creates a log reader.
func NewLogService(files LogFiles) *LogService {
	return &LogService{files: files}
}

// Dir returns the log directory.
func (s *LogService) Dir() string {
	return s.files.Dir
}

// Tail returns the last limit lines of the newest log of the given kind.
// LogKindAll merges both logs by timestamp.
func (s *LogService) Tail(ctx context.Context, kind domain.LogKind, limit int) ([]string, error) {
	var lines []string
	switch kind {
	case domain.LogKindProcess:
		l, err := s.readLatest(ctx, s.files.ProcessName)
		if err != nil {
			return nil, err
		}
		lines = l
	case domain.LogKindError:
		l, err := s.readLatest(ctx, s.files.ErrorName)
		if err != nil {
			return nil, err
		}
		lines = l
	case domain.LogKindAll:
		var process, errs []string
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			process, err = s.readLatest(gctx, s.files.ProcessName)
			return err
		})
		g.Go(func() error {
			var err error
			errs, err = s.readLatest(gctx, s.files.ErrorName)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		lines = mergeByTimestamp(process, errs)
	default:
		return nil, fmt.Errorf("%w: log kind %q", domain.ErrInvalidInput, kind)
	}

	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, nil
}

// latest returns the newest file ending in "_"+name, or "" if none.
// Timestamp prefixes sort lexically.
func (s *LogService) latest(name string) (string, error) {
	entries, err := os.ReadDir(s.files.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read log directory: %w", err)
	}

	var newest string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), "_"+name) {
			continue
		}
		if e.Name() > newest {
			newest = e.Name()
		}
	}
	if newest == "" {
		return "", nil
	}
	return filepath.Join(s.files.Dir, newest), nil
}

// readLatest stops early once ctx is done.
func (s *LogService) readLatest(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.latest(name)
	if err != nil || path == "" {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 0; sc.Scan(); n++ {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if line := sc.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return lines, nil
}

// mergeByTimestamp interleaves two logs. Lines start with a sortable
// timestamp; the error log repeats process lines at error level, so
// exact duplicates are dropped.
func mergeByTimestamp(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	merged = append(merged, a...)
	seen := make(map[string]struct{}, len(a))
	for _, l := range a {
		seen[l] = struct{}{}
	}
	for _, l := range b {
		if _, ok := seen[l]; !ok {
			merged = append(merged, l)
		}
	}
	slices.SortStableFunc(merged, func(x, y string) int {
		return strings.Compare(timestampOf(x), timestampOf(y))
	})
	return merged
}

// timestampOf returns the "2006-01-02 15:04:05,000" prefix of a line.
func timestampOf(line string) string {
	const n = len("2006-01-02 15:04:05,000")
	if len(line) < n {
		return line
	}
	return line[:n]
}
