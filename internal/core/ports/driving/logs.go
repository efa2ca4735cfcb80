package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// LogService reads the timestamped log files.
type LogService interface {
	// Tail returns up to limit of the most recent lines of the selected
	// kind, oldest first. A limit <= 0 returns every line.
	Tail(ctx context.Context, kind domain.LogKind, limit int) ([]string, error)

	// Dir returns the log directory.
	Dir() string
}
