package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// PipelineService runs the document ingestion pipeline.
type PipelineService interface {
	// Run checks prerequisites, creates output directories and runs the
	// enabled stages in order, stopping at the first failure.
	Run(ctx context.Context, opts domain.PipelineOptions) error
}
