package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentService resolves input files and extracts data from them.
type DocumentService interface {
	// ResolvePath maps a file name to the documents directory (".pdf")
	// or the images directory (everything else). A missing file is
	// reported on the service's output, never as an error.
	ResolvePath(name string) string

	// List returns the files in the documents and images directories.
	List(ctx context.Context) ([]domain.DocumentFile, error)

	// PerformOCR recognises text regions and prints a summary.
	PerformOCR(ctx context.Context, path string, opts OCROptions) ([]domain.OCRRegion, error)

	// ExtractStructuredData turns OCR text into fields.
	ExtractStructuredData(texts []string) []domain.Field

	// ProcessDocument runs OCR followed by extraction.
	ProcessDocument(ctx context.Context, path string) ([]domain.Field, error)
}

// OCROptions configures PerformOCR.
type OCROptions struct {
	// Visualize writes an annotated PNG of the recognised regions.
	Visualize bool

	// OutputPath is the PNG path; "" derives one from the input name.
	OutputPath string
}
