package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// OCREngine recognises text regions in an image file.
type OCREngine interface {
	// Recognize returns the text regions found in the image at path,
	// in reading order.
	Recognize(ctx context.Context, path string) ([]domain.OCRRegion, error)

	// Name identifies the engine for logging.
	Name() string

	// Close releases resources.
	Close() error
}

// OCRVisualizer draws recognised regions onto a copy of the source image.
type OCRVisualizer interface {
	// Render writes a PNG to outPath showing each region's box and text.
	Render(srcPath string, regions []domain.OCRRegion, outPath string) error
}

// PageCounter reports how many pages a PDF has.
type PageCounter interface {
	PageCount(path string) (int, error)
}
