// Package tesseract implements driven.OCREngine with gosseract, the Go
// binding for the Tesseract OCR library.
package tesseract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "eng"

// Verify interface compliance at compile time.
var _ driven.OCREngine = (*Engine)(nil)

// client is the subset of *gosseract.Client used by the engine.
type client interface {
	SetImage(path string) error
	SetLanguage(langs ...string) error
	GetBoundingBoxes(level gosseract.PageIteratorLevel) ([]gosseract.BoundingBox, error)
	Close() error
}

// Engine recognises text line by line.
type Engine struct {
	languages     []string
	level         gosseract.PageIteratorLevel
	clientFactory func() client
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages sets the Tesseract languages, e.g. "eng", "deu".
func WithLanguages(langs ...string) Option {
	return func(e *Engine) {
		if len(langs) > 0 {
			e.languages = langs
		}
	}
}

// WithWordLevel reports one region per word instead of per line.
func WithWordLevel() Option {
	return func(e *Engine) {
		e.level = gosseract.RIL_WORD
	}
}

// NewEngine constructs a Tesseract-backed engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		languages:     []string{DefaultLanguage},
		level:         gosseract.RIL_TEXTLINE,
		clientFactory: func() client { return gosseract.NewClient() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name identifies the engine.
func (e *Engine) Name() string {
	return "tesseract-" + strings.Join(e.languages, "+")
}

// Recognize runs OCR on the image at path. Each bounding box becomes a
// region with its confidence scaled to [0, 1].
func (e *Engine) Recognize(ctx context.Context, path string) ([]domain.OCRRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImage(path); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := c.GetBoundingBoxes(e.level)
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	return toRegions(boxes), nil
}

// Close is a no-op; clients are created per call.
func (e *Engine) Close() error {
	return nil
}

func toRegions(boxes []gosseract.BoundingBox) []domain.OCRRegion {
	regions := make([]domain.OCRRegion, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		regions = append(regions, domain.OCRRegion{
			Text:  text,
			Score: b.Confidence / 100.0,
			Box:   b.Box,
		})
	}
	return regions
}
