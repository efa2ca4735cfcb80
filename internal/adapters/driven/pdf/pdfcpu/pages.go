// Package pdfcpu reads PDF metadata with the pdfcpu library.
package pdfcpu

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance at compile time.
var _ driven.PageCounter = (*PageCounter)(nil)

// PageCounter implements driven.PageCounter.
type PageCounter struct{}

// NewPageCounter creates a page counter.
func NewPageCounter() *PageCounter {
	return &PageCounter{}
}

// PageCount returns the number of pages in the PDF at path.
func (PageCounter) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages of %s: %w", path, err)
	}
	return n, nil
}
