package domain

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"
)

// DocumentKind classifies an input file by where it is stored.
type DocumentKind string

// Document kinds.
const (
	// DocumentKindPDF files live in the documents directory.
	DocumentKindPDF DocumentKind = "pdf"

	// DocumentKindImage covers every non-PDF file; they live in the
	// images directory.
	DocumentKindImage DocumentKind = "image"
)

// KindForName classifies a file name by its ".pdf" suffix.
func KindForName(name string) DocumentKind {
	if strings.HasSuffix(name, ".pdf") {
		return DocumentKindPDF
	}
	return DocumentKindImage
}

// DocumentFile is an input file found on disk.
type DocumentFile struct {
	// Name is the base file name.
	Name string

	// Path is the file path relative to the working directory.
	Path string

	// Kind is derived from Name.
	Kind DocumentKind

	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time

	// Pages is the page count for PDFs, zero when unknown.
	Pages int
}

// Ext returns the lower-case extension without the dot.
func (d DocumentFile) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Name)), ".")
}

// Field is one extracted key-value pair.
type Field struct {
	Name  string
	Value string
}

// String renders the field as "name: value".
func (f Field) String() string {
	return f.Name + ": " + f.Value
}

// OCRRegion is one recognised text region.
type OCRRegion struct {
	// Text is the recognised string.
	Text string

	// Score is the recognition confidence in [0, 1].
	Score float64

	// Box is the region's bounding box in image pixels.
	Box image.Rectangle
}

// Polygon returns the box corners clockwise from the top-left.
func (r OCRRegion) Polygon() [4]image.Point {
	b := r.Box
	return [4]image.Point{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
	}
}

// String renders the region as "text | score | [[x y] ...]" with the text
// padded to 40 columns.
func (r OCRRegion) String() string {
	p := r.Polygon()
	coords := make([]string, len(p))
	for i, pt := range p {
		coords[i] = fmt.Sprintf("[%d, %d]", pt.X, pt.Y)
	}
	return fmt.Sprintf("%-40s | %.3f | [%s]", r.Text, r.Score, strings.Join(coords, ", "))
}

// RegionTexts returns the text of each region in order.
func RegionTexts(regions []OCRRegion) []string {
	texts := make([]string, len(regions))
	for i, r := range regions {
		texts[i] = r.Text
	}
	return texts
}
