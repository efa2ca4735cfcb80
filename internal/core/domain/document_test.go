package domain

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForName(t *testing.T) {
	tests := []struct {
		name     string
		expected DocumentKind
	}{
		{"dummy_statement.pdf", DocumentKindPDF},
		{"receipt.jpg", DocumentKindImage},
		{"scan.png", DocumentKindImage},
		{"notes", DocumentKindImage},
		{"pdf", DocumentKindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindForName(tt.name))
		})
	}
}

func TestDocumentFile_Ext(t *testing.T) {
	assert.Equal(t, "pdf", DocumentFile{Name: "a.PDF"}.Ext())
	assert.Equal(t, "jpg", DocumentFile{Name: "receipt.jpg"}.Ext())
	assert.Equal(t, "", DocumentFile{Name: "README"}.Ext())
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "Field1: Value1", Field{Name: "Field1", Value: "Value1"}.String())
}

func TestOCRRegion_Polygon(t *testing.T) {
	r := OCRRegion{Box: image.Rect(10, 20, 110, 40)}

	p := r.Polygon()

	assert.Equal(t, image.Pt(10, 20), p[0])
	assert.Equal(t, image.Pt(110, 20), p[1])
	assert.Equal(t, image.Pt(110, 40), p[2])
	assert.Equal(t, image.Pt(10, 40), p[3])
}

func TestOCRRegion_String(t *testing.T) {
	r := OCRRegion{Text: "TOTAL", Score: 0.98765, Box: image.Rect(1, 2, 3, 4)}

	s := r.String()

	assert.Contains(t, s, "TOTAL ")
	assert.Contains(t, s, "| 0.988 |")
	assert.Contains(t, s, "[[1, 2], [3, 2], [3, 4], [1, 4]]")
}

func TestRegionTexts(t *testing.T) {
	regions := []OCRRegion{{Text: "a"}, {Text: "b"}}

	assert.Equal(t, []string{"a", "b"}, RegionTexts(regions))
	assert.Empty(t, RegionTexts(nil))
}
