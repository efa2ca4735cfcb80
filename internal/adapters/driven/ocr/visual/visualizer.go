// Package visual draws OCR regions onto images.
package visual

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // JPEG decoding
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance at compile time.
var _ driven.OCRVisualizer = (*Visualizer)(nil)

// Visualizer outlines each region and labels it with its text.
type Visualizer struct {
	BoxColor  color.Color
	TextColor color.Color
	Thickness int
}

// NewVisualizer returns a visualizer drawing green boxes with red labels.
func NewVisualizer() *Visualizer {
	return &Visualizer{
		BoxColor:  color.RGBA{G: 0xff, A: 0xff},
		TextColor: color.RGBA{R: 0xff, A: 0xff},
		Thickness: 2,
	}
}

// Render decodes srcPath, draws the regions and writes a PNG to outPath.
func (v *Visualizer) Render(srcPath string, regions []domain.OCRRegion, outPath string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	canvas := Annotate(src, regions, v.BoxColor, v.TextColor, v.Thickness)

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(out, canvas); err != nil {
		out.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return out.Close()
}

// Annotate returns an RGBA copy of src with region boxes and labels.
func Annotate(src image.Image, regions []domain.OCRRegion, box, text color.Color, thickness int) *image.RGBA {
	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	if thickness < 1 {
		thickness = 1
	}
	boxSrc := image.NewUniform(box)
	for _, r := range regions {
		outline(canvas, r.Box.Intersect(bounds), boxSrc, thickness)
	}

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(text),
		Face: basicfont.Face7x13,
	}
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	for _, r := range regions {
		y := r.Box.Min.Y - 2
		if y-ascent < bounds.Min.Y {
			y = r.Box.Max.Y + ascent
		}
		d.Dot = fixed.P(r.Box.Min.X, y)
		d.DrawString(r.Text)
	}
	return canvas
}

func outline(dst draw.Image, r image.Rectangle, src image.Image, t int) {
	if r.Empty() {
		return
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}
