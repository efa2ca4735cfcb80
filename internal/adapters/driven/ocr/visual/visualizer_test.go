package visual

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

func TestAnnotate_DrawsOutline(t *testing.T) {
	src := whiteImage(200, 100)
	regions := []domain.OCRRegion{{Text: "Total", Score: 0.9, Box: image.Rect(20, 40, 120, 70)}}
	green := color.RGBA{G: 0xff, A: 0xff}

	out := Annotate(src, regions, green, color.Black, 2)

	assert.Equal(t, green, out.RGBAAt(20, 40))
	assert.Equal(t, green, out.RGBAAt(119, 69))
	assert.Equal(t, green, out.RGBAAt(70, 41))
	// Interior stays untouched.
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, out.RGBAAt(70, 55))
	// Source is not modified.
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, src.RGBAAt(20, 40))
}

func TestAnnotate_ClipsToBounds(t *testing.T) {
	src := whiteImage(50, 50)
	regions := []domain.OCRRegion{{Text: "edge", Box: image.Rect(-10, -10, 500, 500)}}

	assert.NotPanics(t, func() {
		Annotate(src, regions, color.Black, color.Black, 0)
	})
}

func TestVisualizer_Render(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "scan.png")
	f, err := os.Create(srcPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, whiteImage(80, 40)))
	require.NoError(t, f.Close())

	outPath := filepath.Join(dir, "out", "ocr_scan_png.png")
	regions := []domain.OCRRegion{{Text: "Hi", Box: image.Rect(5, 20, 40, 35)}}

	require.NoError(t, NewVisualizer().Render(srcPath, regions, outPath))

	rf, err := os.Open(outPath)
	require.NoError(t, err)
	defer rf.Close()
	img, err := png.Decode(rf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 40), img.Bounds())
}

func TestVisualizer_RenderErrors(t *testing.T) {
	dir := t.TempDir()
	v := NewVisualizer()

	err := v.Render(filepath.Join(dir, "missing.png"), nil, filepath.Join(dir, "out.png"))
	assert.ErrorContains(t, err, "open image")

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o600))
	err = v.Render(bad, nil, filepath.Join(dir, "out.png"))
	assert.ErrorContains(t, err, "decode image")
}
