package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

func newTestDirs(t *testing.T) DocumentDirs {
	t.Helper()
	root := t.TempDir()
	dirs := DocumentDirs{
		Docs:   filepath.Join(root, "docs"),
		Images: filepath.Join(root, "imgs"),
	}
	require.NoError(t, os.MkdirAll(dirs.Docs, 0o755))
	require.NoError(t, os.MkdirAll(dirs.Images, 0o755))
	return dirs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func sampleRegions(n int) []domain.OCRRegion {
	regions := make([]domain.OCRRegion, n)
	for i := range regions {
		regions[i] = domain.OCRRegion{
			Text:  "line " + string(rune('A'+i)),
			Score: 0.9,
			Box:   image.Rect(0, i*10, 100, i*10+8),
		}
	}
	return regions
}

func TestDocumentService_ResolvePath(t *testing.T) {
	dirs := newTestDirs(t)
	writeFile(t, filepath.Join(dirs.Docs, "statement.pdf"), "%PDF")
	writeFile(t, filepath.Join(dirs.Images, "receipt.jpg"), "jpg")

	var out bytes.Buffer
	svc := NewDocumentService(dirs, nil, nil, nil, &out)

	assert.Equal(t, filepath.Join(dirs.Docs, "statement.pdf"), svc.ResolvePath("statement.pdf"))
	assert.Equal(t, filepath.Join(dirs.Images, "receipt.jpg"), svc.ResolvePath("receipt.jpg"))
	assert.Contains(t, out.String(), "Loading Document / Image statement.pdf")
	assert.NotContains(t, out.String(), "File not found")
}

func TestDocumentService_ResolvePath_UpperCasePDFIsImage(t *testing.T) {
	dirs := newTestDirs(t)
	svc := NewDocumentService(dirs, nil, nil, nil, nil)

	assert.Equal(t, filepath.Join(dirs.Images, "SCAN.PDF"), svc.ResolvePath("SCAN.PDF"))
}

func TestDocumentService_ResolvePath_MissingFile(t *testing.T) {
	dirs := newTestDirs(t)
	var out bytes.Buffer
	svc := NewDocumentService(dirs, nil, nil, nil, &out)
	svc.getwd = func() (string, error) { return "/work", nil }

	path := svc.ResolvePath("missing.png")

	assert.Equal(t, filepath.Join(dirs.Images, "missing.png"), path)
	assert.Contains(t, out.String(), "File not found at "+path)
	assert.Contains(t, out.String(), "Current directory: /work")
}

func TestDocumentService_ResolvePath_Empty(t *testing.T) {
	var out bytes.Buffer
	svc := NewDocumentService(DefaultDocumentDirs(), nil, nil, nil, &out)

	assert.Empty(t, svc.ResolvePath(""))
	assert.Empty(t, out.String())
}

func TestDocumentService_List(t *testing.T) {
	dirs := newTestDirs(t)
	writeFile(t, filepath.Join(dirs.Docs, "b.pdf"), "%PDF")
	writeFile(t, filepath.Join(dirs.Docs, "a.pdf"), "%PDF")
	writeFile(t, filepath.Join(dirs.Docs, ".hidden"), "x")
	writeFile(t, filepath.Join(dirs.Images, "receipt.jpg"), "jpg")
	require.NoError(t, os.Mkdir(filepath.Join(dirs.Images, "nested"), 0o755))

	svc := NewDocumentService(dirs, nil, nil, &mockPageCounter{pages: 3}, nil)

	files, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "a.pdf", files[0].Name)
	assert.Equal(t, domain.DocumentKindPDF, files[0].Kind)
	assert.Equal(t, 3, files[0].Pages)
	assert.Equal(t, "b.pdf", files[1].Name)
	assert.Equal(t, "receipt.jpg", files[2].Name)
	assert.Equal(t, domain.DocumentKindImage, files[2].Kind)
	assert.Zero(t, files[2].Pages)
	assert.Equal(t, int64(3), files[2].Size)
}

func TestDocumentService_List_MissingDirsAndBadPDF(t *testing.T) {
	root := t.TempDir()
	dirs := DocumentDirs{Docs: filepath.Join(root, "docs"), Images: filepath.Join(root, "none")}
	require.NoError(t, os.MkdirAll(dirs.Docs, 0o755))
	writeFile(t, filepath.Join(dirs.Docs, "broken.pdf"), "not a pdf")

	svc := NewDocumentService(dirs, nil, nil, &mockPageCounter{err: errors.New("corrupt")}, nil)

	files, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Zero(t, files[0].Pages)
}

func TestDocumentService_List_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDocumentService(newTestDirs(t), nil, nil, nil, nil).List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocumentService_PerformOCR_PrintsPreview(t *testing.T) {
	var out bytes.Buffer
	engine := &mockOCR{regions: sampleRegions(12)}
	svc := NewDocumentService(DefaultDocumentDirs(), engine, nil, nil, &out)

	regions, err := svc.PerformOCR(context.Background(), "data/imgs/receipt.jpg", driving.OCROptions{})
	require.NoError(t, err)
	assert.Len(t, regions, 12)

	text := out.String()
	assert.Contains(t, text, "Performing OCR on data/imgs/receipt.jpg using model mock-ocr")
	assert.Contains(t, text, "Extracted 12 text regions")
	assert.Contains(t, text, "\nFirst 10 regions:\n")
	assert.Contains(t, text, "line J")
	assert.NotContains(t, text, "line K")
	assert.Equal(t, 10, strings.Count(text, " | 0.900 | "))
}

func TestDocumentService_PerformOCR_Visualize(t *testing.T) {
	vis := &mockVisualizer{}
	svc := NewDocumentService(DefaultDocumentDirs(), &mockOCR{regions: sampleRegions(2)}, vis, nil, nil)

	_, err := svc.PerformOCR(context.Background(), "data/imgs/receipt.jpg", driving.OCROptions{Visualize: true})
	require.NoError(t, err)
	assert.Equal(t, "data/imgs/receipt.jpg", vis.src)
	assert.Equal(t, "ocr_receipt_jpg.png", vis.out)
	assert.Equal(t, 2, vis.regions)

	_, err = svc.PerformOCR(context.Background(), "x.png", driving.OCROptions{Visualize: true, OutputPath: "custom.png"})
	require.NoError(t, err)
	assert.Equal(t, "custom.png", vis.out)
}

func TestDocumentService_PerformOCR_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewDocumentService(DefaultDocumentDirs(), nil, nil, nil, nil).PerformOCR(ctx, "x.png", driving.OCROptions{})
	assert.ErrorIs(t, err, domain.ErrOCRUnavailable)

	boom := errors.New("tesseract failed")
	_, err = NewDocumentService(DefaultDocumentDirs(), &mockOCR{err: boom}, nil, nil, nil).PerformOCR(ctx, "x.png", driving.OCROptions{})
	assert.ErrorIs(t, err, boom)

	svc := NewDocumentService(DefaultDocumentDirs(), &mockOCR{}, nil, nil, nil)
	_, err = svc.PerformOCR(ctx, "x.png", driving.OCROptions{Visualize: true})
	assert.ErrorIs(t, err, domain.ErrOCRUnavailable)
}

func TestDocumentService_ProcessDocument(t *testing.T) {
	var out bytes.Buffer
	engine := &mockOCR{regions: sampleRegions(1)}
	svc := NewDocumentService(DefaultDocumentDirs(), engine, nil, nil, &out)

	fields, err := svc.ProcessDocument(context.Background(), "data/docs/a.pdf")
	require.NoError(t, err)

	assert.Equal(t, []domain.Field{{Name: "Field1", Value: "Value1"}, {Name: "Field2", Value: "Value2"}}, fields)
	assert.Equal(t, []string{"data/docs/a.pdf"}, engine.paths)
	assert.Contains(t, out.String(), "Processing document: data/docs/a.pdf")
	assert.Contains(t, out.String(), "Extracting structured data from OCR results")
}

func TestOCROutputName(t *testing.T) {
	assert.Equal(t, "ocr_receipt_jpg.png", OCROutputName("receipt.jpg"))
	assert.Equal(t, "ocr_my_scan_v2_png.png", OCROutputName("my.scan.v2.png"))
}
