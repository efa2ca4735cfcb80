package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// previewRegions is how many regions PerformOCR prints.
const previewRegions = 10

// DocumentDirs locates input files.
type DocumentDirs struct {
	// Docs holds PDFs.
	Docs string

	// Images holds every other input.
	Images string
}

// DefaultDocumentDirs returns the data/docs and data/imgs layout.
func DefaultDocumentDirs() DocumentDirs {
	return DocumentDirs{Docs: "data/docs", Images: "data/imgs"}
}

// DocumentService resolves documents, runs OCR and extracts fields.
// Progress is printed to the output writer.
type DocumentService struct {
	dirs  DocumentDirs
	ocr   driven.OCREngine
	vis   driven.OCRVisualizer
	pages driven.PageCounter
	out   io.Writer
	getwd func() (string, error)
}

// NewDocumentService creates a document service. Any of ocr, vis and
// pages may be nil; the operations needing them then fail or skip.
func NewDocumentService(
	dirs DocumentDirs,
	ocr driven.OCREngine,
	vis driven.OCRVisualizer,
	pages driven.PageCounter,
	out io.Writer,
) *DocumentService {
	if out == nil {
		out = io.Discard
	}
	return &DocumentService{
		dirs:  dirs,
		ocr:   ocr,
		vis:   vis,
		pages: pages,
		out:   out,
		getwd: os.Getwd,
	}
}

// ResolvePath maps name into the documents or images directory.
func (s *DocumentService) ResolvePath(name string) string {
	if name == "" {
		return ""
	}
	fmt.Fprintf(s.out, "Loading Document / Image %s\n", name)

	dir := s.dirs.Images
	if domain.KindForName(name) == domain.DocumentKindPDF {
		dir = s.dirs.Docs
	}
	path := filepath.Join(dir, name)

	if _, err := os.Stat(path); err != nil {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			abs = path
		}
		cwd, _ := s.getwd()
		fmt.Fprintf(s.out, "File not found at %s\n", abs)
		fmt.Fprintf(s.out, "Current directory: %s\n", cwd)
	}
	return path
}

// List returns the files of the documents directory followed by those
// of the images directory. Missing directories are skipped.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentFile, error) {
	var files []domain.DocumentFile
	for _, dir := range []string{s.dirs.Docs, s.dirs.Images} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := s.listDir(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func (s *DocumentService) listDir(dir string) ([]domain.DocumentFile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	files := make([]domain.DocumentFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		f := domain.DocumentFile{
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
			Kind:    domain.KindForName(e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if f.Kind == domain.DocumentKindPDF && s.pages != nil {
			if n, err := s.pages.PageCount(f.Path); err == nil {
				f.Pages = n
			}
		}
		files = append(files, f)
	}
	return files, nil
}

// PerformOCR recognises text regions in path and prints a preview.
func (s *DocumentService) PerformOCR(
	ctx context.Context,
	path string,
	opts driving.OCROptions,
) ([]domain.OCRRegion, error) {
	if s.ocr == nil {
		return nil, domain.ErrOCRUnavailable
	}
	fmt.Fprintf(s.out, "Performing OCR on %s using model %s\n", path, s.ocr.Name())

	regions, err := s.ocr.Recognize(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ocr %s: %w", path, err)
	}

	fmt.Fprintf(s.out, "Extracted %d text regions\n", len(regions))
	fmt.Fprintln(s.out, "\nFirst 10 regions:")
	for i, r := range regions {
		if i == previewRegions {
			break
		}
		fmt.Fprintln(s.out, r.String())
	}

	if opts.Visualize {
		if s.vis == nil {
			return regions, fmt.Errorf("%w: no visualizer", domain.ErrOCRUnavailable)
		}
		outPath := opts.OutputPath
		if outPath == "" {
			outPath = OCROutputName(filepath.Base(path))
		}
		if err := s.vis.Render(path, regions, outPath); err != nil {
			return regions, fmt.Errorf("visualize %s: %w", path, err)
		}
		fmt.Fprintf(s.out, "Saved visualization to %s\n", outPath)
	}
	return regions, nil
}

// ExtractStructuredData returns placeholder fields for the recognised text.
func (s *DocumentService) ExtractStructuredData(_ []string) []domain.Field {
	fmt.Fprintln(s.out, "Extracting structured data from OCR results")
	return []domain.Field{
		{Name: "Field1", Value: "Value1"},
		{Name: "Field2", Value: "Value2"},
	}
}

// ProcessDocument runs OCR on path and extracts fields from the result.
func (s *DocumentService) ProcessDocument(ctx context.Context, path string) ([]domain.Field, error) {
	fmt.Fprintf(s.out, "Processing document: %s\n", path)
	regions, err := s.PerformOCR(ctx, path, driving.OCROptions{})
	if err != nil {
		return nil, err
	}
	return s.ExtractStructuredData(domain.RegionTexts(regions)), nil
}

// OCROutputName derives the visualization file name from an input name,
// e.g. "receipt.jpg" becomes "ocr_receipt_jpg.png".
func OCROutputName(name string) string {
	return "ocr_" + strings.ReplaceAll(name, ".", "_") + ".png"
}
