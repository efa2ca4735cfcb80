// Package drive downloads single files from Google Drive.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/docchat/internal/connectors/google"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultBasePath is where downloads land when no base path is given.
const DefaultBasePath = "data/docs"

// metadataFields are requested for every file lookup.
const metadataFields = "name, mimeType, size"

// File is the Drive metadata used by the downloader.
type File struct {
	ID       string
	Name     string
	MimeType string
	Size     int64
}

// Downloader fetches Drive files into a local folder tree.
type Downloader struct {
	svc     *drive.Service
	limiter *google.RateLimiter
	out     io.Writer
}

// NewDownloader creates a downloader. Progress and status lines go to out.
func NewDownloader(svc *drive.Service, out io.Writer) *Downloader {
	if out == nil {
		out = io.Discard
	}
	return &Downloader{
		svc:     svc,
		limiter: google.NewRateLimiter(google.DriveRateLimit),
		out:     out,
	}
}

// Metadata returns the name, MIME type and size of a file.
func (d *Downloader) Metadata(ctx context.Context, fileID string) (*File, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	f, err := d.svc.Files.Get(fileID).Fields(metadataFields).Context(ctx).Do()
	if err != nil {
		d.noteRateLimit(err)
		return nil, fmt.Errorf("get metadata for %s: %w", fileID, google.WrapError(err))
	}
	return &File{ID: fileID, Name: f.Name, MimeType: f.MimeType, Size: f.Size}, nil
}

// Download streams the file content to localPath, printing progress.
// size is used for progress when the response carries no length.
func (d *Downloader) Download(ctx context.Context, fileID, localPath string, size int64) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := d.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		d.noteRateLimit(err)
		return fmt.Errorf("download %s: %w", fileID, google.WrapError(err))
	}
	defer resp.Body.Close()

	total := resp.ContentLength
	if total <= 0 {
		total = size
	}

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}
	pw := &progressWriter{out: d.out, total: total}
	_, copyErr := io.Copy(io.MultiWriter(f, pw), resp.Body)
	closeErr := f.Close()
	pw.finish()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", localPath, copyErr)
	}
	return closeErr
}

// DownloadTo downloads fileID into basePath/subfolder under its Drive name
// and returns the local path.
func (d *Downloader) DownloadTo(ctx context.Context, fileID, subfolder, basePath string) (string, error) {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	folder := filepath.Join(basePath, subfolder)
	if err := createFolder(folder, d.out); err != nil {
		return "", err
	}

	meta, err := d.Metadata(ctx, fileID)
	if err != nil {
		return "", err
	}
	name := filepath.Base(meta.Name)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("file %s has no usable name", fileID)
	}

	localPath := filepath.Join(folder, name)
	fmt.Fprintf(d.out, "Starting download of '%s' to '%s'...\n", name, localPath)
	logger.Debug("Downloading %s (%s, %d bytes)", fileID, meta.MimeType, meta.Size)

	if err := d.Download(ctx, fileID, localPath, meta.Size); err != nil {
		return "", err
	}
	fmt.Fprintf(d.out, "Successfully downloaded '%s' to '%s'\n", name, localPath)
	return localPath, nil
}

func (d *Downloader) noteRateLimit(err error) {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusTooManyRequests {
		return
	}
	var retry time.Duration
	if secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After")); convErr == nil {
		retry = time.Duration(secs) * time.Second
	}
	d.limiter.Backoff(retry)
}

func createFolder(path string, out io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", path, err)
	}
	fmt.Fprintf(out, "Created folder: %s\n", path)
	return nil
}

// progressWriter prints "Download NN%." on one line as bytes arrive.
type progressWriter struct {
	out     io.Writer
	total   int64
	written int64
	last    int
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	p.report()
	return len(b), nil
}

func (p *progressWriter) report() {
	pct := 100
	if p.total > 0 && p.written < p.total {
		pct = int(p.written * 100 / p.total)
	}
	if pct == p.last && p.written > 0 {
		return
	}
	p.last = pct
	fmt.Fprintf(p.out, "Download %d%%.\r", pct)
}

func (p *progressWriter) finish() {
	if p.last != 100 && p.written >= p.total {
		p.last = -1
		p.report()
	}
	fmt.Fprintln(p.out)
}
