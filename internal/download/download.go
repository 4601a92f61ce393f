package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/cavaliergopher/grab/v3"
	"golang.org/x/time/rate"

	"github.com/playegkro/egk-updater/internal/failure"
)

// ChunkSize is the copy buffer size; progress is reported once per chunk
const ChunkSize = 8 * 1024

// ProgressCallback is called after every chunk with the bytes written so far and the
// declared total. total <= 0 means the server did not declare a size.
type ProgressCallback func(bytesComplete, totalBytes int64)

// Fraction projects progress into [0,1]. An unknown total yields 0.
func Fraction(bytesComplete, totalBytes int64) float64 {
	if totalBytes <= 0 || bytesComplete <= 0 {
		return 0
	}
	if bytesComplete >= totalBytes {
		return 1
	}
	return float64(bytesComplete) / float64(totalBytes)
}

// Downloader streams URLs to local files
type Downloader struct {
	client  *grab.Client
	limiter *rate.Limiter
}

// New creates a downloader. bytesPerSecond <= 0 disables the bandwidth cap.
func New(httpClient *http.Client, userAgent string, bytesPerSecond int) *Downloader {
	client := grab.NewClient()
	if httpClient != nil {
		client.HTTPClient = httpClient
	}
	if userAgent != "" {
		client.UserAgent = userAgent
	}

	d := &Downloader{client: client}
	if bytesPerSecond > 0 {
		burst := bytesPerSecond
		if burst < ChunkSize {
			burst = ChunkSize
		}
		d.limiter = rate.NewLimiter(rate.Limit(bytesPerSecond), burst)
	}
	return d
}

// chunkObserver is installed as grab's rate limiter, which grab calls after
// each buffer is written to disk.
type chunkObserver struct {
	limiter  *rate.Limiter
	callback ProgressCallback
	total    atomic.Int64
	complete int64
}

func (o *chunkObserver) WaitN(ctx context.Context, n int) error {
	o.complete += int64(n)
	if o.callback != nil {
		o.callback(o.complete, o.total.Load())
	}
	if o.limiter != nil {
		return o.limiter.WaitN(ctx, n)
	}
	return nil
}

// File downloads url to targetPath, overwriting any existing file.
// A failed download leaves a partial file behind.
func (d *Downloader) File(ctx context.Context, url, targetPath string, callback ProgressCallback) error {
	req, err := grab.NewRequest(targetPath, url)
	if err != nil {
		return &failure.NetworkError{Op: "download", URL: url, Err: err}
	}
	req = req.WithContext(ctx)
	req.NoResume = true // Always overwrite, never resume
	req.BufferSize = ChunkSize

	observer := &chunkObserver{limiter: d.limiter, callback: callback}
	req.RateLimiter = observer
	req.BeforeCopy = func(resp *grab.Response) error {
		observer.total.Store(resp.Size())
		return nil
	}

	resp := d.client.Do(req)
	if err := resp.Err(); err != nil {
		return classify(url, err)
	}

	return nil
}

func classify(url string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var status grab.StatusCodeError
	if errors.As(err, &status) {
		return &failure.NetworkError{Op: "download", URL: url, StatusCode: int(status)}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return failure.Filesystem("write", pathErr.Path, pathErr.Err)
	}

	return &failure.NetworkError{Op: "download", URL: url, Err: err}
}

// ValidatePath ensures a path doesn't escape the base directory (path traversal protection)
func ValidatePath(basePath, targetPath string) (string, error) {
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}

	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve target path: %w", err)
	}

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt detected: %s", targetPath)
	}

	return absTarget, nil
}
