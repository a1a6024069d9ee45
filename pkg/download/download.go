package download

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Physolia/sunpy/pkg/errors"
	"github.com/Physolia/sunpy/pkg/logging"
)

const (
	// FileToken is the placeholder substituted with the remote filename.
	FileToken = "{file}"

	defaultConcurrency = 5
	defaultMaxTries    = 3
	defaultTimeout     = 5 * time.Minute

	dirPermissions = 0o755
)

// Downloader retrieves a batch of files. Download blocks until the batch
// completes; Enqueue returns a live Results handle immediately and lets the
// transfers finish in the background.
type Downloader interface {
	Download(ctx context.Context, requests []Request) (*Results, error)
	Enqueue(ctx context.Context, requests []Request) (*Results, error)
}

// HTTPDownloader is the default Downloader: parallel transfers with a
// bounded worker count and per-file exponential backoff retries.
type HTTPDownloader struct {
	Client      *http.Client
	Concurrency int
	MaxTries    uint
}

// NewHTTPDownloader creates a downloader with default limits.
func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{
		Client:      &http.Client{Timeout: defaultTimeout},
		Concurrency: defaultConcurrency,
		MaxTries:    defaultMaxTries,
	}
}

// Download retrieves every request and blocks until the batch completes.
// Individual failures are recorded on the Results, not returned: one bad
// mirror file should not abort the rest of the batch.
func (d *HTTPDownloader) Download(ctx context.Context, requests []Request) (*Results, error) {
	if len(requests) == 0 {
		return EmptyResults(), nil
	}
	results := NewResults()
	d.run(ctx, requests, results)
	return results, nil
}

// Enqueue starts the batch in the background and returns its handle
// without blocking. The job outlives ctx cancellation of the caller.
func (d *HTTPDownloader) Enqueue(ctx context.Context, requests []Request) (*Results, error) {
	if len(requests) == 0 {
		return EmptyResults(), nil
	}
	results := NewResults()
	go d.run(context.WithoutCancel(ctx), requests, results)
	return results, nil
}

func (d *HTTPDownloader) run(ctx context.Context, requests []Request, results *Results) {
	defer results.finish()

	log := logging.Ctx(ctx)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(d.concurrency())

	for _, req := range requests {
		group.Go(func() error {
			path, err := d.fetchWithRetry(ctx, req)
			if err != nil {
				log.Warn().Err(err).Str("url", req.URL).Msg("Download failed")
				results.addError(err)
				return nil
			}
			log.Debug().Str("url", req.URL).Str("path", path).Msg("Download complete")
			results.addFile(path)
			return nil
		})
	}
	_ = group.Wait()

	log.Info().
		Str("job", results.ID()).
		Int("files", results.Len()).
		Int("errors", len(results.Errors())).
		Msg("Download batch finished")
}

func (d *HTTPDownloader) concurrency() int {
	if d.Concurrency > 0 {
		return d.Concurrency
	}
	return defaultConcurrency
}

func (d *HTTPDownloader) fetchWithRetry(ctx context.Context, req Request) (string, error) {
	tries := d.MaxTries
	if tries == 0 {
		tries = defaultMaxTries
	}
	return backoff.Retry(ctx, func() (string, error) {
		return d.fetch(ctx, req)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(tries))
}

func (d *HTTPDownloader) fetch(ctx context.Context, req Request) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return "", backoff.Permanent(errors.WrapIO("download", req.URL, err))
	}
	resp, err := d.client().Do(httpReq)
	if err != nil {
		return "", errors.WrapIO("download", req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := errors.NewAPIError("download", resp.StatusCode, resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	dest := ResolvePath(req.Path, Filename(req.URL, resp.Header.Get("Content-Disposition")))
	if err := os.MkdirAll(filepath.Dir(dest), dirPermissions); err != nil {
		return "", backoff.Permanent(errors.WrapIO("create", filepath.Dir(dest), err))
	}

	// Write through a temp file and rename so a partial transfer never
	// shows up at the final path.
	tempFile, err := os.CreateTemp(filepath.Dir(dest), ".download_*")
	if err != nil {
		return "", backoff.Permanent(errors.WrapIO("create", dest, err))
	}
	tempPath := tempFile.Name()
	if _, err := io.Copy(tempFile, resp.Body); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return "", errors.WrapIO("write", dest, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", errors.WrapIO("close", dest, err)
	}
	if err := os.Rename(tempPath, dest); err != nil {
		_ = os.Remove(tempPath)
		return "", backoff.Permanent(errors.WrapIO("move", dest, err))
	}
	return dest, nil
}

func (d *HTTPDownloader) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

// NormalizePattern ensures a destination pattern carries the file token,
// appending it as a final path element when absent.
func NormalizePattern(pattern string) string {
	if pattern == "" {
		return FileToken
	}
	if strings.Contains(pattern, FileToken) {
		return pattern
	}
	return filepath.Join(pattern, FileToken)
}

// ResolvePath substitutes the file token in a normalized pattern.
func ResolvePath(pattern, filename string) string {
	return strings.ReplaceAll(NormalizePattern(pattern), FileToken, filename)
}

// Filename derives the local filename for a transfer from the
// Content-Disposition header when the server sent a usable one, falling
// back to the final URL path segment.
func Filename(rawURL, contentDisposition string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return path.Base(name)
			}
		}
	}
	if parsed, err := url.Parse(rawURL); err == nil {
		if base := path.Base(parsed.Path); base != "." && base != "/" {
			return base
		}
	}
	return "download"
}
