package sync

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
)

// Transfer copies the bundle from its source to dest. One call is one attempt.
type Transfer interface {
	Fetch(ctx context.Context, dest string) error
	// Describe names the source for logging.
	Describe() string
}

// HTTPTransfer downloads the bundle, resuming a partial file with a Range request.
type HTTPTransfer struct {
	fs       afero.Fs
	client   *http.Client
	url      string
	progress io.Writer
}

// NewHTTPTransfer creates an HTTP transfer. When progress is non-nil a byte
// progress bar is rendered to it.
func NewHTTPTransfer(fs afero.Fs, url string, timeout time.Duration, progress io.Writer) *HTTPTransfer {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &HTTPTransfer{
		fs:       fs,
		client:   &http.Client{Transport: transport},
		url:      url,
		progress: progress,
	}
}

// Describe implements Transfer.
func (t *HTTPTransfer) Describe() string {
	return t.url
}

// Fetch implements Transfer. A partial dest is resumed only when the server
// confirms the range starts at its size; otherwise the body is fetched again.
func (t *HTTPTransfer) Fetch(ctx context.Context, dest string) error {
	var offset int64
	if info, err := t.fs.Stat(dest); err == nil && info.Mode().IsRegular() {
		offset = info.Size()
	}
	return t.fetch(ctx, dest, offset)
}

func (t *HTTPTransfer) fetch(ctx context.Context, dest string, offset int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
		// A changed bundle answers 200 instead of a range of the new body.
		if v := t.validator(dest); v != "" {
			req.Header.Set("If-Range", v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	flags := os.O_CREATE | os.O_WRONLY
	switch {
	case resp.StatusCode == http.StatusPartialContent && offset > 0:
		start, _, ok := parseContentRange(resp.Header.Get("Content-Range"))
		if !ok || start != offset {
			return t.fetch(ctx, dest, 0)
		}
		flags |= os.O_APPEND
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable && offset > 0:
		// Only a file exactly as long as the remote body is complete.
		_, total, ok := parseContentRange(resp.Header.Get("Content-Range"))
		if ok && total == offset {
			return nil
		}
		return t.fetch(ctx, dest, 0)
	case resp.StatusCode == http.StatusOK:
		flags |= os.O_TRUNC
		offset = 0
		t.saveValidator(dest, resp.Header)
	default:
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := t.fs.OpenFile(dest, flags, 0o644)
	if err != nil {
		return resourceErr("open", dest, err)
	}
	defer f.Close()

	var w io.Writer = f
	if t.progress != nil {
		total := int64(-1)
		if resp.ContentLength >= 0 {
			total = offset + resp.ContentLength
		}
		bar := progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(t.progress),
			progressbar.OptionSetDescription("catalog"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(250*time.Millisecond),
			progressbar.OptionFullWidth(),
		)
		_ = bar.Set64(offset)
		defer bar.Finish()
		w = io.MultiWriter(f, bar)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download interrupted: %w", err)
	}
	return nil
}

// validatorPath holds the ETag or Last-Modified of the body being downloaded to dest.
func validatorPath(dest string) string {
	return dest + ".validator"
}

func (t *HTTPTransfer) validator(dest string) string {
	data, err := afero.ReadFile(t.fs, validatorPath(dest))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// saveValidator records a strong ETag, or else Last-Modified, for If-Range.
// Without either any stale validator is removed.
func (t *HTTPTransfer) saveValidator(dest string, h http.Header) {
	v := h.Get("ETag")
	if v == "" || strings.HasPrefix(v, "W/") {
		v = h.Get("Last-Modified")
	}
	if v == "" {
		_ = t.fs.Remove(validatorPath(dest))
		return
	}
	_ = afero.WriteFile(t.fs, validatorPath(dest), []byte(v), 0o644)
}

// parseContentRange reads "bytes first-last/total" and "bytes */total".
// start is -1 for the unsatisfied form and total is -1 when unknown.
func parseContentRange(v string) (start, total int64, ok bool) {
	spec, found := strings.CutPrefix(strings.TrimSpace(v), "bytes ")
	if !found {
		return 0, 0, false
	}
	rng, size, found := strings.Cut(spec, "/")
	if !found {
		return 0, 0, false
	}

	total = -1
	if size != "*" {
		n, err := strconv.ParseInt(size, 10, 64)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		total = n
	}

	if rng == "*" {
		return -1, total, total >= 0
	}
	first, _, found := strings.Cut(rng, "-")
	if !found {
		return 0, 0, false
	}
	n, err := strconv.ParseInt(first, 10, 64)
	if err != nil || n < 0 {
		return 0, 0, false
	}
	return n, total, true
}

// FileTransfer copies a pre-fetched archive, used when outbound network access is unavailable.
type FileTransfer struct {
	fs  afero.Fs
	src string
}

// NewFileTransfer creates a local fallback transfer.
func NewFileTransfer(fs afero.Fs, src string) *FileTransfer {
	return &FileTransfer{fs: fs, src: src}
}

// Describe implements Transfer.
func (t *FileTransfer) Describe() string {
	return t.src
}

// Fetch implements Transfer.
func (t *FileTransfer) Fetch(ctx context.Context, dest string) error {
	in, err := t.fs.Open(t.src)
	if err != nil {
		return fmt.Errorf("catalog file not found at %s: %w", t.src, err)
	}
	defer in.Close()

	return writeStream(ctx, t.fs, dest, in)
}

// BucketTransfer streams the archive object from object storage.
type BucketTransfer struct {
	fs     afero.Fs
	client storage.Client
	bucket string
	object string
}

// NewBucketTransfer creates an object storage transfer.
func NewBucketTransfer(fs afero.Fs, client storage.Client, bucket, object string) *BucketTransfer {
	return &BucketTransfer{fs: fs, client: client, bucket: bucket, object: object}
}

// Describe implements Transfer.
func (t *BucketTransfer) Describe() string {
	return t.bucket + "/" + t.object
}

// Fetch implements Transfer.
func (t *BucketTransfer) Fetch(ctx context.Context, dest string) error {
	obj, err := t.client.GetObject(ctx, t.bucket, t.object, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get object %s: %w", t.Describe(), err)
	}
	defer obj.Close()

	return writeStream(ctx, t.fs, dest, obj)
}

// writeStream replaces dest with the content of r.
func writeStream(ctx context.Context, fs afero.Fs, dest string, r io.Reader) error {
	out, err := fs.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return resourceErr("create", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, &ctxReader{ctx: ctx, r: r}); err != nil {
		return fmt.Errorf("copy to %s failed: %w", dest, err)
	}
	return nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
