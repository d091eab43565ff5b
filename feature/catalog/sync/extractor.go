package sync

import (
	"archive/tar"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrTooFewItems reports an extraction with fewer item directories than required.
var ErrTooFewItems = errors.New("download incomplete")

type decompressorFactory = func(io.Reader) (io.ReadCloser, error)

// tarCodecs maps archive extensions to the decompressor of the wrapped tar stream.
var tarCodecs = map[string]decompressorFactory{
	".tar.bz2": bzip2Reader,
	".tbz2":    bzip2Reader,
	".tar.gz":  gzipReader,
	".tgz":     gzipReader,
	".tar.zst": zstdReader,
	".tar.br":  brotliReader,
	".tar":     plainReader,
}

// archiveExts is ordered so compound extensions match before their suffixes.
var archiveExts = []string{".tar.bz2", ".tar.gz", ".tar.zst", ".tar.br", ".tar.zip", ".tbz2", ".tgz", ".tar", ".zip"}

// ArchiveExt returns the archive extension of a path or URL, ".tar.bz2" when unknown.
func ArchiveExt(name string) string {
	name = strings.ToLower(name)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	for _, ext := range archiveExts {
		if strings.HasSuffix(name, ext) {
			return ext
		}
	}
	return ".tar.bz2"
}

func bzip2Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(bzip2.NewReader(r)), nil
}

func gzipReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func zstdReader(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}

func brotliReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}

func plainReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// ExtractResult summarizes one extraction.
type ExtractResult struct {
	Entries int `json:"entries"`
	Items   int `json:"items"`
}

// Extractor unpacks the bundle into the staging tree and checks it is complete.
type Extractor struct {
	fs          afero.Fs
	itemsSubdir string
	minEntries  int
	logger      *zap.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(fs afero.Fs, cfg CatalogConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		fs:          fs,
		itemsSubdir: cfg.ItemsSubdir,
		minEntries:  cfg.MinEntries,
		logger:      logger,
	}
}

// Extract unpacks archivePath into dest. A decode failure, an entry escaping
// dest, a missing items directory or fewer than the minimum item directories
// all yield an ExtractionError.
func (e *Extractor) Extract(ctx context.Context, archivePath, dest string) (ExtractResult, error) {
	var res ExtractResult

	if err := e.fs.MkdirAll(dest, 0o755); err != nil {
		return res, resourceErr("mkdir", dest, err)
	}

	entries, err := e.unpack(ctx, archivePath, dest)
	res.Entries = entries
	if err != nil {
		var rerr *ResourceError
		if errors.As(err, &rerr) {
			return res, err
		}
		return res, &ExtractionError{Entries: entries, Err: err}
	}
	e.logger.Info("Archive unpacked", zap.Int("entries", entries))

	itemsDir := filepath.Join(dest, filepath.FromSlash(e.itemsSubdir))
	items, err := ScanItems(e.fs, itemsDir)
	if err != nil {
		return res, &ExtractionError{Entries: entries, Err: fmt.Errorf("extraction directory not found: %w", err)}
	}
	res.Items = len(items)
	e.logger.Info("Extracted item directories", zap.Int("count", res.Items))

	if res.Items < e.minEntries {
		return res, &ExtractionError{
			Entries: entries,
			Err:     fmt.Errorf("%w: only %d items extracted, expected at least %d", ErrTooFewItems, res.Items, e.minEntries),
		}
	}
	return res, nil
}

func (e *Extractor) unpack(ctx context.Context, archivePath, dest string) (int, error) {
	ext := ArchiveExt(archivePath)
	if ext == ".zip" || ext == ".tar.zip" {
		return e.unpackZip(ctx, archivePath, dest)
	}

	f, err := e.fs.Open(archivePath)
	if err != nil {
		return 0, resourceErr("open", archivePath, err)
	}
	defer f.Close()

	return e.unpackTar(ctx, f, tarCodecs[ext], dest)
}

func (e *Extractor) unpackTar(ctx context.Context, r io.Reader, factory decompressorFactory, dest string) (int, error) {
	stream, err := factory(r)
	if err != nil {
		return 0, fmt.Errorf("failed to open decompressor: %w", err)
	}
	defer stream.Close()

	tr := tar.NewReader(stream)
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("corrupt archive: %w", err)
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return count, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := e.fs.MkdirAll(target, 0o755); err != nil {
				return count, resourceErr("mkdir", target, err)
			}
		case tar.TypeReg:
			if err := e.writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return count, err
			}
			e.keepModTime(target, hdr.ModTime)
		default:
			// Links and devices never occur in the bundle.
			continue
		}
		count++
	}
}

func (e *Extractor) unpackZip(ctx context.Context, archivePath, dest string) (int, error) {
	f, err := e.fs.Open(archivePath)
	if err != nil {
		return 0, resourceErr("open", archivePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, resourceErr("stat", archivePath, err)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("corrupt archive: %w", err)
	}

	count := 0
	for _, zf := range zr.File {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		// A zip wrapping the tarball is unpacked in one pass.
		if !zf.FileInfo().IsDir() && strings.HasSuffix(strings.ToLower(zf.Name), ".tar") {
			rc, err := zf.Open()
			if err != nil {
				return count, fmt.Errorf("corrupt archive: %w", err)
			}
			n, err := e.unpackTar(ctx, rc, plainReader, dest)
			rc.Close()
			count += n
			if err != nil {
				return count, err
			}
			continue
		}

		target, err := safeJoin(dest, zf.Name)
		if err != nil {
			return count, err
		}

		if zf.FileInfo().IsDir() {
			if err := e.fs.MkdirAll(target, 0o755); err != nil {
				return count, resourceErr("mkdir", target, err)
			}
			count++
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return count, fmt.Errorf("corrupt archive: %w", err)
		}
		err = e.writeFile(target, rc, zf.Mode().Perm())
		rc.Close()
		if err != nil {
			return count, err
		}
		e.keepModTime(target, zf.Modified)
		count++
	}
	return count, nil
}

// keepModTime applies the archived modification time, which the mirror step
// compares to skip unchanged files. A failure only costs a redundant copy.
func (e *Extractor) keepModTime(target string, mod time.Time) {
	if err := e.fs.Chtimes(target, mod, mod); err != nil {
		e.logger.Debug("Failed to set modification time", zap.String("path", target), zap.Error(err))
	}
}

func (e *Extractor) writeFile(target string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := e.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return resourceErr("mkdir", filepath.Dir(target), err)
	}

	out, err := e.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return resourceErr("create", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("corrupt archive entry %s: %w", target, err)
	}
	return nil
}

// safeJoin resolves an archive entry name under dest, rejecting names that escape it.
func safeJoin(dest, name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("archive entry %q escapes the destination", name)
	}
	return filepath.Join(dest, filepath.FromSlash(clean)), nil
}
