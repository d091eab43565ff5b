package sync

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// MirrorResult summarizes one mirror pass.
type MirrorResult struct {
	Copied    int `json:"copied"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
}

// Materializer makes the live tree an exact copy of the staging tree.
type Materializer struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewMaterializer creates a materializer.
func NewMaterializer(fs afero.Fs, logger *zap.Logger) *Materializer {
	return &Materializer{fs: fs, logger: logger}
}

// Mirror copies new and changed files from src to dst, keeping modification
// times, then deletes every dst entry that src does not have.
func (m *Materializer) Mirror(ctx context.Context, src, dst string) (MirrorResult, error) {
	var res MirrorResult

	if err := m.fs.MkdirAll(dst, 0o755); err != nil {
		return res, resourceErr("mkdir", dst, err)
	}

	wanted := map[string]struct{}{}
	err := afero.Walk(m.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return resourceErr("walk", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		wanted[rel] = struct{}{}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			if existing, err := m.fs.Stat(target); err == nil && !existing.IsDir() {
				if err := m.fs.Remove(target); err != nil {
					return resourceErr("remove", target, err)
				}
			}
			if err := m.fs.MkdirAll(target, 0o755); err != nil {
				return resourceErr("mkdir", target, err)
			}
			return nil
		}

		if existing, err := m.fs.Stat(target); err == nil {
			if existing.IsDir() {
				if err := m.fs.RemoveAll(target); err != nil {
					return resourceErr("remove", target, err)
				}
			} else if sameFile(existing, info) {
				res.Unchanged++
				return nil
			}
		}

		if err := m.copyFile(path, target, info); err != nil {
			return err
		}
		res.Copied++
		return nil
	})
	if err != nil {
		return res, err
	}

	var extra []string
	err = afero.Walk(m.fs, dst, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return resourceErr("walk", path, err)
		}
		rel, err := filepath.Rel(dst, path)
		if err != nil || rel == "." {
			return err
		}
		if _, ok := wanted[rel]; !ok {
			extra = append(extra, path)
			if info.IsDir() {
				return filepath.SkipDir
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	sort.Strings(extra)
	for _, path := range extra {
		if err := m.fs.RemoveAll(path); err != nil {
			return res, resourceErr("remove", path, err)
		}
		res.Removed++
	}

	m.logger.Info("Live tree mirrored",
		zap.Int("copied", res.Copied),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("removed", res.Removed),
	)
	return res, nil
}

func (m *Materializer) copyFile(src, dst string, info os.FileInfo) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return resourceErr("open", src, err)
	}
	defer in.Close()

	out, err := m.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return resourceErr("create", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return resourceErr("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return resourceErr("close", dst, err)
	}

	if err := m.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return resourceErr("chtimes", dst, err)
	}
	return nil
}

// sameFile compares size and modification time at second precision.
func sameFile(a, b os.FileInfo) bool {
	return a.Size() == b.Size() &&
		a.ModTime().Truncate(time.Second).Equal(b.ModTime().Truncate(time.Second))
}

// isWithin reports whether path is dir or below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
