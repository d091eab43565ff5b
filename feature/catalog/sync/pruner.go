package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog/repository"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const pruneBatchSize = 500

// PruneResult summarizes one prune pass.
type PruneResult struct {
	Books   int64 `json:"books"`
	Dirs    int   `json:"dirs"`
	Skipped int   `json:"skipped"`
}

// Pruner removes stale items from the catalog and the live tree.
type Pruner struct {
	fs      afero.Fs
	store   repository.Store
	liveDir string
	logger  *zap.Logger
}

// NewPruner creates a pruner for liveDir.
func NewPruner(fs afero.Fs, store repository.Store, liveDir string, logger *zap.Logger) *Pruner {
	return &Pruner{fs: fs, store: store, liveDir: liveDir, logger: logger}
}

// Prune deletes the book rows of every stale item id, then the stale directories
// themselves. Names that are not canonical item ids ("notes", "007") are
// skipped and left for the mirror step.
// Missing rows and directories are not errors, so a pass can be repeated.
func (p *Pruner) Prune(ctx context.Context, stale reconcile.KeySet) (PruneResult, error) {
	var res PruneResult

	ids := make([]int, 0, len(stale))
	names := make(map[int]string, len(stale))
	for name := range stale {
		id, ok := ParseItemID(name)
		if !ok {
			res.Skipped++
			continue
		}
		ids = append(ids, id)
		names[id] = name
	}
	sort.Ints(ids)

	for start := 0; start < len(ids); start += pruneBatchSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		end := start + pruneBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		deleted, err := p.store.DeleteBooks(ctx, batch)
		if err != nil {
			return res, fmt.Errorf("failed to delete stale books: %w", err)
		}
		res.Books += deleted

		for _, id := range batch {
			dir := filepath.Join(p.liveDir, names[id])
			if err := p.fs.RemoveAll(dir); err != nil {
				return res, resourceErr("remove", dir, err)
			}
			res.Dirs++
		}
	}

	p.logger.Info("Removed stale items",
		zap.Int64("books", res.Books),
		zap.Int("dirs", res.Dirs),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}
