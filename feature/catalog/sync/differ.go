package sync

import (
	"strconv"

	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"

	"github.com/spf13/afero"
)

// ScanItems returns the names of the directories directly under dir.
func ScanItems(fs afero.Fs, dir string) (reconcile.KeySet, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	set := reconcile.NewKeySet()
	for _, info := range infos {
		if info.IsDir() {
			set.Add(info.Name())
		}
	}
	return set, nil
}

// ParseItemID returns the item id named by a live or staged directory. Only the
// canonical decimal form counts: "007" and "+7" are not item 7.
func ParseItemID(name string) (int, bool) {
	if !utils.IsNumeric(name) {
		return 0, false
	}
	id, err := strconv.Atoi(name)
	if err != nil || id <= 0 || strconv.Itoa(id) != name {
		return 0, false
	}
	return id, true
}

// DirectoryDiffer compares the staged items directory with the live tree.
type DirectoryDiffer struct {
	fs afero.Fs
}

// NewDirectoryDiffer creates a differ.
func NewDirectoryDiffer(fs afero.Fs) *DirectoryDiffer {
	return &DirectoryDiffer{fs: fs}
}

// Plan scans both trees and classifies every item. The live tree is created
// when it does not exist yet.
func (d *DirectoryDiffer) Plan(stagedDir, liveDir string) (reconcile.Plan, error) {
	if err := d.fs.MkdirAll(liveDir, 0o755); err != nil {
		return reconcile.Plan{}, resourceErr("mkdir", liveDir, err)
	}

	staged, err := ScanItems(d.fs, stagedDir)
	if err != nil {
		return reconcile.Plan{}, resourceErr("scan", stagedDir, err)
	}
	live, err := ScanItems(d.fs, liveDir)
	if err != nil {
		return reconcile.Plan{}, resourceErr("scan", liveDir, err)
	}

	return reconcile.BuildPlan(staged, live), nil
}
