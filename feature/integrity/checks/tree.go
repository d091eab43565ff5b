package checks

import (
	"path/filepath"
	"strconv"

	"catalog-sync/feature/catalog/sync"

	"github.com/spf13/afero"
)

// TreeReport compares the live record tree with the book rows.
type TreeReport struct {
	Items int `json:"items"`
	Books int `json:"books"`
	// Unindexed are item directories without a book row.
	Unindexed []int `json:"unindexed"`
	// Orphaned are book rows without an item directory.
	Orphaned []int `json:"orphaned"`
	// MissingRecords are item directories without their record file.
	MissingRecords []int `json:"missing_records"`
}

// OK reports whether the tree and the catalog agree.
func (r *TreeReport) OK() bool {
	return len(r.Unindexed) == 0 && len(r.Orphaned) == 0 && len(r.MissingRecords) == 0
}

// CheckTree lists the item directories of liveDir and compares them with bookIDs.
func CheckTree(fs afero.Fs, liveDir string, recordName func(id int) string, bookIDs []int) (*TreeReport, error) {
	items, err := sync.ItemIDs(fs, liveDir)
	if err != nil {
		return nil, err
	}

	report := &TreeReport{
		Items:          len(items),
		Books:          len(bookIDs),
		Unindexed:      []int{},
		Orphaned:       []int{},
		MissingRecords: []int{},
	}

	books := make(map[int]struct{}, len(bookIDs))
	for _, id := range bookIDs {
		books[id] = struct{}{}
	}
	onDisk := make(map[int]struct{}, len(items))

	for _, id := range items {
		onDisk[id] = struct{}{}
		if _, ok := books[id]; !ok {
			report.Unindexed = append(report.Unindexed, id)
		}

		record := filepath.Join(liveDir, strconv.Itoa(id), recordName(id))
		if _, err := fs.Stat(record); err != nil {
			report.MissingRecords = append(report.MissingRecords, id)
		}
	}

	for _, id := range bookIDs {
		if _, ok := onDisk[id]; !ok {
			report.Orphaned = append(report.Orphaned, id)
		}
	}

	return report, nil
}
