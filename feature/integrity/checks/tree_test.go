package checks

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordName(id int) string { return fmt.Sprintf("pg%d.rdf", id) }

func TestCheckTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, id := range []int{1, 2, 3} {
		require.NoError(t, afero.WriteFile(fs, fmt.Sprintf("/live/%d/pg%d.rdf", id, id), []byte("<rdf/>"), 0o644))
	}
	require.NoError(t, fs.MkdirAll("/live/4", 0o755))
	require.NoError(t, fs.MkdirAll("/live/images", 0o755))

	report, err := CheckTree(fs, "/live", recordName, []int{1, 2, 9})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Items)
	assert.Equal(t, 3, report.Books)
	assert.Equal(t, []int{3, 4}, report.Unindexed)
	assert.Equal(t, []int{9}, report.Orphaned)
	assert.Equal(t, []int{4}, report.MissingRecords)
	assert.False(t, report.OK())
}

func TestCheckTree_Consistent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/live/7/pg7.rdf", []byte("<rdf/>"), 0o644))

	report, err := CheckTree(fs, "/live", recordName, []int{7})
	require.NoError(t, err)
	assert.True(t, report.OK())
}

func TestCheckTree_MissingLiveDir(t *testing.T) {
	_, err := CheckTree(afero.NewMemMapFs(), "/live", recordName, nil)
	assert.Error(t, err)
}
