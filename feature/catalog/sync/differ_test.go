package sync

import (
	"testing"

	"catalog-sync/core/reconcile"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryDiffer_Plan(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/staging/2", "/staging/3", "/staging/4", "/live/1", "/live/2", "/live/3"} {
		require.NoError(t, fs.MkdirAll(dir, 0o755))
	}
	require.NoError(t, afero.WriteFile(fs, "/live/README", []byte("not an item"), 0o644))

	plan, err := NewDirectoryDiffer(fs).Plan("/staging", "/live")
	require.NoError(t, err)

	assert.Equal(t, reconcile.NewKeySet("1"), plan.Stale)
	assert.Equal(t, reconcile.NewKeySet("4"), plan.Added)
	assert.Equal(t, reconcile.NewKeySet("2", "3"), plan.Kept)
}

func TestDirectoryDiffer_CreatesLiveTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/staging/1", 0o755))

	plan, err := NewDirectoryDiffer(fs).Plan("/staging", "/live")
	require.NoError(t, err)
	assert.Len(t, plan.Added, 1)
	assert.Empty(t, plan.Stale)
	assert.True(t, exists(fs, "/live"))
}

func TestDirectoryDiffer_MissingStaging(t *testing.T) {
	_, err := NewDirectoryDiffer(afero.NewMemMapFs()).Plan("/nope", "/live")
	var re *ResourceError
	assert.ErrorAs(t, err, &re)
}

func TestParseItemID(t *testing.T) {
	id, ok := ParseItemID("1342")
	assert.True(t, ok)
	assert.Equal(t, 1342, id)

	for _, name := range []string{"007", "0", "+7", "-1", "12a", "", "notes"} {
		_, ok := ParseItemID(name)
		assert.False(t, ok, name)
	}
}

func TestItemIDs_SkipsNonCanonicalNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/live/7", "/live/007", "/live/12", "/live/notes"} {
		require.NoError(t, fs.MkdirAll(dir, 0o755))
	}

	ids, err := ItemIDs(fs, "/live")
	require.NoError(t, err)
	assert.Equal(t, []int{7, 12}, ids)
}
