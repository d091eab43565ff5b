package sync

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMaterializer_Mirror(t *testing.T) {
	fs := afero.NewMemMapFs()
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	write := func(path, body string, mod time.Time) {
		require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
		require.NoError(t, fs.Chtimes(path, mod, mod))
	}

	write("/src/1/pg1.rdf", "same", old)
	write("/src/2/pg2.rdf", "updated", fresh)
	write("/src/3/pg3.rdf", "new", fresh)

	write("/dst/1/pg1.rdf", "same", old)
	write("/dst/2/pg2.rdf", "outdated", old)
	write("/dst/2/stray.txt", "x", old)
	write("/dst/9/pg9.rdf", "gone", old)

	res, err := NewMaterializer(fs, zap.NewNop()).Mirror(context.Background(), "/src", "/dst")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Unchanged)
	assert.Equal(t, 2, res.Copied)
	assert.Equal(t, 2, res.Removed)

	data, err := afero.ReadFile(fs, "/dst/2/pg2.rdf")
	require.NoError(t, err)
	assert.Equal(t, "updated", string(data))

	info, err := fs.Stat("/dst/3/pg3.rdf")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(fresh))

	assert.False(t, exists(fs, "/dst/2/stray.txt"))
	assert.False(t, exists(fs, "/dst/9"))

	// Mirroring again changes nothing.
	res, err = NewMaterializer(fs, zap.NewNop()).Mirror(context.Background(), "/src", "/dst")
	require.NoError(t, err)
	assert.Equal(t, MirrorResult{Unchanged: 3}, res)
}
