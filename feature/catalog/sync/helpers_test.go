package sync

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"catalog-sync/core/database"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/record"
	"catalog-sync/feature/catalog/repository"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *repository.GormRepository {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return repository.New(db)
}

// buildTarGz returns a gzip compressed tarball holding one pg<id>.rdf file per id
// under cache/epub/<id>/, plus any extra files given by path.
func buildTarGz(t *testing.T, ids []int, extra map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	mod := time.Date(2024, 5, 1, 3, 15, 0, 0, time.UTC)

	writeDir := func(name string) {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeDir, Mode: 0o755, ModTime: mod}))
	}
	writeFile := func(name, body string) {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(body)), ModTime: mod}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}

	writeDir("cache/")
	writeDir("cache/epub/")
	for _, id := range ids {
		writeDir(fmt.Sprintf("cache/epub/%d/", id))
		writeFile(fmt.Sprintf("cache/epub/%d/pg%d.rdf", id, id), fmt.Sprintf("<rdf id=%q/>", fmt.Sprint(id)))
	}
	for name, body := range extra {
		writeFile(name, body)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// fakeTransfer replays scripted outcomes, one per attempt.
type fakeTransfer struct {
	fs       afero.Fs
	outcomes []func(dest string) error
	calls    int
	// seen records whether dest already existed when each attempt started.
	seen []bool
}

func (f *fakeTransfer) Describe() string { return "fake://catalog" }

func (f *fakeTransfer) Fetch(ctx context.Context, dest string) error {
	_, err := f.fs.Stat(dest)
	f.seen = append(f.seen, err == nil)

	i := f.calls
	f.calls++
	if i >= len(f.outcomes) {
		return fmt.Errorf("no scripted outcome for attempt %d", i+1)
	}
	return f.outcomes[i](dest)
}

func writeBytes(fs afero.Fs, data []byte) func(dest string) error {
	return func(dest string) error {
		return afero.WriteFile(fs, dest, data, 0o644)
	}
}

func failAfterPartial(fs afero.Fs) func(dest string) error {
	return func(dest string) error {
		if err := afero.WriteFile(fs, dest, []byte("partial"), 0o644); err != nil {
			return err
		}
		return fmt.Errorf("connection reset")
	}
}

// fakeReader serves records from memory but insists the record file exists.
type fakeReader struct {
	fs      afero.Fs
	records map[int]*record.Record
	paths   []string
}

func (f *fakeReader) Read(id int, path string) (*record.Record, error) {
	f.paths = append(f.paths, path)
	if _, err := f.fs.Stat(path); err != nil {
		return nil, err
	}
	rec, ok := f.records[id]
	if !ok {
		return &record.Record{ID: id, Type: "Text"}, nil
	}
	cp := *rec
	return &cp, nil
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil || !os.IsNotExist(err)
}
