package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAcquirer(fs afero.Fs, tr Transfer, attempts int, minSize int64) (*Acquirer, *[]time.Duration) {
	a := NewAcquirer(fs, tr, TransferConfig{MaxAttempts: attempts, RetryDelaySeconds: 10}, minSize, zap.NewNop())
	var slept []time.Duration
	a.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return a, &slept
}

func TestAcquirer_RetriesUntilSuccess(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/staging", 0o755))
	payload := make([]byte, 64)

	tr := &fakeTransfer{fs: fs, outcomes: []func(string) error{
		failAfterPartial(fs),
		failAfterPartial(fs),
		writeBytes(fs, payload),
	}}
	a, slept := newTestAcquirer(fs, tr, 5, 32)

	size, err := a.Fetch(context.Background(), "/staging/catalog.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, int64(64), size)
	assert.Equal(t, 3, tr.calls)
	assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second}, *slept)

	// No attempt ever started on top of a previous partial file.
	assert.Equal(t, []bool{false, false, false}, tr.seen)

	data, err := afero.ReadFile(fs, "/staging/catalog.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestAcquirer_TooSmallIsAFailedAttempt(t *testing.T) {
	fs := afero.NewMemMapFs()
	tr := &fakeTransfer{fs: fs, outcomes: []func(string) error{
		writeBytes(fs, make([]byte, 32)),
		writeBytes(fs, make([]byte, 33)),
	}}
	a, _ := newTestAcquirer(fs, tr, 5, 32)

	size, err := a.Fetch(context.Background(), "/catalog.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, int64(33), size)
	assert.Equal(t, 2, tr.calls)
}

func TestAcquirer_Exhausted(t *testing.T) {
	fs := afero.NewMemMapFs()
	tr := &fakeTransfer{fs: fs, outcomes: []func(string) error{
		failAfterPartial(fs),
		failAfterPartial(fs),
		failAfterPartial(fs),
	}}
	a, slept := newTestAcquirer(fs, tr, 3, 1)

	_, err := a.Fetch(context.Background(), "/catalog.tar.gz")
	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 3, te.Attempts)
	assert.ErrorContains(t, err, "connection reset")
	assert.Len(t, *slept, 2)
	assert.False(t, exists(fs, "/catalog.tar.gz"))
}

func TestAcquirer_ResumesOnFirstAttemptOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/catalog.tar.gz", []byte("half"), 0o644))

	tr := &fakeTransfer{fs: fs, outcomes: []func(string) error{
		failAfterPartial(fs),
		writeBytes(fs, make([]byte, 10)),
	}}
	a, _ := newTestAcquirer(fs, tr, 5, 1)

	_, err := a.Fetch(context.Background(), "/catalog.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, tr.seen)
}

func TestAcquirer_CancelledWhileWaiting(t *testing.T) {
	fs := afero.NewMemMapFs()
	tr := &fakeTransfer{fs: fs, outcomes: []func(string) error{failAfterPartial(fs)}}
	a, _ := newTestAcquirer(fs, tr, 5, 1)
	a.sleep = func(ctx context.Context, d time.Duration) error { return context.Canceled }

	_, err := a.Fetch(context.Background(), "/catalog.tar.gz")
	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Attempts)
	assert.True(t, errors.Is(err, context.Canceled))
}
