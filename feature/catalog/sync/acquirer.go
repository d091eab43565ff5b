package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Acquirer fetches the bundle with retries and validates its size.
type Acquirer struct {
	fs          afero.Fs
	transfer    Transfer
	maxAttempts int
	minSize     int64
	delay       time.Duration
	logger      *zap.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewAcquirer creates an acquirer. A file must be strictly larger than minSize to be accepted.
func NewAcquirer(fs afero.Fs, transfer Transfer, cfg TransferConfig, minSize int64, logger *zap.Logger) *Acquirer {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Acquirer{
		fs:          fs,
		transfer:    transfer,
		maxAttempts: attempts,
		minSize:     minSize,
		delay:       cfg.RetryDelay(),
		logger:      logger,
		sleep:       sleepContext,
	}
}

// Fetch downloads to dest and returns the accepted file size. Every failed
// attempt removes dest, so no partial file survives an exhausted fetch.
func (a *Acquirer) Fetch(ctx context.Context, dest string) (int64, error) {
	var lastErr error

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		a.logger.Info("Fetching catalog",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", a.maxAttempts),
			zap.String("source", a.transfer.Describe()),
		)

		if attempt > 1 {
			if err := a.discard(dest); err != nil {
				return 0, err
			}
		}

		size, err := a.attempt(ctx, dest)
		if err == nil {
			a.logger.Info("Download complete", zap.Float64("size_mb", megabytes(size)))
			return size, nil
		}
		lastErr = err
		a.logger.Warn("Fetch attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if rmErr := a.discard(dest); rmErr != nil {
			return 0, rmErr
		}
		if ctx.Err() != nil {
			return 0, &TransferError{Attempts: attempt, Err: ctx.Err()}
		}

		if attempt < a.maxAttempts {
			a.logger.Info("Waiting before retry", zap.Duration("delay", a.delay))
			if err := a.sleep(ctx, a.delay); err != nil {
				return 0, &TransferError{Attempts: attempt, Err: err}
			}
		}
	}

	a.logger.Error("All fetch attempts failed", zap.Int("attempts", a.maxAttempts))
	return 0, &TransferError{Attempts: a.maxAttempts, Err: lastErr}
}

func (a *Acquirer) attempt(ctx context.Context, dest string) (int64, error) {
	if err := a.transfer.Fetch(ctx, dest); err != nil {
		return 0, err
	}

	info, err := a.fs.Stat(dest)
	if err != nil {
		return 0, fmt.Errorf("download file not found: %w", err)
	}
	if info.Size() <= a.minSize {
		return 0, fmt.Errorf("file too small (%.1f MB), expected more than %.1f MB",
			megabytes(info.Size()), megabytes(a.minSize))
	}
	return info.Size(), nil
}

func (a *Acquirer) discard(dest string) error {
	err := a.fs.Remove(dest)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return resourceErr("remove", dest, err)
	}
	return nil
}

func megabytes(n int64) float64 {
	return float64(n) / (1024 * 1024)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
