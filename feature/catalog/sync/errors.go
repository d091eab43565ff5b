package sync

import (
	"errors"
	"fmt"

	"catalog-sync/feature/catalog/record"
)

// TransferError reports that the bundle could not be acquired.
type TransferError struct {
	Attempts int
	Err      error
}

func (e *TransferError) Error() string {
	if e.Attempts == 0 {
		return fmt.Sprintf("catalog archive rejected: %v", e.Err)
	}
	return fmt.Sprintf("failed to download catalog after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// ExtractionError reports a corrupt or incomplete bundle.
type ExtractionError struct {
	Entries int
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ReconciliationError reports a record that could not be stored. Record holds
// the parsed content when parsing succeeded.
type ReconciliationError struct {
	ItemID int
	Record *record.Record
	Err    error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("failed to reconcile item %d: %v", e.ItemID, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// ResourceError reports a filesystem failure.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

func resourceErr(op, path string, err error) error {
	return &ResourceError{Op: op, Path: path, Err: err}
}

// Class tells the caller whether re-invoking the pipeline can help.
type Class int

const (
	// Retryable failures happened before reconciliation; staging was discarded.
	Retryable Class = iota
	// Fatal failures happened while reconciling and will reproduce on retry.
	Fatal
)

func (c Class) String() string {
	if c == Fatal {
		return "fatal"
	}
	return "retryable"
}

// StageError is the tagged failure returned by the orchestrator.
type StageError struct {
	Stage State
	Class Class
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failure during %s: %v", e.Class, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a StageError of class Retryable.
func IsRetryable(err error) bool {
	var se *StageError
	return errors.As(err, &se) && se.Class == Retryable
}
