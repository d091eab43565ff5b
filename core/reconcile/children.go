package reconcile

import (
	"context"
	"fmt"
)

// ChildSet tells SyncChildren how to read and write one kind of per-owner row.
type ChildSet[V any] struct {
	// Key returns the natural value key of a desired value.
	// Persisted rows are matched on this key only.
	Key func(value V) string

	// List returns the owner's existing rows.
	List func(ctx context.Context, ownerID uint) ([]Child, error)

	// Create persists a new row for the owner and returns its identifier.
	Create func(ctx context.Context, ownerID uint, value V) (uint, error)

	// Delete removes the rows with the given identifiers.
	Delete func(ctx context.Context, ids []uint) error
}

// SyncChildren makes the owner's rows match values by value equality.
//
// Rows whose key still appears in values keep their identifier, missing values are
// created, and every pre-existing row that did not survive is deleted. Existing rows
// sharing a key are collapsed onto the first one.
func SyncChildren[V any](ctx context.Context, ownerID uint, values []V, set ChildSet[V]) (ChildOutcome, error) {
	var outcome ChildOutcome

	existing, err := set.List(ctx, ownerID)
	if err != nil {
		return outcome, fmt.Errorf("failed to list existing rows: %w", err)
	}

	byKey := make(map[string]uint, len(existing))
	for _, child := range existing {
		if _, ok := byKey[child.Key]; !ok {
			byKey[child.Key] = child.ID
		}
	}

	surviving := make(map[uint]struct{}, len(values))
	for _, value := range values {
		key := set.Key(value)

		if id, ok := byKey[key]; ok {
			if _, counted := surviving[id]; !counted {
				outcome.Kept++
			}
			surviving[id] = struct{}{}
			continue
		}

		id, err := set.Create(ctx, ownerID, value)
		if err != nil {
			return outcome, fmt.Errorf("failed to create row %q: %w", key, err)
		}
		byKey[key] = id
		surviving[id] = struct{}{}
		outcome.Created++
	}

	var obsolete []uint
	for _, child := range existing {
		if _, ok := surviving[child.ID]; !ok {
			obsolete = append(obsolete, child.ID)
		}
	}

	if len(obsolete) > 0 {
		if err := set.Delete(ctx, obsolete); err != nil {
			return outcome, fmt.Errorf("failed to delete obsolete rows: %w", err)
		}
		outcome.Deleted = len(obsolete)
	}

	return outcome, nil
}
