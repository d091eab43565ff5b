package reconcile

import (
	"context"
	"fmt"
)

// Resolver maps a natural-key value to the identifier of its shared entity,
// creating the entity when it does not exist yet.
type Resolver[V any] func(ctx context.Context, value V) (uint, error)

// Linker replaces the complete link set of an owner with the given entity ids.
type Linker func(ctx context.Context, ownerID uint, ids []uint) error

// ReplaceRelation resolves every value to a shared entity and then replaces the
// owner's whole relation set with exactly the resolved entities.
//
// Duplicate values collapse onto one link; link order follows first occurrence.
// It returns the number of links written.
func ReplaceRelation[V any](ctx context.Context, ownerID uint, values []V, resolve Resolver[V], link Linker) (int, error) {
	ids := make([]uint, 0, len(values))
	seen := make(map[uint]struct{}, len(values))

	for _, value := range values {
		id, err := resolve(ctx, value)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve %v: %w", value, err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if err := link(ctx, ownerID, ids); err != nil {
		return 0, fmt.Errorf("failed to replace links: %w", err)
	}

	return len(ids), nil
}
