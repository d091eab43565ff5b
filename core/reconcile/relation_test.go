package reconcile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryEntities is an insert-or-get registry keyed by name.
type memoryEntities struct {
	ids     map[string]uint
	next    uint
	creates int
}

func newMemoryEntities() *memoryEntities {
	return &memoryEntities{ids: map[string]uint{}, next: 1}
}

func (m *memoryEntities) resolve(ctx context.Context, name string) (uint, error) {
	if id, ok := m.ids[name]; ok {
		return id, nil
	}
	id := m.next
	m.next++
	m.ids[name] = id
	m.creates++
	return id, nil
}

// memoryLinks records the link set per owner.
type memoryLinks map[uint][]uint

func (l memoryLinks) replace(ctx context.Context, ownerID uint, ids []uint) error {
	l[ownerID] = append([]uint(nil), ids...)
	return nil
}

func TestReplaceRelation_ReplacesWholeSet(t *testing.T) {
	ctx := context.Background()
	entities := newMemoryEntities()
	links := memoryLinks{}

	n, err := ReplaceRelation(ctx, 1, []string{"A", "B"}, entities.resolve, links.replace)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint{1, 2}, links[1])

	// {A,B} -> {B,C}: A unlinked but kept as an entity, C created
	n, err = ReplaceRelation(ctx, 1, []string{"B", "C"}, entities.resolve, links.replace)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint{2, 3}, links[1])
	assert.Contains(t, entities.ids, "A")
	assert.Equal(t, 3, entities.creates)
}

func TestReplaceRelation_DeduplicatesValues(t *testing.T) {
	entities := newMemoryEntities()
	links := memoryLinks{}

	n, err := ReplaceRelation(context.Background(), 7, []string{"en", "fr", "en"}, entities.resolve, links.replace)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint{1, 2}, links[7])
}

func TestReplaceRelation_EmptyClearsLinks(t *testing.T) {
	entities := newMemoryEntities()
	links := memoryLinks{3: {9, 10}}

	n, err := ReplaceRelation(context.Background(), 3, nil, entities.resolve, links.replace)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, links[3])
}

func TestReplaceRelation_Errors(t *testing.T) {
	t.Run("Resolve error", func(t *testing.T) {
		called := false
		_, err := ReplaceRelation(context.Background(), 1, []string{"x"},
			func(ctx context.Context, v string) (uint, error) { return 0, fmt.Errorf("db error") },
			func(ctx context.Context, ownerID uint, ids []uint) error { called = true; return nil },
		)
		assert.ErrorContains(t, err, "db error")
		assert.False(t, called, "links must not be touched when resolution fails")
	})

	t.Run("Link error", func(t *testing.T) {
		entities := newMemoryEntities()
		_, err := ReplaceRelation(context.Background(), 1, []string{"x"}, entities.resolve,
			func(ctx context.Context, ownerID uint, ids []uint) error { return fmt.Errorf("constraint") },
		)
		assert.ErrorContains(t, err, "constraint")
	})
}
