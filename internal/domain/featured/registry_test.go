package featured

import (
	"context"
	"testing"

	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	reasons []string
}

func (n *recordingNotifier) ReloadAll(ctx context.Context, reason string) error {
	n.reasons = append(n.reasons, reason)
	return nil
}

func newTestRegistry(t *testing.T) (*Registry, *storage.FileStore, *recordingNotifier) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	n := &recordingNotifier{}
	return NewRegistry(store, n, nil), store, n
}

func TestLoadEmpty(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	got := reg.Load(context.Background())
	assert.Empty(t, got.Designs)
	assert.Equal(t, types.MaxFeaturedSlots, got.MaxCount)
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	reg, store, _ := newTestRegistry(t)

	require.NoError(t, store.Write(ctx, paths.FeaturedConfig, []byte("[[[")))
	got := reg.Load(ctx)
	assert.Empty(t, got.Designs)
}

func TestLoadNormalizesForeignDocument(t *testing.T) {
	ctx := context.Background()
	reg, store, _ := newTestRegistry(t)

	require.NoError(t, store.Write(ctx, paths.FeaturedConfig,
		[]byte(`{"designs":["a","b","a","c","d","e"],"maxCount":10}`)))

	got := reg.Load(ctx)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got.Designs)
	assert.Equal(t, 4, got.MaxCount)
}

func TestAddDesign(t *testing.T) {
	ctx := context.Background()
	reg, _, n := newTestRegistry(t)

	for _, d := range []string{"a", "b", "c", "d"} {
		assert.True(t, reg.AddDesign(ctx, d))
	}
	assert.Len(t, n.reasons, 4)

	tests := []struct {
		name   string
		design string
	}{
		{"full", "e"},
		{"duplicate", "a"},
		{"invalid", "../x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, reg.AddDesign(ctx, tt.design))
			assert.Equal(t, []string{"a", "b", "c", "d"}, reg.Load(ctx).Designs)
		})
	}
	assert.Len(t, n.reasons, 4)
}

func TestAddDuplicateBelowCapacity(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)

	assert.True(t, reg.AddDesign(ctx, "a"))
	assert.False(t, reg.AddDesign(ctx, "a"))
	assert.Equal(t, []string{"a"}, reg.Load(ctx).Designs)
}

func TestRemoveDesign(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)

	for _, d := range []string{"a", "b", "c"} {
		require.True(t, reg.AddDesign(ctx, d))
	}

	assert.True(t, reg.RemoveDesign(ctx, "b"))
	assert.Equal(t, []string{"a", "c"}, reg.Load(ctx).Designs)
	assert.False(t, reg.RemoveDesign(ctx, "b"))
}

func TestReorder(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)

	for _, d := range []string{"a", "b", "c", "d"} {
		require.True(t, reg.AddDesign(ctx, d))
	}

	assert.True(t, reg.Reorder(ctx, []string{"d", "x", "b", "b", "a", "c", "y"}))
	assert.Equal(t, []string{"d", "b", "a", "c"}, reg.Load(ctx).Designs)

	// Ids left out of the new order are dropped.
	assert.True(t, reg.Reorder(ctx, []string{"c"}))
	assert.Equal(t, []string{"c"}, reg.Load(ctx).Designs)
}

func TestDesignAt(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := newTestRegistry(t)

	require.True(t, reg.AddDesign(ctx, "abc"))

	d, ok := reg.DesignAt(ctx, 0)
	assert.True(t, ok)
	assert.Equal(t, "abc", d)

	for _, slot := range []int{1, 3, 4, -1} {
		_, ok := reg.DesignAt(ctx, slot)
		assert.False(t, ok, "slot %d", slot)
	}
}
