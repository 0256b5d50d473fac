package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/domain/instance"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type frameCounts map[string]int

func (f frameCounts) FrameCount(ctx context.Context, designID string) int { return f[designID] }

func newTestResolver(t *testing.T) (*Resolver, *instance.Repository, *storage.FileStore) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	clk := clock.NewManual(t0)
	repo := instance.NewRepository(store, nil, instance.WithClock(clk))
	frames := frameCounts{"abc": 24, "small": 4}
	return NewResolver(store, repo, frames, clk, nil), repo, store
}

func TestResolveSameSlotSameDesign(t *testing.T) {
	ctx := context.Background()
	r, repo, _ := newTestResolver(t)

	first := r.ResolveInstance(ctx, 0, "abc")
	second := r.ResolveInstance(ctx, 0, "abc")

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.True(t, repo.Exists(ctx, first))
}

func TestResolveDesignChangeKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	r, repo, _ := newTestResolver(t)

	inst, err := r.Resolve(ctx, 1, "abc")
	require.NoError(t, err)

	inst.Begin(t0)
	inst.Advance(10, t0)
	require.NoError(t, repo.Save(ctx, inst))

	moved, err := r.Resolve(ctx, 1, "small")
	require.NoError(t, err)
	assert.Equal(t, inst.InstanceID, moved.InstanceID)
	assert.Equal(t, "small", moved.DesignID)
	assert.True(t, moved.IsAnimating, "running animation survives the swap")
	assert.Equal(t, 1, moved.CurrentFrame, "frame clamped into the smaller design")

	persisted, ok := repo.Load(ctx, inst.InstanceID)
	require.True(t, ok)
	assert.Equal(t, "small", persisted.DesignID)
}

func TestSlotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestResolver(t)

	a := r.ResolveInstance(ctx, 0, "abc")
	b := r.ResolveInstance(ctx, 1, "abc")
	assert.NotEqual(t, a, b)

	assignments := r.Assignments(ctx)
	require.Len(t, assignments, 2)
	assert.Equal(t, Assignment{Slot: 0, InstanceID: a}, assignments[0])

	slot, ok := r.SlotOf(ctx, b)
	assert.True(t, ok)
	assert.Equal(t, 1, slot)

	_, ok = r.SlotOf(ctx, "inst_other")
	assert.False(t, ok)
}

func TestResolveRecreatesPurgedInstance(t *testing.T) {
	ctx := context.Background()
	r, repo, _ := newTestResolver(t)

	id := r.ResolveInstance(ctx, 2, "abc")
	require.NoError(t, repo.Delete(ctx, id))

	inst, err := r.Resolve(ctx, 2, "abc")
	require.NoError(t, err)
	assert.Equal(t, id, inst.InstanceID)
	assert.False(t, inst.IsAnimating)
	assert.True(t, repo.Exists(ctx, id))
}

func TestResolveInvalidSlot(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestResolver(t)

	_, err := r.Resolve(ctx, 4, "abc")
	assert.True(t, errors.Is(err, ErrInvalidSlot))
	assert.Empty(t, r.ResolveInstance(ctx, -1, "abc"))
}

func TestCorruptMappingStartsOver(t *testing.T) {
	ctx := context.Background()
	r, _, store := newTestResolver(t)

	require.NoError(t, store.Write(ctx, paths.SlotMap, []byte("garbage")))

	id := r.ResolveInstance(ctx, 0, "abc")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, r.ResolveInstance(ctx, 0, "abc"))
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestResolver(t)

	id := r.ResolveInstance(ctx, 3, "abc")
	require.NoError(t, r.Forget(ctx, 3))
	require.NoError(t, r.Forget(ctx, 3))

	assert.NotEqual(t, id, r.ResolveInstance(ctx, 3, "abc"))
	assert.Error(t, r.Forget(ctx, 9))
}
