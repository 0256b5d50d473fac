package frames

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	storePNG  = []byte("\x89PNG\r\n\x1a\nstore")
	bundlePNG = []byte("\x89PNG\r\n\x1a\nbundle")
)

type fixture struct {
	resolver *Resolver
	cache    *storage.FileStore
	shared   *storage.FileStore
	metrics  *monitoring.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cache, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	shared, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	metrics := monitoring.NewMetrics()

	bundle := fstest.MapFS{
		"TestDesigns/test01/test01_frame_01.png": {Data: bundlePNG},
		"TestDesigns/other/other_frame_01.png":   {Data: bundlePNG},
	}

	r := NewResolver(Config{
		Cache:          cache,
		Shared:         shared,
		Bundle:         bundle,
		FallbackDesign: "test01",
		Metrics:        metrics,
	})
	return fixture{resolver: r, cache: cache, shared: shared, metrics: metrics}
}

func TestResolveFallsThroughToStoreAndFillsCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.shared.Write(ctx, paths.DesignPath("abc").Frame(3), storePNG))
	assert.False(t, f.cache.Exists(ctx, paths.DesignPath("abc").CacheFrame(3)))

	data, tier, ok := f.resolver.ResolveWithTier(ctx, "abc", 3)
	require.True(t, ok)
	assert.Equal(t, storePNG, data)
	assert.Equal(t, monitoring.TierStore, tier)

	cached, err := f.cache.Read(ctx, paths.DesignPath("abc").CacheFrame(3))
	require.NoError(t, err)
	assert.Equal(t, storePNG, cached)

	// Second lookup is served by the cache even after the upstream copy vanishes.
	require.NoError(t, f.shared.Delete(ctx, paths.DesignPath("abc").Frame(3)))
	data, tier, ok = f.resolver.ResolveWithTier(ctx, "abc", 3)
	require.True(t, ok)
	assert.Equal(t, storePNG, data)
	assert.Equal(t, monitoring.TierCache, tier)

	snap := f.metrics.Snapshot()
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(1), snap.CacheMisses)
}

func TestResolveBundleOnlyForSentinel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	data, tier, ok := f.resolver.ResolveWithTier(ctx, "test01", 1)
	require.True(t, ok)
	assert.Equal(t, bundlePNG, data)
	assert.Equal(t, monitoring.TierBundle, tier)
	assert.True(t, f.cache.Exists(ctx, paths.DesignPath("test01").CacheFrame(1)))

	_, ok = f.resolver.Resolve(ctx, "other", 1)
	assert.False(t, ok)
}

func TestResolveMisses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name   string
		design string
		frame  int
	}{
		{"unknown design", "nope", 1},
		{"sentinel frame missing", "test01", 2},
		{"zero frame", "abc", 0},
		{"bad id", "../abc", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := f.resolver.Resolve(ctx, tt.design, tt.frame)
			assert.False(t, ok)
			assert.Nil(t, data)
		})
	}
}

func TestResolveWithoutCache(t *testing.T) {
	ctx := context.Background()
	shared, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, shared.Write(ctx, paths.DesignPath("abc").Frame(1), storePNG))

	r := NewResolver(Config{Shared: shared})
	data, ok := r.Resolve(ctx, "abc", 1)
	assert.True(t, ok)
	assert.Equal(t, storePNG, data)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.shared.Write(ctx, paths.DesignPath("abc").Frame(1), storePNG))
	_, ok := f.resolver.Resolve(ctx, "abc", 1)
	require.True(t, ok)

	require.NoError(t, f.resolver.Invalidate(ctx, "abc"))
	assert.False(t, f.cache.Exists(ctx, paths.DesignPath("abc").CacheFrame(1)))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType(storePNG))
	assert.True(t, IsImage(storePNG))
	assert.False(t, IsImage([]byte("plain text")))
}

// brokenCache fails every write, like a full or read-only cache volume
type brokenCache struct {
	*storage.FileStore
	writes int
}

func (b *brokenCache) Write(context.Context, string, []byte) error {
	b.writes++
	return errors.New("no space left on device")
}

func TestResolvePausesFailingCache(t *testing.T) {
	ctx := context.Background()
	base, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	cache := &brokenCache{FileStore: base}
	shared, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	r := NewResolver(Config{Cache: cache, Shared: shared, Clock: clk})
	require.NoError(t, shared.Write(ctx, paths.DesignPath("abc").Frame(1), storePNG))

	for i := 0; i < 5; i++ {
		data, ok := r.Resolve(ctx, "abc", 1)
		require.True(t, ok, "lookups keep working while the cache is broken")
		assert.Equal(t, storePNG, data)
	}
	assert.Equal(t, cacheFailureThreshold, cache.writes)
	assert.Equal(t, resilience.StateOpen, r.CacheState())

	clk.Advance(cacheCooldown)
	_, ok := r.Resolve(ctx, "abc", 1)
	require.True(t, ok)
	assert.Equal(t, cacheFailureThreshold+1, cache.writes)
	assert.Equal(t, resilience.StateOpen, r.CacheState())
}
