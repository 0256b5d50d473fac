package frames

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Resolver locates frame images through an ordered fallback chain:
//
//  1. the local render cache
//  2. the shared container's frame directory
//  3. the bundled fallback, for the sentinel design only
//
// Hits in tiers 2 and 3 are copied into the cache. Cache entries are never
// evicted, only overwritten. Repeated cache write failures pause filling
// for a cooldown.
type Resolver struct {
	cache          storage.Store
	cacheGuard     *resilience.Breaker
	shared         storage.Store
	bundle         fs.FS
	fallbackDesign string
	metrics        *monitoring.Metrics
	logger         *zap.Logger
}

// Config wires a Resolver
type Config struct {
	Cache          storage.Store
	Shared         storage.Store
	Bundle         fs.FS
	FallbackDesign string
	Metrics        *monitoring.Metrics
	Clock          clock.Clock
	Logger         *zap.Logger
}

const (
	cacheFailureThreshold = 3
	cacheCooldown         = time.Minute
)

// NewResolver creates a frame resolver. Cache and Bundle are optional.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		cache:          cfg.Cache,
		shared:         cfg.Shared,
		bundle:         cfg.Bundle,
		fallbackDesign: cfg.FallbackDesign,
		metrics:        cfg.Metrics,
		logger:         logging.Component(cfg.Logger, "frames"),
	}
	r.cacheGuard = resilience.New("frame-cache", resilience.Settings{
		Threshold: cacheFailureThreshold,
		Cooldown:  cacheCooldown,
		Clock:     cfg.Clock,
		OnStateChange: func(name string, from, to resilience.State) {
			r.logger.Warn("Frame cache state changed",
				zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	return r
}

// CacheState reports whether cache filling is currently paused
func (r *Resolver) CacheState() resilience.State {
	return r.cacheGuard.State()
}

// Resolve returns the image bytes of a 1-based frame, or false when no tier
// has it. It never fails; callers render a placeholder on false.
func (r *Resolver) Resolve(ctx context.Context, designID string, frame int) ([]byte, bool) {
	data, _, ok := r.ResolveWithTier(ctx, designID, frame)
	return data, ok
}

// ResolveWithTier is Resolve that also reports which tier answered
func (r *Resolver) ResolveWithTier(ctx context.Context, designID string, frame int) ([]byte, string, bool) {
	if frame < 1 || utils.ValidateDesignID(designID) != nil {
		return nil, "", false
	}
	design := paths.DesignPath(designID)

	if r.cache != nil {
		if data, ok := r.read(ctx, r.cache, design.CacheFrame(frame), monitoring.TierCache); ok {
			return data, monitoring.TierCache, true
		}
	}

	if r.shared != nil {
		if data, ok := r.read(ctx, r.shared, design.Frame(frame), monitoring.TierStore); ok {
			r.fill(ctx, design, frame, data)
			return data, monitoring.TierStore, true
		}
	}

	if r.bundle != nil && r.fallbackDesign != "" && designID == r.fallbackDesign {
		data, err := fs.ReadFile(r.bundle, design.BundleFrame(frame))
		if err == nil && len(data) > 0 {
			r.metrics.RecordFrameLookup(monitoring.TierBundle, monitoring.OutcomeHit)
			r.fill(ctx, design, frame, data)
			return data, monitoring.TierBundle, true
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("Failed to read bundled frame",
				zap.String("design_id", designID), zap.Int("frame", frame), zap.Error(err))
		}
		r.metrics.RecordFrameLookup(monitoring.TierBundle, monitoring.OutcomeMiss)
	}

	r.logger.Debug("Frame not found", zap.String("design_id", designID), zap.Int("frame", frame))
	return nil, "", false
}

func (r *Resolver) read(ctx context.Context, s storage.Store, p, tier string) ([]byte, bool) {
	data, err := s.Read(ctx, p)
	if err != nil || len(data) == 0 {
		if err != nil && !storage.IsNotFound(err) {
			r.logger.Warn("Frame tier unreadable", zap.String("tier", tier), zap.String("path", p), zap.Error(err))
		}
		r.metrics.RecordFrameLookup(tier, monitoring.OutcomeMiss)
		return nil, false
	}
	r.metrics.RecordFrameLookup(tier, monitoring.OutcomeHit)
	return data, true
}

// fill writes a frame into the render cache. Failures only cost a slower
// lookup next time.
func (r *Resolver) fill(ctx context.Context, design paths.Design, frame int, data []byte) {
	if r.cache == nil {
		return
	}
	err := r.cacheGuard.Do(func() error {
		return r.cache.Write(ctx, design.CacheFrame(frame), data)
	})
	switch {
	case err == nil:
	case errors.Is(err, resilience.ErrOpen):
		r.logger.Debug("Frame cache paused, skipping fill",
			zap.String("design_id", design.ID), zap.Int("frame", frame))
	default:
		r.logger.Warn("Failed to populate frame cache",
			zap.String("design_id", design.ID), zap.Int("frame", frame), zap.Error(err))
	}
}

// Invalidate drops every cached frame of a design
func (r *Resolver) Invalidate(ctx context.Context, designID string) error {
	if r.cache == nil {
		return nil
	}
	if err := utils.ValidateDesignID(designID); err != nil {
		return err
	}
	return r.cache.RemoveAll(ctx, paths.CacheFrames+"/"+designID)
}

// ContentType detects the MIME type of frame bytes
func ContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsImage reports whether data looks like an image
func IsImage(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("image/png") || m.Is("image/jpeg") || m.Is("image/gif") || m.Is("image/webp") || m.Is("image/heic") {
			return true
		}
	}
	return false
}
