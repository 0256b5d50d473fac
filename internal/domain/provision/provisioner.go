package provision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/domain/frames"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

var (
	// ErrNoSource is returned when the bundle does not ship the design
	ErrNoSource = errors.New("provision: design not available in bundle")
	// ErrInvalidFrame is returned for a frame that is not an image
	ErrInvalidFrame = errors.New("provision: frame is not an image")
)

// Progress is called after each frame with the running count
type Progress func(done, total int)

// Describer looks up design metadata
type Describer interface {
	Get(ctx context.Context, designID string) (types.AnimationDesign, bool)
}

// Invalidator drops cached frames of a design
type Invalidator interface {
	Invalidate(ctx context.Context, designID string) error
}

// Config wires a Provisioner
type Config struct {
	Store           storage.Store
	Bundle          fs.FS
	Catalog         Describer
	Cache           Invalidator
	DefaultInterval time.Duration
	Clock           clock.Clock
	Metrics         *monitoring.Metrics
	Logger          *zap.Logger
}

// Provisioner installs designs from the bundle into the shared container
type Provisioner struct {
	store           storage.Store
	bundle          fs.FS
	catalog         Describer
	cache           Invalidator
	defaultInterval time.Duration
	clock           clock.Clock
	metrics         *monitoring.Metrics
	logger          *zap.Logger
}

// New creates a provisioner
func New(cfg Config) *Provisioner {
	interval := cfg.DefaultInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Provisioner{
		store:           cfg.Store,
		bundle:          cfg.Bundle,
		catalog:         cfg.Catalog,
		cache:           cfg.Cache,
		defaultInterval: interval,
		clock:           clock.OrSystem(cfg.Clock),
		metrics:         cfg.Metrics,
		logger:          logging.Component(cfg.Logger, "provision"),
	}
}

// Provision copies every bundled frame of a design into the container and
// writes its manifest. Frames already present with identical content are
// left alone, so running it twice is cheap.
func (p *Provisioner) Provision(ctx context.Context, designID string, progress Progress) (design types.AnimationDesign, err error) {
	defer func() { p.metrics.RecordProvision(err) }()

	if err := utils.ValidateDesignID(designID); err != nil {
		return types.AnimationDesign{}, err
	}

	sources, err := p.bundleFrames(designID)
	if err != nil {
		return types.AnimationDesign{}, err
	}

	dp := paths.DesignPath(designID)
	manifest := types.DesignManifest{
		DesignID:      designID,
		Name:          designID,
		FrameCount:    len(sources),
		FrameInterval: p.defaultInterval.Seconds(),
		Frames:        make([]string, 0, len(sources)),
		Checksums:     make([]string, 0, len(sources)),
	}
	if p.catalog != nil {
		if known, ok := p.catalog.Get(ctx, designID); ok {
			manifest.Name = known.Name
			if known.FrameInterval > 0 {
				manifest.FrameInterval = known.FrameInterval
			}
		}
	}

	copied := 0
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return types.AnimationDesign{}, err
		}

		data, err := fs.ReadFile(p.bundle, src)
		if err != nil {
			return types.AnimationDesign{}, fmt.Errorf("failed to read bundled frame %s: %w", src, err)
		}
		if len(data) > utils.MaxFrameSize {
			return types.AnimationDesign{}, fmt.Errorf("frame %s exceeds %d bytes", src, utils.MaxFrameSize)
		}
		if !frames.IsImage(data) {
			return types.AnimationDesign{}, fmt.Errorf("%w: %s (%s)", ErrInvalidFrame, src, frames.ContentType(data))
		}

		dst := dp.Frame(i + 1)
		existing, err := p.store.Read(ctx, dst)
		if err != nil || !utils.SameContent(existing, data) {
			if err := p.store.Write(ctx, dst, data); err != nil {
				return types.AnimationDesign{}, fmt.Errorf("failed to write frame %d: %w", i+1, err)
			}
			copied++
		}

		manifest.Frames = append(manifest.Frames, path.Base(dst))
		manifest.Checksums = append(manifest.Checksums, utils.HashBytes(data))
		if progress != nil {
			progress(i+1, len(sources))
		}
	}

	manifest.ProvisionedAt = p.clock.Now()
	if err := storage.WriteJSON(ctx, p.store, dp.Manifest(), manifest); err != nil {
		return types.AnimationDesign{}, fmt.Errorf("failed to write manifest: %w", err)
	}

	if p.cache != nil && copied > 0 {
		if err := p.cache.Invalidate(ctx, designID); err != nil {
			p.logger.Warn("Failed to invalidate frame cache", zap.String("design_id", designID), zap.Error(err))
		}
	}

	p.logger.Info("Design provisioned",
		zap.String("design_id", designID),
		zap.Int("frames", len(sources)),
		zap.Int("copied", copied))

	return types.AnimationDesign{
		ID:            designID,
		Name:          manifest.Name,
		FrameCount:    manifest.FrameCount,
		FrameInterval: manifest.FrameInterval,
		Source:        types.SourceStore,
	}, nil
}

// bundleFrames returns the design's bundled frame paths in frame order
func (p *Provisioner) bundleFrames(designID string) ([]string, error) {
	if p.bundle == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, designID)
	}
	pattern := path.Join(paths.DesignPath(designID).BundleDir(), designID+"_frame_[0-9][0-9].png")
	matches, err := doublestar.Glob(p.bundle, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to scan bundle: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, designID)
	}
	sort.Strings(matches)
	return matches, nil
}

// Remove deletes a provisioned design and its cached frames
func (p *Provisioner) Remove(ctx context.Context, designID string) error {
	if err := utils.ValidateDesignID(designID); err != nil {
		return err
	}
	if err := p.store.RemoveAll(ctx, paths.DesignPath(designID).Dir()); err != nil {
		return fmt.Errorf("failed to remove design: %w", err)
	}
	if p.cache != nil {
		if err := p.cache.Invalidate(ctx, designID); err != nil {
			p.logger.Warn("Failed to invalidate frame cache", zap.String("design_id", designID), zap.Error(err))
		}
	}
	p.logger.Info("Design removed", zap.String("design_id", designID))
	return nil
}

// Prune removes every provisioned design not listed in keep and returns how
// many were removed
func (p *Provisioner) Prune(ctx context.Context, keep []string) (int, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, id := range keep {
		keepSet[id] = true
	}

	names, err := p.store.List(ctx, paths.Designs)
	if err != nil {
		return 0, fmt.Errorf("failed to list designs: %w", err)
	}

	removed := 0
	for _, name := range names {
		if keepSet[name] || utils.ValidateDesignID(name) != nil {
			continue
		}
		if err := p.Remove(ctx, name); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
