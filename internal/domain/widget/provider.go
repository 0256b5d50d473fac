package widget

import (
	"context"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultIdleRecheck is how long an empty slot waits before asking again
const DefaultIdleRecheck = 5 * time.Minute

// Featured tells which design occupies a slot
type Featured interface {
	DesignAt(ctx context.Context, slot int) (string, bool)
}

// Slots binds slots to instances
type Slots interface {
	Resolve(ctx context.Context, slot int, designID string) (*types.WidgetInstance, error)
	SlotOf(ctx context.Context, instanceID string) (int, bool)
}

// Scheduler computes timelines and performs transitions
type Scheduler interface {
	Timeline(ctx context.Context, slot int, inst *types.WidgetInstance) types.Timeline
	Start(ctx context.Context, instanceID string) (bool, error)
	Complete(ctx context.Context, instanceID string) (bool, error)
}

// Frames resolves frame images
type Frames interface {
	Resolve(ctx context.Context, designID string, frame int) ([]byte, bool)
}

// Signaler asks hosts to re-poll
type Signaler interface {
	Reload(ctx context.Context, kind, reason, instanceID string) error
	ReloadAll(ctx context.Context, reason string) error
}

// Config wires a Provider
type Config struct {
	Featured    Featured
	Slots       Slots
	Scheduler   Scheduler
	Frames      Frames
	Signaler    Signaler
	IdleRecheck time.Duration
	Clock       clock.Clock
	Logger      *zap.Logger
}

// Provider answers the host's scheduling callbacks. Every method degrades
// to a placeholder or false instead of failing; hosts are frequently killed
// and cannot recover from errors.
type Provider struct {
	featured    Featured
	slots       Slots
	scheduler   Scheduler
	frames      Frames
	signaler    Signaler
	idleRecheck time.Duration
	clock       clock.Clock
	logger      *zap.Logger
}

// NewProvider creates a widget provider. Frames and Signaler are optional.
func NewProvider(cfg Config) *Provider {
	recheck := cfg.IdleRecheck
	if recheck <= 0 {
		recheck = DefaultIdleRecheck
	}
	return &Provider{
		featured:    cfg.Featured,
		slots:       cfg.Slots,
		scheduler:   cfg.Scheduler,
		frames:      cfg.Frames,
		signaler:    cfg.Signaler,
		idleRecheck: recheck,
		clock:       clock.OrSystem(cfg.Clock),
		logger:      logging.Component(cfg.Logger, "widget"),
	}
}

// Timeline returns what the widget placed at pc should show now and next
func (p *Provider) Timeline(ctx context.Context, pc types.PlacementContext) types.Timeline {
	slot, err := pc.Slot()
	if err != nil {
		p.logger.Warn("Unknown widget kind", zap.String("kind", pc.Kind), zap.Error(err))
		return p.idle(pc)
	}

	designID, ok := p.featured.DesignAt(ctx, slot)
	if !ok {
		return p.idle(pc)
	}

	inst, err := p.slots.Resolve(ctx, slot, designID)
	if err != nil {
		p.logger.Warn("Failed to resolve slot instance",
			zap.Int("slot", slot), zap.String("design_id", designID), zap.Error(err))
		return p.idle(pc)
	}

	tl := p.scheduler.Timeline(ctx, slot, inst)
	if len(tl.Entries) == 0 {
		return p.idle(pc)
	}
	return tl
}

// idle is the timeline of an empty or unresolvable slot
func (p *Provider) idle(pc types.PlacementContext) types.Timeline {
	return types.Timeline{
		Entries: []types.TimelineEntry{p.Placeholder(pc)},
		Policy:  types.After(p.idleRecheck),
	}
}

// Placeholder returns the entry a host shows before any state is known
func (p *Provider) Placeholder(pc types.PlacementContext) types.TimelineEntry {
	slot, err := pc.Slot()
	if err != nil {
		slot = 0
	}
	return types.TimelineEntry{
		Date:       p.clock.Now(),
		SlotIndex:  slot,
		FrameIndex: 1,
		InstanceID: uuid.NewString(),
	}
}

// Snapshot returns the entry to show right now, for galleries and previews
func (p *Provider) Snapshot(ctx context.Context, pc types.PlacementContext) types.TimelineEntry {
	return p.Timeline(ctx, pc).Entries[0]
}

// Frame returns the image for an entry. Placeholder entries and missing
// frames yield false; the host renders the slot identity instead.
func (p *Provider) Frame(ctx context.Context, entry types.TimelineEntry) ([]byte, bool) {
	if p.frames == nil || entry.DesignID == "" {
		return nil, false
	}
	return p.frames.Resolve(ctx, entry.DesignID, entry.FrameIndex)
}

// StartAnimation starts an instance's animation and asks the owning host to
// re-poll. It returns false when the instance is unknown or already animating.
func (p *Provider) StartAnimation(ctx context.Context, instanceID string) bool {
	started, err := p.scheduler.Start(ctx, instanceID)
	if err != nil {
		p.logger.Warn("Failed to start animation", zap.String("instance_id", instanceID), zap.Error(err))
		return false
	}
	if !started {
		return false
	}
	p.reload(ctx, instanceID, "animation started")
	return true
}

// CompleteAnimation persists the end of a finished cycle
func (p *Provider) CompleteAnimation(ctx context.Context, instanceID string) bool {
	done, err := p.scheduler.Complete(ctx, instanceID)
	if err != nil {
		p.logger.Warn("Failed to complete animation", zap.String("instance_id", instanceID), zap.Error(err))
		return false
	}
	return done
}

// reload signals the kind that owns instanceID, or every kind when the
// owner cannot be determined
func (p *Provider) reload(ctx context.Context, instanceID, reason string) {
	if p.signaler == nil {
		return
	}

	var err error
	if slot, ok := p.slots.SlotOf(ctx, instanceID); ok {
		kind, kerr := types.KindForSlot(slot)
		if kerr == nil {
			err = p.signaler.Reload(ctx, kind, reason, instanceID)
		} else {
			err = p.signaler.ReloadAll(ctx, reason)
		}
	} else {
		err = p.signaler.ReloadAll(ctx, reason)
	}

	if err != nil {
		p.logger.Warn("Failed to signal reload", zap.String("instance_id", instanceID), zap.Error(err))
	}
}
